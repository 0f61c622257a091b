// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package validate - composable checks on the accounts passed to an
// operation; every account is checked before anything is mutated
package validate

import (
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/ledger"
	"github.com/bitflip-art/bitflipd/record"
)

// Check - one test on an account
type Check func(a *ledger.Account) error

// Slot - a named position in an operation's account list
type Slot struct {
	Index int
	Name  string
}

// Account - run checks in order, stopping at the first failure, and
// attach the slot to the error
func Account(accounts []*ledger.Account, slot Slot, checks ...Check) (*ledger.Account, error) {
	if slot.Index >= len(accounts) {
		return nil, fault.ErrNotEnoughAccountKeys
	}
	a := accounts[slot.Index]
	for _, check := range checks {
		if err := check(a); nil != err {
			return nil, fault.ForAccount(slot.Index, slot.Name, a.Key, err)
		}
	}
	return a, nil
}

// Count - the account list has at least n entries
func Count(accounts []*ledger.Account, n int) error {
	if len(accounts) < n {
		return fault.ErrNotEnoughAccountKeys
	}
	return nil
}

// IsSigner - the transaction carries the account's signature
func IsSigner(a *ledger.Account) error {
	if !a.IsSigner {
		return fault.ErrMissingRequiredSignature
	}
	return nil
}

// IsWritable - the account may be modified
func IsWritable(a *ledger.Account) error {
	if !a.IsWritable {
		return fault.ErrAccountNotWritable
	}
	return nil
}

// IsEmpty - the account has never been claimed
func IsEmpty(a *ledger.Account) error {
	if !a.IsEmpty() {
		return fault.ErrAccountAlreadyInitialized
	}
	return nil
}

// HasOwner - the account belongs to owner
func HasOwner(owner address.Address) Check {
	return func(a *ledger.Account) error {
		if a.Owner != owner {
			return fault.ErrInvalidAccountOwner
		}
		return nil
	}
}

// IsKind - the account data starts with the kind's discriminator
func IsKind(kind record.Kind) Check {
	return func(a *ledger.Account) error {
		k, _, err := record.KindOf(a.Data)
		if nil != err {
			return err
		}
		if k != kind {
			return fault.ErrInvalidAccountData
		}
		return nil
	}
}

// IsKey - the account is exactly key, otherwise fail with err
func IsKey(key address.Address, err error) Check {
	return func(a *ledger.Account) error {
		if a.Key != key {
			return err
		}
		return nil
	}
}

// IsNotKey - the account differs from key, otherwise fail with err
func IsNotKey(key address.Address, err error) Check {
	return func(a *ledger.Account) error {
		if a.Key == key {
			return err
		}
		return nil
	}
}

// HasSeeds - the account address is derived from tag, parts and nonce
func HasSeeds(program address.Address, tag address.Tag, nonce uint8, parts ...[]byte) Check {
	return func(a *ledger.Account) error {
		return address.Verify(program, a.Key, tag, nonce, parts...)
	}
}

// IsCanonical - the account address is the canonical derivation; the
// nonce found is returned through nonce
func IsCanonical(program address.Address, tag address.Tag, nonce *uint8, parts ...[]byte) Check {
	return func(a *ledger.Account) error {
		expected, n, err := address.Derive(program, tag, parts...)
		if nil != err {
			return err
		}
		if a.Key != expected {
			return fault.ErrInvalidSeeds
		}
		*nonce = n
		return nil
	}
}
