// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"encoding/binary"

	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/util"
)

// Account - one ledger entry as seen by a program
//
// signer and writable flags come from the transaction, not from storage
type Account struct {
	Key        address.Address
	Owner      address.Address
	Lamports   uint64
	Data       []byte
	IsSigner   bool
	IsWritable bool
}

// IsEmpty - never claimed by any program
func (a *Account) IsEmpty() bool {
	return 0 == len(a.Data) && a.Owner.IsZero()
}

// Clone - deep copy
func (a *Account) Clone() *Account {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// same stored state, ignoring flags
func (a *Account) equal(b *Account) bool {
	return a.Key == b.Key &&
		a.Owner == b.Owner &&
		a.Lamports == b.Lamports &&
		bytes.Equal(a.Data, b.Data)
}

// pack - storage form: owner, lamports, data length, data
func (a *Account) pack() []byte {
	buffer := make([]byte, 0, address.Length+8+util.Varint64MaximumBytes+len(a.Data))
	buffer = append(buffer, a.Owner[:]...)
	lamports := make([]byte, 8)
	binary.LittleEndian.PutUint64(lamports, a.Lamports)
	buffer = append(buffer, lamports...)
	buffer = append(buffer, util.ToVarint64(uint64(len(a.Data)))...)
	return append(buffer, a.Data...)
}

func unpackAccount(key address.Address, buffer []byte) (*Account, error) {
	if len(buffer) < address.Length+8 {
		return nil, fault.ErrInvalidAccountData
	}
	a := &Account{
		Key:      key,
		Lamports: binary.LittleEndian.Uint64(buffer[address.Length:]),
	}
	copy(a.Owner[:], buffer[:address.Length])

	rest := buffer[address.Length+8:]
	length, n := util.FromVarint64(rest)
	if 0 == n || uint64(len(rest)-n) != length {
		return nil, fault.ErrInvalidAccountData
	}
	a.Data = append([]byte(nil), rest[n:]...)
	return a, nil
}
