// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package address - 32 byte account addresses and the deterministic
// derivation of program owned record addresses
package address

import (
	"encoding/hex"

	"github.com/mr-tron/base58"

	"github.com/bitflip-art/bitflipd/fault"
)

// Length - number of bytes in an address
const Length = 32

// Address - an account key: a credential public key or a derived
// record address
type Address [Length]byte

// System - the owner of every account that no program has claimed
var System Address

// FromBytes - copy a byte slice into an address
func FromBytes(b []byte) (Address, error) {
	a := Address{}
	if Length != len(b) {
		return a, fault.ErrInvalidAddress
	}
	copy(a[:], b)
	return a, nil
}

// FromBase58 - decode the text form of an address
func FromBase58(s string) (Address, error) {
	b, err := base58.Decode(s)
	if nil != err {
		return Address{}, fault.ErrInvalidAddress
	}
	return FromBytes(b)
}

// IsZero - true for the system address
func (a Address) IsZero() bool {
	return a == System
}

// String - base58 text for the fmt package (%s)
func (a Address) String() string {
	return base58.Encode(a[:])
}

// GoString - hex form for the fmt package (%#v)
func (a Address) GoString() string {
	return "<address:" + hex.EncodeToString(a[:]) + ">"
}

// MarshalText - base58 for JSON
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText - base58 from JSON
func (a *Address) UnmarshalText(s []byte) error {
	decoded, err := FromBase58(string(s))
	if nil != err {
		return err
	}
	*a = decoded
	return nil
}
