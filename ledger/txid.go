// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	"github.com/bitflip-art/bitflipd/fault"
)

// TransactionIDLength - number of bytes in an id
const TransactionIDLength = 32

// TransactionID - SHA3-256 of the packed message
type TransactionID [TransactionIDLength]byte

// NewTransactionID - hash a packed message
func NewTransactionID(message []byte) TransactionID {
	return sha3.Sum256(message)
}

// String - hex for the fmt package (%s)
func (id TransactionID) String() string {
	return hex.EncodeToString(id[:])
}

// GoString - for the fmt package (%#v)
func (id TransactionID) GoString() string {
	return "<SHA3-256:" + hex.EncodeToString(id[:]) + ">"
}

// MarshalText - hex for JSON
func (id TransactionID) MarshalText() ([]byte, error) {
	buffer := make([]byte, hex.EncodedLen(len(id)))
	hex.Encode(buffer, id[:])
	return buffer, nil
}

// UnmarshalText - hex from JSON
func (id *TransactionID) UnmarshalText(s []byte) error {
	if TransactionIDLength != hex.DecodedLen(len(s)) {
		return fault.ErrTransactionTruncated
	}
	_, err := hex.Decode(id[:], s)
	return err
}
