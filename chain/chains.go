// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"golang.org/x/crypto/sha3"
)

// names of all chains
const (
	Bitflip = "bitflip"
	Testing = "testing"
	Local   = "local"
)

// Valid - validate a chain name
func Valid(name string) bool {
	switch name {
	case Bitflip, Testing, Local:
		return true
	default:
		return false
	}
}

// IsTesting - chains that allow funding accounts from nothing
func IsTesting(name string) bool {
	return Testing == name || Local == name
}

// ProgramIdentifier - the 32 byte program identity used for a chain
//
// every derived address depends on it, so records from one chain can
// never be replayed against another
func ProgramIdentifier(name string) [32]byte {
	return sha3.Sum256([]byte("bitflip program:" + name))
}
