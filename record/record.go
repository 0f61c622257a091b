// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package record - fixed layout little endian program records
//
// every record starts with an eight byte header: discriminator,
// schema version and record specific small fields; every size is a
// multiple of eight
package record

import (
	"github.com/bitflip-art/bitflipd/fault"
)

// Kind - the discriminator in byte 0
type Kind uint8

// record kinds
const (
	KindConfig  Kind = 0
	KindGame    Kind = 1
	KindSection Kind = 2
	KindMint    Kind = 3
	KindHolding Kind = 4
)

// CurrentVersion - the schema version written by this code
const CurrentVersion = 1

// HeaderLength - bytes before the record body
const HeaderLength = 8

var kindNames = map[Kind]string{
	KindConfig:  "config",
	KindGame:    "game",
	KindSection: "section",
	KindMint:    "mint",
	KindHolding: "holding",
}

// String - kind name
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Size - encoded length of the current version of a kind
func (k Kind) Size() int {
	switch k {
	case KindConfig:
		return ConfigSize
	case KindGame:
		return GameSize
	case KindSection:
		return SectionSize
	case KindMint:
		return MintSize
	case KindHolding:
		return HoldingSize
	default:
		return 0
	}
}

// KindOf - the kind and version of encoded data
func KindOf(data []byte) (Kind, uint8, error) {
	if len(data) < HeaderLength {
		return 0, 0, fault.ErrInvalidAccountData
	}
	k := Kind(data[0])
	if _, ok := kindNames[k]; !ok {
		return 0, 0, fault.ErrInvalidAccountData
	}
	return k, data[1], nil
}

// check discriminator, version and length before any field is read
func checkHeader(data []byte, kind Kind) error {
	k, version, err := KindOf(data)
	if nil != err {
		return err
	}
	if k != kind {
		return fault.ErrInvalidAccountData
	}
	if CurrentVersion != version {
		return fault.ErrUnsupportedSchemaVersion
	}
	if len(data) != kind.Size() {
		return fault.ErrInvalidAccountData
	}
	return nil
}

func newBuffer(kind Kind) []byte {
	buffer := make([]byte, kind.Size())
	buffer[0] = byte(kind)
	buffer[1] = CurrentVersion
	return buffer
}
