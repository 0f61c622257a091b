// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/fault"
)

// lengths of the version 0 layouts
//
// config v0: header (disc, version, nonce, treasury nonce, bit mint
// nonce, 3 padding), authority, game index, 7 padding
//
// game v0: same as v1 without the access expiry
const (
	configV0Size = 48
	gameV0Size   = 80
)

// Upgrade - convert any known older layout to the current version
//
// current version data is returned unchanged; the program address is
// needed to recompute nonces that older layouts did not store
func Upgrade(program address.Address, data []byte) ([]byte, error) {
	kind, version, err := KindOf(data)
	if nil != err {
		return nil, err
	}
	if CurrentVersion == version {
		return data, nil
	}
	if 0 != version {
		return nil, fault.ErrUnsupportedSchemaVersion
	}
	switch kind {
	case KindConfig:
		return upgradeConfigV0(program, data)
	case KindGame:
		return upgradeGameV0(data)
	default:
		return nil, fault.ErrUnsupportedSchemaVersion
	}
}

func upgradeConfigV0(program address.Address, data []byte) ([]byte, error) {
	if configV0Size != len(data) {
		return nil, fault.ErrInvalidAccountData
	}
	c := &Config{
		Nonce:         data[2],
		TreasuryNonce: data[3],
		GameIndex:     data[40],
		Games:         uint16(data[40]) + 1,
	}
	copy(c.Authority[:], data[8:40])

	c.MintNonces[MemberBit] = data[4]
	for m := MemberKibibit; m < memberLimit; m += 1 {
		_, nonce, err := address.Derive(program, address.Mint, address.Index(uint8(m)))
		if nil != err {
			return nil, err
		}
		c.MintNonces[m] = nonce
	}
	return c.Pack(), nil
}

func upgradeGameV0(data []byte) ([]byte, error) {
	if gameV0Size != len(data) {
		return nil, fault.ErrInvalidAccountData
	}
	upgraded := make([]byte, GameSize)
	copy(upgraded, data[:72])
	copy(upgraded[80:88], data[72:80])
	upgraded[1] = CurrentVersion

	// access expiry stays zero: the access credential must be
	// refreshed before it can countersign again
	if _, err := UnpackGame(upgraded); nil != err {
		return nil, err
	}
	return upgraded, nil
}
