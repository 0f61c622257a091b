// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/binary"

	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/constants"
	"github.com/bitflip-art/bitflipd/fault"
)

// ConfigSize - encoded length
//
//	 0  1 discriminator
//	 1  1 version
//	 2  1 nonce
//	 3  1 treasury nonce
//	 4  4 mint nonces by member
//	 8 32 authority
//	40  1 game index
//	41  2 games initialised
//	43  5 padding
const ConfigSize = 48

// Config - the program singleton
type Config struct {
	Nonce         uint8
	TreasuryNonce uint8
	MintNonces    [MemberCount]uint8
	Authority     address.Address
	GameIndex     uint8
	Games         uint16
}

// Pack - encode
func (c *Config) Pack() []byte {
	buffer := newBuffer(KindConfig)
	buffer[2] = c.Nonce
	buffer[3] = c.TreasuryNonce
	copy(buffer[4:8], c.MintNonces[:])
	copy(buffer[8:40], c.Authority[:])
	buffer[40] = c.GameIndex
	binary.LittleEndian.PutUint16(buffer[41:43], c.Games)
	return buffer
}

// UnpackConfig - decode a current version config
func UnpackConfig(data []byte) (*Config, error) {
	if err := checkHeader(data, KindConfig); nil != err {
		return nil, err
	}
	c := &Config{
		Nonce:         data[2],
		TreasuryNonce: data[3],
		GameIndex:     data[40],
		Games:         binary.LittleEndian.Uint16(data[41:43]),
	}
	copy(c.MintNonces[:], data[4:8])
	copy(c.Authority[:], data[8:40])
	if c.Games > constants.MaximumGames {
		return nil, fault.ErrInvalidAccountData
	}
	return c, nil
}

// NextGameIndex - index the next InitializeGame will create
func (c *Config) NextGameIndex() (uint8, error) {
	if c.Games >= constants.MaximumGames {
		return 0, fault.ErrAllGamesInitialized
	}
	return uint8(c.Games), nil
}

// AddGame - record that game index has been created and is current
func (c *Config) AddGame(index uint8) error {
	if c.Games >= constants.MaximumGames || uint16(index) != c.Games {
		return fault.ErrInvalidGameIndex
	}
	c.GameIndex = index
	c.Games += 1
	return nil
}
