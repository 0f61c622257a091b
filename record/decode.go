// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"github.com/bitflip-art/bitflipd/address"
)

// Decode - upgrade and unpack any record kind
//
// the result is one of *Config, *Game, *Section, *Mint or *Holding
func Decode(program address.Address, data []byte) (Kind, interface{}, error) {
	data, err := Upgrade(program, data)
	if nil != err {
		return 0, nil, err
	}
	kind, _, err := KindOf(data)
	if nil != err {
		return 0, nil, err
	}

	var r interface{}
	switch kind {
	case KindConfig:
		r, err = UnpackConfig(data)
	case KindGame:
		r, err = UnpackGame(data)
	case KindSection:
		r, err = UnpackSection(data)
	case KindMint:
		r, err = UnpackMint(data)
	case KindHolding:
		r, err = UnpackHolding(data)
	}
	if nil != err {
		return 0, nil, err
	}
	return kind, r, nil
}
