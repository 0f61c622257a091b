// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pricing - the lamport price of flipping one bit
package pricing

import (
	"math/bits"

	"github.com/bitflip-art/bitflipd/constants"
	"github.com/bitflip-art/bitflipd/fault"
)

// Price - lamports per flipped bit with remaining seconds of play left
//
// rises linearly from the base price with the whole session left to
// twice the base price at the end; remaining is clamped to the session
func Price(remaining int64) uint64 {
	if remaining < 0 {
		remaining = 0
	}
	if remaining > constants.SessionDuration {
		remaining = constants.SessionDuration
	}
	elapsed := uint64(constants.SessionDuration - remaining)
	base := uint64(constants.BaseLamportsPerBit)
	return base + base*elapsed/uint64(constants.SessionDuration)
}

// Cost - total lamports for a number of flips
func Cost(remaining int64, flips uint32) (uint64, error) {
	hi, lo := bits.Mul64(Price(remaining), uint64(flips))
	if 0 != hi {
		return 0, fault.ErrArithmeticOverflow
	}
	return lo, nil
}
