// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bitdiff - count the bit transitions between canvas words
package bitdiff

import (
	"math/bits"

	"github.com/bitflip-art/bitflipd/constants"
	"github.com/bitflip-art/bitflipd/fault"
)

// Count - transitions from one state to another
type Count struct {
	On  uint32 // bits going 0 → 1
	Off uint32 // bits going 1 → 0
}

// Flips - total transitions
func (c Count) Flips() uint32 {
	return c.On + c.Off
}

// Diff - the transitions from prev to next
//
// identical words are rejected so every accepted write changes state
func Diff(prev uint16, next uint16) (Count, error) {
	if prev == next {
		return Count{}, fault.ErrBitsUnchanged
	}
	return diff(prev, next), nil
}

// DiffWords - the summed transitions of a multi-word write
//
// individual words may be unchanged; only an all-unchanged write fails
func DiffWords(prev []uint16, next []uint16) (Count, error) {
	if len(prev) != len(next) || 0 == len(next) {
		return Count{}, fault.ErrInvalidBitsArrayLength
	}
	total := Count{}
	for i := range next {
		c := diff(prev[i], next[i])
		total.On += c.On
		total.Off += c.Off
	}
	if 0 == total.Flips() {
		return Count{}, fault.ErrBitsUnchanged
	}
	return total, nil
}

// SetBit - word with the bit at offset forced on or off
func SetBit(word uint16, offset uint8, on bool) (uint16, error) {
	if offset >= constants.BitsPerWord {
		return 0, fault.ErrInvalidBitOffset
	}
	mask := uint16(1) << offset
	if on {
		return word | mask, nil
	}
	return word &^ mask, nil
}

func diff(prev uint16, next uint16) Count {
	return Count{
		On:  uint32(bits.OnesCount16(^prev & next)),
		Off: uint32(bits.OnesCount16(prev &^ next)),
	}
}
