// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package instruction

import (
	"encoding/binary"

	"github.com/bitflip-art/bitflipd/constants"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/record"
	"github.com/bitflip-art/bitflipd/util"
)

// argument lengths
const (
	initializeTokenLength = 1
	unlockSectionLength   = 8
	flipBitLength         = 8
)

// InitializeTokenArgs - which tier to create
type InitializeTokenArgs struct {
	Member record.Member
}

// Pack - instruction data
func (a InitializeTokenArgs) Pack() []byte {
	return []byte{byte(InitializeToken), byte(a.Member)}
}

// UnpackInitializeTokenArgs - decode argument bytes
func UnpackInitializeTokenArgs(args []byte) (InitializeTokenArgs, error) {
	if initializeTokenLength != len(args) {
		return InitializeTokenArgs{}, fault.ErrInvalidInstructionData
	}
	a := InitializeTokenArgs{
		Member: record.Member(args[0]),
	}
	if !a.Member.Valid() {
		return InitializeTokenArgs{}, fault.ErrInvalidTokenMember
	}
	return a, nil
}

// UnlockSectionArgs - the countersigned winning bid
type UnlockSectionArgs struct {
	Lamports uint64
}

// Pack - instruction data
func (a UnlockSectionArgs) Pack() []byte {
	buffer := make([]byte, 1+unlockSectionLength)
	buffer[0] = byte(UnlockSection)
	binary.LittleEndian.PutUint64(buffer[1:], a.Lamports)
	return buffer
}

// UnpackUnlockSectionArgs - decode argument bytes
func UnpackUnlockSectionArgs(args []byte) (UnlockSectionArgs, error) {
	if unlockSectionLength != len(args) {
		return UnlockSectionArgs{}, fault.ErrInvalidInstructionData
	}
	return UnlockSectionArgs{
		Lamports: binary.LittleEndian.Uint64(args),
	}, nil
}

// FlipBitArgs - set one bit
//
//	0 section index
//	1 array index
//	2 bit offset
//	3 value
//	4 padding
type FlipBitArgs struct {
	SectionIndex uint8
	ArrayIndex   uint8
	Offset       uint8
	Value        uint8
}

// Pack - instruction data
func (a FlipBitArgs) Pack() []byte {
	buffer := make([]byte, 1+flipBitLength)
	buffer[0] = byte(FlipBit)
	buffer[1] = a.SectionIndex
	buffer[2] = a.ArrayIndex
	buffer[3] = a.Offset
	buffer[4] = a.Value
	return buffer
}

// UnpackFlipBitArgs - decode and range check argument bytes
func UnpackFlipBitArgs(args []byte) (FlipBitArgs, error) {
	if flipBitLength != len(args) {
		return FlipBitArgs{}, fault.ErrInvalidInstructionData
	}
	a := FlipBitArgs{
		SectionIndex: args[0],
		ArrayIndex:   args[1],
		Offset:       args[2],
		Value:        args[3],
	}
	if a.Offset >= constants.BitsPerWord {
		return FlipBitArgs{}, fault.ErrInvalidBitOffset
	}
	if a.Value > 1 {
		return FlipBitArgs{}, fault.ErrInvalidPlayValue
	}
	return a, nil
}

// FlipBitsArgs - replace consecutive words
//
//	0 section index
//	1 array index
//	2 Varint64 word count
//	  count × u16 words
//
// a full 16 word write must start on a 16 word boundary
type FlipBitsArgs struct {
	SectionIndex uint8
	ArrayIndex   uint8
	Words        []uint16
}

// Pack - instruction data
func (a FlipBitsArgs) Pack() []byte {
	buffer := []byte{byte(FlipBits), a.SectionIndex, a.ArrayIndex}
	buffer = append(buffer, util.ToVarint64(uint64(len(a.Words)))...)
	word := make([]byte, 2)
	for _, w := range a.Words {
		binary.LittleEndian.PutUint16(word, w)
		buffer = append(buffer, word...)
	}
	return buffer
}

// UnpackFlipBitsArgs - decode and range check argument bytes
func UnpackFlipBitsArgs(args []byte) (FlipBitsArgs, error) {
	if len(args) < 3 {
		return FlipBitsArgs{}, fault.ErrInvalidInstructionData
	}
	a := FlipBitsArgs{
		SectionIndex: args[0],
		ArrayIndex:   args[1],
	}
	count, n := util.ClippedVarint64(args[2:], 1, constants.WordsPerBits256)
	if 0 == n {
		return FlipBitsArgs{}, fault.ErrInvalidBitsArrayLength
	}
	words := args[2+n:]
	if 2*count != len(words) {
		return FlipBitsArgs{}, fault.ErrInvalidInstructionData
	}
	if int(a.ArrayIndex)+count > constants.SectionWords {
		return FlipBitsArgs{}, fault.ErrInvalidArrayIndex
	}
	if constants.WordsPerBits256 == count && 0 != int(a.ArrayIndex)%constants.WordsPerBits256 {
		return FlipBitsArgs{}, fault.ErrInvalid256BitsDataSectionIndex
	}
	a.Words = make([]uint16, count)
	for i := range a.Words {
		a.Words[i] = binary.LittleEndian.Uint16(words[2*i:])
	}
	return a, nil
}
