// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/binary"

	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/bitdiff"
	"github.com/bitflip-art/bitflipd/constants"
	"github.com/bitflip-art/bitflipd/fault"
)

// SectionSize - encoded length
//
//	 0   1 discriminator
//	 1   1 version
//	 2   1 game index
//	 3   1 section index
//	 4   1 nonce
//	 5   3 padding
//	 8  32 owner
//	40   4 flips
//	44   4 on
//	48   4 off
//	52   4 padding
//	56 512 words
const SectionSize = 568

const sectionDataOffset = 56

// Section - 4096 bits of the canvas
//
// On + Off is always SectionBits
type Section struct {
	GameIndex    uint8
	SectionIndex uint8
	Nonce        uint8
	Owner        address.Address
	Flips        uint32
	On           uint32
	Off          uint32
	Data         [constants.SectionWords]uint16
}

// NewSection - every bit starts off
func NewSection(gameIndex uint8, sectionIndex uint8, nonce uint8, owner address.Address) *Section {
	return &Section{
		GameIndex:    gameIndex,
		SectionIndex: sectionIndex,
		Nonce:        nonce,
		Owner:        owner,
		Off:          constants.SectionBits,
	}
}

// Pack - encode
func (s *Section) Pack() []byte {
	buffer := newBuffer(KindSection)
	buffer[2] = s.GameIndex
	buffer[3] = s.SectionIndex
	buffer[4] = s.Nonce
	copy(buffer[8:40], s.Owner[:])
	binary.LittleEndian.PutUint32(buffer[40:44], s.Flips)
	binary.LittleEndian.PutUint32(buffer[44:48], s.On)
	binary.LittleEndian.PutUint32(buffer[48:52], s.Off)
	for i, w := range s.Data {
		binary.LittleEndian.PutUint16(buffer[sectionDataOffset+2*i:], w)
	}
	return buffer
}

// UnpackSection - decode a current version section
func UnpackSection(data []byte) (*Section, error) {
	if err := checkHeader(data, KindSection); nil != err {
		return nil, err
	}
	s := &Section{
		GameIndex:    data[2],
		SectionIndex: data[3],
		Nonce:        data[4],
		Flips:        binary.LittleEndian.Uint32(data[40:44]),
		On:           binary.LittleEndian.Uint32(data[44:48]),
		Off:          binary.LittleEndian.Uint32(data[48:52]),
	}
	copy(s.Owner[:], data[8:40])
	for i := range s.Data {
		s.Data[i] = binary.LittleEndian.Uint16(data[sectionDataOffset+2*i:])
	}
	if uint64(s.On)+uint64(s.Off) != constants.SectionBits {
		return nil, fault.ErrInvalidAccountData
	}
	return s, nil
}

// FlipOn - n bits went from off to on
func (s *Section) FlipOn(n uint32) error {
	if n > s.Off {
		return fault.ErrArithmeticOverflow
	}
	flips, err := addFlips(s.Flips, n)
	if nil != err {
		return err
	}
	s.Off -= n
	s.On += n
	s.Flips = flips
	return nil
}

// FlipOff - n bits went from on to off
func (s *Section) FlipOff(n uint32) error {
	if n > s.On {
		return fault.ErrArithmeticOverflow
	}
	flips, err := addFlips(s.Flips, n)
	if nil != err {
		return err
	}
	s.On -= n
	s.Off += n
	s.Flips = flips
	return nil
}

// Write - replace words starting at index and account for the transitions
func (s *Section) Write(index int, words []uint16, count bitdiff.Count) error {
	if index < 0 || len(words) > constants.SectionWords-index {
		return fault.ErrInvalidArrayIndex
	}
	if err := s.FlipOn(count.On); nil != err {
		return err
	}
	if err := s.FlipOff(count.Off); nil != err {
		return err
	}
	copy(s.Data[index:], words)
	return nil
}

// MeetsThreshold - enough play for the next section to be unlocked
func (s *Section) MeetsThreshold() bool {
	return s.Flips >= constants.MinimumFlipsPerSection
}

func addFlips(flips uint32, n uint32) (uint32, error) {
	total := flips + n
	if total < flips {
		return 0, fault.ErrArithmeticOverflow
	}
	return total, nil
}
