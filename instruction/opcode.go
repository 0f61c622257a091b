// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package instruction - operation encoding: an opcode byte followed
// by a fixed layout little endian argument struct
package instruction

import (
	"github.com/bitflip-art/bitflipd/fault"
)

// Opcode - byte 0 of instruction data
type Opcode uint8

// the operations; numbering is stable
const (
	InitializeConfig    Opcode = 1
	UpdateAuthority     Opcode = 2
	InitializeToken     Opcode = 3
	InitializeGame      Opcode = 4
	StartGame           Opcode = 5
	RefreshAccessSigner Opcode = 6
	ResetSigners        Opcode = 7
	UnlockSection       Opcode = 8
	FlipBit             Opcode = 20
	FlipBits            Opcode = 21
)

// UpdateTempSigner - the older name of RefreshAccessSigner
const UpdateTempSigner = RefreshAccessSigner

var opcodeNames = map[Opcode]string{
	InitializeConfig:    "InitializeConfig",
	UpdateAuthority:     "UpdateAuthority",
	InitializeToken:     "InitializeToken",
	InitializeGame:      "InitializeGame",
	StartGame:           "StartGame",
	RefreshAccessSigner: "RefreshAccessSigner",
	ResetSigners:        "ResetSigners",
	UnlockSection:       "UnlockSection",
	FlipBit:             "FlipBit",
	FlipBits:            "FlipBits",
}

// Valid - a known opcode
func (op Opcode) Valid() bool {
	_, ok := opcodeNames[op]
	return ok
}

// String - operation name
func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return "Unknown"
}

// Decode - split instruction data into opcode and argument bytes
func Decode(data []byte) (Opcode, []byte, error) {
	if 0 == len(data) {
		return 0, nil, fault.ErrInvalidInstructionData
	}
	op := Opcode(data[0])
	if !op.Valid() {
		return 0, nil, fault.ErrUnknownInstruction
	}
	return op, data[1:], nil
}

// NoArguments - check the argument bytes of an operation without arguments
func NoArguments(args []byte) error {
	if 0 != len(args) {
		return fault.ErrInvalidInstructionData
	}
	return nil
}
