// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package processor - the bitflip program: decodes an instruction,
// validates the accounts and applies the state transition
package processor

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/instruction"
	"github.com/bitflip-art/bitflipd/ledger"
)

type handler func(p *Processor, invocation *ledger.Invocation, args []byte) error

var handlers = map[instruction.Opcode]handler{
	instruction.InitializeConfig:    (*Processor).initializeConfig,
	instruction.UpdateAuthority:     (*Processor).updateAuthority,
	instruction.InitializeToken:     (*Processor).initializeToken,
	instruction.InitializeGame:      (*Processor).initializeGame,
	instruction.StartGame:           (*Processor).startGame,
	instruction.RefreshAccessSigner: (*Processor).refreshAccessSigner,
	instruction.ResetSigners:        (*Processor).resetSigners,
	instruction.UnlockSection:       (*Processor).unlockSection,
	instruction.FlipBit:             (*Processor).flipBit,
	instruction.FlipBits:            (*Processor).flipBits,
}

// Processor - executes bitflip instructions for one program address
type Processor struct {
	log       *logger.L
	program   address.Address
	bootstrap address.Address
}

// New - create a processor
//
// bootstrap is the only credential allowed to create the config record
func New(program address.Address, bootstrap address.Address) (*Processor, error) {
	if bootstrap.IsZero() {
		return nil, fault.ErrMissingBootstrap
	}
	return &Processor{
		log:       logger.New("processor"),
		program:   program,
		bootstrap: bootstrap,
	}, nil
}

// Execute - run one instruction; satisfies ledger.Program
func (p *Processor) Execute(invocation *ledger.Invocation) error {
	op, args, err := instruction.Decode(invocation.Data)
	if nil != err {
		return err
	}
	h, ok := handlers[op]
	if !ok {
		return fault.ErrUnknownInstruction
	}

	p.log.Debugf("%s: accounts: %d  args: %x", op, len(invocation.Accounts), args)
	if err := h(p, invocation, args); nil != err {
		p.log.Debugf("%s: failed: %s", op, err)
		return err
	}
	return nil
}
