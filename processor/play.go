// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package processor

import (
	"github.com/bitflip-art/bitflipd/bitdiff"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/instruction"
	"github.com/bitflip-art/bitflipd/ledger"
	"github.com/bitflip-art/bitflipd/pricing"
	"github.com/bitflip-art/bitflipd/record"
	"github.com/bitflip-art/bitflipd/validate"
)

// computes the words to store at index and their transition count
type change func(s *record.Section) (index int, words []uint16, count bitdiff.Count, err error)

func (p *Processor) flipBit(invocation *ledger.Invocation, args []byte) error {
	if err := validate.Count(invocation.Accounts, 7); nil != err {
		return err
	}
	a, err := instruction.UnpackFlipBitArgs(args)
	if nil != err {
		return err
	}
	return p.play(invocation, a.SectionIndex, func(s *record.Section) (int, []uint16, bitdiff.Count, error) {
		index := int(a.ArrayIndex)
		word, err := bitdiff.SetBit(s.Data[index], a.Offset, 1 == a.Value)
		if nil != err {
			return 0, nil, bitdiff.Count{}, err
		}
		count, err := bitdiff.Diff(s.Data[index], word)
		if nil != err {
			return 0, nil, bitdiff.Count{}, err
		}
		return index, []uint16{word}, count, nil
	})
}

func (p *Processor) flipBits(invocation *ledger.Invocation, args []byte) error {
	if err := validate.Count(invocation.Accounts, 7); nil != err {
		return err
	}
	a, err := instruction.UnpackFlipBitsArgs(args)
	if nil != err {
		return err
	}
	return p.play(invocation, a.SectionIndex, func(s *record.Section) (int, []uint16, bitdiff.Count, error) {
		index := int(a.ArrayIndex)
		count, err := bitdiff.DiffWords(s.Data[index:index+len(a.Words)], a.Words)
		if nil != err {
			return 0, nil, bitdiff.Count{}, err
		}
		return index, a.Words, count, nil
	})
}

// accounts: player(s,w), player holding(w), config, game, bit mint,
// section(w), section holding(w)
//
// the player pays the current price per transition to the section and
// receives one BIT per transition from the section holding
func (p *Processor) play(invocation *ledger.Invocation, sectionIndex uint8, apply change) error {
	accounts := invocation.Accounts
	now := invocation.Now

	var cfg *record.Config
	var g *record.Game
	var s *record.Section
	var mint *record.Mint
	if _, err := validate.Account(accounts, validate.Slot{Index: 2, Name: "config"}, p.isConfig(&cfg)); nil != err {
		return err
	}
	if _, err := validate.Account(accounts, validate.Slot{Index: 3, Name: "game"}, p.isGame(&g)); nil != err {
		return err
	}
	if cfg.GameIndex != g.GameIndex {
		return fault.ErrInvalidGameIndex
	}
	player, err := validate.Account(accounts, validate.Slot{Index: 0, Name: "player"},
		validate.IsSigner,
		validate.IsWritable,
	)
	if nil != err {
		return err
	}
	mintAccount, err := validate.Account(accounts, validate.Slot{Index: 4, Name: "mint_bit"},
		p.isMint(record.MemberBit, &mint),
	)
	if nil != err {
		return err
	}
	section, err := validate.Account(accounts, validate.Slot{Index: 5, Name: "section"},
		validate.IsWritable,
		p.isSection(&s),
	)
	if nil != err {
		return err
	}
	if s.GameIndex != g.GameIndex {
		return fault.ErrInvalidGameIndex
	}
	if s.SectionIndex != sectionIndex {
		return fault.ErrInvalidSectionIndex
	}
	var sectionHolding *record.Holding
	sectionHoldingAccount, err := validate.Account(accounts, validate.Slot{Index: 6, Name: "section_holding"},
		validate.IsWritable,
		p.isHolding(section.Key, mintAccount.Key, &sectionHolding),
	)
	if nil != err {
		return err
	}
	var playerHolding *record.Holding
	playerHoldingAccount, err := validate.Account(accounts, validate.Slot{Index: 1, Name: "player_holding"},
		validate.IsWritable,
		p.isHoldingOrEmpty(player.Key, mintAccount.Key, &playerHolding),
	)
	if nil != err {
		return err
	}

	if !g.IsRunning(now) {
		return fault.ErrGameNotRunning
	}

	index, words, count, err := apply(s)
	if nil != err {
		return err
	}
	if err := s.Write(index, words, count); nil != err {
		return err
	}
	flips := count.Flips()
	cost, err := pricing.Cost(g.RemainingTime(now), flips)
	if nil != err {
		return err
	}

	if err := record.TransferTokens(sectionHolding, playerHolding, uint64(flips)); nil != err {
		return err
	}
	if err := p.storeHolding(player, playerHoldingAccount, playerHolding); nil != err {
		return err
	}
	sectionHoldingAccount.Data = sectionHolding.Pack()
	section.Data = s.Pack()
	if err := transferLamports(player, section, cost); nil != err {
		return err
	}

	p.log.Debugf("game: %d  section: %d  word: %d  flips: %d  cost: %d", g.GameIndex, s.SectionIndex, index, flips, cost)
	return nil
}
