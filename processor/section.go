// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package processor

import (
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/constants"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/instruction"
	"github.com/bitflip-art/bitflipd/ledger"
	"github.com/bitflip-art/bitflipd/record"
	"github.com/bitflip-art/bitflipd/validate"
)

// accounts: owner(s,w), access(s), config, game(w), section(w),
// section holding(w), previous section, treasury(w), treasury
// holding(w), bit mint
func (p *Processor) unlockSection(invocation *ledger.Invocation, args []byte) error {
	accounts := invocation.Accounts
	if err := validate.Count(accounts, 10); nil != err {
		return err
	}
	bid, err := instruction.UnpackUnlockSectionArgs(args)
	if nil != err {
		return err
	}
	now := invocation.Now

	var cfg *record.Config
	var g *record.Game
	if _, err := validate.Account(accounts, validate.Slot{Index: 2, Name: "config"}, p.isConfig(&cfg)); nil != err {
		return err
	}
	game, err := validate.Account(accounts, validate.Slot{Index: 3, Name: "game"},
		validate.IsWritable,
		p.isGame(&g),
	)
	if nil != err {
		return err
	}
	if g.GameIndex != cfg.GameIndex {
		return fault.ErrInvalidGameIndex
	}
	if _, err := validate.Account(accounts, validate.Slot{Index: 1, Name: "access"},
		validate.IsSigner,
		validate.IsKey(g.Access, fault.ErrGameSignerInvalid),
	); nil != err {
		return err
	}
	if !g.AccessValid(now) {
		return fault.ErrAccessSignerExpired
	}
	if !g.IsRunning(now) {
		return fault.ErrGameNotRunning
	}
	if g.SectionIndex >= constants.TotalSections {
		return fault.ErrAllSectionsUnlocked
	}
	index := uint8(g.SectionIndex)

	owner, err := validate.Account(accounts, validate.Slot{Index: 0, Name: "owner"},
		validate.IsSigner,
		validate.IsWritable,
	)
	if nil != err {
		return err
	}

	s := record.NewSection(g.GameIndex, index, 0, owner.Key)
	section, err := validate.Account(accounts, validate.Slot{Index: 4, Name: "section"},
		validate.IsWritable,
		validate.IsEmpty,
		validate.IsCanonical(p.program, address.Section, &s.Nonce, address.Index(g.GameIndex), address.Index(index)),
	)
	if nil != err {
		return err
	}

	// the first section has no predecessor and the slot is not inspected
	if index > 0 {
		var previous *record.Section
		if _, err := validate.Account(accounts, validate.Slot{Index: 6, Name: "previous_section"}, p.isSection(&previous)); nil != err {
			return err
		}
		if previous.GameIndex != g.GameIndex || previous.SectionIndex != index-1 {
			return fault.ErrInvalidSectionIndex
		}
		if !previous.MeetsThreshold() {
			return fault.ErrMinimumFlipThreshold
		}
		if previous.Owner == owner.Key {
			return fault.ErrSectionOwnerDuplicate
		}
	}

	treasury, err := validate.Account(accounts, validate.Slot{Index: 7, Name: "treasury"},
		validate.IsWritable,
		validate.HasOwner(p.program),
		validate.HasSeeds(p.program, address.Treasury, cfg.TreasuryNonce),
	)
	if nil != err {
		return err
	}
	var mint *record.Mint
	mintAccount, err := validate.Account(accounts, validate.Slot{Index: 9, Name: "mint_bit"},
		p.isMint(record.MemberBit, &mint),
	)
	if nil != err {
		return err
	}
	var treasuryHolding *record.Holding
	treasuryHoldingAccount, err := validate.Account(accounts, validate.Slot{Index: 8, Name: "treasury_holding"},
		validate.IsWritable,
		p.isHolding(treasury.Key, mintAccount.Key, &treasuryHolding),
	)
	if nil != err {
		return err
	}
	sectionHolding := record.NewHolding(0, mintAccount.Key, section.Key)
	sectionHoldingAccount, err := validate.Account(accounts, validate.Slot{Index: 5, Name: "section_holding"},
		validate.IsWritable,
		validate.IsEmpty,
		validate.IsCanonical(p.program, address.Holding, &sectionHolding.Nonce, section.Key[:], mintAccount.Key[:]),
	)
	if nil != err {
		return err
	}

	// every account is valid: apply
	if err := record.TransferTokens(treasuryHolding, sectionHolding, constants.TokensPerSection); nil != err {
		return err
	}
	if err := g.AdvanceSection(); nil != err {
		return err
	}
	if err := p.create(owner, section, s.Pack()); nil != err {
		return err
	}
	if err := p.create(owner, sectionHoldingAccount, sectionHolding.Pack()); nil != err {
		return err
	}
	treasuryHoldingAccount.Data = treasuryHolding.Pack()
	game.Data = g.Pack()
	if err := transferLamports(owner, treasury, bid.Lamports); nil != err {
		return err
	}

	p.log.Infof("game: %d  section: %d  owner: %s  bid: %d", g.GameIndex, index, owner.Key, bid.Lamports)
	return nil
}
