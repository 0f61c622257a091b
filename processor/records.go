// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package processor

import (
	"math/bits"

	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/ledger"
	"github.com/bitflip-art/bitflipd/record"
	"github.com/bitflip-art/bitflipd/validate"
)

// a program record of the given kind; the discriminator is read
// before any upgrade or unpack
func (p *Processor) owned(kind record.Kind) validate.Check {
	return func(a *ledger.Account) error {
		if err := validate.HasOwner(p.program)(a); nil != err {
			return err
		}
		return validate.IsKind(kind)(a)
	}
}

// the record checks below decode into out so that a handler reads
// each record once, after its address and owner are confirmed

func (p *Processor) isConfig(out **record.Config) validate.Check {
	return func(a *ledger.Account) error {
		if err := p.owned(record.KindConfig)(a); nil != err {
			return err
		}
		data, err := record.Upgrade(p.program, a.Data)
		if nil != err {
			return err
		}
		c, err := record.UnpackConfig(data)
		if nil != err {
			return err
		}
		if err := address.Verify(p.program, a.Key, address.Config, c.Nonce); nil != err {
			return err
		}
		*out = c
		return nil
	}
}

func (p *Processor) isGame(out **record.Game) validate.Check {
	return func(a *ledger.Account) error {
		if err := p.owned(record.KindGame)(a); nil != err {
			return err
		}
		data, err := record.Upgrade(p.program, a.Data)
		if nil != err {
			return err
		}
		g, err := record.UnpackGame(data)
		if nil != err {
			return err
		}
		if err := address.Verify(p.program, a.Key, address.Game, g.Nonce, address.Index(g.GameIndex)); nil != err {
			return err
		}
		*out = g
		return nil
	}
}

func (p *Processor) isSection(out **record.Section) validate.Check {
	return func(a *ledger.Account) error {
		if err := p.owned(record.KindSection)(a); nil != err {
			return err
		}
		s, err := record.UnpackSection(a.Data)
		if nil != err {
			return err
		}
		err = address.Verify(p.program, a.Key, address.Section, s.Nonce, address.Index(s.GameIndex), address.Index(s.SectionIndex))
		if nil != err {
			return err
		}
		*out = s
		return nil
	}
}

func (p *Processor) isMint(member record.Member, out **record.Mint) validate.Check {
	return func(a *ledger.Account) error {
		if err := p.owned(record.KindMint)(a); nil != err {
			return err
		}
		m, err := record.UnpackMint(a.Data)
		if nil != err {
			return err
		}
		if m.Member != member {
			return fault.ErrInvalidAccountData
		}
		if err := address.Verify(p.program, a.Key, address.Mint, m.Nonce, address.Index(uint8(member))); nil != err {
			return err
		}
		*out = m
		return nil
	}
}

func (p *Processor) isHolding(holder address.Address, mint address.Address, out **record.Holding) validate.Check {
	return func(a *ledger.Account) error {
		if err := p.owned(record.KindHolding)(a); nil != err {
			return err
		}
		h, err := record.UnpackHolding(a.Data)
		if nil != err {
			return err
		}
		if h.Holder != holder || h.Mint != mint {
			return fault.ErrInvalidHolding
		}
		if err := address.Verify(p.program, a.Key, address.Holding, h.Nonce, holder[:], mint[:]); nil != err {
			return err
		}
		*out = h
		return nil
	}
}

// an existing holding, or a fresh one at the canonical address
func (p *Processor) isHoldingOrEmpty(holder address.Address, mint address.Address, out **record.Holding) validate.Check {
	return func(a *ledger.Account) error {
		if !a.IsEmpty() {
			return p.isHolding(holder, mint, out)(a)
		}
		nonce := uint8(0)
		if err := validate.IsCanonical(p.program, address.Holding, &nonce, holder[:], mint[:])(a); nil != err {
			return err
		}
		*out = record.NewHolding(nonce, mint, holder)
		return nil
	}
}

// claim an empty account for the program with enough lamports to be
// rent exempt, paid by payer
func (p *Processor) create(payer *ledger.Account, a *ledger.Account, data []byte) error {
	minimum := ledger.MinimumBalance(len(data))
	if a.Lamports < minimum {
		if err := transferLamports(payer, a, minimum-a.Lamports); nil != err {
			return err
		}
	}
	a.Owner = p.program
	a.Data = data
	return nil
}

// write a holding, creating the account if needed
func (p *Processor) storeHolding(payer *ledger.Account, a *ledger.Account, h *record.Holding) error {
	if a.IsEmpty() {
		return p.create(payer, a, h.Pack())
	}
	a.Data = h.Pack()
	return nil
}

func transferLamports(from *ledger.Account, to *ledger.Account, amount uint64) error {
	if from.Lamports < amount {
		return fault.ErrInsufficientFunds
	}
	if from == to {
		return nil
	}
	total, carry := bits.Add64(to.Lamports, amount, 0)
	if 0 != carry {
		return fault.ErrArithmeticOverflow
	}
	from.Lamports -= amount
	to.Lamports = total
	return nil
}
