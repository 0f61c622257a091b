// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package processor

import (
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/instruction"
	"github.com/bitflip-art/bitflipd/ledger"
	"github.com/bitflip-art/bitflipd/record"
	"github.com/bitflip-art/bitflipd/validate"
)

// accounts: admin(s), authority(s,w), config(w), treasury(w)
func (p *Processor) initializeConfig(invocation *ledger.Invocation, args []byte) error {
	accounts := invocation.Accounts
	if err := validate.Count(accounts, 4); nil != err {
		return err
	}
	if err := instruction.NoArguments(args); nil != err {
		return err
	}

	admin, err := validate.Account(accounts, validate.Slot{Index: 0, Name: "admin"},
		validate.IsSigner,
		validate.IsKey(p.bootstrap, fault.ErrUnauthorizedAdmin),
	)
	if nil != err {
		return err
	}
	authority, err := validate.Account(accounts, validate.Slot{Index: 1, Name: "authority"},
		validate.IsSigner,
		validate.IsWritable,
		validate.IsNotKey(admin.Key, fault.ErrDuplicateAuthority),
	)
	if nil != err {
		return err
	}

	cfg := &record.Config{
		Authority: authority.Key,
	}
	config, err := validate.Account(accounts, validate.Slot{Index: 2, Name: "config"},
		validate.IsWritable,
		validate.IsEmpty,
		validate.IsCanonical(p.program, address.Config, &cfg.Nonce),
	)
	if nil != err {
		return err
	}
	treasury, err := validate.Account(accounts, validate.Slot{Index: 3, Name: "treasury"},
		validate.IsWritable,
		validate.IsEmpty,
		validate.IsCanonical(p.program, address.Treasury, &cfg.TreasuryNonce),
	)
	if nil != err {
		return err
	}

	for m := range cfg.MintNonces {
		_, nonce, err := address.Derive(p.program, address.Mint, address.Index(uint8(m)))
		if nil != err {
			return err
		}
		cfg.MintNonces[m] = nonce
	}

	if err := p.create(authority, config, cfg.Pack()); nil != err {
		return err
	}
	// the treasury holds lamports only
	if err := p.create(authority, treasury, nil); nil != err {
		return err
	}

	p.log.Infof("config: %s  authority: %s", config.Key, authority.Key)
	return nil
}

// accounts: config(w), authority(s,w), new authority(s)
func (p *Processor) updateAuthority(invocation *ledger.Invocation, args []byte) error {
	accounts := invocation.Accounts
	if err := validate.Count(accounts, 3); nil != err {
		return err
	}
	if err := instruction.NoArguments(args); nil != err {
		return err
	}

	var cfg *record.Config
	config, err := validate.Account(accounts, validate.Slot{Index: 0, Name: "config"},
		validate.IsWritable,
		p.isConfig(&cfg),
	)
	if nil != err {
		return err
	}
	authority, err := validate.Account(accounts, validate.Slot{Index: 1, Name: "authority"},
		validate.IsSigner,
		validate.IsWritable,
		validate.IsKey(cfg.Authority, fault.ErrUnauthorized),
	)
	if nil != err {
		return err
	}
	next, err := validate.Account(accounts, validate.Slot{Index: 2, Name: "new_authority"},
		validate.IsSigner,
		validate.IsNotKey(authority.Key, fault.ErrDuplicateAuthority),
	)
	if nil != err {
		return err
	}

	cfg.Authority = next.Key
	config.Data = cfg.Pack()

	p.log.Infof("authority: %s → %s", authority.Key, next.Key)
	return nil
}

// accounts: authority(s,w), config, treasury, mint(w), treasury holding(w)
func (p *Processor) initializeToken(invocation *ledger.Invocation, args []byte) error {
	accounts := invocation.Accounts
	if err := validate.Count(accounts, 5); nil != err {
		return err
	}
	a, err := instruction.UnpackInitializeTokenArgs(args)
	if nil != err {
		return err
	}

	var cfg *record.Config
	if _, err := validate.Account(accounts, validate.Slot{Index: 1, Name: "config"}, p.isConfig(&cfg)); nil != err {
		return err
	}
	authority, err := validate.Account(accounts, validate.Slot{Index: 0, Name: "authority"},
		validate.IsSigner,
		validate.IsWritable,
		validate.IsKey(cfg.Authority, fault.ErrUnauthorized),
	)
	if nil != err {
		return err
	}
	treasury, err := validate.Account(accounts, validate.Slot{Index: 2, Name: "treasury"},
		validate.HasOwner(p.program),
		validate.HasSeeds(p.program, address.Treasury, cfg.TreasuryNonce),
	)
	if nil != err {
		return err
	}
	mintNonce := cfg.MintNonces[a.Member]
	mintAccount, err := validate.Account(accounts, validate.Slot{Index: 3, Name: "mint"},
		validate.IsWritable,
		validate.IsEmpty,
		validate.HasSeeds(p.program, address.Mint, mintNonce, address.Index(uint8(a.Member))),
	)
	if nil != err {
		return err
	}
	holdingNonce := uint8(0)
	holdingAccount, err := validate.Account(accounts, validate.Slot{Index: 4, Name: "treasury_holding"},
		validate.IsWritable,
		validate.IsEmpty,
		validate.IsCanonical(p.program, address.Holding, &holdingNonce, treasury.Key[:], mintAccount.Key[:]),
	)
	if nil != err {
		return err
	}

	mint := record.NewMint(a.Member, mintNonce, treasury.Key)
	holding := record.NewHolding(holdingNonce, mintAccount.Key, treasury.Key)
	supply := a.Member.Supply()
	if err := mint.Issue(supply); nil != err {
		return err
	}
	if err := holding.Credit(supply); nil != err {
		return err
	}

	if err := p.create(authority, mintAccount, mint.Pack()); nil != err {
		return err
	}
	if err := p.create(authority, holdingAccount, holding.Pack()); nil != err {
		return err
	}

	p.log.Infof("token: %s  mint: %s  supply: %d", a.Member, mintAccount.Key, supply)
	return nil
}
