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

// accounts: authority(s,w), access(s), refresh(s,w), config(w), game(w), previous game
func (p *Processor) initializeGame(invocation *ledger.Invocation, args []byte) error {
	accounts := invocation.Accounts
	if err := validate.Count(accounts, 6); nil != err {
		return err
	}
	if err := instruction.NoArguments(args); nil != err {
		return err
	}

	var cfg *record.Config
	config, err := validate.Account(accounts, validate.Slot{Index: 3, Name: "config"},
		validate.IsWritable,
		p.isConfig(&cfg),
	)
	if nil != err {
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
	access, err := validate.Account(accounts, validate.Slot{Index: 1, Name: "access"},
		validate.IsSigner,
	)
	if nil != err {
		return err
	}
	refresh, err := validate.Account(accounts, validate.Slot{Index: 2, Name: "refresh"},
		validate.IsSigner,
		validate.IsWritable,
		validate.IsNotKey(access.Key, fault.ErrGameSignerInvalid),
	)
	if nil != err {
		return err
	}

	index, err := cfg.NextGameIndex()
	if nil != err {
		return err
	}
	nonce := uint8(0)
	game, err := validate.Account(accounts, validate.Slot{Index: 4, Name: "game"},
		validate.IsWritable,
		validate.IsEmpty,
		validate.IsCanonical(p.program, address.Game, &nonce, address.Index(index)),
	)
	if nil != err {
		return err
	}

	if index > 0 {
		var previous *record.Game
		_, err := validate.Account(accounts, validate.Slot{Index: 5, Name: "previous_game"},
			p.isGame(&previous),
		)
		if nil != err {
			return err
		}
		if previous.GameIndex != index-1 {
			return fault.ErrInvalidGameIndex
		}
		if !previous.HasEnded(invocation.Now) {
			return fault.ErrPreviousGameNotEnded
		}
	}

	g := record.NewGame(index, nonce, refresh.Key, access.Key)
	if err := cfg.AddGame(index); nil != err {
		return err
	}

	if err := p.create(authority, game, g.Pack()); nil != err {
		return err
	}
	config.Data = cfg.Pack()
	if err := transferLamports(authority, refresh, constants.RefreshSignerFunding); nil != err {
		return err
	}

	p.log.Infof("game: %d  address: %s  refresh: %s", index, game.Key, refresh.Key)
	return nil
}

// accounts: refresh(s), access(s), config, game(w)
func (p *Processor) startGame(invocation *ledger.Invocation, args []byte) error {
	accounts := invocation.Accounts
	if err := validate.Count(accounts, 4); nil != err {
		return err
	}
	if err := instruction.NoArguments(args); nil != err {
		return err
	}

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
	if _, err := validate.Account(accounts, validate.Slot{Index: 0, Name: "refresh"},
		validate.IsSigner,
		validate.IsKey(g.Refresh, fault.ErrGameSignerInvalid),
	); nil != err {
		return err
	}
	if _, err := validate.Account(accounts, validate.Slot{Index: 1, Name: "access"},
		validate.IsSigner,
		validate.IsKey(g.Access, fault.ErrGameSignerInvalid),
	); nil != err {
		return err
	}

	if err := g.Start(invocation.Now); nil != err {
		return err
	}
	game.Data = g.Pack()

	p.log.Infof("game: %d  started: %d  ends: %d", g.GameIndex, g.StartTime, g.EndTime())
	return nil
}

// accounts: refresh(s), new access(s), game(w)
func (p *Processor) refreshAccessSigner(invocation *ledger.Invocation, args []byte) error {
	accounts := invocation.Accounts
	if err := validate.Count(accounts, 3); nil != err {
		return err
	}
	if err := instruction.NoArguments(args); nil != err {
		return err
	}

	var g *record.Game
	game, err := validate.Account(accounts, validate.Slot{Index: 2, Name: "game"},
		validate.IsWritable,
		p.isGame(&g),
	)
	if nil != err {
		return err
	}
	if _, err := validate.Account(accounts, validate.Slot{Index: 0, Name: "refresh"},
		validate.IsSigner,
		validate.IsKey(g.Refresh, fault.ErrGameSignerInvalid),
	); nil != err {
		return err
	}
	access, err := validate.Account(accounts, validate.Slot{Index: 1, Name: "new_access"},
		validate.IsSigner,
		validate.IsNotKey(g.Access, fault.ErrAccessSignerNotUpdated),
		validate.IsNotKey(g.Refresh, fault.ErrGameSignerInvalid),
	)
	if nil != err {
		return err
	}

	g.SetAccess(access.Key, invocation.Now)
	game.Data = g.Pack()

	p.log.Debugf("game: %d  access: %s  expires: %d", g.GameIndex, access.Key, g.AccessExpiry)
	return nil
}

// accounts: authority(s,w), new refresh(s,w), new access(s), previous refresh(w), config, game(w)
//
// the old refresh balance is swept to the authority only when the old
// refresh credential also signs
func (p *Processor) resetSigners(invocation *ledger.Invocation, args []byte) error {
	accounts := invocation.Accounts
	if err := validate.Count(accounts, 6); nil != err {
		return err
	}
	if err := instruction.NoArguments(args); nil != err {
		return err
	}

	var cfg *record.Config
	var g *record.Game
	if _, err := validate.Account(accounts, validate.Slot{Index: 4, Name: "config"}, p.isConfig(&cfg)); nil != err {
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
	game, err := validate.Account(accounts, validate.Slot{Index: 5, Name: "game"},
		validate.IsWritable,
		p.isGame(&g),
	)
	if nil != err {
		return err
	}
	refresh, err := validate.Account(accounts, validate.Slot{Index: 1, Name: "new_refresh"},
		validate.IsSigner,
		validate.IsWritable,
		validate.IsNotKey(g.Refresh, fault.ErrGameSignerInvalid),
		validate.IsNotKey(authority.Key, fault.ErrGameSignerInvalid),
	)
	if nil != err {
		return err
	}
	access, err := validate.Account(accounts, validate.Slot{Index: 2, Name: "new_access"},
		validate.IsSigner,
		validate.IsNotKey(g.Access, fault.ErrAccessSignerNotUpdated),
		validate.IsNotKey(refresh.Key, fault.ErrGameSignerInvalid),
	)
	if nil != err {
		return err
	}
	previous, err := validate.Account(accounts, validate.Slot{Index: 3, Name: "previous_refresh"},
		validate.IsWritable,
		validate.IsKey(g.Refresh, fault.ErrGameSignerInvalid),
	)
	if nil != err {
		return err
	}

	if previous.IsSigner && previous.Owner.IsZero() {
		if err := transferLamports(previous, authority, previous.Lamports); nil != err {
			return err
		}
	}

	g.Refresh = refresh.Key
	g.SetAccess(access.Key, invocation.Now)
	game.Data = g.Pack()

	if err := transferLamports(authority, refresh, constants.RefreshSignerFunding); nil != err {
		return err
	}

	p.log.Infof("game: %d  refresh: %s  access: %s", g.GameIndex, refresh.Key, access.Key)
	return nil
}
