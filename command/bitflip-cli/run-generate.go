// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitflip-art/bitflipd/account"
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/instruction"
	"github.com/bitflip-art/bitflipd/record"
	"github.com/bitflip-art/bitflipd/util"
)

func runGenerate(c *cli.Context) error {

	m := getMetadata(c)

	fileName := c.String("file")
	if "" == fileName {
		return fmt.Errorf("key file is required")
	}
	if util.EnsureFileExists(fileName) {
		return fault.ErrKeyFileAlreadyExists
	}

	key, err := account.NewKeyPair(rand.Reader)
	if nil != err {
		return err
	}
	if err := key.Save(fileName); nil != err {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.e, "saved: %q\n", fileName)
	}

	return printJson(m.w, struct {
		File   string          `json:"file"`
		Public address.Address `json:"public"`
	}{
		File:   fileName,
		Public: key.Public,
	})
}

// derived addresses for the current chain
type derivedAddresses struct {
	Program  address.Address            `json:"program"`
	Config   address.Address            `json:"config"`
	Treasury address.Address            `json:"treasury"`
	Mints    map[string]address.Address `json:"mints"`
	Game     address.Address            `json:"game"`
	Section  address.Address            `json:"section"`
	Holding  *address.Address           `json:"holding,omitempty"`
}

func runAddresses(c *cli.Context) error {

	m := getMetadata(c)

	gameIndex, err := checkIndex(c, "game")
	if nil != err {
		return err
	}
	sectionIndex, err := checkIndex(c, "section")
	if nil != err {
		return err
	}

	var holder *address.Address
	if s := c.String("holder"); "" != s {
		h, err := parsePublic(s)
		if nil != err {
			return err
		}
		holder = &h
	}

	a, err := deriveAddresses(m.program, gameIndex, sectionIndex, holder)
	if nil != err {
		return err
	}
	return printJson(m.w, a)
}

func deriveAddresses(program address.Address, gameIndex uint8, sectionIndex uint8, holder *address.Address) (*derivedAddresses, error) {
	a := &derivedAddresses{
		Program: program,
		Mints:   make(map[string]address.Address, record.MemberCount),
	}

	var err error
	if a.Config, err = instruction.ConfigAddress(program); nil != err {
		return nil, err
	}
	if a.Treasury, err = instruction.TreasuryAddress(program); nil != err {
		return nil, err
	}
	for member := record.Member(0); member.Valid(); member += 1 {
		mint, err := instruction.MintAddress(program, member)
		if nil != err {
			return nil, err
		}
		a.Mints[member.String()] = mint
	}
	if a.Game, err = instruction.GameAddress(program, gameIndex); nil != err {
		return nil, err
	}
	if a.Section, err = instruction.SectionAddress(program, gameIndex, sectionIndex); nil != err {
		return nil, err
	}

	if nil != holder {
		h, err := instruction.HoldingAddress(program, *holder, a.Mints[record.MemberBit.String()])
		if nil != err {
			return nil, err
		}
		a.Holding = &h
	}
	return a, nil
}
