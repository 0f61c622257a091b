// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitflip-art/bitflipd/account"
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/instruction"
	"github.com/bitflip-art/bitflipd/record"
)

func runInitializeConfig(c *cli.Context) error {
	m := getMetadata(c)

	// the new authority pays for the config record so it signs too
	keys, err := loadKeys(c, "admin", "authority")
	if nil != err {
		return err
	}

	admin, authority := keys[0], keys[1]
	i, err := instruction.NewInitializeConfig(m.program, admin.Public, authority.Public)
	if nil != err {
		return err
	}
	return submit(m, i, keys...)
}

func runUpdateAuthority(c *cli.Context) error {
	m := getMetadata(c)

	keys, err := loadKeys(c, "authority", "new")
	if nil != err {
		return err
	}

	authority, newAuthority := keys[0], keys[1]
	i, err := instruction.NewUpdateAuthority(m.program, authority.Public, newAuthority.Public)
	if nil != err {
		return err
	}
	return submit(m, i, keys...)
}

func runInitializeToken(c *cli.Context) error {
	m := getMetadata(c)

	authority, err := checkKey(c, "authority")
	if nil != err {
		return err
	}
	n, err := checkIndex(c, "member")
	if nil != err {
		return err
	}
	member := record.Member(n)
	if !member.Valid() {
		return fmt.Errorf("member: %d is not a token tier", n)
	}

	i, err := instruction.NewInitializeToken(m.program, authority.Public, member)
	if nil != err {
		return err
	}
	return submit(m, i, authority)
}

func runInitializeGame(c *cli.Context) error {
	m := getMetadata(c)

	keys, err := loadKeys(c, "authority", "refresh", "access")
	if nil != err {
		return err
	}
	gameIndex, err := checkIndex(c, "game")
	if nil != err {
		return err
	}

	authority, refresh, access := keys[0], keys[1], keys[2]
	i, err := instruction.NewInitializeGame(m.program, authority.Public, access.Public, refresh.Public, gameIndex)
	if nil != err {
		return err
	}
	return submit(m, i, keys...)
}

func runStartGame(c *cli.Context) error {
	m := getMetadata(c)

	keys, err := loadKeys(c, "refresh", "access")
	if nil != err {
		return err
	}
	gameIndex, err := checkIndex(c, "game")
	if nil != err {
		return err
	}

	refresh, access := keys[0], keys[1]
	i, err := instruction.NewStartGame(m.program, refresh.Public, access.Public, gameIndex)
	if nil != err {
		return err
	}
	return submit(m, i, keys...)
}

func runRefreshAccessSigner(c *cli.Context) error {
	m := getMetadata(c)

	keys, err := loadKeys(c, "refresh", "access")
	if nil != err {
		return err
	}
	gameIndex, err := checkIndex(c, "game")
	if nil != err {
		return err
	}

	refresh, access := keys[0], keys[1]
	i, err := instruction.NewRefreshAccessSigner(m.program, refresh.Public, access.Public, gameIndex)
	if nil != err {
		return err
	}
	return submit(m, i, keys...)
}

func runResetSigners(c *cli.Context) error {
	m := getMetadata(c)

	keys, err := loadKeys(c, "authority", "refresh", "access")
	if nil != err {
		return err
	}
	gameIndex, err := checkIndex(c, "game")
	if nil != err {
		return err
	}

	// with the old key its balance is swept back to the authority
	var previousRefresh address.Address
	previousKey := c.String("previous-key")
	if "" != previousKey {
		key, err := account.Load(previousKey)
		if nil != err {
			return err
		}
		keys = append(keys, key)
		previousRefresh = key.Public
	} else if previousRefresh, err = checkPublic(c, "previous"); nil != err {
		return err
	}

	authority, refresh, access := keys[0], keys[1], keys[2]
	i, err := instruction.NewResetSigners(m.program, authority.Public, refresh.Public, access.Public, previousRefresh, "" != previousKey, gameIndex)
	if nil != err {
		return err
	}
	return submit(m, i, keys...)
}

func runUnlockSection(c *cli.Context) error {
	m := getMetadata(c)

	keys, err := loadKeys(c, "owner", "access")
	if nil != err {
		return err
	}
	gameIndex, err := checkIndex(c, "game")
	if nil != err {
		return err
	}
	sectionIndex, err := checkIndex(c, "section")
	if nil != err {
		return err
	}

	owner, access := keys[0], keys[1]
	i, err := instruction.NewUnlockSection(m.program, owner.Public, access.Public, gameIndex, sectionIndex, c.Uint64("bid"))
	if nil != err {
		return err
	}
	return submit(m, i, keys...)
}

func runFlipBit(c *cli.Context) error {
	m := getMetadata(c)

	player, err := checkKey(c, "player")
	if nil != err {
		return err
	}
	indexes, err := loadIndexes(c, "game", "section", "array", "offset", "value")
	if nil != err {
		return err
	}

	args := instruction.FlipBitArgs{
		SectionIndex: indexes[1],
		ArrayIndex:   indexes[2],
		Offset:       indexes[3],
		Value:        indexes[4],
	}
	i, err := instruction.NewFlipBit(m.program, player.Public, indexes[0], args)
	if nil != err {
		return err
	}
	return submit(m, i, player)
}

func runFlipBits(c *cli.Context) error {
	m := getMetadata(c)

	player, err := checkKey(c, "player")
	if nil != err {
		return err
	}
	indexes, err := loadIndexes(c, "game", "section", "array")
	if nil != err {
		return err
	}
	words, err := parseWords(c.String("words"))
	if nil != err {
		return err
	}

	args := instruction.FlipBitsArgs{
		SectionIndex: indexes[1],
		ArrayIndex:   indexes[2],
		Words:        words,
	}
	i, err := instruction.NewFlipBits(m.program, player.Public, indexes[0], args)
	if nil != err {
		return err
	}
	return submit(m, i, player)
}

// key files named by flags, in flag order
func loadKeys(c *cli.Context, names ...string) ([]*account.KeyPair, error) {
	keys := make([]*account.KeyPair, len(names))
	for i, name := range names {
		key, err := checkKey(c, name)
		if nil != err {
			return nil, err
		}
		keys[i] = key
	}
	return keys, nil
}

func loadIndexes(c *cli.Context, names ...string) ([]uint8, error) {
	indexes := make([]uint8, len(names))
	for i, name := range names {
		n, err := checkIndex(c, name)
		if nil != err {
			return nil, err
		}
		indexes[i] = n
	}
	return indexes, nil
}
