// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package processor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitflip-art/bitflipd/constants"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/instruction"
	"github.com/bitflip-art/bitflipd/ledger"
	"github.com/bitflip-art/bitflipd/record"
)

func TestGameLifecycle(t *testing.T) {
	w, teardown := newWorld(t)
	defer teardown()

	w.genesis()

	cfg := w.config()
	assert.Equal(t, w.authority.Public, cfg.Authority, "authority")
	assert.Equal(t, uint8(0), cfg.GameIndex, "game index")
	assert.Equal(t, uint16(1), cfg.Games, "games")

	treasury, err := instruction.TreasuryAddress(testProgram)
	require.Nil(t, err, "treasury")
	assert.Equal(t, uint64(constants.TotalBitTokens), w.bits(treasury), "BIT supply in treasury")
	assert.Equal(t, uint64(constants.RefreshSignerFunding), w.lamports(w.refresh.Public), "refresh funded")

	g := w.game(0)
	assert.Equal(t, startTime, g.StartTime, "started")
	assert.Equal(t, startTime+constants.AccessSignerDuration, g.AccessExpiry, "access expiry")
	assert.Equal(t, uint16(0), g.SectionIndex, "cursor")

	owner := newKey(t, 10)
	player := newKey(t, 11)
	other := newKey(t, 12)
	w.fund(owner.Public, playerFund)
	w.fund(player.Public, playerFund)
	w.fund(other.Public, playerFund)

	// section 0
	treasuryBefore := w.lamports(treasury)
	w.require("unlock section 0", w.unlock(owner, 0, 0, 7000))
	assert.Equal(t, treasuryBefore+7000, w.lamports(treasury), "bid paid")
	assert.Equal(t, uint16(1), w.game(0).SectionIndex, "cursor advanced")

	sectionKey, err := instruction.SectionAddress(testProgram, 0, 0)
	require.Nil(t, err, "section address")
	s := w.section(0, 0)
	assert.Equal(t, owner.Public, s.Owner, "section owner")
	assert.Equal(t, uint32(constants.SectionBits), s.Off, "all off")
	assert.Equal(t, uint64(constants.TokensPerSection), w.bits(sectionKey), "section tokens")
	assert.Equal(t, uint64(constants.TotalBitTokens-constants.TokensPerSection), w.bits(treasury), "treasury tokens")

	// first flip
	playerBefore := w.lamports(player.Public)
	sectionBefore := w.lamports(sectionKey)
	w.require("flip", w.flip(player, 0, instruction.FlipBitArgs{SectionIndex: 0, ArrayIndex: 0, Offset: 0, Value: 1}))

	s = w.section(0, 0)
	assert.Equal(t, uint16(1), s.Data[0], "word 0")
	assert.Equal(t, uint32(1), s.On, "on")
	assert.Equal(t, uint32(4095), s.Off, "off")
	assert.Equal(t, uint32(1), s.Flips, "flips")
	assert.Equal(t, uint64(1), w.bits(player.Public), "player BIT")
	assert.Equal(t, uint64(constants.TokensPerSection-1), w.bits(sectionKey), "section BIT")

	price := uint64(constants.BaseLamportsPerBit)
	holdingRent := ledger.MinimumBalance(record.HoldingSize)
	assert.Equal(t, playerBefore-price-holdingRent, w.lamports(player.Public), "player paid price and holding rent")
	assert.Equal(t, sectionBefore+price, w.lamports(sectionKey), "section received price")

	// the same request again changes nothing and is refused
	w.expect("repeat flip", fault.ErrBitsUnchanged, w.flip(player, 0, instruction.FlipBitArgs{SectionIndex: 0, ArrayIndex: 0, Offset: 0, Value: 1}))
	assert.Equal(t, uint32(1), w.section(0, 0).Flips, "flips unchanged")

	// flipping back off is a transition
	w.require("flip off", w.flip(player, 0, instruction.FlipBitArgs{SectionIndex: 0, ArrayIndex: 0, Offset: 0, Value: 0}))
	s = w.section(0, 0)
	assert.Equal(t, uint16(0), s.Data[0], "word 0 cleared")
	assert.Equal(t, uint32(0), s.On, "on")
	assert.Equal(t, uint32(2), s.Flips, "flips")
	assert.Equal(t, uint64(2), w.bits(player.Public), "player BIT")

	// section 1 needs the threshold
	w.expect("threshold", fault.ErrMinimumFlipThreshold, w.unlock(other, 0, 1, 0))

	full := make([]uint16, constants.WordsPerBits256)
	for i := range full {
		full[i] = 0xffff
	}
	for _, index := range []uint8{16, 32, 48, 64} {
		w.require("flip 256", w.flips(player, 0, instruction.FlipBitsArgs{SectionIndex: 0, ArrayIndex: index, Words: full}))
	}
	s = w.section(0, 0)
	assert.Equal(t, uint32(2+1024), s.Flips, "flips after bulk writes")
	assert.Equal(t, uint32(1024), s.On, "on after bulk writes")
	assert.Equal(t, uint32(constants.SectionBits-1024), s.Off, "off after bulk writes")
	assert.True(t, s.MeetsThreshold(), "threshold met")
	assert.Equal(t, uint64(2+1024), w.bits(player.Public), "player BIT after bulk writes")

	w.expect("same owner", fault.ErrSectionOwnerDuplicate, w.unlock(owner, 0, 1, 0))
	w.require("unlock section 1", w.unlock(other, 0, 1, 0))
	assert.Equal(t, uint16(2), w.game(0).SectionIndex, "cursor advanced")
	assert.Equal(t, other.Public, w.section(0, 1).Owner, "section 1 owner")

	// earlier sections stay playable
	w.require("flip section 0", w.flip(player, 0, instruction.FlipBitArgs{SectionIndex: 0, ArrayIndex: 200, Offset: 3, Value: 1}))

	// a new game cannot start while this one runs
	next := w.must(instruction.NewInitializeGame(testProgram, w.authority.Public, w.access.Public, w.refresh.Public, 1))
	w.expect("game 1 early", fault.ErrPreviousGameNotEnded, w.submit(next, w.authority, w.access, w.refresh))

	// the round ends
	w.now = startTime + constants.SessionDuration + 1
	assert.Equal(t, record.StatusEnded, w.game(0).Status(w.now), "ended")
	w.expect("flip after end", fault.ErrGameNotRunning, w.flip(player, 0, instruction.FlipBitArgs{SectionIndex: 0, ArrayIndex: 201, Offset: 3, Value: 1}))

	w.require("game 1", w.submit(next, w.authority, w.access, w.refresh))
	cfg = w.config()
	assert.Equal(t, uint8(1), cfg.GameIndex, "game index")
	assert.Equal(t, uint16(2), cfg.Games, "games")
	assert.Equal(t, record.StatusInitialized, w.game(1).Status(w.now), "new game waits")
}

func TestPriceRisesOverTheRound(t *testing.T) {
	w, teardown := newWorld(t)
	defer teardown()

	w.genesis()
	owner := newKey(t, 10)
	player := newKey(t, 11)
	w.fund(owner.Public, playerFund)
	w.fund(player.Public, playerFund)
	w.require("unlock", w.unlock(owner, 0, 0, 0))

	// creates the holding so later flips only pay the price
	w.require("first flip", w.flip(player, 0, instruction.FlipBitArgs{Value: 1}))

	sectionKey, err := instruction.SectionAddress(testProgram, 0, 0)
	require.Nil(t, err, "section address")

	w.now = startTime + constants.SessionDuration/2
	before := w.lamports(sectionKey)
	w.require("half way", w.flip(player, 0, instruction.FlipBitArgs{Offset: 1, Value: 1}))
	assert.Equal(t, uint64(constants.BaseLamportsPerBit*3/2), w.lamports(sectionKey)-before, "one and a half times base")

	w.now = startTime + constants.SessionDuration
	before = w.lamports(sectionKey)
	w.require("last second", w.flips(player, 0, instruction.FlipBitsArgs{ArrayIndex: 1, Words: []uint16{0x0003}}))
	assert.Equal(t, uint64(2*2*constants.BaseLamportsPerBit), w.lamports(sectionKey)-before, "two bits at twice base")
}
