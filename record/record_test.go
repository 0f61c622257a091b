// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/bitdiff"
	"github.com/bitflip-art/bitflipd/constants"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/record"
)

var (
	testProgram   = address.Address{0x50, 0x52, 0x4f, 0x47}
	testAuthority = address.Address{0xa1}
	testRefresh   = address.Address{0xa2}
	testAccess    = address.Address{0xa3}
	testOwner     = address.Address{0xa4}
)

func TestSizes(t *testing.T) {
	for _, k := range []record.Kind{record.KindConfig, record.KindGame, record.KindSection, record.KindMint, record.KindHolding} {
		assert.Equal(t, 0, k.Size()%8, "%s size is not a multiple of 8", k)
	}
	assert.Equal(t, 48, len((&record.Config{}).Pack()), "config")
	assert.Equal(t, 88, len((&record.Game{}).Pack()), "game")
	assert.Equal(t, 568, len(record.NewSection(0, 0, 0, testOwner).Pack()), "section")
}

func TestConfigPack(t *testing.T) {
	c := &record.Config{
		Nonce:         254,
		TreasuryNonce: 253,
		MintNonces:    [record.MemberCount]uint8{1, 2, 3, 4},
		Authority:     testAuthority,
		GameIndex:     3,
		Games:         4,
	}
	buffer := c.Pack()
	assert.Equal(t, uint8(record.KindConfig), buffer[0], "discriminator")
	assert.Equal(t, uint8(record.CurrentVersion), buffer[1], "version")

	decoded, err := record.UnpackConfig(buffer)
	require.Nil(t, err, "unpack")
	assert.Equal(t, c, decoded, "decoded config")
}

func TestConfigGames(t *testing.T) {
	c := &record.Config{}
	for i := 0; i < constants.MaximumGames; i += 1 {
		index, err := c.NextGameIndex()
		require.Nil(t, err, "%d: next", i)
		require.Nil(t, c.AddGame(index), "%d: add", i)
	}
	assert.Equal(t, uint8(255), c.GameIndex, "last game is current")

	_, err := c.NextGameIndex()
	assert.Equal(t, fault.ErrAllGamesInitialized, err, "no more games")
	assert.Equal(t, fault.ErrInvalidGameIndex, c.AddGame(0), "cannot add")
}

func TestUnpackRejects(t *testing.T) {
	game := record.NewGame(0, 255, testRefresh, testAccess).Pack()

	_, err := record.UnpackConfig(game)
	assert.Equal(t, fault.ErrInvalidAccountData, err, "wrong discriminator")

	_, err = record.UnpackGame(game[:40])
	assert.Equal(t, fault.ErrInvalidAccountData, err, "short")

	_, err = record.UnpackGame(game[:4])
	assert.Equal(t, fault.ErrInvalidAccountData, err, "shorter than header")

	future := append([]byte{}, game...)
	future[1] = 9
	_, err = record.UnpackGame(future)
	assert.Equal(t, fault.ErrUnsupportedSchemaVersion, err, "future version")

	unknown := append([]byte{}, game...)
	unknown[0] = 77
	_, _, err = record.KindOf(unknown)
	assert.Equal(t, fault.ErrInvalidAccountData, err, "unknown kind")

	section := record.NewSection(0, 0, 1, testOwner).Pack()
	section[44] = 1 // on + off no longer 4096
	_, err = record.UnpackSection(section)
	assert.Equal(t, fault.ErrInvalidAccountData, err, "broken bit count")
}

func TestGameLifecycle(t *testing.T) {
	g := record.NewGame(2, 250, testRefresh, testAccess)
	assert.Equal(t, record.StatusInitialized, g.Status(1000), "initialized")
	assert.False(t, g.IsRunning(1000), "not running before start")
	assert.Equal(t, constants.SessionDuration, g.RemainingTime(1000), "full time before start")

	require.Nil(t, g.Start(1000), "start")
	assert.Equal(t, fault.ErrGameAlreadyStarted, g.Start(2000), "start twice")
	assert.Equal(t, int64(1000+constants.AccessSignerDuration), g.AccessExpiry, "access expiry")

	assert.True(t, g.IsRunning(1000), "running at start")
	assert.True(t, g.IsRunning(g.EndTime()), "running at last second")
	assert.True(t, g.HasEnded(g.EndTime()+1), "ended after duration")
	assert.Equal(t, int64(0), g.RemainingTime(g.EndTime()+100), "clamped to zero")
	assert.Equal(t, constants.SessionDuration, g.RemainingTime(500), "clamped to duration")

	assert.True(t, g.AccessValid(1000), "fresh access")
	assert.False(t, g.AccessValid(g.AccessExpiry), "expired access")
	g.SetAccess(testOwner, 90000)
	assert.Equal(t, testOwner, g.Access, "new access")
	assert.True(t, g.AccessValid(90000), "renewed access")

	decoded, err := record.UnpackGame(g.Pack())
	require.Nil(t, err, "unpack")
	assert.Equal(t, g, decoded, "round trip")
}

func TestGameStartNeedsCursorZero(t *testing.T) {
	g := record.NewGame(0, 1, testRefresh, testAccess)
	g.SectionIndex = 1
	assert.Equal(t, fault.ErrInvalidSectionIndex, g.Start(10), "cursor moved")
}

func TestGameStartNeedsClock(t *testing.T) {
	g := record.NewGame(0, 1, testRefresh, testAccess)
	assert.Equal(t, fault.ErrGameNotRunning, g.Start(0), "zero clock")
	assert.Equal(t, fault.ErrGameNotRunning, g.Start(-5), "negative clock")
	assert.Equal(t, record.StatusInitialized, g.Status(10), "still waiting")
	require.Nil(t, g.Start(10), "start")
	assert.Equal(t, record.StatusRunning, g.Status(10), "running")
}

func TestGameCursorSaturates(t *testing.T) {
	g := record.NewGame(0, 1, testRefresh, testAccess)
	for i := 0; i < constants.TotalSections; i += 1 {
		require.Nil(t, g.AdvanceSection(), "%d: advance", i)
	}
	assert.Equal(t, uint16(constants.TotalSections), g.SectionIndex, "cursor at end")
	assert.Equal(t, fault.ErrAllSectionsUnlocked, g.AdvanceSection(), "saturated")
	assert.Equal(t, uint16(constants.TotalSections), g.SectionIndex, "cursor unchanged")
}

func TestSectionStart(t *testing.T) {
	s := record.NewSection(1, 2, 3, testOwner)
	assert.Equal(t, uint32(constants.SectionBits), s.Off, "all off")
	assert.Equal(t, uint32(0), s.On, "none on")
	assert.Equal(t, uint32(0), s.Flips, "no flips")
	assert.False(t, s.MeetsThreshold(), "threshold")
}

func TestSectionFlips(t *testing.T) {
	s := record.NewSection(0, 0, 1, testOwner)

	require.Nil(t, s.FlipOn(10), "on")
	require.Nil(t, s.FlipOff(4), "off")
	assert.Equal(t, uint32(6), s.On, "on count")
	assert.Equal(t, uint32(constants.SectionBits-6), s.Off, "off count")
	assert.Equal(t, uint32(14), s.Flips, "flip count")

	assert.Equal(t, fault.ErrArithmeticOverflow, s.FlipOff(7), "more off than on")
	assert.Equal(t, fault.ErrArithmeticOverflow, s.FlipOn(constants.SectionBits), "more on than off")
	assert.Equal(t, uint32(constants.SectionBits), s.On+s.Off, "invariant kept")

	s.Flips = ^uint32(0)
	assert.Equal(t, fault.ErrArithmeticOverflow, s.FlipOn(1), "flip counter overflow")
}

func TestSectionWrite(t *testing.T) {
	s := record.NewSection(0, 0, 1, testOwner)

	words := []uint16{0xffff, 0x0001}
	c, err := bitdiff.DiffWords(s.Data[16:18], words)
	require.Nil(t, err, "diff")
	require.Nil(t, s.Write(16, words, c), "write")
	assert.Equal(t, uint16(0xffff), s.Data[16], "word 16")
	assert.Equal(t, uint16(0x0001), s.Data[17], "word 17")
	assert.Equal(t, uint32(17), s.On, "on")

	assert.Equal(t, fault.ErrInvalidArrayIndex, s.Write(255, words, c), "past the end")

	decoded, err := record.UnpackSection(s.Pack())
	require.Nil(t, err, "unpack")
	assert.Equal(t, s, decoded, "round trip")
}

func TestTokens(t *testing.T) {
	mintKey := address.Address{0x33}
	m := record.NewMint(record.MemberBit, 200, testAuthority)
	require.Nil(t, m.Issue(record.MemberBit.Supply()), "issue")
	assert.Equal(t, uint64(constants.TotalBitTokens), m.Supply, "supply")
	assert.Equal(t, fault.ErrArithmeticOverflow, m.Issue(^uint64(0)), "overflow")

	decodedMint, err := record.UnpackMint(m.Pack())
	require.Nil(t, err, "unpack mint")
	assert.Equal(t, m, decodedMint, "mint round trip")

	from := record.NewHolding(1, mintKey, testAuthority)
	from.Amount = 10
	to := record.NewHolding(2, mintKey, testOwner)

	require.Nil(t, record.TransferTokens(from, to, 4), "transfer")
	assert.Equal(t, uint64(6), from.Amount, "from")
	assert.Equal(t, uint64(4), to.Amount, "to")
	assert.Equal(t, fault.ErrInsufficientTokens, record.TransferTokens(from, to, 7), "insufficient")

	other := record.NewHolding(3, address.Address{0x44}, testOwner)
	assert.Equal(t, fault.ErrInvalidHolding, record.TransferTokens(from, other, 1), "different mint")

	decodedHolding, err := record.UnpackHolding(to.Pack())
	require.Nil(t, err, "unpack holding")
	assert.Equal(t, to, decodedHolding, "holding round trip")
}

func TestMembers(t *testing.T) {
	assert.Equal(t, "BIT", record.MemberBit.String(), "bit")
	assert.Equal(t, uint64(0), record.MemberGibibit.Supply(), "tiers have no supply")
	assert.False(t, record.Member(4).Valid(), "out of range")
}

func TestDecode(t *testing.T) {
	items := []struct {
		data []byte
		kind record.Kind
	}{
		{(&record.Config{Authority: testAuthority, Games: 1}).Pack(), record.KindConfig},
		{record.NewGame(3, 1, testRefresh, testAccess).Pack(), record.KindGame},
		{record.NewSection(3, 7, 1, testOwner).Pack(), record.KindSection},
		{record.NewMint(record.MemberBit, 2, testAuthority).Pack(), record.KindMint},
		{record.NewHolding(4, testAuthority, testOwner).Pack(), record.KindHolding},
	}
	for i, item := range items {
		kind, r, err := record.Decode(testProgram, item.data)
		require.Nil(t, err, "%d: decode", i)
		assert.Equal(t, item.kind, kind, "%d: kind", i)
		assert.NotNil(t, r, "%d: record", i)
	}

	_, r, err := record.Decode(testProgram, record.NewGame(3, 1, testRefresh, testAccess).Pack())
	require.Nil(t, err, "game")
	g, ok := r.(*record.Game)
	require.True(t, ok, "game type")
	assert.Equal(t, uint8(3), g.GameIndex, "game index")

	_, _, err = record.Decode(testProgram, []byte{9, 1, 0, 0, 0, 0, 0, 0})
	assert.Equal(t, fault.ErrInvalidAccountData, err, "unknown kind")
}
