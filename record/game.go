// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/binary"

	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/constants"
	"github.com/bitflip-art/bitflipd/fault"
)

// GameSize - encoded length
//
//	 0  1 discriminator
//	 1  1 version
//	 2  1 game index
//	 3  1 nonce
//	 4  2 section cursor
//	 6  2 padding
//	 8 32 refresh credential
//	40 32 access credential
//	72  8 access expiry
//	80  8 start time
const GameSize = 88

// Status - game state computed from the start time and the clock
type Status int

// game states
const (
	StatusInitialized Status = iota
	StatusRunning
	StatusEnded
)

var statusNames = [...]string{"initialized", "running", "ended"}

// String - status name
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// Game - one round of play
type Game struct {
	GameIndex    uint8
	Nonce        uint8
	SectionIndex uint16
	Refresh      address.Address
	Access       address.Address
	AccessExpiry int64
	StartTime    int64
}

// NewGame - an initialised, not yet started game
func NewGame(index uint8, nonce uint8, refresh address.Address, access address.Address) *Game {
	return &Game{
		GameIndex: index,
		Nonce:     nonce,
		Refresh:   refresh,
		Access:    access,
	}
}

// Pack - encode
func (g *Game) Pack() []byte {
	buffer := newBuffer(KindGame)
	buffer[2] = g.GameIndex
	buffer[3] = g.Nonce
	binary.LittleEndian.PutUint16(buffer[4:6], g.SectionIndex)
	copy(buffer[8:40], g.Refresh[:])
	copy(buffer[40:72], g.Access[:])
	binary.LittleEndian.PutUint64(buffer[72:80], uint64(g.AccessExpiry))
	binary.LittleEndian.PutUint64(buffer[80:88], uint64(g.StartTime))
	return buffer
}

// UnpackGame - decode a current version game
func UnpackGame(data []byte) (*Game, error) {
	if err := checkHeader(data, KindGame); nil != err {
		return nil, err
	}
	g := &Game{
		GameIndex:    data[2],
		Nonce:        data[3],
		SectionIndex: binary.LittleEndian.Uint16(data[4:6]),
		AccessExpiry: int64(binary.LittleEndian.Uint64(data[72:80])),
		StartTime:    int64(binary.LittleEndian.Uint64(data[80:88])),
	}
	copy(g.Refresh[:], data[8:40])
	copy(g.Access[:], data[40:72])
	if g.SectionIndex > constants.TotalSections || g.StartTime < 0 {
		return nil, fault.ErrInvalidAccountData
	}
	return g, nil
}

// HasStarted - start time has been set
func (g *Game) HasStarted() bool {
	return g.StartTime > 0
}

// EndTime - last second of play
func (g *Game) EndTime() int64 {
	return g.StartTime + constants.SessionDuration
}

// Status - state at time now
func (g *Game) Status(now int64) Status {
	switch {
	case !g.HasStarted():
		return StatusInitialized
	case now > g.EndTime():
		return StatusEnded
	default:
		return StatusRunning
	}
}

// IsRunning - started and not ended
func (g *Game) IsRunning(now int64) bool {
	return StatusRunning == g.Status(now)
}

// HasEnded - started and past the session duration
func (g *Game) HasEnded(now int64) bool {
	return StatusEnded == g.Status(now)
}

// RemainingTime - seconds of play left, clamped to 0..SessionDuration
func (g *Game) RemainingTime(now int64) int64 {
	if !g.HasStarted() {
		return constants.SessionDuration
	}
	remaining := g.EndTime() - now
	if remaining < 0 {
		return 0
	}
	if remaining > constants.SessionDuration {
		return constants.SessionDuration
	}
	return remaining
}

// Start - set the start time once
func (g *Game) Start(now int64) error {
	if g.HasStarted() {
		return fault.ErrGameAlreadyStarted
	}
	if 0 != g.SectionIndex {
		return fault.ErrInvalidSectionIndex
	}
	// a zero start time reads as never started
	if now <= 0 {
		return fault.ErrGameNotRunning
	}
	g.StartTime = now
	g.AccessExpiry = now + constants.AccessSignerDuration
	return nil
}

// AccessValid - the access credential may still countersign
func (g *Game) AccessValid(now int64) bool {
	return now < g.AccessExpiry
}

// SetAccess - replace the short lived credential and renew its expiry
func (g *Game) SetAccess(access address.Address, now int64) {
	g.Access = access
	g.AccessExpiry = now + constants.AccessSignerDuration
}

// AdvanceSection - move the cursor past a newly unlocked section
func (g *Game) AdvanceSection() error {
	if g.SectionIndex >= constants.TotalSections {
		return fault.ErrAllSectionsUnlocked
	}
	g.SectionIndex += 1
	return nil
}
