// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"filippo.io/edwards25519"
	"golang.org/x/crypto/sha3"

	"github.com/bitflip-art/bitflipd/fault"
)

// every seed list starts with this
var seedPrefix = []byte("bitflip")

// appended after the program so derived and key addresses never share a preimage
var derivedMarker = []byte("ProgramDerivedAddress")

// Tag - one kind of derived record address
//
// Parts is the number of variable seeds after the fixed seed, and
// PartLength the byte length each of them must have
type Tag struct {
	Name       string
	Seed       []byte
	Parts      int
	PartLength int
}

// all derived record addresses
var (
	Config   = Tag{Name: "config", Seed: []byte("config")}
	Treasury = Tag{Name: "treasury", Seed: []byte("treasury")}
	Mint     = Tag{Name: "mint", Seed: []byte("mint"), Parts: 1, PartLength: 1}
	Game     = Tag{Name: "game", Seed: []byte("game"), Parts: 1, PartLength: 1}
	Section  = Tag{Name: "section", Seed: []byte("section"), Parts: 2, PartLength: 1}
	Holding  = Tag{Name: "holding", Seed: []byte("holding"), Parts: 2, PartLength: Length}
)

// Index - a single byte seed part
func Index(i uint8) []byte {
	return []byte{i}
}

// Derive - find the canonical address and nonce for a tag and its parts
//
// the nonce is searched downwards from 255 and the first hash that is
// not a valid curve point is accepted, so no private key can sign for
// the result
func Derive(program Address, tag Tag, parts ...[]byte) (Address, uint8, error) {
	if err := tag.check(parts); nil != err {
		return Address{}, 0, err
	}
	for n := 255; n >= 0; n -= 1 {
		nonce := uint8(n)
		a := hash(program, tag, nonce, parts)
		if !onCurve(a) {
			return a, nonce, nil
		}
	}
	return Address{}, 0, fault.ErrNoViableNonce
}

// CreateWithNonce - the address for an explicit nonce
func CreateWithNonce(program Address, tag Tag, nonce uint8, parts ...[]byte) (Address, error) {
	if err := tag.check(parts); nil != err {
		return Address{}, err
	}
	a := hash(program, tag, nonce, parts)
	if onCurve(a) {
		return Address{}, fault.ErrInvalidSeeds
	}
	return a, nil
}

// Verify - check that claimed is derived from the tag, parts and nonce
func Verify(program Address, claimed Address, tag Tag, nonce uint8, parts ...[]byte) error {
	a, err := CreateWithNonce(program, tag, nonce, parts...)
	if nil != err {
		return err
	}
	if a != claimed {
		return fault.ErrInvalidSeeds
	}
	return nil
}

func (tag Tag) check(parts [][]byte) error {
	if len(parts) != tag.Parts {
		return fault.ErrInvalidSeedCount
	}
	for _, p := range parts {
		if len(p) != tag.PartLength {
			return fault.ErrInvalidSeedCount
		}
	}
	return nil
}

func hash(program Address, tag Tag, nonce uint8, parts [][]byte) Address {
	h := sha3.New256()
	h.Write(seedPrefix)
	h.Write(tag.Seed)
	for _, p := range parts {
		h.Write(p)
	}
	h.Write([]byte{nonce})
	h.Write(program[:])
	h.Write(derivedMarker)

	a := Address{}
	copy(a[:], h.Sum(nil))
	return a
}

func onCurve(a Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return nil == err
}
