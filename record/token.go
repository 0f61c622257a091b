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

// MintSize - encoded length
//
//	 0  1 discriminator
//	 1  1 version
//	 2  1 nonce
//	 3  1 decimals
//	 4  1 member
//	 5  3 padding
//	 8 32 mint authority
//	40  8 supply
const MintSize = 48

// HoldingSize - encoded length
//
//	 0  1 discriminator
//	 1  1 version
//	 2  1 nonce
//	 3  5 padding
//	 8 32 mint
//	40 32 holder
//	72  8 amount
const HoldingSize = 80

// Mint - one reward token tier
type Mint struct {
	Nonce     uint8
	Decimals  uint8
	Member    Member
	Authority address.Address
	Supply    uint64
}

// NewMint - a tier with nothing issued
func NewMint(member Member, nonce uint8, authority address.Address) *Mint {
	return &Mint{
		Nonce:     nonce,
		Decimals:  constants.TokenDecimals,
		Member:    member,
		Authority: authority,
	}
}

// Pack - encode
func (m *Mint) Pack() []byte {
	buffer := newBuffer(KindMint)
	buffer[2] = m.Nonce
	buffer[3] = m.Decimals
	buffer[4] = uint8(m.Member)
	copy(buffer[8:40], m.Authority[:])
	binary.LittleEndian.PutUint64(buffer[40:48], m.Supply)
	return buffer
}

// UnpackMint - decode a current version mint
func UnpackMint(data []byte) (*Mint, error) {
	if err := checkHeader(data, KindMint); nil != err {
		return nil, err
	}
	m := &Mint{
		Nonce:    data[2],
		Decimals: data[3],
		Member:   Member(data[4]),
		Supply:   binary.LittleEndian.Uint64(data[40:48]),
	}
	copy(m.Authority[:], data[8:40])
	if !m.Member.Valid() {
		return nil, fault.ErrInvalidAccountData
	}
	return m, nil
}

// Issue - add to the supply
func (m *Mint) Issue(amount uint64) error {
	total := m.Supply + amount
	if total < m.Supply {
		return fault.ErrArithmeticOverflow
	}
	m.Supply = total
	return nil
}

// Holding - one holder's balance of one mint
type Holding struct {
	Nonce  uint8
	Mint   address.Address
	Holder address.Address
	Amount uint64
}

// NewHolding - an empty balance
func NewHolding(nonce uint8, mint address.Address, holder address.Address) *Holding {
	return &Holding{
		Nonce:  nonce,
		Mint:   mint,
		Holder: holder,
	}
}

// Pack - encode
func (h *Holding) Pack() []byte {
	buffer := newBuffer(KindHolding)
	buffer[2] = h.Nonce
	copy(buffer[8:40], h.Mint[:])
	copy(buffer[40:72], h.Holder[:])
	binary.LittleEndian.PutUint64(buffer[72:80], h.Amount)
	return buffer
}

// UnpackHolding - decode a current version holding
func UnpackHolding(data []byte) (*Holding, error) {
	if err := checkHeader(data, KindHolding); nil != err {
		return nil, err
	}
	h := &Holding{
		Nonce:  data[2],
		Amount: binary.LittleEndian.Uint64(data[72:80]),
	}
	copy(h.Mint[:], data[8:40])
	copy(h.Holder[:], data[40:72])
	return h, nil
}

// Credit - add tokens
func (h *Holding) Credit(amount uint64) error {
	total := h.Amount + amount
	if total < h.Amount {
		return fault.ErrArithmeticOverflow
	}
	h.Amount = total
	return nil
}

// Debit - remove tokens
func (h *Holding) Debit(amount uint64) error {
	if amount > h.Amount {
		return fault.ErrInsufficientTokens
	}
	h.Amount -= amount
	return nil
}

// TransferTokens - move amount between two holdings of the same mint
func TransferTokens(from *Holding, to *Holding, amount uint64) error {
	if from.Mint != to.Mint {
		return fault.ErrInvalidHolding
	}
	if err := from.Debit(amount); nil != err {
		return err
	}
	return to.Credit(amount)
}
