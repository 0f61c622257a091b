// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package instruction

import (
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/ledger"
	"github.com/bitflip-art/bitflipd/record"
)

// Instruction - account list and data for one operation
type Instruction struct {
	Accounts []ledger.AccountMeta
	Data     []byte
}

// Message - wrap in a message ready to sign
func (i *Instruction) Message(nonce uint64) ledger.Message {
	return ledger.Message{
		Nonce:    nonce,
		Accounts: i.Accounts,
		Data:     i.Data,
	}
}

func signer(key address.Address) ledger.AccountMeta {
	return ledger.AccountMeta{Key: key, IsSigner: true}
}

func payer(key address.Address) ledger.AccountMeta {
	return ledger.AccountMeta{Key: key, IsSigner: true, IsWritable: true}
}

func writable(key address.Address) ledger.AccountMeta {
	return ledger.AccountMeta{Key: key, IsWritable: true}
}

func readOnly(key address.Address) ledger.AccountMeta {
	return ledger.AccountMeta{Key: key}
}

// ConfigAddress - the singleton config record
func ConfigAddress(program address.Address) (address.Address, error) {
	a, _, err := address.Derive(program, address.Config)
	return a, err
}

// TreasuryAddress - the lamport vault
func TreasuryAddress(program address.Address) (address.Address, error) {
	a, _, err := address.Derive(program, address.Treasury)
	return a, err
}

// MintAddress - the mint of one token tier
func MintAddress(program address.Address, member record.Member) (address.Address, error) {
	a, _, err := address.Derive(program, address.Mint, address.Index(uint8(member)))
	return a, err
}

// GameAddress - one game round
func GameAddress(program address.Address, gameIndex uint8) (address.Address, error) {
	a, _, err := address.Derive(program, address.Game, address.Index(gameIndex))
	return a, err
}

// SectionAddress - one section of a game
func SectionAddress(program address.Address, gameIndex uint8, sectionIndex uint8) (address.Address, error) {
	a, _, err := address.Derive(program, address.Section, address.Index(gameIndex), address.Index(sectionIndex))
	return a, err
}

// HoldingAddress - the token balance of holder for mint
func HoldingAddress(program address.Address, holder address.Address, mint address.Address) (address.Address, error) {
	a, _, err := address.Derive(program, address.Holding, holder[:], mint[:])
	return a, err
}

// derive many addresses, stopping at the first error
type deriver struct {
	program address.Address
	err     error
}

func (d *deriver) config() address.Address {
	return d.run(ConfigAddress(d.program))
}

func (d *deriver) treasury() address.Address {
	return d.run(TreasuryAddress(d.program))
}

func (d *deriver) mint(member record.Member) address.Address {
	return d.run(MintAddress(d.program, member))
}

func (d *deriver) game(gameIndex uint8) address.Address {
	return d.run(GameAddress(d.program, gameIndex))
}

func (d *deriver) section(gameIndex uint8, sectionIndex uint8) address.Address {
	return d.run(SectionAddress(d.program, gameIndex, sectionIndex))
}

func (d *deriver) holding(holder address.Address, mint address.Address) address.Address {
	return d.run(HoldingAddress(d.program, holder, mint))
}

func (d *deriver) run(a address.Address, err error) address.Address {
	if nil == d.err {
		d.err = err
	}
	return a
}

// NewInitializeConfig - create the config record and claim the treasury
func NewInitializeConfig(program address.Address, admin address.Address, authority address.Address) (*Instruction, error) {
	d := &deriver{program: program}
	accounts := []ledger.AccountMeta{
		signer(admin),
		payer(authority),
		writable(d.config()),
		writable(d.treasury()),
	}
	if nil != d.err {
		return nil, d.err
	}
	return &Instruction{Accounts: accounts, Data: []byte{byte(InitializeConfig)}}, nil
}

// NewUpdateAuthority - hand the config over to a new authority
func NewUpdateAuthority(program address.Address, authority address.Address, newAuthority address.Address) (*Instruction, error) {
	d := &deriver{program: program}
	accounts := []ledger.AccountMeta{
		writable(d.config()),
		payer(authority),
		signer(newAuthority),
	}
	if nil != d.err {
		return nil, d.err
	}
	return &Instruction{Accounts: accounts, Data: []byte{byte(UpdateAuthority)}}, nil
}

// NewInitializeToken - create one token tier and its treasury holding
func NewInitializeToken(program address.Address, authority address.Address, member record.Member) (*Instruction, error) {
	d := &deriver{program: program}
	treasury := d.treasury()
	mint := d.mint(member)
	accounts := []ledger.AccountMeta{
		payer(authority),
		readOnly(d.config()),
		readOnly(treasury),
		writable(mint),
		writable(d.holding(treasury, mint)),
	}
	if nil != d.err {
		return nil, d.err
	}
	return &Instruction{Accounts: accounts, Data: InitializeTokenArgs{Member: member}.Pack()}, nil
}

// NewInitializeGame - create game gameIndex
//
// the first game has no predecessor; the system address fills the slot
func NewInitializeGame(program address.Address, authority address.Address, access address.Address, refresh address.Address, gameIndex uint8) (*Instruction, error) {
	d := &deriver{program: program}
	previous := address.System
	if gameIndex > 0 {
		previous = d.game(gameIndex - 1)
	}
	accounts := []ledger.AccountMeta{
		payer(authority),
		signer(access),
		payer(refresh),
		writable(d.config()),
		writable(d.game(gameIndex)),
		readOnly(previous),
	}
	if nil != d.err {
		return nil, d.err
	}
	return &Instruction{Accounts: accounts, Data: []byte{byte(InitializeGame)}}, nil
}

// NewStartGame - start the clock on a game
func NewStartGame(program address.Address, refresh address.Address, access address.Address, gameIndex uint8) (*Instruction, error) {
	d := &deriver{program: program}
	accounts := []ledger.AccountMeta{
		signer(refresh),
		signer(access),
		readOnly(d.config()),
		writable(d.game(gameIndex)),
	}
	if nil != d.err {
		return nil, d.err
	}
	return &Instruction{Accounts: accounts, Data: []byte{byte(StartGame)}}, nil
}

// NewRefreshAccessSigner - rotate the short lived access credential
func NewRefreshAccessSigner(program address.Address, refresh address.Address, newAccess address.Address, gameIndex uint8) (*Instruction, error) {
	d := &deriver{program: program}
	accounts := []ledger.AccountMeta{
		signer(refresh),
		signer(newAccess),
		writable(d.game(gameIndex)),
	}
	if nil != d.err {
		return nil, d.err
	}
	return &Instruction{Accounts: accounts, Data: []byte{byte(RefreshAccessSigner)}}, nil
}

// NewResetSigners - replace both game credentials
//
// signPrevious marks the old refresh credential as a signer so its
// balance is swept back to the authority
func NewResetSigners(program address.Address, authority address.Address, newRefresh address.Address, newAccess address.Address, previousRefresh address.Address, signPrevious bool, gameIndex uint8) (*Instruction, error) {
	d := &deriver{program: program}
	previous := writable(previousRefresh)
	previous.IsSigner = signPrevious
	accounts := []ledger.AccountMeta{
		payer(authority),
		payer(newRefresh),
		signer(newAccess),
		previous,
		readOnly(d.config()),
		writable(d.game(gameIndex)),
	}
	if nil != d.err {
		return nil, d.err
	}
	return &Instruction{Accounts: accounts, Data: []byte{byte(ResetSigners)}}, nil
}

// NewUnlockSection - open section sectionIndex for owner with a
// countersigned bid
func NewUnlockSection(program address.Address, owner address.Address, access address.Address, gameIndex uint8, sectionIndex uint8, bid uint64) (*Instruction, error) {
	d := &deriver{program: program}
	previous := address.System
	if sectionIndex > 0 {
		previous = d.section(gameIndex, sectionIndex-1)
	}
	treasury := d.treasury()
	mint := d.mint(record.MemberBit)
	section := d.section(gameIndex, sectionIndex)
	accounts := []ledger.AccountMeta{
		payer(owner),
		signer(access),
		readOnly(d.config()),
		writable(d.game(gameIndex)),
		writable(section),
		writable(d.holding(section, mint)),
		readOnly(previous),
		writable(treasury),
		writable(d.holding(treasury, mint)),
		readOnly(mint),
	}
	if nil != d.err {
		return nil, d.err
	}
	return &Instruction{Accounts: accounts, Data: UnlockSectionArgs{Lamports: bid}.Pack()}, nil
}

// NewFlipBit - set one bit
func NewFlipBit(program address.Address, player address.Address, gameIndex uint8, args FlipBitArgs) (*Instruction, error) {
	accounts, err := playAccounts(program, player, gameIndex, args.SectionIndex)
	if nil != err {
		return nil, err
	}
	return &Instruction{Accounts: accounts, Data: args.Pack()}, nil
}

// NewFlipBits - replace up to sixteen words
func NewFlipBits(program address.Address, player address.Address, gameIndex uint8, args FlipBitsArgs) (*Instruction, error) {
	accounts, err := playAccounts(program, player, gameIndex, args.SectionIndex)
	if nil != err {
		return nil, err
	}
	return &Instruction{Accounts: accounts, Data: args.Pack()}, nil
}

func playAccounts(program address.Address, player address.Address, gameIndex uint8, sectionIndex uint8) ([]ledger.AccountMeta, error) {
	d := &deriver{program: program}
	mint := d.mint(record.MemberBit)
	section := d.section(gameIndex, sectionIndex)
	accounts := []ledger.AccountMeta{
		payer(player),
		writable(d.holding(player, mint)),
		readOnly(d.config()),
		readOnly(d.game(gameIndex)),
		readOnly(mint),
		writable(section),
		writable(d.holding(section, mint)),
	}
	if nil != d.err {
		return nil, d.err
	}
	return accounts, nil
}
