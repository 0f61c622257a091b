// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitflip-art/bitflipd/account"
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/chain"
	"github.com/bitflip-art/bitflipd/instruction"
	"github.com/bitflip-art/bitflipd/ledger"
	"github.com/bitflip-art/bitflipd/record"
)

// run the application and return its standard output
func run(t *testing.T, arguments ...string) (string, error) {
	app := newApp()
	var out, e bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &e
	err := app.Run(append([]string{"bitflip-cli"}, arguments...))
	return out.String(), err
}

func TestParseWords(t *testing.T) {
	words, err := parseWords("0xffff, 1,0b101")
	require.Nil(t, err, "parse")
	assert.Equal(t, []uint16{0xffff, 1, 5}, words, "words")

	_, err = parseWords("")
	assert.NotNil(t, err, "empty")
	_, err = parseWords("0x10000")
	assert.NotNil(t, err, "too large")
}

func TestGenerateAndFlip(t *testing.T) {
	dir, err := ioutil.TempDir("", "bitflip-cli")
	require.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	inbox := filepath.Join(dir, "inbox")
	require.Nil(t, os.Mkdir(inbox, 0700), "inbox")
	keyFile := filepath.Join(dir, "player.key")

	out, err := run(t, "--chain", "local", "generate", "--file", keyFile)
	require.Nil(t, err, "generate")
	var generated struct {
		Public address.Address `json:"public"`
	}
	require.Nil(t, json.Unmarshal([]byte(out), &generated), "generate output")

	key, err := account.Load(keyFile)
	require.Nil(t, err, "load")
	assert.Equal(t, key.Public, generated.Public, "public key reported")

	_, err = run(t, "generate", "--file", keyFile)
	assert.NotNil(t, err, "never overwrites")

	out, err = run(t, "-n", "local", "-i", inbox, "--nonce", "77",
		"flip", "--player", keyFile, "-g", "0", "-s", "2", "-a", "9", "--offset", "4", "--value", "1")
	require.Nil(t, err, "flip")

	var s submission
	require.Nil(t, json.Unmarshal([]byte(out), &s), "flip output")
	assert.Equal(t, uint64(77), s.Nonce, "nonce")
	assert.Equal(t, filepath.Join(inbox, s.ID.String()+transactionSuffix), s.File, "inbox file name")

	buffer, err := ioutil.ReadFile(s.File)
	require.Nil(t, err, "read transaction")
	tx, err := ledger.UnpackTransaction(buffer)
	require.Nil(t, err, "unpack")
	require.Nil(t, tx.Verify(), "signed")
	assert.Equal(t, s.ID, tx.ID(), "id")

	opcode, args, err := instruction.Decode(tx.Message.Data)
	require.Nil(t, err, "decode")
	assert.Equal(t, instruction.FlipBit, opcode, "opcode")
	flip, err := instruction.UnpackFlipBitArgs(args)
	require.Nil(t, err, "args")
	assert.Equal(t, instruction.FlipBitArgs{SectionIndex: 2, ArrayIndex: 9, Offset: 4, Value: 1}, flip, "arguments")

	program := address.Address(chain.ProgramIdentifier(chain.Local))
	section, err := instruction.SectionAddress(program, 0, 2)
	require.Nil(t, err, "section")
	assert.Equal(t, section, tx.Message.Accounts[5].Key, "section of the local chain")

	files, err := ioutil.ReadDir(inbox)
	require.Nil(t, err, "read inbox")
	assert.Equal(t, 1, len(files), "no temporary file left behind")
}

// every build command signs with all the keys its instruction needs
func TestBuildCommands(t *testing.T) {
	dir, err := ioutil.TempDir("", "bitflip-cli")
	require.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	keyFiles := make(map[string]string)
	for n, name := range []string{"admin", "authority", "next", "refresh", "access", "previous", "owner", "player"} {
		key, err := account.KeyPairFromSeed(bytes.Repeat([]byte{byte(n + 1)}, 32))
		require.Nil(t, err, "key pair")
		keyFiles[name] = filepath.Join(dir, name+".key")
		require.Nil(t, key.Save(keyFiles[name]), "save")
	}
	previous, err := account.Load(keyFiles["previous"])
	require.Nil(t, err, "load")

	items := []struct {
		name      string
		arguments []string
		opcode    instruction.Opcode
		signers   int
	}{
		{"init-config", []string{"init-config", "--admin", keyFiles["admin"], "--authority", keyFiles["authority"]}, instruction.InitializeConfig, 2},
		{"update-authority", []string{"update-authority", "--authority", keyFiles["authority"], "--new", keyFiles["next"]}, instruction.UpdateAuthority, 2},
		{"init-token", []string{"init-token", "--authority", keyFiles["authority"], "-m", "1"}, instruction.InitializeToken, 1},
		{"init-game", []string{"init-game", "--authority", keyFiles["authority"], "--refresh", keyFiles["refresh"], "--access", keyFiles["access"], "-g", "1"}, instruction.InitializeGame, 3},
		{"start-game", []string{"start-game", "--refresh", keyFiles["refresh"], "--access", keyFiles["access"], "-g", "1"}, instruction.StartGame, 2},
		{"refresh-access", []string{"refresh-access", "--refresh", keyFiles["refresh"], "--access", keyFiles["next"], "-g", "1"}, instruction.RefreshAccessSigner, 2},
		{"reset-signers swept", []string{"reset-signers", "--authority", keyFiles["authority"], "--refresh", keyFiles["refresh"], "--access", keyFiles["access"], "--previous-key", keyFiles["previous"], "-g", "1"}, instruction.ResetSigners, 4},
		{"reset-signers", []string{"reset-signers", "--authority", keyFiles["authority"], "--refresh", keyFiles["refresh"], "--access", keyFiles["access"], "--previous", previous.Public.String(), "-g", "1"}, instruction.ResetSigners, 3},
		{"unlock", []string{"unlock", "--owner", keyFiles["owner"], "--access", keyFiles["access"], "-g", "1", "-s", "3", "-b", "500"}, instruction.UnlockSection, 2},
		{"flip", []string{"flip", "--player", keyFiles["player"], "-g", "1", "-s", "3", "-a", "0", "--offset", "15", "--value", "1"}, instruction.FlipBit, 1},
		{"flip-words", []string{"flip-words", "--player", keyFiles["player"], "-g", "1", "-s", "3", "-a", "16", "-w", "0xffff,0x0001"}, instruction.FlipBits, 1},
	}

	for _, item := range items {
		output := filepath.Join(dir, item.name+transactionSuffix)
		arguments := append([]string{"-n", "local", "-o", output, "--nonce", "5"}, item.arguments...)
		_, err := run(t, arguments...)
		require.Nil(t, err, "%s: run", item.name)

		buffer, err := ioutil.ReadFile(output)
		require.Nil(t, err, "%s: read", item.name)
		tx, err := ledger.UnpackTransaction(buffer)
		require.Nil(t, err, "%s: unpack", item.name)
		assert.Nil(t, tx.Verify(), "%s: signatures", item.name)
		assert.Equal(t, item.signers, len(tx.Signatures), "%s: signer count", item.name)

		opcode, _, err := instruction.Decode(tx.Message.Data)
		require.Nil(t, err, "%s: decode", item.name)
		assert.Equal(t, item.opcode, opcode, "%s: opcode", item.name)
	}
}

func TestBuildErrors(t *testing.T) {
	_, err := run(t, "--chain", "mainnet", "version")
	assert.NotNil(t, err, "unknown chain")

	_, err = run(t, "flip", "-g", "0")
	assert.NotNil(t, err, "missing player")

	_, err = run(t, "-i", "/no/such/inbox", "addresses", "-g", "300")
	assert.NotNil(t, err, "index out of range")
}

func TestDeriveAddresses(t *testing.T) {
	program := address.Address(chain.ProgramIdentifier(chain.Testing))
	holder := address.Address{0x44}

	a, err := deriveAddresses(program, 1, 3, &holder)
	require.Nil(t, err, "derive")

	game, err := instruction.GameAddress(program, 1)
	require.Nil(t, err, "game")
	assert.Equal(t, game, a.Game, "game")

	mint, err := instruction.MintAddress(program, record.MemberBit)
	require.Nil(t, err, "mint")
	assert.Equal(t, mint, a.Mints["BIT"], "bit mint")

	holding, err := instruction.HoldingAddress(program, holder, mint)
	require.Nil(t, err, "holding")
	require.NotNil(t, a.Holding, "holding present")
	assert.Equal(t, holding, *a.Holding, "holding")

	a, err = deriveAddresses(program, 1, 3, nil)
	require.Nil(t, err, "derive without holder")
	assert.Nil(t, a.Holding, "no holding")
}

func TestViewAccount(t *testing.T) {
	program := address.Address(chain.ProgramIdentifier(chain.Local))
	g := record.NewGame(0, 1, address.Address{1}, address.Address{2})

	v := viewAccount(program, &ledger.Account{Key: address.Address{9}, Owner: program, Lamports: 5, Data: g.Pack()})
	assert.Equal(t, "game", v.Kind, "kind")
	assert.Equal(t, g, v.Record, "decoded")
	assert.Equal(t, record.GameSize, v.Size, "size")

	v = viewAccount(program, &ledger.Account{Key: address.Address{9}, Owner: address.System, Data: g.Pack()})
	assert.Equal(t, "", v.Kind, "foreign owner is not decoded")

	v = viewAccount(program, &ledger.Account{Key: address.Address{9}, Owner: program, Data: []byte{1, 2}})
	assert.NotEqual(t, "", v.Error, "undecodable")
}
