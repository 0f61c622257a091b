// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/urfave/cli"

	"github.com/bitflip-art/bitflipd/account"
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/instruction"
	"github.com/bitflip-art/bitflipd/ledger"
	"github.com/bitflip-art/bitflipd/util"
)

const transactionSuffix = ".tx"

// what a build command reports
type submission struct {
	ID    ledger.TransactionID `json:"id"`
	File  string               `json:"file"`
	Nonce uint64               `json:"nonce"`
}

func printJson(handle io.Writer, message interface{}) error {

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		return err
	}

	fmt.Fprintf(handle, "%s\n", b)
	return nil
}

func getMetadata(c *cli.Context) *metadata {
	return c.App.Metadata["config"].(*metadata)
}

// a required key file
func checkKey(c *cli.Context, name string) (*account.KeyPair, error) {
	fileName := c.String(name)
	if "" == fileName {
		return nil, fmt.Errorf("%s key file is required", name)
	}
	return account.Load(fileName)
}

// a required public key given as base58 or as a key file
func checkPublic(c *cli.Context, name string) (address.Address, error) {
	s := c.String(name)
	if "" == s {
		return address.Address{}, fmt.Errorf("%s is required", name)
	}
	return parsePublic(s)
}

func parsePublic(s string) (address.Address, error) {
	if util.EnsureFileExists(s) {
		key, err := account.Load(s)
		if nil != err {
			return address.Address{}, err
		}
		return key.Public, nil
	}
	return address.FromBase58(s)
}

// a byte sized index
func checkIndex(c *cli.Context, name string) (uint8, error) {
	n := c.Uint(name)
	if n > 255 {
		return 0, fmt.Errorf("%s: %d is out of range", name, n)
	}
	return uint8(n), nil
}

// comma separated words in any strconv base notation
func parseWords(s string) ([]uint16, error) {
	if "" == s {
		return nil, fmt.Errorf("words are required")
	}
	fields := strings.Split(s, ",")
	words := make([]uint16, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseUint(strings.TrimSpace(f), 0, 16)
		if nil != err {
			return nil, fmt.Errorf("word[%d]: %q error: %s", i, f, err)
		}
		words[i] = uint16(n)
	}
	return words, nil
}

// sign an instruction and hand it to the daemon
func submit(m *metadata, i *instruction.Instruction, keys ...*account.KeyPair) error {
	t := &ledger.Transaction{
		Message: i.Message(m.nonce),
	}
	if err := t.Sign(keys...); nil != err {
		return err
	}
	if nil != t.Verify() {
		return fmt.Errorf("signature verification failed")
	}

	id := t.ID()
	fileName, err := writeTransaction(m.inbox, m.output, id, t.Pack())
	if nil != err {
		return err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "accounts: %d  data: %x\n", len(t.Message.Accounts), t.Message.Data)
	}

	return printJson(m.w, submission{
		ID:    id,
		File:  fileName,
		Nonce: m.nonce,
	})
}

// write the packed transaction
//
// inbox files are renamed into place so the daemon never reads a partial file
func writeTransaction(inbox string, output string, id ledger.TransactionID, buffer []byte) (string, error) {
	if "" != output {
		return output, ioutil.WriteFile(output, buffer, 0600)
	}

	if fileInfo, err := os.Stat(inbox); nil != err {
		return "", err
	} else if !fileInfo.IsDir() {
		return "", fmt.Errorf("inbox: %q is not a directory", inbox)
	}

	name := id.String() + transactionSuffix
	temporary := filepath.Join(inbox, "."+name)
	final := filepath.Join(inbox, name)
	if err := ioutil.WriteFile(temporary, buffer, 0600); nil != err {
		return "", err
	}
	if err := os.Rename(temporary, final); nil != err {
		os.Remove(temporary)
		return "", err
	}
	return final, nil
}
