// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/exitwithstatus"

	"github.com/bitflip-art/bitflipd/account"
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/instruction"
	"github.com/bitflip-art/bitflipd/record"
	"github.com/bitflip-art/bitflipd/util"
)

const defaultKeyFilename = "bootstrap.key"

// setup command handler
//
// commands that run to create key files; these commands cannot
// access any internal database or states or the configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "generate-key", "key":
		fileName := defaultKeyFilename
		if len(arguments) > 0 {
			fileName = arguments[0]
		}
		if util.EnsureFileExists(fileName) {
			fmt.Printf("generate key: %q error: %s\n", fileName, fault.ErrKeyFileAlreadyExists)
			exitwithstatus.Exit(1)
		}

		key, err := account.NewKeyPair(rand.Reader)
		if nil != err {
			fmt.Printf("generate key: %q error: %s\n", fileName, err)
			exitwithstatus.Exit(1)
		}
		if err := key.Save(fileName); nil != err {
			fmt.Printf("generate key: %q error: %s\n", fileName, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated key: %q\n", fileName)
		fmt.Printf("public: %s\n", key.Public)

	case "version", "v":
		fmt.Printf("%s\n", version)

	case "help", "h", "?":
		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version string\n\n")

		fmt.Printf("  generate-key [FILE]        (key)    - create a signing key file\n")
		fmt.Printf("                                        default: %q\n", defaultKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("  addresses                  (addr)   - show the program and its fixed record addresses\n")
		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convenience when passing script arguments\n")
		fmt.Printf("\n")
		exitwithstatus.Exit(1)

	default:
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// configuration command handler
//
// commands that can run after the configuration is read; return
// false to start the daemon
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := ""
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		text, err := json.MarshalIndent(options, "", "  ")
		if nil != err {
			exitwithstatus.Message("configuration error: %s", err)
		}
		fmt.Printf("%s\n", text)

	case "addresses", "addr":
		program, _, err := identities(options)
		if nil != err {
			exitwithstatus.Message("configuration error: %s", err)
		}
		a, err := fixedAddresses(program)
		if nil != err {
			exitwithstatus.Message("derive error: %s", err)
		}
		text, err := json.MarshalIndent(a, "", "  ")
		if nil != err {
			exitwithstatus.Message("marshal error: %s", err)
		}
		fmt.Printf("%s\n", text)

	case "start", "run", "":
		return false

	default:
		exitwithstatus.Message("error: no such command: %q", command)
	}
	return true
}

// addresses that do not depend on a game
type programAddresses struct {
	Program  address.Address            `json:"program"`
	Config   address.Address            `json:"config"`
	Treasury address.Address            `json:"treasury"`
	Mints    map[string]address.Address `json:"mints"`
}

func fixedAddresses(program address.Address) (*programAddresses, error) {
	config, err := instruction.ConfigAddress(program)
	if nil != err {
		return nil, err
	}
	treasury, err := instruction.TreasuryAddress(program)
	if nil != err {
		return nil, err
	}

	a := &programAddresses{
		Program:  program,
		Config:   config,
		Treasury: treasury,
		Mints:    make(map[string]address.Address, record.MemberCount),
	}
	for m := record.Member(0); m.Valid(); m += 1 {
		mint, err := instruction.MintAddress(program, m)
		if nil != err {
			return nil, err
		}
		a.Mints[m.String()] = mint
	}
	return a, nil
}
