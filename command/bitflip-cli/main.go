// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/chain"
)

type metadata struct {
	chain   string
	program address.Address
	inbox   string
	output  string
	nonce   uint64
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	app := newApp()
	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {

	app := cli.NewApp()
	app.Name = "bitflip-cli"
	app.Usage = "build and inspect bitflip ledger transactions"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "chain, n",
			Value: chain.Bitflip,
			Usage: " target chain `CHAIN` [bitflip|testing|local]",
		},
		cli.StringFlag{
			Name:  "inbox, i",
			Value: "inbox",
			Usage: " daemon inbox `DIR` receiving built transactions",
		},
		cli.StringFlag{
			Name:  "output, o",
			Value: "",
			Usage: " write the transaction to `FILE` instead of the inbox",
		},
		cli.Uint64Flag{
			Name:  "nonce",
			Value: 0,
			Usage: " transaction nonce `N` [current time]",
		},
	}

	keyFlag := func(name string, usage string) cli.Flag {
		return cli.StringFlag{Name: name, Usage: "*" + usage + " key `FILE`"}
	}
	gameFlag := cli.UintFlag{Name: "game, g", Usage: "*game index `N`"}
	sectionFlag := cli.UintFlag{Name: "section, s", Usage: "*section index `N`"}

	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "generate a key pair file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "file, f", Usage: "*new key `FILE`"},
			},
			Action: runGenerate,
		},
		{
			Name:   "addresses",
			Usage:  "show derived record addresses",
			Flags:  []cli.Flag{gameFlag, sectionFlag, cli.StringFlag{Name: "holder", Usage: " holding owner `KEY`"}},
			Action: runAddresses,
		},
		{
			Name:   "init-config",
			Usage:  "create the program configuration",
			Flags:  []cli.Flag{keyFlag("admin", "bootstrap admin"), keyFlag("authority", "new authority")},
			Action: runInitializeConfig,
		},
		{
			Name:   "update-authority",
			Usage:  "hand the configuration to a new authority",
			Flags:  []cli.Flag{keyFlag("authority", "current authority"), keyFlag("new", "new authority")},
			Action: runUpdateAuthority,
		},
		{
			Name:   "init-token",
			Usage:  "create a token tier mint",
			Flags:  []cli.Flag{keyFlag("authority", "authority"), cli.UintFlag{Name: "member, m", Usage: "*token tier `N` [0=BIT]"}},
			Action: runInitializeToken,
		},
		{
			Name:  "init-game",
			Usage: "create the next game",
			Flags: []cli.Flag{
				keyFlag("authority", "authority"),
				keyFlag("refresh", "refresh signer"),
				keyFlag("access", "access signer"),
				gameFlag,
			},
			Action: runInitializeGame,
		},
		{
			Name:   "start-game",
			Usage:  "start the current game",
			Flags:  []cli.Flag{keyFlag("refresh", "refresh signer"), keyFlag("access", "access signer"), gameFlag},
			Action: runStartGame,
		},
		{
			Name:   "refresh-access",
			Usage:  "rotate the access signer",
			Flags:  []cli.Flag{keyFlag("refresh", "refresh signer"), keyFlag("access", "new access signer"), gameFlag},
			Action: runRefreshAccessSigner,
		},
		{
			Name:  "reset-signers",
			Usage: "replace both game signers",
			Flags: []cli.Flag{
				keyFlag("authority", "authority"),
				keyFlag("refresh", "new refresh signer"),
				keyFlag("access", "new access signer"),
				cli.StringFlag{Name: "previous", Usage: " previous refresh signer `KEY` when its key file is not given"},
				cli.StringFlag{Name: "previous-key", Usage: " previous refresh signer key `FILE` to sweep its balance"},
				gameFlag,
			},
			Action: runResetSigners,
		},
		{
			Name:  "unlock",
			Usage: "unlock the next section",
			Flags: []cli.Flag{
				keyFlag("owner", "section owner"),
				keyFlag("access", "access signer"),
				gameFlag,
				sectionFlag,
				cli.Uint64Flag{Name: "bid, b", Usage: " winning bid `LAMPORTS`"},
			},
			Action: runUnlockSection,
		},
		{
			Name:  "flip",
			Usage: "set one bit",
			Flags: []cli.Flag{
				keyFlag("player", "player"),
				gameFlag,
				sectionFlag,
				cli.UintFlag{Name: "array, a", Usage: "*word index `N`"},
				cli.UintFlag{Name: "offset", Usage: "*bit offset `N` within the word"},
				cli.UintFlag{Name: "value", Usage: "*bit value `V` [0|1]"},
			},
			Action: runFlipBit,
		},
		{
			Name:  "flip-words",
			Usage: "replace up to sixteen words",
			Flags: []cli.Flag{
				keyFlag("player", "player"),
				gameFlag,
				sectionFlag,
				cli.UintFlag{Name: "array, a", Usage: "*first word index `N`"},
				cli.StringFlag{Name: "words, w", Usage: "*comma separated `WORDS` e.g. 0xffff,0x0001"},
			},
			Action: runFlipBits,
		},
		{
			Name:      "show",
			Usage:     "decode a stored account",
			ArgsUsage: "ADDRESS",
			Flags:     []cli.Flag{cli.StringFlag{Name: "database, d", Usage: "*stopped daemon database `DIR`"}},
			Action:    runShow,
		},
		{
			Name:      "receipt",
			Usage:     "show the receipt of an applied transaction",
			ArgsUsage: "TXID",
			Flags:     []cli.Flag{cli.StringFlag{Name: "database, d", Usage: "*stopped daemon database `DIR`"}},
			Action:    runReceipt,
		},
		{
			Name:   "version",
			Usage:  "display bitflip-cli version",
			Action: runVersion,
		},
	}

	// set up the chain and program identity
	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		name := strings.ToLower(c.GlobalString("chain"))
		if !chain.Valid(name) {
			return fmt.Errorf("chain: %q is not supported", name)
		}

		nonce := c.GlobalUint64("nonce")
		if 0 == nonce {
			nonce = uint64(time.Now().UnixNano())
		}

		m := &metadata{
			chain:   name,
			program: address.Address(chain.ProgramIdentifier(name)),
			inbox:   c.GlobalString("inbox"),
			output:  c.GlobalString("output"),
			nonce:   nonce,
			verbose: verbose,
			e:       e,
			w:       w,
		}
		if verbose {
			fmt.Fprintf(e, "chain: %s  program: %s\n", m.chain, m.program)
		}
		c.App.Metadata["config"] = m
		return nil
	}

	return app
}

func runVersion(c *cli.Context) error {
	fmt.Fprintf(c.App.Writer, "%s\n", version)
	return nil
}
