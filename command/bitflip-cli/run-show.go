// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/ledger"
	"github.com/bitflip-art/bitflipd/record"
	"github.com/bitflip-art/bitflipd/storage"
)

// a stored account and its decoded record
type accountView struct {
	Key      address.Address `json:"key"`
	Owner    address.Address `json:"owner"`
	Lamports uint64          `json:"lamports"`
	Size     int             `json:"size"`
	Kind     string          `json:"kind,omitempty"`
	Record   interface{}     `json:"record,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func runShow(c *cli.Context) error {
	m := getMetadata(c)

	if 1 != len(c.Args()) {
		return fmt.Errorf("one account address is required")
	}
	key, err := address.FromBase58(c.Args()[0])
	if nil != err {
		return err
	}

	host, done, err := openHost(c, m)
	if nil != err {
		return err
	}
	defer done()

	a, err := host.Account(key)
	if nil != err {
		return err
	}
	return printJson(m.w, viewAccount(m.program, a))
}

func runReceipt(c *cli.Context) error {
	m := getMetadata(c)

	if 1 != len(c.Args()) {
		return fmt.Errorf("one transaction id is required")
	}
	var id ledger.TransactionID
	if err := id.UnmarshalText([]byte(c.Args()[0])); nil != err {
		return err
	}

	host, done, err := openHost(c, m)
	if nil != err {
		return err
	}
	defer done()

	r, ok := host.Receipt(id)
	if !ok {
		return fmt.Errorf("transaction: %s was not applied", id)
	}
	return printJson(m.w, r)
}

// read only access to a database the daemon is not using
func openHost(c *cli.Context, m *metadata) (*ledger.Host, func(), error) {
	database := c.String("database")
	if "" == database {
		return nil, nil, fmt.Errorf("database is required")
	}
	if m.verbose {
		fmt.Fprintf(m.e, "database: %q\n", database)
	}

	logging := logger.Configuration{
		Directory: os.TempDir(),
		File:      "bitflip-cli.log",
		Size:      1048576,
		Count:     10,
		Console:   m.verbose,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	if err := logger.Initialise(logging); nil != err {
		return nil, nil, err
	}

	if err := storage.Initialise(database, storage.ReadOnly); nil != err {
		logger.Finalise()
		return nil, nil, err
	}
	done := func() {
		storage.Finalise()
		logger.Finalise()
	}

	handles := ledger.Handles{
		Accounts:     storage.Pool.Accounts,
		Transactions: storage.Pool.Transactions,
		Receipts:     storage.Pool.Receipts,
	}
	return ledger.NewHost(m.program, nil, ledger.SystemClock{}, handles), done, nil
}

// records owned by other programs are shown undecoded
func viewAccount(program address.Address, a *ledger.Account) *accountView {
	v := &accountView{
		Key:      a.Key,
		Owner:    a.Owner,
		Lamports: a.Lamports,
		Size:     len(a.Data),
	}
	if program != a.Owner || 0 == len(a.Data) {
		return v
	}

	kind, r, err := record.Decode(program, a.Data)
	if nil != err {
		v.Error = err.Error()
		return v
	}
	v.Kind = kind.String()
	v.Record = r
	return v
}
