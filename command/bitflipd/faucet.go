// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/chain"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/ledger"
)

// funder - the part of the host used to top up accounts
type funder interface {
	Account(key address.Address) (*ledger.Account, error)
	Fund(key address.Address, lamports uint64) error
}

// top each listed account up to its configured balance
//
// restarting never adds more than the shortfall
func faucet(chainName string, host funder, entries []FaucetType) error {
	if 0 == len(entries) {
		return nil
	}
	if !chain.IsTesting(chainName) {
		return fault.ErrFundingNotAllowed
	}

	for _, f := range entries {
		key, err := address.FromBase58(f.Account)
		if nil != err {
			return err
		}
		a, err := host.Account(key)
		if nil != err {
			return err
		}
		if a.Lamports >= f.Lamports {
			continue
		}
		if err := host.Fund(key, f.Lamports-a.Lamports); nil != err {
			return err
		}
	}
	return nil
}
