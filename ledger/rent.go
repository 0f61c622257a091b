// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitflip-art/bitflipd/constants"
)

// MinimumBalance - lamports that keep an account of dataLength bytes alive
func MinimumBalance(dataLength int) uint64 {
	return uint64(constants.AccountStorageOverhead+dataLength) *
		constants.LamportsPerByteYear * constants.ExemptionYears
}
