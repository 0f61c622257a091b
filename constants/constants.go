// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package constants

// canvas geometry
const (
	BitsPerWord     = 16
	TotalBits       = 16 * 16 * 16 * 16 * 16
	TotalSections   = 256
	SectionWords    = 256
	SectionBits     = SectionWords * BitsPerWord
	WordsPerBits256 = 256 / BitsPerWord
)

// game limits
const (
	MaximumGames           = 256
	MinimumFlipsPerSection = 1024
	MaximumFlips           = 50000000
)

// durations in seconds
const (
	SessionDuration      int64 = 60 * 60 * 24 * 7 * 4
	AccessSignerDuration int64 = 60 * 60 * 24
)

// token supply
const (
	TokenDecimals    = 0
	TotalBitTokens   = 1024 * 1024 * 1024
	TokensPerGame    = TotalBitTokens / 8
	TokensPerSection = 1024 * 256
)

// native value
const (
	LamportsPerSol       = 1000000000
	BaseLamportsPerBit   = LamportsPerSol / 100 / 100
	TransactionFee       = 5000
	RefreshSignerFunding = TransactionFee * 1000
)

// rent exemption: (overhead + data bytes) × lamports per byte year × years
const (
	AccountStorageOverhead = 128
	LamportsPerByteYear    = 3480
	ExemptionYears         = 2
)
