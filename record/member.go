// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"github.com/bitflip-art/bitflipd/constants"
)

// Member - one of the reward token tiers
type Member uint8

// token tiers; only the single bit tier has a supply
const (
	MemberBit Member = iota
	MemberKibibit
	MemberMebibit
	MemberGibibit
	memberLimit
)

// MemberCount - number of tiers
const MemberCount = int(memberLimit)

var memberNames = [...]string{"BIT", "KIBIBIT", "MEBIBIT", "GIBIBIT"}

// Valid - check tier range
func (m Member) Valid() bool {
	return m < memberLimit
}

// String - ticker name
func (m Member) String() string {
	if !m.Valid() {
		return "INVALID"
	}
	return memberNames[m]
}

// Supply - the fixed amount minted into the treasury at initialisation
func (m Member) Supply() uint64 {
	if MemberBit == m {
		return constants.TotalBitTokens
	}
	return 0
}
