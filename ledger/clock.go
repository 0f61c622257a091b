// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"time"
)

//go:generate mockgen -source=clock.go -destination=mocks/clock.go -package=mocks

// Clock - the ledger's notion of the current unix time in seconds
type Clock interface {
	Now() int64
}

// SystemClock - wall clock time
type SystemClock struct{}

// Now - current unix seconds
func (SystemClock) Now() int64 {
	return time.Now().Unix()
}
