// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"runtime"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitflip-art/bitflipd/ledger"
)

const (
	statsDelay = 60 * time.Second
	mega       = 1048576
)

// periodic memory and ledger counters
type statistics struct {
	log  *logger.L
	host *ledger.Host
}

func newStatistics(host *ledger.Host) *statistics {
	return &statistics{
		log:  logger.New("stats"),
		host: host,
	}
}

func (s *statistics) Run(args interface{}, shutdown <-chan struct{}) {
	ticker := time.NewTicker(statsDelay)
	defer ticker.Stop()

	for {
		s.report()
		select {
		case <-shutdown:
			return
		case <-ticker.C:
		}
	}
}

func (s *statistics) report() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	a := m.Alloc / mega
	t := m.TotalAlloc / mega
	v := m.Sys / mega
	s.log.Infof("allocated: %d M  cumulative: %d M  OS virtual: %d M", a, t, v)
	s.log.Infof("applied: %d  rejected: %d", s.host.Applied.Uint64(), s.host.Rejected.Uint64())
}
