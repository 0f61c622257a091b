// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitflip-art/bitflipd/chain"
)

func TestValid(t *testing.T) {
	for _, name := range []string{chain.Bitflip, chain.Testing, chain.Local} {
		assert.True(t, chain.Valid(name), "valid: %s", name)
	}
	for _, name := range []string{"", "bitmark", "Local"} {
		assert.False(t, chain.Valid(name), "invalid: %q", name)
	}
	assert.False(t, chain.IsTesting(chain.Bitflip), "live chain")
	assert.True(t, chain.IsTesting(chain.Local), "local chain")
}

func TestProgramIdentifier(t *testing.T) {
	live := chain.ProgramIdentifier(chain.Bitflip)
	test := chain.ProgramIdentifier(chain.Testing)

	assert.NotEqual(t, live, test, "chains are separated")
	assert.Equal(t, live, chain.ProgramIdentifier(chain.Bitflip), "stable")
}
