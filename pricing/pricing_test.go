// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitflip-art/bitflipd/constants"
	"github.com/bitflip-art/bitflipd/pricing"
)

const base = constants.BaseLamportsPerBit

func TestPrice(t *testing.T) {
	d := constants.SessionDuration
	items := []struct {
		remaining int64
		price     uint64
	}{
		{d, base},
		{d + 1000, base},
		{d / 2, base + base/2},
		{d / 4, base + base*3/4},
		{0, 2 * base},
		{-5, 2 * base},
	}
	for i, item := range items {
		assert.Equal(t, item.price, pricing.Price(item.remaining), "%d: remaining: %d", i, item.remaining)
	}
}

func TestPriceNonIncreasing(t *testing.T) {
	previous := pricing.Price(-1)
	for remaining := int64(0); remaining <= constants.SessionDuration; remaining += 3600 {
		p := pricing.Price(remaining)
		if p > previous {
			t.Fatalf("price rose with more time left: remaining: %d  price: %d  previous: %d", remaining, p, previous)
		}
		previous = p
	}
}

func TestCost(t *testing.T) {
	c, err := pricing.Cost(constants.SessionDuration, 3)
	assert.Nil(t, err, "cost")
	assert.Equal(t, uint64(3*base), c, "three flips at base")

	c, err = pricing.Cost(0, 0)
	assert.Nil(t, err, "zero flips")
	assert.Equal(t, uint64(0), c, "nothing to pay")
}
