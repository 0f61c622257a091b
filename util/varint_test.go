// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitflip-art/bitflipd/util"
)

var varintItems = []struct {
	value   uint64
	encoded []byte
}{
	{0x00, []byte{0x00}},
	{0x01, []byte{0x01}},
	{0x7f, []byte{0x7f}},
	{0x80, []byte{0x80, 0x01}},
	{0x0100, []byte{0x80, 0x02}},
	{0x3fff, []byte{0xff, 0x7f}},
	{0x4000, []byte{0x80, 0x80, 0x01}},
	{0xffffffffffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}},
	{0x8000000000000000, []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80}},
}

func TestToVarint64(t *testing.T) {
	for i, item := range varintItems {
		result := util.ToVarint64(item.value)
		if !bytes.Equal(item.encoded, result) {
			t.Errorf("%d: value: 0x%x  expected: %x  actual: %x", i, item.value, item.encoded, result)
		}
	}
}

func TestFromVarint64(t *testing.T) {
	for i, item := range varintItems {
		buffer := append(append([]byte{}, item.encoded...), 0xaa, 0x55)
		value, count := util.FromVarint64(buffer)
		assert.Equal(t, item.value, value, "%d: value", i)
		assert.Equal(t, len(item.encoded), count, "%d: count", i)
	}
}

func TestFromVarint64Truncated(t *testing.T) {
	for _, buffer := range [][]byte{nil, {0x80}, {0xff, 0xff}} {
		value, count := util.FromVarint64(buffer)
		assert.Equal(t, uint64(0), value, "truncated value: %x", buffer)
		assert.Equal(t, 0, count, "truncated count: %x", buffer)
	}
}

func TestClippedVarint64(t *testing.T) {
	value, count := util.ClippedVarint64([]byte{0x10}, 1, 16)
	assert.Equal(t, 16, value, "in range")
	assert.Equal(t, 1, count, "in range count")

	value, count = util.ClippedVarint64([]byte{0x11}, 1, 16)
	assert.Equal(t, 0, value, "above range")
	assert.Equal(t, 0, count, "above range count")

	value, count = util.ClippedVarint64([]byte{0x00}, 1, 16)
	assert.Equal(t, 0, count, "below range count")
}
