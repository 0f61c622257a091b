// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitflip-art/bitflipd/fault"
)

type stringer string

func (s stringer) String() string { return string(s) }

// test that the error classes can be distinguished
func TestClasses(t *testing.T) {
	errorList := []struct {
		err        error
		shape      bool
		auth       bool
		address    bool
		lifecycle  bool
		arithmetic bool
		unchanged  bool
		host       bool
	}{
		{fault.ErrNotEnoughAccountKeys, true, false, false, false, false, false, false},
		{fault.ErrInvalidBitOffset, true, false, false, false, false, false, false},
		{fault.ErrUnauthorizedAdmin, false, true, false, false, false, false, false},
		{fault.ErrGameSignerInvalid, false, true, false, false, false, false, false},
		{fault.ErrInvalidSeeds, false, false, true, false, false, false, false},
		{fault.ErrGameNotRunning, false, false, false, true, false, false, false},
		{fault.ErrMinimumFlipThreshold, false, false, false, true, false, false, false},
		{fault.ErrArithmeticOverflow, false, false, false, false, true, false, false},
		{fault.ErrBitsUnchanged, false, false, false, false, false, true, false},
		{fault.ErrDuplicateTransaction, false, false, false, false, false, false, true},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrShape(err) != e.shape {
			t.Errorf("%d: expected 'shape' == %v for err = %v", i, e.shape, err)
		}
		if fault.IsErrAuthorisation(err) != e.auth {
			t.Errorf("%d: expected 'authorisation' == %v for err = %v", i, e.auth, err)
		}
		if fault.IsErrAddress(err) != e.address {
			t.Errorf("%d: expected 'address' == %v for err = %v", i, e.address, err)
		}
		if fault.IsErrLifecycle(err) != e.lifecycle {
			t.Errorf("%d: expected 'lifecycle' == %v for err = %v", i, e.lifecycle, err)
		}
		if fault.IsErrArithmetic(err) != e.arithmetic {
			t.Errorf("%d: expected 'arithmetic' == %v for err = %v", i, e.arithmetic, err)
		}
		if fault.IsErrUnchanged(err) != e.unchanged {
			t.Errorf("%d: expected 'unchanged' == %v for err = %v", i, e.unchanged, err)
		}
		if fault.IsErrHost(err) != e.host {
			t.Errorf("%d: expected 'host' == %v for err = %v", i, e.host, err)
		}
	}
}

func TestCode(t *testing.T) {
	assert.Equal(t, fault.CodeSuccess, fault.Code(nil), "nil error")
	assert.Equal(t, fault.ErrorCode(1), fault.Code(fault.ErrNotEnoughAccountKeys), "first shape code")
	assert.Equal(t, fault.ErrorCode(90), fault.Code(fault.ErrBitsUnchanged), "unchanged code")
	assert.Equal(t, fault.CodeUnknown, fault.Code(errors.New("other")), "unknown error")
}

func TestAccountError(t *testing.T) {
	err := fault.ForAccount(5, "section", stringer("Key1"), fault.ErrInvalidSeeds)

	assert.True(t, errors.Is(err, fault.ErrInvalidSeeds), "wrapped error is visible")
	assert.True(t, fault.IsErrAddress(err), "class survives wrapping")
	assert.Equal(t, fault.ErrorCode(40), fault.Code(err), "code survives wrapping")
	assert.Equal(t, "account[5] section: Key1: invalid seeds", err.Error(), "message")

	assert.Nil(t, fault.ForAccount(0, "x", stringer("y"), nil), "nil stays nil")
}
