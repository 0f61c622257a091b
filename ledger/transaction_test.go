// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitflip-art/bitflipd/account"
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/ledger"
)

func newKey(t *testing.T) *account.KeyPair {
	kp, err := account.NewKeyPair(rand.Reader)
	require.Nil(t, err, "generate key")
	return kp
}

func TestTransactionPackUnpack(t *testing.T) {
	alice := newKey(t)
	bob := newKey(t)

	tx := &ledger.Transaction{
		Message: ledger.Message{
			Nonce: 300,
			Accounts: []ledger.AccountMeta{
				{Key: alice.Public, IsSigner: true, IsWritable: true},
				{Key: address.Address{7}, IsWritable: true},
				{Key: bob.Public, IsSigner: true},
			},
			Data: []byte{20, 0, 0, 1, 1, 0, 0, 0, 0},
		},
	}
	require.Nil(t, tx.Sign(bob, alice), "sign")
	assert.Nil(t, tx.Verify(), "verify")

	decoded, err := ledger.UnpackTransaction(tx.Pack())
	require.Nil(t, err, "unpack")
	assert.Equal(t, tx, decoded, "round trip")
	assert.Equal(t, tx.ID(), decoded.ID(), "same id")
	assert.Nil(t, decoded.Verify(), "decoded verifies")
}

func TestTransactionSignatures(t *testing.T) {
	alice := newKey(t)
	bob := newKey(t)

	tx := &ledger.Transaction{
		Message: ledger.Message{
			Accounts: []ledger.AccountMeta{
				{Key: alice.Public, IsSigner: true},
				{Key: bob.Public, IsSigner: true},
			},
		},
	}
	assert.Equal(t, fault.ErrMissingRequiredSignature, tx.Sign(alice), "missing key")

	require.Nil(t, tx.Sign(alice, bob), "sign")
	tx.Signatures[0], tx.Signatures[1] = tx.Signatures[1], tx.Signatures[0]
	assert.Equal(t, fault.ErrInvalidSignature, tx.Verify(), "swapped signatures")

	tx.Signatures = tx.Signatures[:1]
	assert.Equal(t, fault.ErrSignatureCount, tx.Verify(), "too few signatures")

	require.Nil(t, tx.Sign(alice, bob), "sign again")
	tx.Message.Nonce = 1
	assert.Equal(t, fault.ErrInvalidSignature, tx.Verify(), "message changed after signing")
}

func TestUnpackTruncated(t *testing.T) {
	alice := newKey(t)
	tx := &ledger.Transaction{
		Message: ledger.Message{
			Accounts: []ledger.AccountMeta{{Key: alice.Public, IsSigner: true}},
			Data:     []byte{1, 2, 3},
		},
	}
	require.Nil(t, tx.Sign(alice), "sign")
	packed := tx.Pack()

	_, err := ledger.UnpackTransaction(packed[:len(packed)-1])
	assert.Equal(t, fault.ErrSignatureCount, err, "short signature")

	_, err = ledger.UnpackTransaction(packed[:20])
	assert.Equal(t, fault.ErrTransactionTruncated, err, "short account")

	_, err = ledger.UnpackTransaction(nil)
	assert.Equal(t, fault.ErrTransactionTruncated, err, "empty")

	bad := append([]byte{}, packed...)
	bad[2+address.Length] = 0x80
	_, err = ledger.UnpackTransaction(bad)
	assert.Equal(t, fault.ErrInvalidInstructionData, err, "unknown flag")
}

func TestTransactionIDText(t *testing.T) {
	id := ledger.NewTransactionID([]byte("message"))
	text, err := id.MarshalText()
	require.Nil(t, err, "marshal")

	var decoded ledger.TransactionID
	require.Nil(t, decoded.UnmarshalText(text), "unmarshal")
	assert.Equal(t, id, decoded, "round trip")
	assert.Equal(t, fault.ErrTransactionTruncated, decoded.UnmarshalText(text[:10]), "short text")
}

func TestMinimumBalance(t *testing.T) {
	assert.Equal(t, uint64(890880), ledger.MinimumBalance(0), "empty account")
	assert.True(t, ledger.MinimumBalance(568) > ledger.MinimumBalance(88), "grows with size")
}
