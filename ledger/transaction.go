// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitflip-art/bitflipd/account"
	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/util"
)

// account meta flag bits
const (
	flagSigner   = 0x01
	flagWritable = 0x02
)

// limits on decoded sizes
const (
	maximumAccounts = 64
	maximumData     = 65536
)

// AccountMeta - one account reference in a message
type AccountMeta struct {
	Key        address.Address
	IsSigner   bool
	IsWritable bool
}

// Message - the signed part of a transaction
//
// Nonce is chosen by the submitter so identical operations can be
// submitted more than once
type Message struct {
	Nonce    uint64
	Accounts []AccountMeta
	Data     []byte
}

// Transaction - a message and one signature per signer account
type Transaction struct {
	Message    Message
	Signatures [][]byte
}

// Pack - encode a message
//
//	nonce       Varint64
//	count       Varint64
//	accounts    count × (key[32] flags[1])
//	data length Varint64
//	data
func (m *Message) Pack() []byte {
	buffer := util.ToVarint64(m.Nonce)
	buffer = append(buffer, util.ToVarint64(uint64(len(m.Accounts)))...)
	for _, a := range m.Accounts {
		flags := byte(0)
		if a.IsSigner {
			flags |= flagSigner
		}
		if a.IsWritable {
			flags |= flagWritable
		}
		buffer = append(buffer, a.Key[:]...)
		buffer = append(buffer, flags)
	}
	buffer = append(buffer, util.ToVarint64(uint64(len(m.Data)))...)
	return append(buffer, m.Data...)
}

// Signers - keys that must sign, in account order
func (m *Message) Signers() []address.Address {
	signers := make([]address.Address, 0, len(m.Accounts))
	for _, a := range m.Accounts {
		if a.IsSigner {
			signers = append(signers, a.Key)
		}
	}
	return signers
}

// ID - the transaction id
func (t *Transaction) ID() TransactionID {
	return NewTransactionID(t.Message.Pack())
}

// Sign - add signatures from the given key pairs in signer order
//
// every signer of the message must have a key pair
func (t *Transaction) Sign(keys ...*account.KeyPair) error {
	byKey := make(map[address.Address]*account.KeyPair, len(keys))
	for _, k := range keys {
		byKey[k.Public] = k
	}

	message := t.Message.Pack()
	signers := t.Message.Signers()
	t.Signatures = make([][]byte, len(signers))
	for i, s := range signers {
		k, ok := byKey[s]
		if !ok {
			return fault.ErrMissingRequiredSignature
		}
		t.Signatures[i] = k.Sign(message)
	}
	return nil
}

// Verify - check every signer signature
func (t *Transaction) Verify() error {
	message := t.Message.Pack()
	signers := t.Message.Signers()
	if len(signers) != len(t.Signatures) {
		return fault.ErrSignatureCount
	}
	for i, s := range signers {
		if !account.Verify(s, message, t.Signatures[i]) {
			return fault.ErrInvalidSignature
		}
	}
	return nil
}

// Pack - encode message followed by fixed length signatures
func (t *Transaction) Pack() []byte {
	buffer := t.Message.Pack()
	for _, s := range t.Signatures {
		buffer = append(buffer, s...)
	}
	return buffer
}

// UnpackTransaction - decode a packed transaction
func UnpackTransaction(buffer []byte) (*Transaction, error) {
	t := &Transaction{}
	m := &t.Message

	nonce, n := util.FromVarint64(buffer)
	if 0 == n {
		return nil, fault.ErrTransactionTruncated
	}
	m.Nonce = nonce
	buffer = buffer[n:]

	count, n := util.ClippedVarint64(buffer, 0, maximumAccounts)
	if 0 == n {
		return nil, fault.ErrTransactionTruncated
	}
	buffer = buffer[n:]

	m.Accounts = make([]AccountMeta, count)
	for i := range m.Accounts {
		if len(buffer) < address.Length+1 {
			return nil, fault.ErrTransactionTruncated
		}
		copy(m.Accounts[i].Key[:], buffer[:address.Length])
		flags := buffer[address.Length]
		if 0 != flags&^(flagSigner|flagWritable) {
			return nil, fault.ErrInvalidInstructionData
		}
		m.Accounts[i].IsSigner = 0 != flags&flagSigner
		m.Accounts[i].IsWritable = 0 != flags&flagWritable
		buffer = buffer[address.Length+1:]
	}

	length, n := util.ClippedVarint64(buffer, 0, maximumData)
	if 0 == n || len(buffer)-n < length {
		return nil, fault.ErrTransactionTruncated
	}
	m.Data = append([]byte{}, buffer[n:n+length]...)
	buffer = buffer[n+length:]

	signers := len(m.Signers())
	if len(buffer) != signers*account.SignatureLength {
		return nil, fault.ErrSignatureCount
	}
	t.Signatures = make([][]byte, signers)
	for i := range t.Signatures {
		t.Signatures[i] = append([]byte{}, buffer[:account.SignatureLength]...)
		buffer = buffer[account.SignatureLength:]
	}
	return t, nil
}
