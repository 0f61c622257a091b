// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - ed25519 credentials that sign ledger transactions
package account

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"io/ioutil"

	"golang.org/x/crypto/ed25519"

	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/fault"
)

// SignatureLength - bytes in an ed25519 signature
const SignatureLength = ed25519.SignatureSize

// KeyPair - a credential able to sign
type KeyPair struct {
	Public  address.Address
	private ed25519.PrivateKey
}

// the on-disk form of a key pair
type rawKeyPair struct {
	PublicKey string `json:"public_key"`
	Seed      string `json:"seed"`
}

// NewKeyPair - generate a key pair from a random source
func NewKeyPair(random io.Reader) (*KeyPair, error) {
	_, private, err := ed25519.GenerateKey(random)
	if nil != err {
		return nil, err
	}
	return fromPrivate(private), nil
}

// KeyPairFromSeed - the deterministic key pair for a 32 byte seed
func KeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if ed25519.SeedSize != len(seed) {
		return nil, fault.ErrInvalidKeyLength
	}
	return fromPrivate(ed25519.NewKeyFromSeed(seed)), nil
}

func fromPrivate(private ed25519.PrivateKey) *KeyPair {
	kp := &KeyPair{
		private: private,
	}
	copy(kp.Public[:], private.Public().(ed25519.PublicKey))
	return kp
}

// Sign - sign a message
func (kp *KeyPair) Sign(message []byte) []byte {
	return ed25519.Sign(kp.private, message)
}

// Verify - check a signature made by the holder of public
func Verify(public address.Address, message []byte, signature []byte) bool {
	if SignatureLength != len(signature) {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(public[:]), message, signature)
}

// Save - write the key pair as JSON
func (kp *KeyPair) Save(fileName string) error {
	raw := rawKeyPair{
		PublicKey: kp.Public.String(),
		Seed:      hex.EncodeToString(kp.private.Seed()),
	}
	buffer, err := json.MarshalIndent(raw, "", "  ")
	if nil != err {
		return err
	}
	return ioutil.WriteFile(fileName, buffer, 0600)
}

// Load - read a key pair written by Save
func Load(fileName string) (*KeyPair, error) {
	buffer, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	var raw rawKeyPair
	if err := json.Unmarshal(buffer, &raw); nil != err {
		return nil, err
	}
	seed, err := hex.DecodeString(raw.Seed)
	if nil != err {
		return nil, fault.ErrInvalidKeyFile
	}
	kp, err := KeyPairFromSeed(seed)
	if nil != err {
		return nil, err
	}
	if kp.Public.String() != raw.PublicKey {
		return nil, fault.ErrInvalidKeyFile
	}
	return kp, nil
}
