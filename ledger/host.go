// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"encoding/json"
	"math/bits"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bitflip-art/bitflipd/address"
	"github.com/bitflip-art/bitflipd/counter"
	"github.com/bitflip-art/bitflipd/fault"
	"github.com/bitflip-art/bitflipd/storage"
)

// Program - executes one instruction against loaded accounts
//
// accounts are mutated in place; any error discards every change
type Program interface {
	Execute(invocation *Invocation) error
}

// Invocation - everything a program sees for one transaction
//
// the same key appearing twice shares one *Account
type Invocation struct {
	Program  address.Address
	Accounts []*Account
	Data     []byte
	Now      int64
}

// Receipt - outcome of one submission
type Receipt struct {
	ID    TransactionID   `json:"id"`
	Code  fault.ErrorCode `json:"code"`
	Error string          `json:"error,omitempty"`
}

// Handles - storage pools used by the host
type Handles struct {
	Accounts     *storage.PoolHandle
	Transactions *storage.PoolHandle
	Receipts     *storage.PoolHandle
}

// Host - applies transactions one at a time, all or nothing
type Host struct {
	sync.Mutex

	log      *logger.L
	program  address.Address
	executor Program
	clock    Clock
	handles  Handles

	Applied  counter.Counter
	Rejected counter.Counter
}

// NewHost - a host for a single program
func NewHost(program address.Address, executor Program, clock Clock, handles Handles) *Host {
	return &Host{
		log:      logger.New("ledger"),
		program:  program,
		executor: executor,
		clock:    clock,
		handles:  handles,
	}
}

// Account - current stored state of key; unknown keys are empty system accounts
func (h *Host) Account(key address.Address) (*Account, error) {
	buffer := h.handles.Accounts.Get(key[:])
	if nil == buffer {
		return &Account{Key: key}, nil
	}
	return unpackAccount(key, buffer)
}

// Receipt - receipt of a committed transaction
func (h *Host) Receipt(id TransactionID) (*Receipt, bool) {
	buffer := h.handles.Receipts.Get(id[:])
	if nil == buffer {
		return nil, false
	}
	var r Receipt
	if err := json.Unmarshal(buffer, &r); nil != err {
		return nil, false
	}
	return &r, true
}

// Fund - credit lamports from outside the ledger; only for test chains
func (h *Host) Fund(key address.Address, lamports uint64) error {
	h.Lock()
	defer h.Unlock()

	a, err := h.Account(key)
	if nil != err {
		return err
	}
	total, carry := bits.Add64(a.Lamports, lamports, 0)
	if 0 != carry {
		return fault.ErrArithmeticOverflow
	}
	a.Lamports = total

	b := storage.NewBatch()
	b.Put(h.handles.Accounts, key[:], a.pack())
	h.log.Infof("fund: %s  lamports: %d", key, lamports)
	return b.Commit()
}

// Submit - apply a transaction
//
// rejections are reported in the receipt; the error return is only
// for storage failures
func (h *Host) Submit(t *Transaction) (*Receipt, error) {
	h.Lock()
	defer h.Unlock()

	id := t.ID()
	receipt := &Receipt{
		ID: id,
	}

	b, err := h.apply(t, id)
	if nil != err {
		h.Rejected.Increment()
		receipt.Code = fault.Code(err)
		receipt.Error = err.Error()
		h.log.Debugf("rejected: %s  code: %d  error: %s", id, receipt.Code, err)
		return receipt, nil
	}

	r, err := json.Marshal(receipt)
	if nil != err {
		return nil, err
	}
	b.Put(h.handles.Transactions, id[:], []byte{})
	b.Put(h.handles.Receipts, id[:], r)
	writes := b.Len()
	if err := b.Commit(); nil != err {
		h.log.Criticalf("commit: %s  error: %s", id, err)
		return nil, err
	}
	h.Applied.Increment()
	h.log.Debugf("applied: %s  writes: %d", id, writes)
	return receipt, nil
}

// run the program and return the batch of account writes
func (h *Host) apply(t *Transaction, id TransactionID) (*storage.Batch, error) {
	if h.handles.Transactions.Has(id[:]) {
		return nil, fault.ErrDuplicateTransaction
	}
	if err := t.Verify(); nil != err {
		return nil, err
	}

	unique := make(map[address.Address]*Account)
	originals := make(map[address.Address]*Account)
	order := make([]address.Address, 0, len(t.Message.Accounts))
	accounts := make([]*Account, len(t.Message.Accounts))

	for i, meta := range t.Message.Accounts {
		a, ok := unique[meta.Key]
		if !ok {
			loaded, err := h.Account(meta.Key)
			if nil != err {
				return nil, err
			}
			a = loaded
			unique[meta.Key] = a
			order = append(order, meta.Key)
		}
		a.IsSigner = a.IsSigner || meta.IsSigner
		a.IsWritable = a.IsWritable || meta.IsWritable
		accounts[i] = a
	}
	for k, a := range unique {
		originals[k] = a.Clone()
	}

	invocation := &Invocation{
		Program:  h.program,
		Accounts: accounts,
		Data:     t.Message.Data,
		Now:      h.clock.Now(),
	}
	if err := h.executor.Execute(invocation); nil != err {
		return nil, err
	}

	if err := h.verifyChanges(order, originals, unique); nil != err {
		h.log.Warnf("program broke host rules: %s  error: %s", id, err)
		return nil, err
	}

	b := storage.NewBatch()
	for _, k := range order {
		a := unique[k]
		if !a.equal(originals[k]) {
			b.Put(h.handles.Accounts, k[:], a.pack())
		}
	}
	return b, nil
}

// the rules the program cannot break
func (h *Host) verifyChanges(order []address.Address, originals map[address.Address]*Account, current map[address.Address]*Account) error {
	var before, after, carry uint64
	for _, k := range order {
		pre := originals[k]
		post := current[k]

		var c uint64
		before, c = bits.Add64(before, pre.Lamports, 0)
		carry |= c
		after, c = bits.Add64(after, post.Lamports, 0)
		carry |= c

		if post.equal(pre) {
			continue
		}
		if !pre.IsWritable {
			return fault.ErrReadonlyAccountModified
		}
		if post.Owner != pre.Owner {
			claimable := pre.Owner.IsZero() && 0 == len(pre.Data) && post.Owner == h.program
			if !claimable {
				return fault.ErrAccountOwnerChanged
			}
		}
		if !bytes.Equal(post.Data, pre.Data) && post.Owner != h.program {
			return fault.ErrExternalAccountDataChange
		}
		if post.Lamports < pre.Lamports {
			owned := pre.Owner == h.program
			signed := pre.Owner.IsZero() && pre.IsSigner
			if !owned && !signed {
				return fault.ErrExternalAccountDebited
			}
		}
	}
	if 0 != carry || before != after {
		return fault.ErrLamportsNotConserved
	}
	return nil
}
