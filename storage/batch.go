// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/bitflip-art/bitflipd/fault"
)

// Batch - writes that are committed together
type Batch struct {
	batch   *leveldb.Batch
	pending map[string][]byte
}

// NewBatch - an empty batch
func NewBatch() *Batch {
	return &Batch{
		batch:   new(leveldb.Batch),
		pending: make(map[string][]byte),
	}
}

// Put - queue a key/value pair for a pool
func (b *Batch) Put(p *PoolHandle, key []byte, value []byte) {
	prefixedKey := p.prefixKey(key)
	stored := append([]byte{}, value...)
	b.batch.Put(prefixedKey, stored)
	b.pending[string(prefixedKey)] = stored
}

// Len - number of queued writes
func (b *Batch) Len() int {
	return b.batch.Len()
}

// Commit - write every queued pair atomically
func (b *Batch) Commit() error {
	poolData.Lock()
	defer poolData.Unlock()
	if nil == poolData.db {
		return fault.ErrNotInitialised
	}

	if err := poolData.db.Write(b.batch, nil); nil != err {
		return err
	}
	for k, v := range b.pending {
		poolData.cache.set([]byte(k), v)
	}
	b.batch.Reset()
	b.pending = make(map[string][]byte)
	return nil
}
