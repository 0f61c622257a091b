// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
)

// Handle - read access to a pool
type Handle interface {
	Get(key []byte) []byte
	Has(key []byte) bool
}

// PoolHandle - one prefix separated pool
type PoolHandle struct {
	prefix byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Get - read a value for a given key, nil if not found
//
// the result is a private copy
func (p *PoolHandle) Get(key []byte) []byte {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return nil
	}

	prefixedKey := p.prefixKey(key)
	if value, found := poolData.cache.get(prefixedKey); found {
		return append([]byte{}, value...)
	}

	value, err := poolData.db.Get(prefixedKey, nil)
	if leveldb.ErrNotFound == err {
		return nil
	}
	logger.PanicIfError("pool.Get", err)

	poolData.cache.set(prefixedKey, value)
	return append([]byte{}, value...)
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) bool {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return false
	}

	prefixedKey := p.prefixKey(key)
	if _, found := poolData.cache.get(prefixedKey); found {
		return true
	}

	found, err := poolData.db.Has(prefixedKey, nil)
	logger.PanicIfError("pool.Has", err)
	return found
}
