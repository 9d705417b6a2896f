/*
   Copyright 2024 Vertree Contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package cache implements the caches used to hold frozen interior node
// hashes of the staged tree.
package cache

import (
	"github.com/vertree/vertree/storage"
)

// Cache is a read-through key-value cache of node hashes, keyed by the
// node's position bytes.
type Cache interface {
	Get(key []byte) ([]byte, bool)
	Put(key, value []byte)
	Fill(r storage.KVPairReader) error
	Size() int
}

// PassThroughCache reads directly from a storage table without caching
// anything in memory.
type PassThroughCache struct {
	prefix byte
	store  storage.Store
}

func NewPassThroughCache(prefix byte, store storage.Store) *PassThroughCache {
	return &PassThroughCache{prefix, store}
}

func (c PassThroughCache) Get(key []byte) ([]byte, bool) {
	pair, err := c.store.Get(c.prefix, key)
	if err != nil {
		return nil, false
	}
	return pair.Value, true
}

func (c PassThroughCache) Put(key, value []byte) {
	// writes reach the store through commit batches, not through the cache
}

func (c PassThroughCache) Fill(r storage.KVPairReader) error {
	r.Close()
	return nil
}

func (c PassThroughCache) Size() int {
	return 0
}
