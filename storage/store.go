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

// Package storage defines the contract an ordered byte-keyed store must
// fulfill to back the durable prefix of a staged tree. Writes only happen
// through atomic batches of mutations.
package storage

import (
	"errors"
)

// Table prefixes. Every key is stored prefixed by the byte of the table
// it belongs to, which keeps tables apart in a single keyspace.
const (
	LeafPrefix   = byte(0x0)
	FrozenPrefix = byte(0x1)
	MetaPrefix   = byte(0x2)
)

var (
	// ErrKeyNotFound is returned by point gets when the key is not
	// present in the given table.
	ErrKeyNotFound = errors.New("key not found")
)

// Store is the contract of the underlying durable storage engine: point
// reads, ordered range reads and atomic batched writes.
type Store interface {
	Mutate(mutations []*Mutation) error
	GetRange(prefix byte, start, end []byte) (KVRange, error)
	Get(prefix byte, key []byte) (*KVPair, error)
	GetAll(prefix byte) KVPairReader
	GetLast(prefix byte) (*KVPair, error)
	Close() error
}

// Mutation is a single write of a batch. The whole batch is applied
// atomically or not at all.
type Mutation struct {
	Prefix     byte
	Key, Value []byte
}

func NewMutation(prefix byte, key, value []byte) *Mutation {
	return &Mutation{prefix, key, value}
}

type KVPair struct {
	Key, Value []byte
}

func NewKVPair(key, value []byte) KVPair {
	return KVPair{Key: key, Value: value}
}

// KVRange is an ordered list of pairs as returned by range reads.
type KVRange []KVPair

// KVPairReader streams the contents of a whole table in key order.
type KVPairReader interface {
	Read([]*KVPair) (n int, err error)
	Close()
}
