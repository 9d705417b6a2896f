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

// Package bolt implements the storage contract over a single-file bbolt
// database with one bucket per table.
package bolt

import (
	"bytes"

	bolt "go.etcd.io/bbolt"

	"github.com/vertree/vertree/storage"
)

type BoltStore struct {
	db *bolt.DB
}

// buckets returns the bucket name of a table prefix.
func bucket(prefix byte) []byte {
	return []byte{prefix}
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, p := range []byte{storage.LeafPrefix, storage.FrozenPrefix, storage.MetaPrefix} {
			if _, err := tx.CreateBucketIfNotExists(bucket(p)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

func (s BoltStore) Mutate(mutations []*storage.Mutation) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, m := range mutations {
			b := tx.Bucket(bucket(m.Prefix))
			if err := b.Put(m.Key, m.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s BoltStore) Get(prefix byte, key []byte) (*storage.KVPair, error) {
	result := new(storage.KVPair)
	result.Key = key
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucket(prefix)).Get(key)
		if value == nil {
			return storage.ErrKeyNotFound
		}
		result.Value = append([]byte{}, value...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s BoltStore) GetRange(prefix byte, start, end []byte) (storage.KVRange, error) {
	result := make(storage.KVRange, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucket(prefix)).Cursor()
		for k, v := c.Seek(start); k != nil && bytes.Compare(k, end) <= 0; k, v = c.Next() {
			key := append([]byte{}, k...)
			value := append([]byte{}, v...)
			result = append(result, storage.KVPair{Key: key, Value: value})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s BoltStore) GetLast(prefix byte) (*storage.KVPair, error) {
	result := new(storage.KVPair)
	err := s.db.View(func(tx *bolt.Tx) error {
		k, v := tx.Bucket(bucket(prefix)).Cursor().Last()
		if k == nil {
			return storage.ErrKeyNotFound
		}
		result.Key = append([]byte{}, k...)
		result.Value = append([]byte{}, v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type BoltKVPairReader struct {
	prefix  byte
	db      *bolt.DB
	lastKey []byte
}

func NewBoltKVPairReader(prefix byte, db *bolt.DB) *BoltKVPairReader {
	return &BoltKVPairReader{prefix: prefix, db: db}
}

func (r *BoltKVPairReader) Read(buffer []*storage.KVPair) (n int, err error) {
	err = r.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucket(r.prefix)).Cursor()
		var k, v []byte
		if r.lastKey == nil {
			k, v = c.First()
		} else {
			c.Seek(r.lastKey)
			k, v = c.Next()
		}
		for ; k != nil && n < len(buffer); k, v = c.Next() {
			key := append([]byte{}, k...)
			value := append([]byte{}, v...)
			buffer[n] = &storage.KVPair{Key: key, Value: value}
			r.lastKey = key
			n++
		}
		return nil
	})
	return n, err
}

func (r *BoltKVPairReader) Close() {
	r.db = nil
}

func (s BoltStore) GetAll(prefix byte) storage.KVPairReader {
	return NewBoltKVPairReader(prefix, s.db)
}

func (s BoltStore) Close() error {
	return s.db.Close()
}
