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

// Package storage provides store fixtures for tests.
package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vertree/vertree/storage/badger"
	"github.com/vertree/vertree/storage/bolt"
	"github.com/vertree/vertree/storage/bplus"
)

// OpenBadgerStore opens a badger store under a fresh temporary
// directory. The returned close function must be deferred.
func OpenBadgerStore(t *testing.T) (*badger.BadgerStore, func()) {
	store, err := badger.NewBadgerStore(filepath.Join(t.TempDir(), "badger"))
	require.NoError(t, err)
	return store, func() {
		require.NoError(t, store.Close())
	}
}

// OpenBoltStore opens a bolt store backed by a fresh temporary file.
func OpenBoltStore(t *testing.T) (*bolt.BoltStore, func()) {
	store, err := bolt.NewBoltStore(filepath.Join(t.TempDir(), "bolt.db"))
	require.NoError(t, err)
	return store, func() {
		require.NoError(t, store.Close())
	}
}

// OpenBPlusTreeStore opens an in-memory store.
func OpenBPlusTreeStore() (*bplus.BPlusTreeStore, func()) {
	store := bplus.NewBPlusTreeStore()
	return store, func() {
		store.Close()
	}
}
