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

package bplus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertree/vertree/storage"
	"github.com/vertree/vertree/util"
)

func TestMutateAndGet(t *testing.T) {
	store := NewBPlusTreeStore()
	defer store.Close()

	tests := []struct {
		testname   string
		prefix     byte
		key, value []byte
	}{
		{"leaf entry", storage.LeafPrefix, util.Uint64AsBytes(0), []byte{0x11}},
		{"frozen entry", storage.FrozenPrefix, []byte{0x0, 0x1, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0, 0x0}, []byte{0x22}},
		{"meta entry", storage.MetaPrefix, []byte("size"), util.Uint64AsBytes(1)},
	}

	for _, test := range tests {
		err := store.Mutate([]*storage.Mutation{
			storage.NewMutation(test.prefix, test.key, test.value),
		})
		require.NoErrorf(t, err, "%s: mutation error", test.testname)

		pair, err := store.Get(test.prefix, test.key)
		require.NoErrorf(t, err, "%s: get error", test.testname)
		assert.Equalf(t, test.key, pair.Key, "%s: unexpected key", test.testname)
		assert.Equalf(t, test.value, pair.Value, "%s: unexpected value", test.testname)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := NewBPlusTreeStore()
	defer store.Close()

	_, err := store.Get(storage.LeafPrefix, util.Uint64AsBytes(42))
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestGetRange(t *testing.T) {
	store := NewBPlusTreeStore()
	defer store.Close()

	var mutations []*storage.Mutation
	for i := uint64(0); i < 10; i++ {
		mutations = append(mutations, storage.NewMutation(
			storage.LeafPrefix, util.Uint64AsBytes(i), []byte{byte(i)}))
	}
	require.NoError(t, store.Mutate(mutations))

	tests := []struct {
		testname   string
		start, end uint64
		size       int
	}{
		{"whole table", 0, 9, 10},
		{"inner slice", 3, 6, 4},
		{"single key", 5, 5, 1},
		{"beyond last key", 20, 30, 0},
	}

	for _, test := range tests {
		pairs, err := store.GetRange(storage.LeafPrefix,
			util.Uint64AsBytes(test.start), util.Uint64AsBytes(test.end))
		require.NoErrorf(t, err, "%s: range error", test.testname)
		assert.Lenf(t, pairs, test.size, "%s: unexpected range size", test.testname)
	}
}

func TestGetLast(t *testing.T) {
	store := NewBPlusTreeStore()
	defer store.Close()

	_, err := store.GetLast(storage.LeafPrefix)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	for i := uint64(0); i < 300; i++ {
		require.NoError(t, store.Mutate([]*storage.Mutation{
			storage.NewMutation(storage.LeafPrefix, util.Uint64AsBytes(i), []byte{byte(i)}),
		}))
	}

	pair, err := store.GetLast(storage.LeafPrefix)
	require.NoError(t, err)
	assert.Equal(t, uint64(299), util.BytesAsUint64(pair.Key), "big-endian keys must sort numerically")
}

func TestGetAllReader(t *testing.T) {
	store := NewBPlusTreeStore()
	defer store.Close()

	var mutations []*storage.Mutation
	for i := uint64(0); i < 25; i++ {
		mutations = append(mutations, storage.NewMutation(
			storage.FrozenPrefix, util.Uint64AsBytes(i), []byte{byte(i)}))
	}
	// a neighbour table that must not leak into the reader
	mutations = append(mutations, storage.NewMutation(
		storage.MetaPrefix, []byte("size"), util.Uint64AsBytes(25)))
	require.NoError(t, store.Mutate(mutations))

	reader := store.GetAll(storage.FrozenPrefix)
	defer reader.Close()

	total := 0
	buffer := make([]*storage.KVPair, 10)
	for {
		n, err := reader.Read(buffer)
		require.NoError(t, err)
		if n == 0 {
			break
		}
		total += n
	}
	assert.Equal(t, 25, total)
}
