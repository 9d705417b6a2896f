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

package badger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertree/vertree/storage"
	"github.com/vertree/vertree/util"
)

func openStore(t *testing.T) (*BadgerStore, string) {
	path := filepath.Join(t.TempDir(), "badger")
	store, err := NewBadgerStore(path)
	require.NoError(t, err)
	return store, path
}

func TestMutateAndGet(t *testing.T) {
	store, _ := openStore(t)
	defer store.Close()

	err := store.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.LeafPrefix, util.Uint64AsBytes(0), []byte{0xaa}),
		storage.NewMutation(storage.MetaPrefix, []byte("size"), util.Uint64AsBytes(1)),
	})
	require.NoError(t, err)

	pair, err := store.Get(storage.LeafPrefix, util.Uint64AsBytes(0))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa}, pair.Value)

	_, err = store.Get(storage.LeafPrefix, util.Uint64AsBytes(1))
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestGetRangeStaysInTable(t *testing.T) {
	store, _ := openStore(t)
	defer store.Close()

	var mutations []*storage.Mutation
	for i := uint64(0); i < 8; i++ {
		mutations = append(mutations,
			storage.NewMutation(storage.LeafPrefix, util.Uint64AsBytes(i), []byte{byte(i)}),
			storage.NewMutation(storage.FrozenPrefix, util.Uint64AsBytes(i), []byte{0xf0}))
	}
	require.NoError(t, store.Mutate(mutations))

	pairs, err := store.GetRange(storage.LeafPrefix, util.Uint64AsBytes(2), util.Uint64AsBytes(5))
	require.NoError(t, err)
	require.Len(t, pairs, 4)
	for i, pair := range pairs {
		assert.Equal(t, uint64(2+i), util.BytesAsUint64(pair.Key))
		assert.Equal(t, []byte{byte(2 + i)}, pair.Value)
	}
}

func TestGetLast(t *testing.T) {
	store, _ := openStore(t)
	defer store.Close()

	_, err := store.GetLast(storage.LeafPrefix)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	var mutations []*storage.Mutation
	for i := uint64(0); i < 300; i++ {
		mutations = append(mutations,
			storage.NewMutation(storage.LeafPrefix, util.Uint64AsBytes(i), []byte{byte(i)}))
	}
	require.NoError(t, store.Mutate(mutations))

	pair, err := store.GetLast(storage.LeafPrefix)
	require.NoError(t, err)
	assert.Equal(t, uint64(299), util.BytesAsUint64(pair.Key))
}

func TestGetAllReader(t *testing.T) {
	store, _ := openStore(t)
	defer store.Close()

	var mutations []*storage.Mutation
	for i := uint64(0); i < 25; i++ {
		mutations = append(mutations,
			storage.NewMutation(storage.FrozenPrefix, util.Uint64AsBytes(i), []byte{byte(i)}))
	}
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

func TestReopenKeepsData(t *testing.T) {
	store, path := openStore(t)

	require.NoError(t, store.Mutate([]*storage.Mutation{
		storage.NewMutation(storage.MetaPrefix, []byte("root"), []byte{0xbe, 0xef}),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewBadgerStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	pair, err := reopened.Get(storage.MetaPrefix, []byte("root"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xbe, 0xef}, pair.Value)
}
