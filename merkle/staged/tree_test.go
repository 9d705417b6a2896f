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

package staged

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vertree/vertree/cache"
	"github.com/vertree/vertree/crypto/hashing"
	"github.com/vertree/vertree/storage"
	"github.com/vertree/vertree/storage/bplus"
)

func newTestTree(t *testing.T, depth uint16) (*Tree, storage.Store) {
	store := bplus.NewBPlusTreeStore()
	tree, err := NewTree(depth, store, cache.NewSimpleCache(0), hashing.NewPearsonHasher)
	require.NoError(t, err)
	return tree, store
}

func leaves(bs ...byte) []hashing.Digest {
	out := make([]hashing.Digest, len(bs))
	for i, b := range bs {
		out[i] = hashing.Digest{b}
	}
	return out
}

func TestAppendIsolatesViews(t *testing.T) {
	tree, store := newTestTree(t, 4)
	defer store.Close()

	require.NoError(t, tree.Append(leaves(0x4a)...))

	value, err := tree.GetLeaf(0, true)
	require.NoError(t, err)
	assert.Equal(t, hashing.Digest{0x4a}, value, "pending leaf must be visible with uncommitted view")

	_, err = tree.GetLeaf(0, false)
	assert.ErrorIs(t, err, ErrLeafNotFound, "pending leaf must be invisible to the durable view")

	assert.Equal(t, uint64(1), tree.Size(true))
	assert.Equal(t, uint64(0), tree.Size(false))

	_, err = tree.Commit()
	require.NoError(t, err)

	value, err = tree.GetLeaf(0, false)
	require.NoError(t, err)
	assert.Equal(t, hashing.Digest{0x4a}, value, "committed leaf must be visible to both views")
	assert.Equal(t, uint64(1), tree.Size(false))
}

func TestRootViewsConvergeOnCommit(t *testing.T) {
	tree, store := newTestTree(t, 4)
	defer store.Close()

	emptyRoot, err := tree.Root(false)
	require.NoError(t, err)

	require.NoError(t, tree.Append(leaves(0x01)...))

	durable, err := tree.Root(false)
	require.NoError(t, err)
	assert.Equal(t, emptyRoot, durable, "durable root must ignore pending leaves")

	staged, err := tree.Root(true)
	require.NoError(t, err)
	assert.False(t, staged.Equal(durable), "staged root must reflect the pending leaf")

	committed, err := tree.Commit()
	require.NoError(t, err)
	assert.True(t, committed.Equal(staged), "commit must produce the previously staged root")

	durable, err = tree.Root(false)
	require.NoError(t, err)
	assert.True(t, durable.Equal(staged), "views must converge after commit")
}

func TestSiblingPathVerifies(t *testing.T) {
	tree, store := newTestTree(t, 4)
	defer store.Close()

	values := leaves(0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16)
	require.NoError(t, tree.Append(values...))

	root, err := tree.Root(true)
	require.NoError(t, err)

	path, err := tree.SiblingPath(3, true)
	require.NoError(t, err)
	require.Len(t, path.SideNodes, 4)
	assert.True(t, path.Root.Equal(root))

	hasher := hashing.NewPearsonHasher()
	assert.True(t, path.Verify(values[3], 3, root, hasher))
	assert.False(t, path.Verify(values[4], 3, root, hasher), "a different leaf value must not verify")
	assert.False(t, path.Verify(values[3], 2, root, hasher), "a different index must not verify")
}

func TestSiblingPathAcrossCommit(t *testing.T) {
	tree, store := newTestTree(t, 4)
	defer store.Close()

	values := leaves(0x20, 0x21, 0x22)
	require.NoError(t, tree.Append(values[:2]...))
	_, err := tree.Commit()
	require.NoError(t, err)
	require.NoError(t, tree.Append(values[2:]...))

	_, err = tree.SiblingPath(2, false)
	assert.ErrorIs(t, err, ErrLeafNotFound, "the durable view must not prove a pending leaf")

	hasher := hashing.NewPearsonHasher()

	durableRoot, err := tree.Root(false)
	require.NoError(t, err)
	path, err := tree.SiblingPath(1, false)
	require.NoError(t, err)
	assert.True(t, path.Verify(values[1], 1, durableRoot, hasher))

	stagedRoot, err := tree.Root(true)
	require.NoError(t, err)
	path, err = tree.SiblingPath(2, true)
	require.NoError(t, err)
	assert.True(t, path.Verify(values[2], 2, stagedRoot, hasher))
	assert.False(t, path.Verify(values[2], 2, durableRoot, hasher), "staged path must not verify against the durable root")
}

func TestAppendBeyondCapacity(t *testing.T) {
	tree, store := newTestTree(t, 2)
	defer store.Close()

	err := tree.Append(leaves(0x1, 0x2, 0x3, 0x4, 0x5)...)
	assert.ErrorIs(t, err, ErrTreeFull)
	assert.Equal(t, uint64(0), tree.Size(true), "an oversized batch must not be partially staged")

	require.NoError(t, tree.Append(leaves(0x1, 0x2, 0x3, 0x4)...))
	err = tree.Append(leaves(0x5)...)
	assert.ErrorIs(t, err, ErrTreeFull)
}

func TestCommitWithoutPendingIsNoop(t *testing.T) {
	tree, store := newTestTree(t, 4)
	defer store.Close()

	require.NoError(t, tree.Append(leaves(0x7)...))
	first, err := tree.Commit()
	require.NoError(t, err)

	second, err := tree.Commit()
	require.NoError(t, err)
	assert.True(t, second.Equal(first))
}

func TestReopenRestoresDurableState(t *testing.T) {
	store := bplus.NewBPlusTreeStore()
	defer store.Close()

	tree, err := NewTree(4, store, cache.NewSimpleCache(0), hashing.NewPearsonHasher)
	require.NoError(t, err)

	values := leaves(0x30, 0x31, 0x32, 0x33, 0x34)
	require.NoError(t, tree.Append(values...))
	committed, err := tree.Commit()
	require.NoError(t, err)
	tree.Close()

	reopened, err := NewTree(4, store, cache.NewSimpleCache(0), hashing.NewPearsonHasher)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, uint64(5), reopened.Size(false))
	root, err := reopened.Root(false)
	require.NoError(t, err)
	assert.True(t, root.Equal(committed))

	value, err := reopened.GetLeaf(3, false)
	require.NoError(t, err)
	assert.Equal(t, values[3], value)

	path, err := reopened.SiblingPath(3, false)
	require.NoError(t, err)
	assert.True(t, path.Verify(values[3], 3, root, hashing.NewPearsonHasher()))
}

type failingStore struct {
	storage.Store
}

func (s failingStore) Mutate(mutations []*storage.Mutation) error {
	return errors.New("disk on fire")
}

func TestCommitFailureKeepsPending(t *testing.T) {
	store := bplus.NewBPlusTreeStore()
	defer store.Close()

	tree, err := NewTree(4, failingStore{store}, cache.NewSimpleCache(0), hashing.NewPearsonHasher)
	require.NoError(t, err)
	defer tree.Close()

	require.NoError(t, tree.Append(leaves(0x42)...))

	_, err = tree.Commit()
	require.ErrorIs(t, err, ErrCommitFailed)

	assert.Equal(t, uint64(1), tree.Size(true), "pending leaves must survive a failed commit")
	assert.Equal(t, uint64(0), tree.Size(false))
	value, err := tree.GetLeaf(0, true)
	require.NoError(t, err)
	assert.Equal(t, hashing.Digest{0x42}, value)
}

func TestNewTreeRejectsBadDepth(t *testing.T) {
	store := bplus.NewBPlusTreeStore()
	defer store.Close()

	_, err := NewTree(0, store, cache.NewSimpleCache(0), hashing.NewPearsonHasher)
	assert.Error(t, err)
	_, err = NewTree(33, store, cache.NewSimpleCache(0), hashing.NewPearsonHasher)
	assert.Error(t, err)
}
