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

// Package staged implements a fixed-height append-only merkle tree with
// an in-memory cache of not-yet-persisted leaves layered over a durably
// stored prefix. Roots and sibling paths can be computed over either the
// durable view or the durable-plus-pending view, and a commit folds the
// pending leaves into durable storage atomically.
package staged

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vertree/vertree/cache"
	"github.com/vertree/vertree/crypto/hashing"
	"github.com/vertree/vertree/log"
	"github.com/vertree/vertree/metrics"
	"github.com/vertree/vertree/storage"
	"github.com/vertree/vertree/util"
)

var (
	// ErrTreeFull means an append would exceed the tree's fixed capacity.
	ErrTreeFull = errors.New("tree is full")

	// ErrLeafNotFound means the index does not resolve under the chosen
	// view.
	ErrLeafNotFound = errors.New("leaf not found")

	// ErrCommitFailed wraps a durable store failure during commit. The
	// pending leaves are left untouched.
	ErrCommitFailed = errors.New("commit failed")
)

// metadata keys
var (
	sizeKey = []byte("size")
	rootKey = []byte("root")
)

// Tree is an append-only staged merkle tree. All mutators expect a
// single cooperative writer; reads may run concurrently with each other
// but not with a mutator.
type Tree struct {
	depth    uint16
	store    storage.Store
	frozen   cache.Cache
	hasher   hashing.Hasher
	defaults []hashing.Digest

	durableSize uint64
	durableRoot hashing.Digest
	pending     []hashing.Digest

	lock sync.RWMutex
}

// NewTree opens a staged tree of the given depth over a store. When the
// store already holds tree metadata, the durable size and root are
// reloaded from it and the frozen-node cache is warmed from the frozen
// table; an empty store yields an empty tree.
func NewTree(depth uint16, store storage.Store, frozen cache.Cache, hasherF func() hashing.Hasher) (*Tree, error) {

	if depth == 0 || depth > 32 {
		return nil, fmt.Errorf("depth %d out of range [1,32]", depth)
	}

	hasher := hasherF()
	defaults := make([]hashing.Digest, depth+1)
	defaults[0] = hashing.ZeroDigest(hasher)
	for i := uint16(1); i <= depth; i++ {
		defaults[i] = hasher.Do(defaults[i-1], defaults[i-1])
	}

	tree := &Tree{
		depth:    depth,
		store:    store,
		frozen:   frozen,
		hasher:   hasher,
		defaults: defaults,
		pending:  make([]hashing.Digest, 0),
	}

	sizePair, err := store.Get(storage.MetaPrefix, sizeKey)
	switch {
	case err == nil:
		tree.durableSize = util.BytesAsUint64(sizePair.Value)
		rootPair, err := store.Get(storage.MetaPrefix, rootKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
		}
		tree.durableRoot = rootPair.Value
		if err := frozen.Fill(store.GetAll(storage.FrozenPrefix)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
		}
		log.Debugf("Opened staged tree with %d durable leaves", tree.durableSize)
	case errors.Is(err, storage.ErrKeyNotFound):
		tree.durableRoot = defaults[depth]
	default:
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	return tree, nil
}

// Depth returns the fixed height of the tree.
func (t *Tree) Depth() uint16 {
	return t.depth
}

// Size returns the number of leaves visible under the chosen view.
func (t *Tree) Size(includeUncommitted bool) uint64 {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return t.size(includeUncommitted)
}

func (t *Tree) size(includeUncommitted bool) uint64 {
	if includeUncommitted {
		return t.durableSize + uint64(len(t.pending))
	}
	return t.durableSize
}

// Append stages new leaves after the current end of the tree. Indices
// are assigned sequentially; nothing touches durable storage until
// Commit.
func (t *Tree) Append(values ...hashing.Digest) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	capacity := uint64(1) << t.depth
	if t.size(true)+uint64(len(values)) > capacity {
		return ErrTreeFull
	}

	t.pending = append(t.pending, values...)

	metrics.VertreeStagedAppendTotal.Add(float64(len(values)))
	metrics.VertreeStagedPendingLeaves.Set(float64(len(t.pending)))
	return nil
}

// GetLeaf resolves the value of a leaf under the chosen view. Pending
// leaves are only visible when includeUncommitted is set.
func (t *Tree) GetLeaf(index uint64, includeUncommitted bool) (hashing.Digest, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if index >= t.size(includeUncommitted) {
		return nil, ErrLeafNotFound
	}
	return t.leaf(index)
}

// leaf returns the value of a leaf known to be inside the visible view,
// consulting the pending overlay first.
func (t *Tree) leaf(index uint64) (hashing.Digest, error) {
	if index >= t.durableSize {
		return t.pending[index-t.durableSize], nil
	}
	pair, err := t.store.Get(storage.LeafPrefix, util.Uint64AsBytes(index))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, ErrLeafNotFound
		}
		return nil, err
	}
	return pair.Value, nil
}

// Root returns the root digest over exactly the leaves visible under
// the chosen view. Empty positions hash to per-level defaults.
func (t *Tree) Root(includeUncommitted bool) (hashing.Digest, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	if !includeUncommitted {
		return t.durableRoot, nil
	}
	if len(t.pending) == 0 {
		return t.durableRoot, nil
	}
	return t.hashNode(newRootPosition(t.depth), t.size(true), nil)
}

// hashNode recursively computes the digest of a node over the first
// `size` leaves. Subtrees that lie entirely inside the durable prefix
// never change, so their digests are resolved through the frozen cache;
// when collect is non-nil, freshly computed frozen digests are also
// appended to it as pending storage mutations (commit pass).
func (t *Tree) hashNode(pos position, size uint64, collect *[]*storage.Mutation) (hashing.Digest, error) {

	if pos.index >= size {
		return t.defaults[pos.layer], nil
	}

	boundary := t.durableSize
	if collect != nil {
		boundary = size
	}
	frozen := !pos.IsLeaf() && pos.FirstLeafOutside() <= boundary
	if frozen {
		if digest, ok := t.frozen.Get(pos.Bytes()); ok {
			return digest, nil
		}
	}

	if pos.IsLeaf() {
		return t.leaf(pos.index)
	}

	left, err := t.hashNode(pos.Left(), size, collect)
	if err != nil {
		return nil, err
	}
	right, err := t.hashNode(pos.Right(), size, collect)
	if err != nil {
		return nil, err
	}
	digest := t.hasher.Do(left, right)

	if frozen {
		if collect != nil {
			*collect = append(*collect, storage.NewMutation(storage.FrozenPrefix, pos.Bytes(), digest))
		} else {
			t.frozen.Put(pos.Bytes(), digest)
		}
	}

	return digest, nil
}

// SiblingPath returns the authentication path of a leaf under the
// chosen view, ordered root-first, usable by an external verifier with
// the same fold as the sparse proof algebra.
func (t *Tree) SiblingPath(index uint64, includeUncommitted bool) (*SiblingPath, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	size := t.size(includeUncommitted)
	if index >= size {
		return nil, ErrLeafNotFound
	}

	sideNodes := make([]hashing.Digest, 0, t.depth)
	pos := newRootPosition(t.depth)
	for !pos.IsLeaf() {
		left, right := pos.Left(), pos.Right()
		var next, sibling position
		if index < right.index {
			next, sibling = left, right
		} else {
			next, sibling = right, left
		}
		digest, err := t.hashNode(sibling, size, nil)
		if err != nil {
			return nil, err
		}
		sideNodes = append(sideNodes, digest)
		pos = next
	}

	root, err := t.hashNode(newRootPosition(t.depth), size, nil)
	if err != nil {
		return nil, err
	}

	metrics.VertreeStagedSiblingPathTotal.Inc()
	return &SiblingPath{SideNodes: sideNodes, Root: root, Index: index}, nil
}

// Commit folds every pending leaf into durable storage in a single
// atomic batch: leaves, updated metadata and the interior hashes frozen
// by the new boundary. On success the pending list empties and both
// views converge; on failure the error surfaces wrapped in
// ErrCommitFailed and the pending state is preserved untouched.
func (t *Tree) Commit() (hashing.Digest, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if len(t.pending) == 0 {
		return t.durableRoot, nil
	}

	newSize := t.size(true)
	frozenMutations := make([]*storage.Mutation, 0)
	root, err := t.hashNode(newRootPosition(t.depth), newSize, &frozenMutations)
	if err != nil {
		return nil, err
	}

	mutations := make([]*storage.Mutation, 0, len(t.pending)+len(frozenMutations)+2)
	for i, value := range t.pending {
		index := t.durableSize + uint64(i)
		mutations = append(mutations, storage.NewMutation(storage.LeafPrefix, util.Uint64AsBytes(index), value))
	}
	mutations = append(mutations, frozenMutations...)
	mutations = append(mutations, storage.NewMutation(storage.MetaPrefix, sizeKey, util.Uint64AsBytes(newSize)))
	mutations = append(mutations, storage.NewMutation(storage.MetaPrefix, rootKey, root))

	if err := t.store.Mutate(mutations); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	for _, m := range frozenMutations {
		t.frozen.Put(m.Key, m.Value)
	}
	t.durableSize = newSize
	t.durableRoot = root
	t.pending = t.pending[:0]

	metrics.VertreeStagedCommitTotal.Inc()
	metrics.VertreeStagedPendingLeaves.Set(0)
	log.Debugf("Committed up to %d leaves with root %x", newSize, root)
	return root, nil
}

// Close releases the tree's reference to its collaborators. The store
// itself is owned by the caller.
func (t *Tree) Close() {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.frozen = nil
	t.hasher = nil
}
