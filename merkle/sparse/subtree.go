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

package sparse

import (
	"errors"

	"github.com/vertree/vertree/crypto/hashing"
	"github.com/vertree/vertree/metrics"
)

var (
	// ErrInvalidProof means a supplied proof did not verify against the
	// subtree's current root.
	ErrInvalidProof = errors.New("invalid proof")

	// ErrUnknownKey means the key was never registered through AddBranch.
	ErrUnknownKey = errors.New("unknown key")

	// ErrIncompleteSubtree means an intermediate node needed to walk the
	// key's path is missing: not enough branches were supplied to cover
	// this key.
	ErrIncompleteSubtree = errors.New("incomplete subtree")
)

// Options configures how keys and values map to path and value hashes.
// When HashKey or HashValue is false the raw bytes are used directly,
// and must already be of the hasher's width.
type Options struct {
	HasherF   func() hashing.Hasher
	HashKey   bool
	HashValue bool
}

// DefaultOptions hashes both keys and values with SHA-256.
func DefaultOptions() Options {
	return Options{
		HasherF:   hashing.NewSha256Hasher,
		HashKey:   true,
		HashValue: true,
	}
}

// DeepSubtree is an in-memory authenticated partial view of a sparse
// merkle tree of fixed depth, built incrementally from proofs. It can
// re-derive proofs for keys it has ingested and apply value updates that
// produce a new root, without ever materializing the full tree.
//
// Both internal stores are append-only: node pre-images are keyed by
// content-derived digests, so a rewrite of an existing entry is always
// idempotent, and value overwrites keep the old chain reachable from the
// old root.
type DeepSubtree struct {
	hasher    hashing.Hasher
	hashKey   bool
	hashValue bool
	depth     uint16
	root      hashing.Digest

	nodes  map[string][]hashing.Digest // digest -> two-child pre-image
	values map[string]hashing.Digest   // path hash -> value hash
}

// NewDeepSubtree returns a subtree anchored at the given root. The depth
// equals the hasher's width in bits.
func NewDeepSubtree(root hashing.Digest, opts Options) *DeepSubtree {
	hasher := opts.HasherF()
	return &DeepSubtree{
		hasher:    hasher,
		hashKey:   opts.HashKey,
		hashValue: opts.HashValue,
		depth:     hasher.Len(),
		root:      root,
		nodes:     make(map[string][]hashing.Digest),
		values:    make(map[string]hashing.Digest),
	}
}

// Root returns the current root of the subtree.
func (t *DeepSubtree) Root() hashing.Digest {
	return t.root
}

func (t *DeepSubtree) pathHash(key []byte) hashing.Digest {
	if t.hashKey {
		return t.hasher.Do(key)
	}
	return hashing.Digest(key)
}

func (t *DeepSubtree) valueHash(value []byte) hashing.Digest {
	if value == nil {
		return hashing.ZeroDigest(t.hasher)
	}
	if t.hashValue {
		return t.hasher.Do(value)
	}
	return hashing.Digest(value)
}

// AddBranch ingests an externally supplied proof for a key-value pair.
// The proof must verify against the subtree's current root; on failure
// it returns ErrInvalidProof, unless ignoreInvalidProof is set, in which
// case the branch is silently dropped and no store is mutated. A nil
// value stands for the empty sentinel, which makes absence branches
// ingestible with the same call.
func (t *DeepSubtree) AddBranch(proof *Proof, key, value []byte, ignoreInvalidProof bool) error {

	pathHash := t.pathHash(key)
	valueHash := t.valueHash(value)

	ok, updates := VerifyWithUpdates(proof, t.root, pathHash, valueHash, t.hasher)
	if !ok {
		if ignoreInvalidProof {
			return nil
		}
		return ErrInvalidProof
	}

	for _, u := range updates {
		t.nodes[u.Digest.String()] = u.Children
	}
	t.values[pathHash.String()] = valueHash

	metrics.VertreeSparseBranchTotal.Inc()
	return nil
}

// Has reports whether the subtree holds exactly the given value for the
// key. A key never touched by any branch holds the empty sentinel, so
// Has(key, nil) is true for untouched paths.
func (t *DeepSubtree) Has(key, value []byte) bool {
	stored, ok := t.values[t.pathHash(key).String()]
	if !ok {
		stored = hashing.ZeroDigest(t.hasher)
	}
	return stored.Equal(t.valueHash(value))
}

// siblingChain walks the key's path bits top-down from the current root,
// resolving every node's pre-image from the node store, and collects the
// off-path siblings root-first.
func (t *DeepSubtree) siblingChain(pathHash hashing.Digest) ([]hashing.Digest, error) {

	sideNodes := make([]hashing.Digest, 0, t.depth)
	current := t.root

	for i := uint16(0); i < t.depth; i++ {
		children, ok := t.nodes[current.String()]
		if !ok || len(children) != 2 {
			return nil, ErrIncompleteSubtree
		}
		if pathHash.Bit(i) == 1 {
			sideNodes = append(sideNodes, children[0])
			current = children[1]
		} else {
			sideNodes = append(sideNodes, children[1])
			current = children[0]
		}
	}

	return sideNodes, nil
}

// Prove re-derives a proof for a previously added key against the
// subtree's current root. It fails with ErrUnknownKey for keys never
// registered, and with ErrIncompleteSubtree when the authentication
// chain was only partially supplied.
func (t *DeepSubtree) Prove(key []byte) (*Proof, error) {

	pathHash := t.pathHash(key)
	if _, ok := t.values[pathHash.String()]; !ok {
		return nil, ErrUnknownKey
	}

	sideNodes, err := t.siblingChain(pathHash)
	if err != nil {
		return nil, err
	}

	metrics.VertreeSparseProveTotal.Inc()
	return &Proof{SideNodes: sideNodes, Root: t.root}, nil
}

// Update replaces the value committed for a key and returns the new
// root. The sibling chain is collected exactly as in Prove, with the
// same failures, before any store is touched; then the chain is rebuilt
// bottom-up with the new value hash and every intermediate node is
// written back. Proofs issued against the old root stay valid for that
// old root only.
func (t *DeepSubtree) Update(key, value []byte) (hashing.Digest, error) {

	pathHash := t.pathHash(key)
	if _, ok := t.values[pathHash.String()]; !ok {
		return nil, ErrUnknownKey
	}

	sideNodes, err := t.siblingChain(pathHash)
	if err != nil {
		return nil, err
	}

	valueHash := t.valueHash(value)
	newRoot, updates := ComputeRoot(sideNodes, pathHash, valueHash, t.hasher)

	for _, u := range updates {
		t.nodes[u.Digest.String()] = u.Children
	}
	t.values[pathHash.String()] = valueHash
	t.root = newRoot

	metrics.VertreeSparseUpdateTotal.Inc()
	return newRoot, nil
}
