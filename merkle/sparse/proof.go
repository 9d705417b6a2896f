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

// Package sparse implements a fixed-depth sparse merkle tree proof
// algebra and a deep subtree that reconstructs a partial view of a full
// tree from externally supplied proofs.
package sparse

import (
	"github.com/vertree/vertree/crypto/hashing"
)

// Proof holds the sibling hashes needed to recompute a root from a
// single leaf. SideNodes are ordered root-first: SideNodes[0] is the
// sibling at the topmost level.
type Proof struct {
	SideNodes []hashing.Digest
	Root      hashing.Digest
}

// Export returns the canonical string form of the proof's side nodes,
// consumable by external circuit verifiers.
func (p Proof) Export() []string {
	out := make([]string, len(p.SideNodes))
	for i, s := range p.SideNodes {
		out[i] = s.String()
	}
	return out
}

// Update is a single node write produced while recomputing a root: the
// node's digest and its two-child pre-image. The leaf entry carries a
// single child, itself.
type Update struct {
	Digest   hashing.Digest
	Children []hashing.Digest
}

// ComputeRoot folds a leaf value hash up to the root. Path bit i of
// pathHash (most-significant first) selects the side of the node at
// level i: bit set means the current node is the right child and
// sideNodes[i] the left one. It returns the computed root and every
// intermediate node in leaf-to-root order, ready to be merged into a
// node store.
func ComputeRoot(sideNodes []hashing.Digest, pathHash, valueHash hashing.Digest, hasher hashing.Hasher) (hashing.Digest, []Update) {

	updates := make([]Update, 0, len(sideNodes)+1)
	updates = append(updates, Update{
		Digest:   valueHash,
		Children: []hashing.Digest{valueHash},
	})

	current := valueHash
	for i := len(sideNodes) - 1; i >= 0; i-- {
		var left, right hashing.Digest
		if pathHash.Bit(uint16(i)) == 1 {
			left, right = sideNodes[i], current
		} else {
			left, right = current, sideNodes[i]
		}
		current = hasher.Do(left, right)
		updates = append(updates, Update{
			Digest:   current,
			Children: []hashing.Digest{left, right},
		})
	}

	return current, updates
}

// VerifyWithUpdates checks a proof against an expected root and returns
// the chain of node updates the recomputation produced. The check is
// deliberately two-staged: the proof's claimed root must match the
// expected root before anything is recomputed, so that updates derived
// against a stale root are never trusted.
func VerifyWithUpdates(proof *Proof, expectedRoot, pathHash, valueHash hashing.Digest, hasher hashing.Hasher) (bool, []Update) {

	if !proof.Root.Equal(expectedRoot) {
		return false, nil
	}

	computed, updates := ComputeRoot(proof.SideNodes, pathHash, valueHash, hasher)
	if !computed.Equal(expectedRoot) {
		return false, nil
	}

	return true, updates
}
