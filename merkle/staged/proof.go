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
	"github.com/vertree/vertree/crypto/hashing"
)

// SiblingPath holds the sibling hashes of a leaf, ordered root-first,
// plus the root of the view they were derived under. Together with the
// (leaf, index) pair it recomputes that root deterministically.
type SiblingPath struct {
	SideNodes []hashing.Digest
	Root      hashing.Digest
	Index     uint64
}

// Verify recomputes the root from the leaf value and the path's
// siblings, and compares it with an expected root. Level i of the path
// corresponds to bit depth-1-i of the index, so the fold consumes the
// side nodes back-to-front exactly like the sparse proof algebra.
func (p SiblingPath) Verify(leaf hashing.Digest, index uint64, expectedRoot hashing.Digest, hasher hashing.Hasher) bool {

	current := leaf
	depth := len(p.SideNodes)
	for i := depth - 1; i >= 0; i-- {
		if (index>>(depth-1-i))&1 == 1 {
			current = hasher.Do(p.SideNodes[i], current)
		} else {
			current = hasher.Do(current, p.SideNodes[i])
		}
	}

	return current.Equal(expectedRoot)
}

// Export returns the canonical string form of the side nodes,
// consumable by external circuit verifiers.
func (p SiblingPath) Export() []string {
	out := make([]string, len(p.SideNodes))
	for i, s := range p.SideNodes {
		out[i] = s.String()
	}
	return out
}
