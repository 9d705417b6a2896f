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
	"fmt"

	"github.com/vertree/vertree/util"
)

// position identifies a node of the tree: index is the first leaf the
// node covers and layer its height, with leaves at layer 0. A node at
// layer l covers 2^l leaves.
type position struct {
	index uint64
	layer uint16
}

func newPosition(index uint64, layer uint16) position {
	return position{index, layer}
}

func newRootPosition(depth uint16) position {
	return position{0, depth}
}

func (p position) String() string {
	return fmt.Sprintf("index: %d , layer: %d", p.index, p.layer)
}

// Bytes returns the position serialized as a cache/storage key.
func (p position) Bytes() []byte {
	b := make([]byte, 10)
	copy(b, util.Uint16AsBytes(p.layer))
	copy(b[2:], util.Uint64AsBytes(p.index))
	return b
}

func (p position) Left() position {
	return newPosition(p.index, p.layer-1)
}

func (p position) Right() position {
	return newPosition(p.index+1<<(p.layer-1), p.layer-1)
}

func (p position) IsLeaf() bool {
	return p.layer == 0
}

// FirstLeafOutside returns the index of the first leaf beyond the range
// this node covers.
func (p position) FirstLeafOutside() uint64 {
	return p.index + 1<<p.layer
}
