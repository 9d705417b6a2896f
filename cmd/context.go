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

package cmd

import (
	"fmt"

	"github.com/vertree/vertree/cache"
	"github.com/vertree/vertree/crypto/hashing"
	"github.com/vertree/vertree/merkle/staged"
	"github.com/vertree/vertree/storage"
	"github.com/vertree/vertree/storage/badger"
	"github.com/vertree/vertree/storage/bolt"
)

type cmdContext struct {
	dbPath   string
	engine   string
	hasher   string
	depth    uint16
	logLevel string
}

// frozen hashes of a depth-24 tree fit comfortably here
const frozenCacheBytes = 1 << 26

func (ctx cmdContext) hasherF() (func() hashing.Hasher, error) {
	switch ctx.hasher {
	case "sha256":
		return hashing.NewSha256Hasher, nil
	case "blake2b":
		return hashing.NewBlake2bHasher, nil
	default:
		return nil, fmt.Errorf("unknown hasher %q", ctx.hasher)
	}
}

func (ctx cmdContext) openStore() (storage.Store, error) {
	switch ctx.engine {
	case "badger":
		return badger.NewBadgerStore(ctx.dbPath)
	case "bolt":
		return bolt.NewBoltStore(ctx.dbPath)
	default:
		return nil, fmt.Errorf("unknown storage engine %q", ctx.engine)
	}
}

// openTree opens the configured store and the staged tree over it. The
// returned close function releases both.
func (ctx cmdContext) openTree() (*staged.Tree, func(), error) {
	hasherF, err := ctx.hasherF()
	if err != nil {
		return nil, nil, err
	}
	store, err := ctx.openStore()
	if err != nil {
		return nil, nil, err
	}
	tree, err := staged.NewTree(ctx.depth, store, cache.NewFastCache(frozenCacheBytes), hasherF)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return tree, func() {
		tree.Close()
		_ = store.Close()
	}, nil
}
