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

package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasherWidths(t *testing.T) {
	tests := []struct {
		testname string
		hasher   Hasher
		len      uint16
	}{
		{"sha256", NewSha256Hasher(), 256},
		{"blake2b", NewBlake2bHasher(), 256},
		{"xor", NewXorHasher(), 8},
		{"pearson", NewPearsonHasher(), 8},
	}

	for _, test := range tests {
		digest := test.hasher.Do([]byte("test event"))
		assert.Equalf(t, test.len, test.hasher.Len(), "%s: unexpected width", test.testname)
		assert.Lenf(t, []byte(digest), int(test.len/8), "%s: digest width must match Len", test.testname)
		assert.Truef(t, digest.Equal(test.hasher.Do([]byte("test event"))),
			"%s: hashing must be deterministic", test.testname)
	}
}

func TestDoConcatenates(t *testing.T) {
	hasher := NewSha256Hasher()
	assert.True(t, hasher.Do([]byte("ab"), []byte("cd")).Equal(hasher.Do([]byte("abcd"))))
}

func TestSaltedDiffersFromPlain(t *testing.T) {
	hasher := NewSha256Hasher()
	plain := hasher.Do([]byte("event"))
	salted := hasher.Salted([]byte{0x1}, []byte("event"))
	assert.False(t, plain.Equal(salted))
}

func TestDigestBitIsMSBFirst(t *testing.T) {
	digest := Digest{0x80, 0x01}

	assert.Equal(t, uint8(1), digest.Bit(0))
	for i := uint16(1); i < 15; i++ {
		assert.Equalf(t, uint8(0), digest.Bit(i), "bit %d", i)
	}
	assert.Equal(t, uint8(1), digest.Bit(15))
}

func TestZeroDigest(t *testing.T) {
	hasher := NewSha256Hasher()
	zero := ZeroDigest(hasher)
	require.Len(t, []byte(zero), 32)
	assert.True(t, zero.Equal(make(Digest, 32)))
}

func TestFakeHasherSkipsSalt(t *testing.T) {
	hasher := NewFakeSha256Hasher()
	assert.True(t, hasher.Do([]byte("event")).Equal(hasher.Salted([]byte{0xff}, []byte("event"))))
}
