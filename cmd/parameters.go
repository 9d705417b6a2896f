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
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vertree/vertree/crypto/hashing"
)

// digestParse decodes a hex-encoded digest as printed by the prove and
// root commands.
func digestParse(value string) (hashing.Digest, error) {
	decoded, err := hex.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("malformed digest %q: %v", value, err)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("empty digest")
	}
	return decoded, nil
}

// pathParse decodes a comma-separated list of hex digests into the side
// nodes of a proof, root-first.
func pathParse(value string) ([]hashing.Digest, error) {
	parts := strings.Split(value, ",")
	sideNodes := make([]hashing.Digest, len(parts))
	for i, part := range parts {
		digest, err := digestParse(part)
		if err != nil {
			return nil, err
		}
		sideNodes[i] = digest
	}
	return sideNodes, nil
}
