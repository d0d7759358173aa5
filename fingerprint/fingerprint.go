// Package fingerprint derives stable content keys from structured values.
//
// Values are serialized to canonical JSON before hashing: encoding/json
// writes map keys in sorted order and slices in element order, so identical
// logical inputs hash identically across processes and runs regardless of
// in-memory layout or map iteration order. That canonicalization is a
// correctness requirement for cache keys, not an optimization.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
)

// Hash returns the hex digest of v's canonical JSON encoding.
func Hash(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "fingerprint input is not serializable")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
