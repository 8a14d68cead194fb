package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// CacheKey computes a deterministic hash over a backend name and the full
// configuration mapping. The configuration is serialized as canonical JSON
// (encoding/json emits map keys in sorted order), so deep-equal mappings
// produce the same key regardless of insertion order, and changing any
// single value changes the key.
func CacheKey(backendName string, config Manifest) string {
	h := sha256.New()
	h.Write([]byte(backendName))

	dump, err := json.Marshal(config)
	if err != nil {
		// Unserializable values still need a stable-ish key rather than a
		// failure; the formatted fallback matches on identical content.
		dump = fmt.Appendf(nil, "%v", config)
	}
	h.Write(dump)

	return hex.EncodeToString(h.Sum(nil))
}
