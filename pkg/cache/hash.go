package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

// HTTPKey returns the cache key for an upstream GET. The query is
// re-encoded with sorted parameters so equivalent URLs share an entry.
func HTTPKey(namespace, rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		u.RawQuery = u.Query().Encode()
		rawURL = u.String()
	}
	return "http:" + namespace + ":" + Hash([]byte(rawURL))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
