package audit

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/bytedance/sonic"
)

// MaxHashSize bounds the number of bytes hashed from a document.
const MaxHashSize = 1024 * 1024

// HashContent returns the hex SHA-256 of content, or "" for empty content.
// Only the first MaxHashSize bytes are hashed.
func HashContent(content []byte) string {
	if len(content) == 0 {
		return ""
	}
	if len(content) > MaxHashSize {
		content = content[:MaxHashSize]
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// HashDocument hashes the canonical JSON encoding of doc (sorted keys), so
// equal documents hash equally whatever their source format or key order.
func HashDocument(doc map[string]any) string {
	if doc == nil {
		return ""
	}
	data, err := sonic.ConfigStd.Marshal(doc)
	if err != nil {
		return ""
	}
	return HashContent(data)
}
