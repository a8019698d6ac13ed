package repository

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const secUserIDPrefix = "sec-user-id"

// SecUserIDKey hashes the trimmed link so arbitrary share text makes a bounded key.
func SecUserIDKey(link string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(link)))
	return fmt.Sprintf("%s:%s", secUserIDPrefix, hex.EncodeToString(sum[:]))
}
