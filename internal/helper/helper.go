package helper

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash8 gives a short stable digest, used for rate-limit keys so raw
// client addresses never end up in redis or in logs.
func Hash8(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
