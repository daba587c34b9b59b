package audio

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Fingerprint identifies the text a payload was synthesized from.
func Fingerprint(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
