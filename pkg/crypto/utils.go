package crypto

import (
	"encoding/hex"

	"github.com/gtank/cryptopasta"
)

// fingerprintTag domain separates input fingerprints from any other use of
// the same hash.
const fingerprintTag = "salespipe-input"

// Fingerprint returns a stable hex digest (HMAC-SHA512/256) of data, used to
// recognise runs over byte identical input.
func Fingerprint(data []byte) string {
	return hex.EncodeToString(cryptopasta.Hash(fingerprintTag, data))
}

// Short is the first 12 characters of a fingerprint, for display.
func Short(fingerprint string) string {
	if len(fingerprint) <= 12 {
		return fingerprint
	}
	return fingerprint[:12]
}
