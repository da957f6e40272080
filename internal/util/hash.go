// Package util holds small helpers shared across packages.
package util

import (
	"encoding/hex"
	"fmt"
	"io"

	"lukechampine.com/blake3"
)

// fingerprintLen is the number of hex characters kept by Fingerprint.
const fingerprintLen = 16

// Fingerprint returns a short BLAKE3 digest of text. It identifies a
// transcript in logs without logging its content.
func Fingerprint(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// FingerprintReader is Fingerprint over the contents of r.
func FingerprintReader(r io.Reader) (string, error) {
	h := blake3.New(32, nil)
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("calculating blake3 fingerprint: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil))[:fingerprintLen], nil
}
