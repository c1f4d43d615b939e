package utils

import (
	"crypto/rand"
	"encoding/base32"
)

// GenerateBase32Secret returns size random bytes encoded as unpadded base32,
// the secret format expected by HOTP generators.
func GenerateBase32Secret(size int) (string, error) {
	buffer := make([]byte, size)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buffer), nil
}
