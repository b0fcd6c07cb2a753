package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

const KeyPrefix = "wl_live_"

// GenerateAPIKey creates a new key and its SHA256 hash. The real key is
// shown to the caller once; only the hash is stored.
func GenerateAPIKey() (realKey, keyHash string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	realKey = fmt.Sprintf("%s%s", KeyPrefix, hex.EncodeToString(bytes))

	hash := sha256.Sum256([]byte(realKey))
	return realKey, hex.EncodeToString(hash[:]), nil
}

// HashKey maps a presented key to its stored form.
func HashKey(providedKey string) string {
	hash := sha256.Sum256([]byte(providedKey))
	return hex.EncodeToString(hash[:])
}

// ValidateKey checks a presented key against the stored hash in constant
// time.
func ValidateKey(providedKey, storedHash string) bool {
	computed := HashKey(providedKey)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
