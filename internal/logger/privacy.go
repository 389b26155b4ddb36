package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// minSaltLength mirrors config.MinHashSaltLength without importing config.
const minSaltLength = 32

var hashSalt string

// InitHashSalt sets the salt used for id hashing. It panics on a salt shorter
// than 32 characters so a misconfigured deployment never logs weak hashes.
func InitHashSalt(salt string) {
	if len(salt) < minSaltLength {
		panic(fmt.Sprintf("LOG_HASH_SALT must be at least %d characters", minSaltLength))
	}
	hashSalt = salt
}

// InitHashSaltForTesting sets the salt without validation.
func InitHashSaltForTesting(salt string) {
	hashSalt = salt
}

// HashUserID creates a privacy-preserving hash of a user ID.
// This allows tracking user actions without exposing actual user IDs.
func HashUserID(userID int64) string {
	return hashID(userID)
}

// HashChatID creates a privacy-preserving hash of a chat ID.
func HashChatID(chatID int64) string {
	return hashID(chatID)
}

func hashID(id int64) string {
	data := fmt.Sprintf("%d:%s", id, hashSalt)
	hash := sha256.Sum256([]byte(data))
	// First 8 characters are enough to correlate log lines.
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeText is a general-purpose sanitizer for any user-provided text.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}

	if len(text) <= 10 {
		return fmt.Sprintf("<%d chars>", len(text))
	}

	return fmt.Sprintf("%s...<%d chars>", text[:3], len(text))
}
