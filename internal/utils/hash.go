package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashIterations = 100000
	saltLength     = 16
	keyLength      = 32
)

// HashPassword derives a PBKDF2-SHA256 key from the password with a random
// salt and returns it as "base64(salt):base64(key)".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(password), salt, hashIterations, keyLength, sha256.New)
	return base64.StdEncoding.EncodeToString(salt) + ":" + base64.StdEncoding.EncodeToString(key), nil
}

// CheckPassword re-derives the key with the stored salt and compares the
// full digest in constant time.
func CheckPassword(stored, password string) bool {
	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return false
	}

	key := pbkdf2.Key([]byte(password), salt, hashIterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1
}
