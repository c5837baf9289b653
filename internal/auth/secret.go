// Package auth implements secret hashing and session token generation.
//
// Secrets are stored as argon2id PHC strings and re-derived at verification;
// raw secrets never reach the database.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonMemory  uint32 = 64 * 1024
	argonTime    uint32 = 3
	argonThreads uint8  = 4
	saltLen             = 16
	keyLen       uint32 = 32
)

var b64 = base64.RawStdEncoding

// HashSecret derives an argon2id hash of secret under a fresh random salt and
// encodes it as $argon2id$v=19$m=65536,t=3,p=4$<salt>$<key>.
func HashSecret(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret is required")
	}
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, keyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifySecret re-derives the hash under the parameters stored in encoded and
// compares in constant time. A malformed encoded string is an error; a
// mismatched secret is (false, nil).
func VerifySecret(secret, encoded string) (bool, error) {
	if secret == "" || encoded == "" {
		return false, nil
	}
	var version int
	var m, t uint32
	var p uint8
	var saltB64, keyB64 string
	n, err := fmt.Sscanf(encoded, "$argon2id$v=%d$m=%d,t=%d,p=%d$%s", &version, &m, &t, &p, &saltB64)
	if err != nil || n != 5 {
		return false, errors.New("malformed secret hash")
	}
	if version != argon2.Version {
		return false, errors.New("unsupported argon2 version")
	}
	// Sscanf's %s is greedy; split the trailing salt$key pair by hand.
	i := strings.IndexByte(saltB64, '$')
	if i < 0 {
		return false, errors.New("malformed secret hash")
	}
	keyB64 = saltB64[i+1:]
	saltB64 = saltB64[:i]

	salt, err := b64.DecodeString(saltB64)
	if err != nil {
		return false, errors.New("malformed secret hash")
	}
	want, err := b64.DecodeString(keyB64)
	if err != nil || len(want) < 16 {
		return false, errors.New("malformed secret hash")
	}

	got := argon2.IDKey([]byte(secret), salt, t, m, p, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
