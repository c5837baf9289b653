package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// minTokenBytes is the least entropy an opaque session token may carry.
const minTokenBytes = 16

// NewToken returns a URL-safe opaque token carrying nbytes of entropy.
// The static cookie name plus this value is all a client ever holds; no
// user data is encoded in it.
func NewToken(nbytes int) (string, error) {
	if nbytes < minTokenBytes {
		return "", fmt.Errorf("token needs at least %d bytes of entropy", minTokenBytes)
	}
	buf := make([]byte, nbytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
