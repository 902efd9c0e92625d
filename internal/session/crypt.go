package session

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

// The backend session cookie is a bearer credential, so it is sealed before
// being written to the local database. The key is derived from the signing
// secret; rotating the secret invalidates stored sessions along with their
// cookies.

const nonceSize = 24

func sealKey(secret string) *[32]byte {
	key := sha256.Sum256([]byte(secret))
	return &key
}

// sealCookie encrypts a backend cookie for storage, prefixing the random
// nonce to the box.
func sealCookie(secret, cookie string) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(cookie), &nonce, sealKey(secret))
	return sealed, nil
}

// openCookie decrypts a stored backend cookie.
func openCookie(secret string, sealed []byte) (string, error) {
	if len(sealed) < nonceSize {
		return "", fmt.Errorf("sealed cookie too short")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plain, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, sealKey(secret))
	if !ok {
		return "", fmt.Errorf("sealed cookie failed to open")
	}
	return string(plain), nil
}
