package utils

import "crypto/rand"

const handleAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// SessionHandleLength gives ~143 bits of entropy, enough that handles are
// unguessable and collisions need no handling.
const SessionHandleLength = 24

// GenerateSessionHandle returns a fresh random alphanumeric session handle.
func GenerateSessionHandle() (string, error) {
	buf := make([]byte, SessionHandleLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = handleAlphabet[int(b)%len(handleAlphabet)]
	}
	return string(buf), nil
}
