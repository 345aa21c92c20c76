package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandString returns n random hex characters, used for upload filenames.
func RandString(n int) string {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return hex.EncodeToString(b)[:n]
}
