package rando

import (
	"crypto/rand"
	"os"
	"path/filepath"
)

const alphaNumChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// StrongRandomAlphaNumChars returns nchars of cryptographically random [a-zA-Z0-9]
func StrongRandomAlphaNumChars(nchars int) string {
	buf := make([]byte, nchars)
	if n, _ := rand.Read(buf[:]); n != nchars {
		panic("Unable to read from crypto/rand")
	}
	for i := 0; i < nchars; i++ {
		buf[i] = alphaNumChars[buf[i]%byte(len(alphaNumChars))]
	}
	return string(buf)
}

// TempFilename returns a random filename in the OS temp directory.
// extension must include the dot, eg ".jpg"
func TempFilename(extension string) string {
	return filepath.Join(os.TempDir(), StrongRandomAlphaNumChars(16)+extension)
}
