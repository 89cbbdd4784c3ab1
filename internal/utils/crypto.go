// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"math/big"
)

func GenerateRandomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)

	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}

	return string(b), nil
}

func GenerateVerificationCode() (string, error) {
	return GenerateRandomString(32)
}

// GenerateTemporaryPassword produces a credential for accounts provisioned
// through application approval; the owner is expected to reset it.
func GenerateTemporaryPassword() (string, error) {
	s, err := GenerateRandomString(12)
	if err != nil {
		return "", err
	}
	// Guarantee the classes the password validator requires.
	return "Aa1" + s, nil
}
