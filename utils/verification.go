package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// VerificationCodeLength is the number of characters in an emailed code.
const VerificationCodeLength = 6

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateVerificationCode returns a random alphanumeric one-time code.
func GenerateVerificationCode() (string, error) {
	buf := make([]byte, VerificationCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate verification code: %w", err)
		}
		buf[i] = codeCharset[n.Int64()]
	}
	return string(buf), nil
}
