package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateVerificationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateVerificationCode()
		assert.NoError(t, err)
		assert.Len(t, code, VerificationCodeLength)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(codeCharset, ch), "unexpected character %q", ch)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45, "codes should be effectively unique")
}
