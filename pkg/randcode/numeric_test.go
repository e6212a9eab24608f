package randcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode_Length(t *testing.T) {
	t.Parallel()

	for _, length := range []int{1, 6, 12} {
		code, err := GenerateNumericCode(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
	}
}

func TestGenerateNumericCode_DigitsOnly(t *testing.T) {
	t.Parallel()

	for range 100 {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "unexpected rune %q in code %q", r, code)
		}
	}
}

func TestGenerateNumericCode_Zero(t *testing.T) {
	t.Parallel()

	code, err := GenerateNumericCode(0)
	require.NoError(t, err)
	assert.Empty(t, code)
}
