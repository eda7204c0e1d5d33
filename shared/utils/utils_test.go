package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestGenerateAccountNumber(t *testing.T) {
	for i := 0; i < 50; i++ {
		number, err := GenerateAccountNumber()
		require.NoError(t, err)
		assert.True(t, ValidateAccountNumber(number), "generated %q", number)
	}
}

func TestGenerateAccountNumberRandomFailure(t *testing.T) {
	original := randReader
	randReader = failingReader{}
	t.Cleanup(func() { randReader = original })

	number, err := GenerateAccountNumber()

	require.Error(t, err)
	assert.Empty(t, number)
	assert.Contains(t, err.Error(), "entropy exhausted")
}

func TestValidateAccountNumber(t *testing.T) {
	assert.True(t, ValidateAccountNumber("01000042"))
	assert.False(t, ValidateAccountNumber("02000042"))
	assert.False(t, ValidateAccountNumber("0100004"))
	assert.False(t, ValidateAccountNumber("01a00042"))
}
