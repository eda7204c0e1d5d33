package utils

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

var randReader io.Reader = rand.Reader

// GenerateAccountNumber generates an 8-digit account number starting with 01
func GenerateAccountNumber() (string, error) {
	num, err := rand.Int(randReader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate account number: %w", err)
	}
	return fmt.Sprintf("01%06d", num.Int64()), nil
}

// ValidateAccountNumber checks the format GenerateAccountNumber produces.
// Client supplied numbers must follow it too.
func ValidateAccountNumber(accountNumber string) bool {
	if len(accountNumber) != 8 || !strings.HasPrefix(accountNumber, "01") {
		return false
	}
	for _, r := range accountNumber {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
