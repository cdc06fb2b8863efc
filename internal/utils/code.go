package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

var (
	phonePattern = regexp.MustCompile(`^1\d{10}$`)
	codePattern  = regexp.MustCompile(`^\d{4,6}$`)
)

// IsValidPhone reports whether s is an 11-digit mainland mobile number.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// IsValidCode reports whether s is a 4 to 6 digit verification code.
func IsValidCode(s string) bool {
	return codePattern.MatchString(s)
}

var codeRange = big.NewInt(900000)

// GenerateCode returns a random 6-digit code in [100000, 999999].
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeRange)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
