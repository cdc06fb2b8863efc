package utils

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with a bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// MD5Hex returns the lowercase hex MD5 digest of s. Legacy admin accounts
// store their password this way.
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// IsBcryptHash reports whether stored looks like a bcrypt hash.
func IsBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// VerifyAdminPassword checks a plaintext password against a stored digest,
// which may be bcrypt or unsalted MD5 hex.
func VerifyAdminPassword(password, stored string) bool {
	if IsBcryptHash(stored) {
		return CheckPasswordHash(password, stored)
	}
	digest := MD5Hex(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(strings.ToLower(stored))) == 1
}
