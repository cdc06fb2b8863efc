package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	password := "password123"
	hashedPassword, err := HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hashedPassword)
	assert.NotEqual(t, password, hashedPassword)
}

func TestCheckPasswordHash(t *testing.T) {
	password := "password123"
	hashedPassword, _ := HashPassword(password)

	assert.True(t, CheckPasswordHash(password, hashedPassword))
	assert.False(t, CheckPasswordHash("wrongpassword", hashedPassword))
}

func TestCheckPasswordHash_InvalidHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("password123", "invalidhash"))
} 
func TestMD5Hex(t *testing.T) {
	assert.Equal(t, "e10adc3949ba59abbe56e057f20f883e", MD5Hex("123456"))
}

func TestVerifyAdminPassword(t *testing.T) {
	assert.True(t, VerifyAdminPassword("123456", "e10adc3949ba59abbe56e057f20f883e"))
	assert.True(t, VerifyAdminPassword("123456", "E10ADC3949BA59ABBE56E057F20F883E"))
	assert.False(t, VerifyAdminPassword("654321", "e10adc3949ba59abbe56e057f20f883e"))

	hashed, err := HashPassword("123456")
	assert.NoError(t, err)
	assert.True(t, IsBcryptHash(hashed))
	assert.True(t, VerifyAdminPassword("123456", hashed))
	assert.False(t, VerifyAdminPassword("1234567", hashed))
}
