package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("shopper@example.com"))
	assert.True(t, IsEmail("a.b+tag@sub.example.co"))
	assert.False(t, IsEmail("shopper@example"))
	assert.False(t, IsEmail("not an email"))
	assert.False(t, IsEmail(""))
}

func TestIsStrongPassword(t *testing.T) {
	assert.True(t, IsStrongPassword("Sup3rSecret!"))
	assert.False(t, IsStrongPassword("short1!"))       // no upper case
	assert.False(t, IsStrongPassword("NOLOWER1!"))     // no lower case
	assert.False(t, IsStrongPassword("NoDigits!"))     // no digit
	assert.False(t, IsStrongPassword("NoSpecial123"))  // no special character
	assert.False(t, IsStrongPassword("Ab1!"))          // too short
	assert.False(t, IsStrongPassword("Has spaces 1!")) // disallowed character
}

func TestMissingFields(t *testing.T) {
	fields := map[string]string{"email": "shopper@example.com", "password": ""}
	assert.Equal(t, []string{"password"}, MissingFields(fields, "email", "password"))
	assert.Empty(t, MissingFields(fields, "email"))
}

func TestUniqueStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, UniqueStrings([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, UniqueStrings(nil))
}
