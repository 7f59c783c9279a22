package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleOwner.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("").IsValid())
	assert.False(t, Role("merchant").IsValid())
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("owner")
	assert.True(t, ok)
	assert.Equal(t, RoleOwner, role)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleOwner}).IsAdmin())

	var nilUser *User
	assert.False(t, nilUser.IsAdmin())
}

func TestIsValidRatingValue(t *testing.T) {
	for value := MinRatingValue; value <= MaxRatingValue; value++ {
		assert.True(t, IsValidRatingValue(value))
	}
	assert.False(t, IsValidRatingValue(0))
	assert.False(t, IsValidRatingValue(6))
	assert.False(t, IsValidRatingValue(-1))
}
