package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT(7, "admin", "asha@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "asha@example.com", claims.Email)
}

func TestGenerateJWT_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := GenerateJWT(7, "user", "asha@example.com")
	assert.Error(t, err)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT(7, "user", "asha@example.com")
	assert.NoError(t, err)

	t.Setenv("JWT_SECRET", "other-secret")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}

func TestParseJWT_Garbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := ParseJWT("not.a.token")
	assert.Error(t, err)
}
