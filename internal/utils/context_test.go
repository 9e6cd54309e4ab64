package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	ctx := SetUserContext(context.Background(), 7, "asha@example.com", RoleAdmin)

	id, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)
	assert.Equal(t, "asha@example.com", GetUserEmailFromContext(ctx))
	assert.True(t, IsAdmin(ctx))
}

func TestUserContext_Empty(t *testing.T) {
	ctx := context.Background()

	_, ok := GetUserIDFromContext(ctx)
	assert.False(t, ok)
	assert.Equal(t, "", GetUserEmailFromContext(ctx))
	assert.False(t, IsAdmin(ctx))
}
