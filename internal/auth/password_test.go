package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/vacation-booking/backend/internal/auth"
	"github.com/pkordes/vacation-booking/backend/internal/domain"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.NoError(t, auth.CheckPassword(hash, "s3cret"))
	assert.ErrorIs(t, auth.CheckPassword(hash, "wrong"), domain.ErrUnauthorized)
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	a, err := auth.HashPassword("same")
	require.NoError(t, err)
	b, err := auth.HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
