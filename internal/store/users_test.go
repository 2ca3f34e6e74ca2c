package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	id, err := users.Create(ctx, "City Pharmacy", "alice", "alice@pharmacy.com", "Secret99")
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	user, err := users.Authenticate(ctx, "alice", "Secret99")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "City Pharmacy", user.PharmacyName)
	assert.Empty(t, user.Password, "stored hash must not leak")
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	createTestUser(t, db, "alice", "alice@pharmacy.com")

	_, err := users.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Authenticate(ctx, "nobody", "Secret99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	_, err := users.Create(ctx, "City Pharmacy", "alice", "alice@pharmacy.com", "Secret99")
	require.NoError(t, err)

	_, err = users.Create(ctx, "Other Pharmacy", "alice", "other@pharmacy.com", "Secret99")
	assert.ErrorIs(t, err, ErrConstraintViolation)

	_, err = users.Create(ctx, "Other Pharmacy", "bob", "alice@pharmacy.com", "Secret99")
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestExistencePredicates(t *testing.T) {
	db := newTestDB(t)
	users := NewUserStore(db)
	ctx := context.Background()

	createTestUser(t, db, "alice", "alice@pharmacy.com")

	exists, err := users.UsernameExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = users.UsernameExists(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = users.EmailExists(ctx, "alice@pharmacy.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = users.EmailExists(ctx, "bob@pharmacy.com")
	require.NoError(t, err)
	assert.False(t, exists)
}
