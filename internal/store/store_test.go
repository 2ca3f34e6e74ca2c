package store

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"medinv/m/internal/database"
	"medinv/m/internal/migrations"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db := database.Connect(":memory:")
	t.Cleanup(func() { db.Close() })
	migrations.Run(db)
	return db
}

func createTestUser(t *testing.T, db *sqlx.DB, username, email string) int64 {
	t.Helper()
	id, err := NewUserStore(db).Create(context.Background(), "City Pharmacy", username, email, "Secret99")
	require.NoError(t, err)
	return id
}
