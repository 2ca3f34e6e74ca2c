package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"medinv/m/domain"
)

// UserStore is the user directory: one row per pharmacy account.
type UserStore struct {
	db *sqlx.DB
}

// NewUserStore constructs a UserStore.
func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user with a bcrypt-hashed password. Duplicate usernames
// or emails are rejected by the store-level UNIQUE constraints and surfaced as
// ErrConstraintViolation.
func (s *UserStore) Create(ctx context.Context, pharmacyName, username, email, password string) (int64, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (pharmacy_name, username, email, password) VALUES (?, ?, ?, ?)`,
		pharmacyName, username, email, hashed)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrConstraintViolation
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user id: %w", err)
	}
	return id, nil
}

// UsernameExists reports whether a user with the given username exists.
func (s *UserStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

// EmailExists reports whether a user with the given email exists.
func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// Authenticate compares the password against the stored bcrypt hash and
// returns the matching user. Unknown usernames and wrong passwords both
// yield ErrInvalidCredentials.
func (s *UserStore) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, pharmacy_name, username, email, password, created_at FROM users WHERE username = ?`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	user.Password = ""
	return &user, nil
}
