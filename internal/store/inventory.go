package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"medinv/m/domain"
)

const dateLayout = "2006-01-02"

// InventoryStore is the inventory ledger. Every read is scoped to the owning
// user id; products of other pharmacies must never be visible.
type InventoryStore struct {
	db *sqlx.DB
}

// NewInventoryStore constructs an InventoryStore.
func NewInventoryStore(db *sqlx.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

// Add inserts a product for the given user. Duplicate names within a user are
// allowed.
func (s *InventoryStore) Add(ctx context.Context, userID int64, name, expiryDate string, quantity int64, amount float64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (user_id, name, expiry_date, quantity, amount) VALUES (?, ?, ?, ?, ?)`,
		userID, name, expiryDate, quantity, amount)
	if err != nil {
		return 0, fmt.Errorf("failed to add product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read product id: %w", err)
	}
	return id, nil
}

// RemoveByName deletes every product matching name exactly, across ALL users.
// That scope is wider than the per-user isolation used everywhere else; it is
// kept to match the existing removal behavior. Returns the number of rows
// deleted, or ErrNotFound when nothing matched.
func (s *InventoryStore) RemoveByName(ctx context.Context, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE name = ?`, name)
	if err != nil {
		return 0, fmt.Errorf("failed to remove products: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if deleted == 0 {
		return 0, ErrNotFound
	}
	return deleted, nil
}

// Search returns the user's products whose name contains pattern.
func (s *InventoryStore) Search(ctx context.Context, userID int64, pattern string) ([]domain.Product, error) {
	products := []domain.Product{}
	err := s.db.SelectContext(ctx, &products,
		`SELECT id, user_id, name, expiry_date, quantity, amount FROM products WHERE user_id = ? AND name LIKE ?`,
		userID, "%"+pattern+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// List returns all products owned by the user in insertion order.
func (s *InventoryStore) List(ctx context.Context, userID int64) ([]domain.Product, error) {
	products := []domain.Product{}
	err := s.db.SelectContext(ctx, &products,
		`SELECT id, user_id, name, expiry_date, quantity, amount FROM products WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// IDByName resolves a product id by exact name within the user's inventory.
func (s *InventoryStore) IDByName(ctx context.Context, userID int64, name string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id,
		`SELECT id FROM products WHERE user_id = ? AND name = ?`, userID, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to resolve product id: %w", err)
	}
	return id, nil
}

// Expiring returns the user's products whose expiry date falls within
// [today, today+thresholdDays], both ends inclusive.
func (s *InventoryStore) Expiring(ctx context.Context, userID int64, today time.Time, thresholdDays int) ([]domain.ExpiryAlert, error) {
	from := today.Format(dateLayout)
	to := today.AddDate(0, 0, thresholdDays).Format(dateLayout)
	alerts := []domain.ExpiryAlert{}
	err := s.db.SelectContext(ctx, &alerts,
		`SELECT name, expiry_date FROM products WHERE user_id = ? AND expiry_date BETWEEN ? AND ?`,
		userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to check expiring products: %w", err)
	}
	return alerts, nil
}

// LowStock returns the user's products with quantity strictly below
// thresholdQty. Equal-to-threshold is not low stock.
func (s *InventoryStore) LowStock(ctx context.Context, userID int64, thresholdQty int64) ([]domain.StockAlert, error) {
	alerts := []domain.StockAlert{}
	err := s.db.SelectContext(ctx, &alerts,
		`SELECT name, quantity FROM products WHERE user_id = ? AND quantity < ?`,
		userID, thresholdQty)
	if err != nil {
		return nil, fmt.Errorf("failed to check low stock: %w", err)
	}
	return alerts, nil
}

// DecrementQuantity subtracts soldQty from the product's quantity. The write
// refuses to drive quantity below zero and reports ErrInsufficientStock
// instead, so inventory can never go negative through a sale.
func (s *InventoryStore) DecrementQuantity(ctx context.Context, productID, soldQty int64) error {
	return decrementQuantity(ctx, s.db, productID, soldQty)
}

// execer covers both *sqlx.DB and *sqlx.Tx so the decrement can run inside
// the sale transaction.
type execer interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func decrementQuantity(ctx context.Context, e execer, productID, soldQty int64) error {
	var current int64
	err := e.GetContext(ctx, &current, `SELECT quantity FROM products WHERE id = ?`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load product quantity: %w", err)
	}
	if current < soldQty {
		return ErrInsufficientStock
	}
	if _, err := e.ExecContext(ctx, `UPDATE products SET quantity = quantity - ? WHERE id = ?`, soldQty, productID); err != nil {
		return fmt.Errorf("failed to update product quantity: %w", err)
	}
	return nil
}
