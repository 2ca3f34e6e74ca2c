package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medinv/m/domain"
)

// SalesStore is the append-only sales ledger. Sales are never updated or
// deleted once recorded.
type SalesStore struct {
	db *sqlx.DB
}

// NewSalesStore constructs a SalesStore.
func NewSalesStore(db *sqlx.DB) *SalesStore {
	return &SalesStore{db: db}
}

// Record inserts the sale and decrements the referenced product's quantity in
// a single transaction. Either both writes commit or neither does, so the
// sales history can never drift from inventory.
func (s *SalesStore) Record(ctx context.Context, sale domain.Sale) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin sale transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sales (customer_name, mobile_number, product_id, prod_quantity, amount, sale_date) VALUES (?, ?, ?, ?, ?, ?)`,
		sale.CustomerName, sale.MobileNumber, sale.ProductID, sale.Quantity, sale.Amount, sale.SaleDate)
	if err != nil {
		return 0, fmt.Errorf("failed to insert sale: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read sale id: %w", err)
	}

	if err := decrementQuantity(ctx, tx, sale.ProductID, sale.Quantity); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sale: %w", err)
	}
	return id, nil
}

// FindByID returns the sale with the given id, or ErrNotFound.
func (s *SalesStore) FindByID(ctx context.Context, id int64) (*domain.Sale, error) {
	var sale domain.Sale
	err := s.db.GetContext(ctx, &sale,
		`SELECT id, customer_name, mobile_number, product_id, prod_quantity, amount, sale_date FROM sales WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}
	return &sale, nil
}

// FindByDate returns all sales recorded on the given ISO-8601 day.
func (s *SalesStore) FindByDate(ctx context.Context, date string) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	err := s.db.SelectContext(ctx, &sales,
		`SELECT id, customer_name, mobile_number, product_id, prod_quantity, amount, sale_date FROM sales WHERE sale_date = ?`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales by date: %w", err)
	}
	return sales, nil
}

// ProductName resolves the display name for a sold product, e.g. for
// invoice rendering.
func (s *SalesStore) ProductName(ctx context.Context, productID int64) (string, error) {
	var name string
	err := s.db.GetContext(ctx, &name, `SELECT name FROM products WHERE id = ?`, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve product name: %w", err)
	}
	return name, nil
}
