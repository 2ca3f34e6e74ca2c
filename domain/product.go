package domain

// Product is a stocked medicine owned by exactly one user. Expiry dates are
// ISO-8601 day strings, which compare correctly as text in SQLite.
type Product struct {
	ID         int64   `json:"id" db:"id"`
	UserID     int64   `json:"user_id" db:"user_id"`
	Name       string  `json:"name" db:"name"`
	ExpiryDate string  `json:"expiry_date" db:"expiry_date"`
	Quantity   int64   `json:"quantity" db:"quantity"`
	Amount     float64 `json:"amount" db:"amount"`
}

// ExpiryAlert flags a product expiring inside the configured window.
type ExpiryAlert struct {
	Name       string `json:"name" db:"name"`
	ExpiryDate string `json:"expiry_date" db:"expiry_date"`
}

// StockAlert flags a product whose quantity fell under the low-stock threshold.
type StockAlert struct {
	Name     string `json:"name" db:"name"`
	Quantity int64  `json:"quantity" db:"quantity"`
}
