package domain

type Sale struct {
	ID           int64   `json:"id" db:"id"`
	CustomerName string  `json:"customer_name" db:"customer_name"`
	MobileNumber string  `json:"mobile_number" db:"mobile_number"`
	ProductID    int64   `json:"product_id" db:"product_id"`
	Quantity     int64   `json:"quantity" db:"prod_quantity"`
	Amount       float64 `json:"amount" db:"amount"`
	SaleDate     string  `json:"sale_date" db:"sale_date"`
}
