package domain

type User struct {
	ID           int64  `json:"id" db:"id"`
	PharmacyName string `json:"pharmacy_name" db:"pharmacy_name"`
	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	Password     string `json:"password,omitempty" db:"password"`
	CreatedAt    string `json:"created_at,omitempty" db:"created_at"`
}
