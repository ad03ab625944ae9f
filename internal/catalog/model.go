package catalog

import "time"

// Car represents a vehicle in the dealership catalog.
type Car struct {
	ID            int64     `json:"id" db:"id"`
	Brand         string    `json:"brand" db:"brand"`
	Model         string    `json:"model" db:"model"`
	Variant       string    `json:"variant" db:"variant"`
	Price         float64   `json:"price" db:"price"`
	StockQuantity int       `json:"stock_quantity" db:"stock_quantity"`
	FuelType      string    `json:"fuel_type" db:"fuel_type"`
	Transmission  string    `json:"transmission" db:"transmission"`
	Year          int       `json:"year" db:"year"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Accessory represents an add-on product; the name doubles as the join key
// used by the purchase ledger's denormalised accessory lists.
type Accessory struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Category      string    `json:"category" db:"category"`
	Price         float64   `json:"price" db:"price"`
	StockQuantity int       `json:"stock_quantity" db:"stock_quantity"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
