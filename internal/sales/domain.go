package sales

import (
	"time"

	"github.com/google/uuid"
)

// Purchase records a car sale. The price is snapshotted at sale time and never
// recomputed when the catalog price changes; rows are append-only.
type Purchase struct {
	ID            int64     `json:"id" db:"id"`
	Reference     uuid.UUID `json:"reference" db:"reference"`
	CarID         int64     `json:"car_id" db:"car_id"`
	BuyerName     string    `json:"buyer_name" db:"buyer_name"`
	BuyerEmail    string    `json:"buyer_email" db:"buyer_email"`
	Quantity      int       `json:"quantity" db:"quantity"`
	Price         float64   `json:"purchase_price" db:"purchase_price"`
	AccessoryList string    `json:"selected_accessories" db:"selected_accessories"`
	PurchaseDate  time.Time `json:"purchase_date" db:"purchase_date"`
}

// AccessoryPurchase records an accessory-only transaction with no car attached.
type AccessoryPurchase struct {
	ID            int64     `json:"id" db:"id"`
	Reference     uuid.UUID `json:"reference" db:"reference"`
	BuyerName     string    `json:"buyer_name" db:"buyer_name"`
	BuyerEmail    string    `json:"buyer_email" db:"buyer_email"`
	AccessoryList string    `json:"selected_accessories" db:"selected_accessories"`
	TotalPrice    float64   `json:"total_price" db:"total_price"`
	PurchaseDate  time.Time `json:"purchase_date" db:"purchase_date"`
}
