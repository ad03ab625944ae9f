package sales

// CarPurchaseRequest is the payload for recording a car sale.
type CarPurchaseRequest struct {
	CarID       int64    `json:"car_id" validate:"required,gt=0"`
	BuyerName   string   `json:"buyer_name" validate:"required,max=200"`
	BuyerEmail  string   `json:"buyer_email" validate:"required,email"`
	Quantity    int      `json:"quantity" validate:"required,gt=0"`
	Price       *float64 `json:"purchase_price,omitempty" validate:"omitempty,gt=0"`
	Accessories []string `json:"accessories,omitempty" validate:"max=50"`
}

// AccessoryPurchaseRequest is the payload for an accessory-only sale.
type AccessoryPurchaseRequest struct {
	BuyerName   string   `json:"buyer_name" validate:"required,max=200"`
	BuyerEmail  string   `json:"buyer_email" validate:"required,email"`
	Accessories []string `json:"accessories" validate:"required,min=1,max=50"`
}

// PurchasePage is the paginated ledger listing payload.
type PurchasePage struct {
	Purchases  []Purchase `json:"purchases"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
}

// AccessoryPurchasePage is the paginated accessory-only ledger payload.
type AccessoryPurchasePage struct {
	Purchases  []AccessoryPurchase `json:"purchases"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	Total      int                 `json:"total"`
	TotalPages int                 `json:"total_pages"`
}
