package catalog

// CarForm carries admin create/update input for a car.
type CarForm struct {
	Brand         string  `json:"brand" validate:"required,max=100"`
	Model         string  `json:"model" validate:"required,max=100"`
	Variant       string  `json:"variant" validate:"max=100"`
	Price         float64 `json:"price" validate:"gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	FuelType      string  `json:"fuel_type" validate:"required,oneof=Petrol Diesel Electric Hybrid CNG"`
	Transmission  string  `json:"transmission" validate:"required,oneof=Manual Automatic"`
	Year          int     `json:"year" validate:"gte=1990,lte=2100"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// AccessoryForm carries admin create/update input for an accessory.
type AccessoryForm struct {
	Name          string  `json:"name" validate:"required,max=150"`
	Category      string  `json:"category" validate:"required,max=100"`
	Price         float64 `json:"price" validate:"gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

// CarPage is the paginated car listing payload.
type CarPage struct {
	Cars       []Car `json:"cars"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int   `json:"total"`
	TotalPages int   `json:"total_pages"`
}
