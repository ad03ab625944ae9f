package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zedcars/zedcars/internal/platform/httpx"
)

// Repository defines persistence operations for the catalog.
type Repository interface {
	ListCars(ctx context.Context, filters CarFilters) ([]Car, int, error)
	GetCar(ctx context.Context, id int64) (Car, error)
	CreateCar(ctx context.Context, car Car) (Car, error)
	UpdateCar(ctx context.Context, id int64, car Car) error
	DeactivateCar(ctx context.Context, id int64) error

	ListAccessories(ctx context.Context, filters AccessoryFilters) ([]Accessory, error)
	GetAccessory(ctx context.Context, id int64) (Accessory, error)
	GetAccessoryByName(ctx context.Context, name string) (Accessory, error)
	CreateAccessory(ctx context.Context, accessory Accessory) (Accessory, error)
	UpdateAccessory(ctx context.Context, id int64, accessory Accessory) error
	DeactivateAccessory(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL catalog repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const carColumns = `id, brand, model, variant, price, stock_quantity, fuel_type, transmission, year, is_active, created_at, updated_at`

func carConditions(filters CarFilters) (string, []interface{}) {
	clause := ""
	args := []interface{}{}
	n := 0

	if filters.Brand != "" {
		n++
		clause += ` AND LOWER(brand) = LOWER($` + strconv.Itoa(n) + `)`
		args = append(args, filters.Brand)
	}
	if filters.FuelType != "" {
		n++
		clause += ` AND LOWER(fuel_type) = LOWER($` + strconv.Itoa(n) + `)`
		args = append(args, filters.FuelType)
	}
	if filters.PriceMin != nil {
		n++
		clause += ` AND price >= $` + strconv.Itoa(n)
		args = append(args, *filters.PriceMin)
	}
	if filters.PriceMax != nil {
		n++
		clause += ` AND price <= $` + strconv.Itoa(n)
		args = append(args, *filters.PriceMax)
	}
	if filters.OnlyActive {
		clause += ` AND is_active = TRUE`
	}
	return clause, args
}

func (r *repository) ListCars(ctx context.Context, filters CarFilters) ([]Car, int, error) {
	clause, args := carConditions(filters)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM cars WHERE 1=1`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + carColumns + ` FROM cars WHERE 1=1` + clause + ` ORDER BY brand, model`
	n := len(args)
	if filters.PerPage > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		query += ` LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)
		args = append(args, filters.PerPage, (page-1)*filters.PerPage)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cars []Car
	for rows.Next() {
		var c Car
		if err := rows.Scan(&c.ID, &c.Brand, &c.Model, &c.Variant, &c.Price, &c.StockQuantity,
			&c.FuelType, &c.Transmission, &c.Year, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		cars = append(cars, c)
	}
	return cars, total, rows.Err()
}

func (r *repository) GetCar(ctx context.Context, id int64) (Car, error) {
	var c Car
	err := r.pool.QueryRow(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id).
		Scan(&c.ID, &c.Brand, &c.Model, &c.Variant, &c.Price, &c.StockQuantity,
			&c.FuelType, &c.Transmission, &c.Year, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Car{}, httpx.ErrNotFound
	}
	return c, err
}

func (r *repository) CreateCar(ctx context.Context, car Car) (Car, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cars (brand, model, variant, price, stock_quantity, fuel_type, transmission, year, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		car.Brand, car.Model, car.Variant, car.Price, car.StockQuantity,
		car.FuelType, car.Transmission, car.Year, car.IsActive, now, now).Scan(&car.ID)
	if err != nil {
		return Car{}, err
	}
	car.CreatedAt = now
	car.UpdatedAt = now
	return car, nil
}

func (r *repository) UpdateCar(ctx context.Context, id int64, car Car) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cars SET brand = $1, model = $2, variant = $3, price = $4, stock_quantity = $5,
		 fuel_type = $6, transmission = $7, year = $8, is_active = $9, updated_at = $10 WHERE id = $11`,
		car.Brand, car.Model, car.Variant, car.Price, car.StockQuantity,
		car.FuelType, car.Transmission, car.Year, car.IsActive, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) DeactivateCar(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cars SET is_active = FALSE, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

const accessoryColumns = `id, name, category, price, stock_quantity, is_active, created_at, updated_at`

func (r *repository) ListAccessories(ctx context.Context, filters AccessoryFilters) ([]Accessory, error) {
	query := `SELECT ` + accessoryColumns + ` FROM accessories WHERE 1=1`
	args := []interface{}{}
	if filters.Category != "" {
		args = append(args, filters.Category)
		query += ` AND LOWER(category) = LOWER($` + strconv.Itoa(len(args)) + `)`
	}
	if filters.OnlyActive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY category, name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accessories []Accessory
	for rows.Next() {
		var a Accessory
		if err := rows.Scan(&a.ID, &a.Name, &a.Category, &a.Price, &a.StockQuantity,
			&a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accessories = append(accessories, a)
	}
	return accessories, rows.Err()
}

func (r *repository) GetAccessory(ctx context.Context, id int64) (Accessory, error) {
	var a Accessory
	err := r.pool.QueryRow(ctx, `SELECT `+accessoryColumns+` FROM accessories WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.Category, &a.Price, &a.StockQuantity, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Accessory{}, httpx.ErrNotFound
	}
	return a, err
}

func (r *repository) GetAccessoryByName(ctx context.Context, name string) (Accessory, error) {
	var a Accessory
	err := r.pool.QueryRow(ctx, `SELECT `+accessoryColumns+` FROM accessories WHERE name = $1`, name).
		Scan(&a.ID, &a.Name, &a.Category, &a.Price, &a.StockQuantity, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Accessory{}, httpx.ErrNotFound
	}
	return a, err
}

func (r *repository) CreateAccessory(ctx context.Context, accessory Accessory) (Accessory, error) {
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx,
		`INSERT INTO accessories (name, category, price, stock_quantity, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		accessory.Name, accessory.Category, accessory.Price, accessory.StockQuantity, accessory.IsActive, now, now).
		Scan(&accessory.ID)
	if err != nil {
		return Accessory{}, err
	}
	accessory.CreatedAt = now
	accessory.UpdatedAt = now
	return accessory, nil
}

func (r *repository) UpdateAccessory(ctx context.Context, id int64, accessory Accessory) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accessories SET name = $1, category = $2, price = $3, stock_quantity = $4, is_active = $5, updated_at = $6 WHERE id = $7`,
		accessory.Name, accessory.Category, accessory.Price, accessory.StockQuantity, accessory.IsActive, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) DeactivateAccessory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE accessories SET is_active = FALSE, updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
