package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BrandRow is one brand-level aggregate as produced by the store.
type BrandRow struct {
	Brand   string
	Units   int
	Revenue float64
	Stock   int
}

// MonthlyRow is one (year, month) aggregate over the car ledger.
type MonthlyRow struct {
	Year    int
	Month   int
	Units   int
	Revenue float64
}

// TotalsRow carries the raw sums needed for car sale totals and averages.
type TotalsRow struct {
	Revenue float64
	Units   int
	Count   int
}

// AccessoryLedgerRow is one accessory-only transaction as stored.
type AccessoryLedgerRow struct {
	Names string
	Total float64
	Date  time.Time
}

// AccessoryRef maps an accessory name to its catalog category and price.
type AccessoryRef struct {
	Name     string
	Category string
	Price    float64
}

// CountsRow carries catalog and admin headcounts for the dashboard.
type CountsRow struct {
	TotalCars               int
	ActiveCars              int
	TotalAdmins             int
	ActiveAdmins            int
	AccessoryInventoryValue float64
}

// Repository exposes the read-side queries the aggregation engine folds over.
// All operations are read only.
type Repository interface {
	BrandRows(ctx context.Context) ([]BrandRow, error)
	MonthlyCarSales(ctx context.Context, from time.Time) ([]MonthlyRow, error)
	CarTotals(ctx context.Context) (TotalsRow, error)
	AccessoryLedgerRows(ctx context.Context) ([]AccessoryLedgerRow, error)
	AccessoryRefs(ctx context.Context) ([]AccessoryRef, error)
	CatalogCounts(ctx context.Context) (CountsRow, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL analytics repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// BrandRows groups the car ledger by the brand of the purchased car. Purchases
// whose car no longer resolves are excluded by the inner join. Stock is summed
// per purchase row, not per distinct car, matching the dashboard's historical
// shape.
func (r *repository) BrandRows(ctx context.Context) ([]BrandRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.brand,
		       COALESCE(SUM(p.quantity), 0),
		       COALESCE(SUM(p.purchase_price), 0),
		       COALESCE(SUM(c.stock_quantity), 0)
		FROM purchases p
		JOIN cars c ON c.id = p.car_id
		GROUP BY c.brand`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BrandRow
	for rows.Next() {
		var row BrandRow
		if err := rows.Scan(&row.Brand, &row.Units, &row.Revenue, &row.Stock); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *repository) MonthlyCarSales(ctx context.Context, from time.Time) ([]MonthlyRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(YEAR FROM purchase_date)::int,
		       EXTRACT(MONTH FROM purchase_date)::int,
		       COALESCE(SUM(quantity), 0),
		       COALESCE(SUM(purchase_price), 0)
		FROM purchases
		WHERE purchase_date >= $1
		GROUP BY 1, 2
		ORDER BY 1, 2`, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MonthlyRow
	for rows.Next() {
		var row MonthlyRow
		if err := rows.Scan(&row.Year, &row.Month, &row.Units, &row.Revenue); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *repository) CarTotals(ctx context.Context) (TotalsRow, error) {
	var row TotalsRow
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(purchase_price), 0),
		       COALESCE(SUM(quantity), 0),
		       COUNT(*)
		FROM purchases`).
		Scan(&row.Revenue, &row.Units, &row.Count)
	return row, err
}

func (r *repository) AccessoryLedgerRows(ctx context.Context) ([]AccessoryLedgerRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT selected_accessories, total_price, purchase_date
		FROM accessory_purchases
		ORDER BY purchase_date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AccessoryLedgerRow
	for rows.Next() {
		var row AccessoryLedgerRow
		if err := rows.Scan(&row.Names, &row.Total, &row.Date); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *repository) AccessoryRefs(ctx context.Context) ([]AccessoryRef, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, category, price FROM accessories`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []AccessoryRef
	for rows.Next() {
		var row AccessoryRef
		if err := rows.Scan(&row.Name, &row.Category, &row.Price); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *repository) CatalogCounts(ctx context.Context) (CountsRow, error) {
	var row CountsRow
	err := r.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM cars),
		       (SELECT COUNT(*) FROM cars WHERE is_active),
		       (SELECT COUNT(*) FROM admins),
		       (SELECT COUNT(*) FROM admins WHERE is_active),
		       (SELECT COALESCE(SUM(price * stock_quantity), 0) FROM accessories WHERE is_active)`).
		Scan(&row.TotalCars, &row.ActiveCars, &row.TotalAdmins, &row.ActiveAdmins, &row.AccessoryInventoryValue)
	return row, err
}
