package sales

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zedcars/zedcars/internal/platform/db"
	"github.com/zedcars/zedcars/internal/platform/httpx"
)

// TxRepository exposes the write operations available inside a ledger transaction.
type TxRepository interface {
	InsertPurchase(ctx context.Context, purchase Purchase) (int64, error)
	InsertPurchaseAccessories(ctx context.Context, purchaseID int64, names []string) error
	DecrementCarStock(ctx context.Context, carID int64, quantity int) error
	InsertAccessoryPurchase(ctx context.Context, purchase AccessoryPurchase) (int64, error)
}

// Repository defines persistence operations for the purchase ledger.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListPurchases(ctx context.Context, page, perPage int) ([]Purchase, int, error)
	GetPurchase(ctx context.Context, id int64) (Purchase, error)
	PurchaseAccessoryNames(ctx context.Context, purchaseID int64) ([]string, error)
	ListAccessoryPurchases(ctx context.Context, page, perPage int) ([]AccessoryPurchase, int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL ledger repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (t *txRepo) InsertPurchase(ctx context.Context, purchase Purchase) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO purchases (reference, car_id, buyer_name, buyer_email, quantity, purchase_price, selected_accessories, purchase_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		purchase.Reference, purchase.CarID, purchase.BuyerName, purchase.BuyerEmail, purchase.Quantity,
		purchase.Price, purchase.AccessoryList, purchase.PurchaseDate).Scan(&id)
	return id, err
}

func (t *txRepo) InsertPurchaseAccessories(ctx context.Context, purchaseID int64, names []string) error {
	for _, name := range names {
		if _, err := t.tx.Exec(ctx,
			`INSERT INTO purchase_accessories (purchase_id, accessory_name) VALUES ($1, $2)`,
			purchaseID, name); err != nil {
			return err
		}
	}
	return nil
}

// DecrementCarStock reduces available stock, clamped at zero. Overselling does
// not block the sale.
func (t *txRepo) DecrementCarStock(ctx context.Context, carID int64, quantity int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE cars SET stock_quantity = GREATEST(stock_quantity - $1, 0), updated_at = NOW() WHERE id = $2`,
		quantity, carID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (t *txRepo) InsertAccessoryPurchase(ctx context.Context, purchase AccessoryPurchase) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx,
		`INSERT INTO accessory_purchases (reference, buyer_name, buyer_email, selected_accessories, total_price, purchase_date)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		purchase.Reference, purchase.BuyerName, purchase.BuyerEmail, purchase.AccessoryList,
		purchase.TotalPrice, purchase.PurchaseDate).Scan(&id)
	return id, err
}

func (r *repository) ListPurchases(ctx context.Context, page, perPage int) ([]Purchase, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchases`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, reference, car_id, buyer_name, buyer_email, quantity, purchase_price, selected_accessories, purchase_date
		 FROM purchases ORDER BY purchase_date DESC, id DESC LIMIT $1 OFFSET $2`,
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var purchases []Purchase
	for rows.Next() {
		var p Purchase
		if err := rows.Scan(&p.ID, &p.Reference, &p.CarID, &p.BuyerName, &p.BuyerEmail, &p.Quantity,
			&p.Price, &p.AccessoryList, &p.PurchaseDate); err != nil {
			return nil, 0, err
		}
		purchases = append(purchases, p)
	}
	return purchases, total, rows.Err()
}

func (r *repository) GetPurchase(ctx context.Context, id int64) (Purchase, error) {
	var p Purchase
	err := r.pool.QueryRow(ctx,
		`SELECT id, reference, car_id, buyer_name, buyer_email, quantity, purchase_price, selected_accessories, purchase_date
		 FROM purchases WHERE id = $1`, id).
		Scan(&p.ID, &p.Reference, &p.CarID, &p.BuyerName, &p.BuyerEmail, &p.Quantity, &p.Price, &p.AccessoryList, &p.PurchaseDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Purchase{}, httpx.ErrNotFound
	}
	return p, err
}

// PurchaseAccessoryNames reads the normalised per-accessory rows; it must agree
// with the comma-joined list stored on the purchase itself.
func (r *repository) PurchaseAccessoryNames(ctx context.Context, purchaseID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT accessory_name FROM purchase_accessories WHERE purchase_id = $1 ORDER BY id`, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *repository) ListAccessoryPurchases(ctx context.Context, page, perPage int) ([]AccessoryPurchase, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accessory_purchases`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, reference, buyer_name, buyer_email, selected_accessories, total_price, purchase_date
		 FROM accessory_purchases ORDER BY purchase_date DESC, id DESC LIMIT $1 OFFSET $2`,
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var purchases []AccessoryPurchase
	for rows.Next() {
		var p AccessoryPurchase
		if err := rows.Scan(&p.ID, &p.Reference, &p.BuyerName, &p.BuyerEmail, &p.AccessoryList, &p.TotalPrice, &p.PurchaseDate); err != nil {
			return nil, 0, err
		}
		purchases = append(purchases, p)
	}
	return purchases, total, rows.Err()
}
