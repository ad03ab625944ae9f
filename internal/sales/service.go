package sales

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/zedcars/zedcars/internal/catalog"
	"github.com/zedcars/zedcars/internal/platform/httpx"
	"github.com/zedcars/zedcars/internal/shared"
)

// CatalogReader is the slice of the catalog the ledger needs.
type CatalogReader interface {
	GetCar(ctx context.Context, id int64) (catalog.Car, error)
	ListAccessories(ctx context.Context, filters catalog.AccessoryFilters) ([]catalog.Accessory, error)
}

// CacheBumper invalidates derived aggregates after a ledger write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service provides business logic for the purchase ledger.
type Service struct {
	repo     Repository
	catalog  CatalogReader
	cache    CacheBumper
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewService constructs a ledger service.
func NewService(repo Repository, catalogReader CatalogReader, cache CacheBumper, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		catalog:  catalogReader,
		cache:    cache,
		logger:   logger,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// RecordCarPurchase appends a car sale to the ledger. The purchase price is
// snapshotted from the catalog unless an explicit price is given, stock is
// decremented clamped at zero, and one purchase_accessories row is written per
// selected accessory.
func (s *Service) RecordCarPurchase(ctx context.Context, req CarPurchaseRequest) (Purchase, error) {
	if err := s.validate.Struct(req); err != nil {
		return Purchase{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}

	car, err := s.catalog.GetCar(ctx, req.CarID)
	if err != nil {
		return Purchase{}, fmt.Errorf("lookup car: %w", err)
	}

	price := car.Price * float64(req.Quantity)
	if req.Price != nil {
		price = *req.Price
	}

	names := shared.SplitNames(shared.JoinNames(req.Accessories))
	purchase := Purchase{
		Reference:     uuid.New(),
		CarID:         car.ID,
		BuyerName:     req.BuyerName,
		BuyerEmail:    req.BuyerEmail,
		Quantity:      req.Quantity,
		Price:         price,
		AccessoryList: shared.JoinNames(req.Accessories),
		PurchaseDate:  s.now().UTC(),
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertPurchase(ctx, purchase)
		if err != nil {
			return fmt.Errorf("insert purchase: %w", err)
		}
		purchase.ID = id
		if err := tx.InsertPurchaseAccessories(ctx, id, names); err != nil {
			return fmt.Errorf("insert purchase accessories: %w", err)
		}
		if err := tx.DecrementCarStock(ctx, car.ID, req.Quantity); err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return Purchase{}, err
	}

	s.bumpCache(ctx)
	return purchase, nil
}

// RecordAccessoryOnlyPurchase appends an accessory-only sale. The total is the
// sum of catalog prices for the named accessories; names missing from the
// catalog contribute zero rather than failing the sale.
func (s *Service) RecordAccessoryOnlyPurchase(ctx context.Context, req AccessoryPurchaseRequest) (AccessoryPurchase, error) {
	if err := s.validate.Struct(req); err != nil {
		return AccessoryPurchase{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}

	names := shared.SplitNames(shared.JoinNames(req.Accessories))
	if len(names) == 0 {
		return AccessoryPurchase{}, fmt.Errorf("%w: no accessories selected", httpx.ErrValidation)
	}

	catalogPrices, err := s.accessoryPriceIndex(ctx)
	if err != nil {
		return AccessoryPurchase{}, fmt.Errorf("load accessory prices: %w", err)
	}

	var total float64
	for _, name := range names {
		total += catalogPrices[name]
	}

	purchase := AccessoryPurchase{
		Reference:     uuid.New(),
		BuyerName:     req.BuyerName,
		BuyerEmail:    req.BuyerEmail,
		AccessoryList: shared.JoinNames(names),
		TotalPrice:    total,
		PurchaseDate:  s.now().UTC(),
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertAccessoryPurchase(ctx, purchase)
		if err != nil {
			return fmt.Errorf("insert accessory purchase: %w", err)
		}
		purchase.ID = id
		return nil
	})
	if err != nil {
		return AccessoryPurchase{}, err
	}

	s.bumpCache(ctx)
	return purchase, nil
}

// ListPurchases returns one page of the car sale ledger, newest first.
func (s *Service) ListPurchases(ctx context.Context, page, perPage int) ([]Purchase, shared.Pagination, error) {
	page, perPage = normalisePage(page, perPage)
	purchases, total, err := s.repo.ListPurchases(ctx, page, perPage)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list purchases: %w", err)
	}
	return purchases, shared.NewPagination(page, perPage, total), nil
}

// GetPurchase returns one ledger row with its accessory names resolved from
// the normalised side table.
func (s *Service) GetPurchase(ctx context.Context, id int64) (Purchase, []string, error) {
	purchase, err := s.repo.GetPurchase(ctx, id)
	if err != nil {
		return Purchase{}, nil, err
	}
	names, err := s.repo.PurchaseAccessoryNames(ctx, id)
	if err != nil {
		return Purchase{}, nil, fmt.Errorf("purchase accessories: %w", err)
	}
	return purchase, names, nil
}

// ListAccessoryPurchases returns one page of the accessory-only ledger.
func (s *Service) ListAccessoryPurchases(ctx context.Context, page, perPage int) ([]AccessoryPurchase, shared.Pagination, error) {
	page, perPage = normalisePage(page, perPage)
	purchases, total, err := s.repo.ListAccessoryPurchases(ctx, page, perPage)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list accessory purchases: %w", err)
	}
	return purchases, shared.NewPagination(page, perPage, total), nil
}

func (s *Service) accessoryPriceIndex(ctx context.Context) (map[string]float64, error) {
	accessories, err := s.catalog.ListAccessories(ctx, catalog.AccessoryFilters{})
	if err != nil {
		return nil, err
	}
	index := make(map[string]float64, len(accessories))
	for _, a := range accessories {
		index[a.Name] = a.Price
	}
	return index, nil
}

func (s *Service) bumpCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil && s.logger != nil {
		s.logger.Warn("bump analytics cache", slog.Any("error", err))
	}
}

func normalisePage(page, perPage int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	return page, perPage
}
