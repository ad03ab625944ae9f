package sales

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zedcars/zedcars/internal/catalog"
	"github.com/zedcars/zedcars/internal/platform/httpx"
	"github.com/zedcars/zedcars/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	purchases          map[int64]Purchase
	purchaseAccs       map[int64][]string
	accessoryPurchases map[int64]AccessoryPurchase
	stock              map[int64]int
	nextPurchaseID     int64
	nextAccPurchaseID  int64

	txError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		purchases:          make(map[int64]Purchase),
		purchaseAccs:       make(map[int64][]string),
		accessoryPurchases: make(map[int64]AccessoryPurchase),
		stock:              make(map[int64]int),
		nextPurchaseID:     1,
		nextAccPurchaseID:  1,
	}
}

type mockTxRepo struct {
	mock *mockRepository
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if m.txError != nil {
		return m.txError
	}
	return fn(ctx, &mockTxRepo{mock: m})
}

func (t *mockTxRepo) InsertPurchase(ctx context.Context, purchase Purchase) (int64, error) {
	id := t.mock.nextPurchaseID
	t.mock.nextPurchaseID++
	purchase.ID = id
	t.mock.purchases[id] = purchase
	return id, nil
}

func (t *mockTxRepo) InsertPurchaseAccessories(ctx context.Context, purchaseID int64, names []string) error {
	t.mock.purchaseAccs[purchaseID] = append([]string(nil), names...)
	return nil
}

func (t *mockTxRepo) DecrementCarStock(ctx context.Context, carID int64, quantity int) error {
	current, ok := t.mock.stock[carID]
	if !ok {
		return httpx.ErrNotFound
	}
	current -= quantity
	if current < 0 {
		current = 0
	}
	t.mock.stock[carID] = current
	return nil
}

func (t *mockTxRepo) InsertAccessoryPurchase(ctx context.Context, purchase AccessoryPurchase) (int64, error) {
	id := t.mock.nextAccPurchaseID
	t.mock.nextAccPurchaseID++
	purchase.ID = id
	t.mock.accessoryPurchases[id] = purchase
	return id, nil
}

func (m *mockRepository) ListPurchases(ctx context.Context, page, perPage int) ([]Purchase, int, error) {
	var all []Purchase
	for _, p := range m.purchases {
		all = append(all, p)
	}
	return all, len(all), nil
}

func (m *mockRepository) GetPurchase(ctx context.Context, id int64) (Purchase, error) {
	p, ok := m.purchases[id]
	if !ok {
		return Purchase{}, httpx.ErrNotFound
	}
	return p, nil
}

func (m *mockRepository) PurchaseAccessoryNames(ctx context.Context, purchaseID int64) ([]string, error) {
	return m.purchaseAccs[purchaseID], nil
}

func (m *mockRepository) ListAccessoryPurchases(ctx context.Context, page, perPage int) ([]AccessoryPurchase, int, error) {
	var all []AccessoryPurchase
	for _, p := range m.accessoryPurchases {
		all = append(all, p)
	}
	return all, len(all), nil
}

var _ Repository = (*mockRepository)(nil)

type mockCatalog struct {
	cars        map[int64]catalog.Car
	accessories []catalog.Accessory
}

func (m *mockCatalog) GetCar(ctx context.Context, id int64) (catalog.Car, error) {
	c, ok := m.cars[id]
	if !ok {
		return catalog.Car{}, httpx.ErrNotFound
	}
	return c, nil
}

func (m *mockCatalog) ListAccessories(ctx context.Context, filters catalog.AccessoryFilters) ([]catalog.Accessory, error) {
	return m.accessories, nil
}

type mockBumper struct {
	bumps int
}

func (m *mockBumper) Bump(ctx context.Context) error {
	m.bumps++
	return nil
}

func newTestService(repo *mockRepository, cat *mockCatalog, bumper *mockBumper) *Service {
	svc := NewService(repo, cat, bumper, slog.Default())
	svc.WithNow(func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) })
	return svc
}

// ============================================================================
// TESTS
// ============================================================================

func TestRecordCarPurchaseSnapshotsPrice(t *testing.T) {
	repo := newMockRepository()
	repo.stock[1] = 5
	cat := &mockCatalog{cars: map[int64]catalog.Car{
		1: {ID: 1, Brand: "Toyota", Model: "Corolla", Price: 20000, StockQuantity: 5},
	}}
	bumper := &mockBumper{}
	svc := newTestService(repo, cat, bumper)

	purchase, err := svc.RecordCarPurchase(context.Background(), CarPurchaseRequest{
		CarID:       1,
		BuyerName:   "Ayesha Khan",
		BuyerEmail:  "ayesha@example.com",
		Quantity:    2,
		Accessories: []string{" Floor Mats ", "", "Roof Rack"},
	})
	require.NoError(t, err)

	assert.Equal(t, 40000.0, purchase.Price)
	assert.NotEqual(t, uuid.Nil, purchase.Reference)
	assert.Equal(t, "Floor Mats,Roof Rack", purchase.AccessoryList)
	assert.Equal(t, []string{"Floor Mats", "Roof Rack"}, repo.purchaseAccs[purchase.ID])
	assert.Equal(t, 3, repo.stock[1])
	assert.Equal(t, 1, bumper.bumps)
}

func TestRecordCarPurchaseExplicitPrice(t *testing.T) {
	repo := newMockRepository()
	repo.stock[1] = 1
	cat := &mockCatalog{cars: map[int64]catalog.Car{1: {ID: 1, Price: 20000}}}
	svc := newTestService(repo, cat, &mockBumper{})

	price := 17500.0
	purchase, err := svc.RecordCarPurchase(context.Background(), CarPurchaseRequest{
		CarID:      1,
		BuyerName:  "Dealer Special",
		BuyerEmail: "deal@example.com",
		Quantity:   1,
		Price:      &price,
	})
	require.NoError(t, err)
	assert.Equal(t, 17500.0, purchase.Price)
}

func TestRecordCarPurchaseUnknownCar(t *testing.T) {
	svc := newTestService(newMockRepository(), &mockCatalog{cars: map[int64]catalog.Car{}}, &mockBumper{})

	_, err := svc.RecordCarPurchase(context.Background(), CarPurchaseRequest{
		CarID:      99,
		BuyerName:  "Nobody",
		BuyerEmail: "nobody@example.com",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestRecordCarPurchaseStockClampedAtZero(t *testing.T) {
	repo := newMockRepository()
	repo.stock[1] = 1
	cat := &mockCatalog{cars: map[int64]catalog.Car{1: {ID: 1, Price: 10000, StockQuantity: 1}}}
	svc := newTestService(repo, cat, &mockBumper{})

	// Overselling is allowed; stock floors at zero instead of going negative.
	purchase, err := svc.RecordCarPurchase(context.Background(), CarPurchaseRequest{
		CarID:      1,
		BuyerName:  "Bulk Buyer",
		BuyerEmail: "bulk@example.com",
		Quantity:   4,
	})
	require.NoError(t, err)
	assert.Equal(t, 40000.0, purchase.Price)
	assert.Equal(t, 0, repo.stock[1])
}

func TestRecordCarPurchaseValidation(t *testing.T) {
	svc := newTestService(newMockRepository(), &mockCatalog{}, &mockBumper{})

	_, err := svc.RecordCarPurchase(context.Background(), CarPurchaseRequest{
		CarID:      1,
		BuyerName:  "No Email",
		BuyerEmail: "not-an-email",
		Quantity:   1,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.RecordCarPurchase(context.Background(), CarPurchaseRequest{
		CarID:      1,
		BuyerName:  "Zero Quantity",
		BuyerEmail: "zero@example.com",
		Quantity:   0,
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestRecordAccessoryOnlyPurchaseTotals(t *testing.T) {
	repo := newMockRepository()
	cat := &mockCatalog{accessories: []catalog.Accessory{
		{Name: "Floor Mats", Category: "Interior", Price: 120},
		{Name: "Roof Rack", Category: "Exterior", Price: 250},
	}}
	bumper := &mockBumper{}
	svc := newTestService(repo, cat, bumper)

	// "Dash Cam" is not in the catalog and contributes zero.
	purchase, err := svc.RecordAccessoryOnlyPurchase(context.Background(), AccessoryPurchaseRequest{
		BuyerName:   "Rahul Verma",
		BuyerEmail:  "rahul@example.com",
		Accessories: []string{"Floor Mats", "Dash Cam", "Roof Rack"},
	})
	require.NoError(t, err)

	assert.Equal(t, 370.0, purchase.TotalPrice)
	assert.NotEqual(t, uuid.Nil, purchase.Reference)
	assert.Equal(t, "Floor Mats,Dash Cam,Roof Rack", purchase.AccessoryList)
	assert.Equal(t, 1, bumper.bumps)
}

func TestRecordAccessoryOnlyPurchaseRejectsEmptyList(t *testing.T) {
	svc := newTestService(newMockRepository(), &mockCatalog{}, &mockBumper{})

	_, err := svc.RecordAccessoryOnlyPurchase(context.Background(), AccessoryPurchaseRequest{
		BuyerName:   "Empty Cart",
		BuyerEmail:  "empty@example.com",
		Accessories: []string{"  ", ""},
	})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestGetPurchaseResolvesAccessoryNames(t *testing.T) {
	repo := newMockRepository()
	repo.stock[1] = 2
	cat := &mockCatalog{cars: map[int64]catalog.Car{1: {ID: 1, Price: 15000}}}
	svc := newTestService(repo, cat, &mockBumper{})

	created, err := svc.RecordCarPurchase(context.Background(), CarPurchaseRequest{
		CarID:       1,
		BuyerName:   "Joined Up",
		BuyerEmail:  "joined@example.com",
		Quantity:    1,
		Accessories: []string{"Seat Covers", "Mud Flaps"},
	})
	require.NoError(t, err)

	purchase, names, err := svc.GetPurchase(context.Background(), created.ID)
	require.NoError(t, err)

	// The normalised rows and the comma-joined string stay in agreement.
	assert.Equal(t, names, shared.SplitNames(purchase.AccessoryList))
}
