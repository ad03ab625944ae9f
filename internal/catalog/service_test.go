package catalog

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zedcars/zedcars/internal/platform/httpx"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	cars        map[int64]Car
	accessories map[int64]Accessory
	nextCarID   int64
	nextAccID   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		cars:        make(map[int64]Car),
		accessories: make(map[int64]Accessory),
		nextCarID:   1,
		nextAccID:   1,
	}
}

func (m *mockRepository) matches(c Car, filters CarFilters) bool {
	if filters.Brand != "" && !strings.EqualFold(c.Brand, filters.Brand) {
		return false
	}
	if filters.FuelType != "" && !strings.EqualFold(c.FuelType, filters.FuelType) {
		return false
	}
	if filters.PriceMin != nil && c.Price < *filters.PriceMin {
		return false
	}
	if filters.PriceMax != nil && c.Price > *filters.PriceMax {
		return false
	}
	if filters.OnlyActive && !c.IsActive {
		return false
	}
	return true
}

func (m *mockRepository) ListCars(ctx context.Context, filters CarFilters) ([]Car, int, error) {
	var matched []Car
	for _, c := range m.cars {
		if m.matches(c, filters) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Brand != matched[j].Brand {
			return matched[i].Brand < matched[j].Brand
		}
		return matched[i].Model < matched[j].Model
	})
	total := len(matched)
	if filters.PerPage > 0 {
		start := (filters.Page - 1) * filters.PerPage
		if start >= len(matched) {
			return nil, total, nil
		}
		end := start + filters.PerPage
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (m *mockRepository) GetCar(ctx context.Context, id int64) (Car, error) {
	c, ok := m.cars[id]
	if !ok {
		return Car{}, httpx.ErrNotFound
	}
	return c, nil
}

func (m *mockRepository) CreateCar(ctx context.Context, car Car) (Car, error) {
	car.ID = m.nextCarID
	m.nextCarID++
	m.cars[car.ID] = car
	return car, nil
}

func (m *mockRepository) UpdateCar(ctx context.Context, id int64, car Car) error {
	if _, ok := m.cars[id]; !ok {
		return httpx.ErrNotFound
	}
	car.ID = id
	m.cars[id] = car
	return nil
}

func (m *mockRepository) DeactivateCar(ctx context.Context, id int64) error {
	c, ok := m.cars[id]
	if !ok {
		return httpx.ErrNotFound
	}
	c.IsActive = false
	m.cars[id] = c
	return nil
}

func (m *mockRepository) ListAccessories(ctx context.Context, filters AccessoryFilters) ([]Accessory, error) {
	var matched []Accessory
	for _, a := range m.accessories {
		if filters.Category != "" && !strings.EqualFold(a.Category, filters.Category) {
			continue
		}
		if filters.OnlyActive && !a.IsActive {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, nil
}

func (m *mockRepository) GetAccessory(ctx context.Context, id int64) (Accessory, error) {
	a, ok := m.accessories[id]
	if !ok {
		return Accessory{}, httpx.ErrNotFound
	}
	return a, nil
}

func (m *mockRepository) GetAccessoryByName(ctx context.Context, name string) (Accessory, error) {
	for _, a := range m.accessories {
		if a.Name == name {
			return a, nil
		}
	}
	return Accessory{}, httpx.ErrNotFound
}

func (m *mockRepository) CreateAccessory(ctx context.Context, accessory Accessory) (Accessory, error) {
	accessory.ID = m.nextAccID
	m.nextAccID++
	m.accessories[accessory.ID] = accessory
	return accessory, nil
}

func (m *mockRepository) UpdateAccessory(ctx context.Context, id int64, accessory Accessory) error {
	if _, ok := m.accessories[id]; !ok {
		return httpx.ErrNotFound
	}
	accessory.ID = id
	m.accessories[id] = accessory
	return nil
}

func (m *mockRepository) DeactivateAccessory(ctx context.Context, id int64) error {
	a, ok := m.accessories[id]
	if !ok {
		return httpx.ErrNotFound
	}
	a.IsActive = false
	m.accessories[id] = a
	return nil
}

var _ Repository = (*mockRepository)(nil)

func seedCars(t *testing.T, repo *mockRepository, cars ...Car) {
	t.Helper()
	for _, c := range cars {
		_, err := repo.CreateCar(context.Background(), c)
		require.NoError(t, err)
	}
}

// ============================================================================
// TESTS
// ============================================================================

func TestListCarsPagination(t *testing.T) {
	repo := newMockRepository()
	seedCars(t, repo,
		Car{Brand: "Honda", Model: "City", Price: 18000, IsActive: true},
		Car{Brand: "Honda", Model: "Civic", Price: 25000, IsActive: true},
		Car{Brand: "Toyota", Model: "Corolla", Price: 22000, IsActive: true},
		Car{Brand: "Toyota", Model: "Camry", Price: 30000, IsActive: true},
		Car{Brand: "BMW", Model: "X1", Price: 45000, IsActive: true},
	)
	svc := NewService(repo)
	ctx := context.Background()

	pageOne, pg, err := svc.ListCars(ctx, CarFilters{Page: 1, PerPage: 2, OnlyActive: true})
	require.NoError(t, err)
	require.Len(t, pageOne, 2)
	assert.Equal(t, 5, pg.Total)
	assert.Equal(t, 3, pg.TotalPages)

	pageTwo, _, err := svc.ListCars(ctx, CarFilters{Page: 2, PerPage: 2, OnlyActive: true})
	require.NoError(t, err)
	require.Len(t, pageTwo, 2)

	// Pages are disjoint and follow the (brand, model) ordering.
	all, _, err := svc.ListCars(ctx, CarFilters{Page: 1, PerPage: 10, OnlyActive: true})
	require.NoError(t, err)
	assert.Equal(t, all[0:2], pageOne)
	assert.Equal(t, all[2:4], pageTwo)

	// A page past the end is empty with an accurate total.
	empty, pg, err := svc.ListCars(ctx, CarFilters{Page: 9, PerPage: 2, OnlyActive: true})
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, 5, pg.Total)
}

func TestListCarsFilters(t *testing.T) {
	repo := newMockRepository()
	seedCars(t, repo,
		Car{Brand: "Toyota", Model: "Corolla", Price: 22000, FuelType: "Petrol", IsActive: true},
		Car{Brand: "Toyota", Model: "Prius", Price: 28000, FuelType: "Hybrid", IsActive: true},
		Car{Brand: "Honda", Model: "City", Price: 18000, FuelType: "Petrol", IsActive: true},
		Car{Brand: "Honda", Model: "Jazz", Price: 16000, FuelType: "Petrol", IsActive: false},
	)
	svc := NewService(repo)
	ctx := context.Background()

	byBrand, _, err := svc.ListCars(ctx, CarFilters{Brand: "toyota", OnlyActive: true})
	require.NoError(t, err)
	assert.Len(t, byBrand, 2)

	byFuel, _, err := svc.ListCars(ctx, CarFilters{FuelType: "Hybrid", OnlyActive: true})
	require.NoError(t, err)
	require.Len(t, byFuel, 1)
	assert.Equal(t, "Prius", byFuel[0].Model)

	var filters CarFilters
	filters.OnlyActive = true
	filters.ApplyPriceRange("17000-23000")
	byPrice, _, err := svc.ListCars(ctx, filters)
	require.NoError(t, err)
	assert.Len(t, byPrice, 2)

	// Inactive cars are hidden from the public listing.
	active, pg, err := svc.ListCars(ctx, CarFilters{Brand: "Honda", OnlyActive: true})
	require.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, 1, pg.Total)
}

func TestGetCarNotFound(t *testing.T) {
	svc := NewService(newMockRepository())
	_, err := svc.GetCar(context.Background(), 42)
	assert.ErrorIs(t, err, httpx.ErrNotFound)

	_, err = svc.GetCar(context.Background(), 0)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestCreateCarValidation(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()

	_, err := svc.CreateCar(ctx, CarForm{Model: "City", Price: 18000, FuelType: "Petrol", Transmission: "Manual", Year: 2024})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.CreateCar(ctx, CarForm{Brand: "Honda", Model: "City", Price: 18000, FuelType: "Steam", Transmission: "Manual", Year: 2024})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	car, err := svc.CreateCar(ctx, CarForm{Brand: "Honda", Model: "City", Price: 18000, FuelType: "Petrol", Transmission: "Manual", Year: 2024, StockQuantity: 3})
	require.NoError(t, err)
	assert.True(t, car.IsActive)
	assert.Equal(t, 3, car.StockQuantity)
}

func TestDeactivateCarHidesFromListing(t *testing.T) {
	repo := newMockRepository()
	seedCars(t, repo, Car{Brand: "Tata", Model: "Nexon", Price: 14000, IsActive: true})
	svc := NewService(repo)
	ctx := context.Background()

	require.NoError(t, svc.DeactivateCar(ctx, 1))

	cars, _, err := svc.ListCars(ctx, CarFilters{OnlyActive: true})
	require.NoError(t, err)
	assert.Empty(t, cars)

	// Still reachable directly for historical reads.
	car, err := svc.GetCar(ctx, 1)
	require.NoError(t, err)
	assert.False(t, car.IsActive)
}

func TestAccessoryLifecycle(t *testing.T) {
	svc := NewService(newMockRepository())
	ctx := context.Background()

	created, err := svc.CreateAccessory(ctx, AccessoryForm{Name: "Roof Rack", Category: "Exterior", Price: 250, StockQuantity: 10})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	_, err = svc.CreateAccessory(ctx, AccessoryForm{Category: "Exterior", Price: 250})
	assert.ErrorIs(t, err, httpx.ErrValidation)

	updated, err := svc.UpdateAccessory(ctx, created.ID, AccessoryForm{Name: "Roof Rack XL", Category: "Exterior", Price: 300, StockQuantity: 8})
	require.NoError(t, err)
	assert.Equal(t, "Roof Rack XL", updated.Name)

	require.NoError(t, svc.DeactivateAccessory(ctx, created.ID))
	listed, err := svc.ListAccessories(ctx, AccessoryFilters{OnlyActive: true})
	require.NoError(t, err)
	assert.Empty(t, listed)
}
