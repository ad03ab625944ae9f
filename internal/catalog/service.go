package catalog

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/zedcars/zedcars/internal/platform/httpx"
	"github.com/zedcars/zedcars/internal/shared"
)

// Service provides business logic for catalog operations.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a catalog service.
func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
	}
}

// ListCars returns one page of cars matching the filters, ordered by
// (brand, model). Pages beyond the last yield an empty list with an accurate
// total, never an error.
func (s *Service) ListCars(ctx context.Context, filters CarFilters) ([]Car, shared.Pagination, error) {
	if filters.PerPage <= 0 {
		filters.PerPage = 10
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	cars, total, err := s.repo.ListCars(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list cars: %w", err)
	}
	return cars, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// GetCar returns one car by id.
func (s *Service) GetCar(ctx context.Context, id int64) (Car, error) {
	if id <= 0 {
		return Car{}, httpx.ErrNotFound
	}
	return s.repo.GetCar(ctx, id)
}

// CreateCar validates and stores a new car.
func (s *Service) CreateCar(ctx context.Context, form CarForm) (Car, error) {
	if err := s.validate.Struct(form); err != nil {
		return Car{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	car := carFromForm(form)
	created, err := s.repo.CreateCar(ctx, car)
	if err != nil {
		return Car{}, fmt.Errorf("create car: %w", err)
	}
	return created, nil
}

// UpdateCar validates and applies changes to an existing car.
func (s *Service) UpdateCar(ctx context.Context, id int64, form CarForm) (Car, error) {
	if err := s.validate.Struct(form); err != nil {
		return Car{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	if _, err := s.repo.GetCar(ctx, id); err != nil {
		return Car{}, err
	}
	car := carFromForm(form)
	if err := s.repo.UpdateCar(ctx, id, car); err != nil {
		return Car{}, fmt.Errorf("update car: %w", err)
	}
	return s.repo.GetCar(ctx, id)
}

// DeactivateCar soft-deletes a car from the catalog.
func (s *Service) DeactivateCar(ctx context.Context, id int64) error {
	return s.repo.DeactivateCar(ctx, id)
}

// ListAccessories returns accessories matching the filters.
func (s *Service) ListAccessories(ctx context.Context, filters AccessoryFilters) ([]Accessory, error) {
	return s.repo.ListAccessories(ctx, filters)
}

// GetAccessory returns one accessory by id.
func (s *Service) GetAccessory(ctx context.Context, id int64) (Accessory, error) {
	if id <= 0 {
		return Accessory{}, httpx.ErrNotFound
	}
	return s.repo.GetAccessory(ctx, id)
}

// CreateAccessory validates and stores a new accessory.
func (s *Service) CreateAccessory(ctx context.Context, form AccessoryForm) (Accessory, error) {
	if err := s.validate.Struct(form); err != nil {
		return Accessory{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	created, err := s.repo.CreateAccessory(ctx, accessoryFromForm(form))
	if err != nil {
		return Accessory{}, fmt.Errorf("create accessory: %w", err)
	}
	return created, nil
}

// UpdateAccessory validates and applies changes to an existing accessory.
func (s *Service) UpdateAccessory(ctx context.Context, id int64, form AccessoryForm) (Accessory, error) {
	if err := s.validate.Struct(form); err != nil {
		return Accessory{}, fmt.Errorf("%w: %s", httpx.ErrValidation, err)
	}
	if _, err := s.repo.GetAccessory(ctx, id); err != nil {
		return Accessory{}, err
	}
	if err := s.repo.UpdateAccessory(ctx, id, accessoryFromForm(form)); err != nil {
		return Accessory{}, fmt.Errorf("update accessory: %w", err)
	}
	return s.repo.GetAccessory(ctx, id)
}

// DeactivateAccessory soft-deletes an accessory.
func (s *Service) DeactivateAccessory(ctx context.Context, id int64) error {
	return s.repo.DeactivateAccessory(ctx, id)
}

func carFromForm(form CarForm) Car {
	active := true
	if form.IsActive != nil {
		active = *form.IsActive
	}
	return Car{
		Brand:         form.Brand,
		Model:         form.Model,
		Variant:       form.Variant,
		Price:         form.Price,
		StockQuantity: form.StockQuantity,
		FuelType:      form.FuelType,
		Transmission:  form.Transmission,
		Year:          form.Year,
		IsActive:      active,
	}
}

func accessoryFromForm(form AccessoryForm) Accessory {
	active := true
	if form.IsActive != nil {
		active = *form.IsActive
	}
	return Accessory{
		Name:          form.Name,
		Category:      form.Category,
		Price:         form.Price,
		StockQuantity: form.StockQuantity,
		IsActive:      active,
	}
}
