package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

// ProductUseCase CRUD del catálogo de productos.
type ProductUseCase struct {
	products repository.ProductRepository
}

// NewProductUseCase crea el caso de uso de productos.
func NewProductUseCase(products repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{products: products}
}

// CreateProductInput datos para registrar un producto.
type CreateProductInput struct {
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	UnitMeasure string
}

// Create registra un producto nuevo. El SKU debe ser único; el costo promedio
// inicia en cero y lo recalculan las entradas de stock.
func (uc *ProductUseCase) Create(ctx context.Context, in CreateProductInput) (*entity.Product, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: sku y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}

	existing, err := uc.products.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, fmt.Errorf("verificando sku: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: sku %s ya registrado", domain.ErrDuplicate, in.SKU)
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.NewString(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Cost:        decimal.Zero,
		UnitMeasure: in.UnitMeasure,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("creando producto: %w", err)
	}
	return product, nil
}

// GetByID busca un producto por su identificador.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// List devuelve una página del catálogo.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	return uc.products.List(ctx, limit, offset)
}

// UpdateProductInput campos editables de un producto.
type UpdateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	UnitMeasure string
	IsActive    *bool
}

// Update modifica los datos comerciales de un producto. SKU y costo promedio
// no se tocan por esta vía.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in UpdateProductInput) (*entity.Product, error) {
	product, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if !in.Price.IsZero() {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
		product.Price = in.Price
	}
	if in.UnitMeasure != "" {
		product.UnitMeasure = in.UnitMeasure
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = time.Now()

	if err := uc.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("actualizando producto: %w", err)
	}
	return product, nil
}
