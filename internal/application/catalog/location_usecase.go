package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/NextWave-98/api-sub002/internal/domain"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
	"github.com/NextWave-98/api-sub002/internal/domain/repository"
)

// LocationUseCase CRUD de ubicaciones (sucursales, bodegas, talleres).
type LocationUseCase struct {
	locations repository.LocationRepository
}

// NewLocationUseCase crea el caso de uso de ubicaciones.
func NewLocationUseCase(locations repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{locations: locations}
}

// CreateLocationInput datos para registrar una ubicación.
type CreateLocationInput struct {
	Code    string
	Name    string
	Address string
}

// Create registra una ubicación nueva.
func (uc *LocationUseCase) Create(ctx context.Context, in CreateLocationInput) (*entity.Location, error) {
	if in.Code == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: código y nombre son obligatorios", domain.ErrInvalidInput)
	}

	now := time.Now()
	location := &entity.Location{
		ID:        uuid.NewString(),
		Code:      in.Code,
		Name:      in.Name,
		Address:   in.Address,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.locations.Create(ctx, location); err != nil {
		return nil, fmt.Errorf("creando ubicación: %w", err)
	}
	return location, nil
}

// GetByID busca una ubicación por su identificador.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	location, err := uc.locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrLocationNotFound
	}
	return location, nil
}

// List devuelve una página de ubicaciones.
func (uc *LocationUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	return uc.locations.List(ctx, limit, offset)
}

// UpdateLocationInput campos editables de una ubicación.
type UpdateLocationInput struct {
	Name     string
	Address  string
	IsActive *bool
}

// Update modifica una ubicación existente. El código no cambia: los
// movimientos históricos lo referencian en sus notas.
func (uc *LocationUseCase) Update(ctx context.Context, id string, in UpdateLocationInput) (*entity.Location, error) {
	location, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		location.Name = in.Name
	}
	if in.Address != "" {
		location.Address = in.Address
	}
	if in.IsActive != nil {
		location.IsActive = *in.IsActive
	}
	location.UpdatedAt = time.Now()

	if err := uc.locations.Update(ctx, location); err != nil {
		return nil, fmt.Errorf("actualizando ubicación: %w", err)
	}
	return location, nil
}
