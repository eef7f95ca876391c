package entity

import "time"

// Location representa una ubicación física de inventario: sucursal, bodega o taller.
type Location struct {
	ID        string
	Code      string // código corto para referencias humanas (ej. "BOD-01")
	Name      string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
