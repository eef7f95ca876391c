package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrProductNotFound        = errors.New("producto no encontrado")
	ErrLocationNotFound       = errors.New("ubicación no encontrada")
	ErrReleaseNotFound        = errors.New("liberación de stock no encontrada")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvariantViolation     = errors.New("invariante de inventario violada")
	ErrInvalidTransfer        = errors.New("traslado inválido: origen y destino coinciden")
	ErrInvalidStateTransition = errors.New("transición de estado no permitida")
	ErrDuplicateRelease       = errors.New("ítem ya liberado")
)

// InsufficientStockError detalla un decremento que excede el stock disponible.
// El mensaje incluye las cifras concretas para que el operador pueda actuar sin re-consultar.
type InsufficientStockError struct {
	ProductID  string
	LocationID string
	Available  int64
	Requested  int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s en ubicación %s: disponible %d, solicitado %d",
		e.ProductID, e.LocationID, e.Available, e.Requested)
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// InvariantViolationError señala un estado que dejaría cantidad o disponible negativos
// por un camino distinto al chequeo normal de stock (defensivo).
type InvariantViolationError struct {
	ProductID  string
	LocationID string
	Quantity   int64
	Reserved   int64
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariante violada para producto %s en ubicación %s: cantidad %d, reservado %d",
		e.ProductID, e.LocationID, e.Quantity, e.Reserved)
}

func (e *InvariantViolationError) Is(target error) bool { return target == ErrInvariantViolation }

// InvalidTransitionError detalla una transición rechazada del flujo de liberaciones.
type InvalidTransitionError struct {
	ReleaseID string
	From      string
	To        string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("liberación %s: transición %s -> %s no permitida", e.ReleaseID, e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidStateTransition }

// DuplicateReleaseError señala el intento de liberar dos veces la misma línea.
type DuplicateReleaseError struct {
	ReleaseID string
	ItemID    string
}

func (e *DuplicateReleaseError) Error() string {
	return fmt.Sprintf("liberación %s: la línea %s ya fue liberada", e.ReleaseID, e.ItemID)
}

func (e *DuplicateReleaseError) Is(target error) bool { return target == ErrDuplicateRelease }
