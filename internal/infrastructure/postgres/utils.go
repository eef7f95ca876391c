package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código de PostgreSQL para violación de constraint único.
const codeUniqueViolation = "23505"

// isUniqueViolation detecta inserciones que chocan con un índice único:
// SKU de producto, código de ubicación, el par producto+ubicación del
// inventario o el número de liberación.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
