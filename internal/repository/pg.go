package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolation reporta si err es una violación de constraint UNIQUE.
// El insert es la señal autoritativa de conflicto; el pre-check por email
// solo preserva el orden de fallos del contrato.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
