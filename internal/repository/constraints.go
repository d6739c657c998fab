package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	unknownField = "unknown field"
)

// Postgres does not report which column broke a unique constraint, only the
// constraint name, so every constraint in the schema is listed here.
var constraintFields = map[string]string{
	"ingredients_name_key":                      "name",
	"ingredients_pkey":                          "id",
	"recipes_pkey":                              "id",
	"ingredients_in_recipes_pkey":               "ingredient",
	"ingredients_in_recipes_ingredient_id_fkey": "ingredient",
}

// constraintToField maps a constraint name to the field reported to callers.
func constraintToField(constraint string) string {
	if f, ok := constraintFields[constraint]; ok {
		return f
	}
	return unknownField
}

// mapWriteError turns a driver error from an INSERT, UPDATE or DELETE into a
// ConflictError when a constraint was violated, or an UnknownError otherwise.
func mapWriteError(entity string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation:
			return ConflictError{Entity: entity, Field: constraintToField(pgErr.ConstraintName)}
		}
	}
	return UnknownError{Err: err}
}
