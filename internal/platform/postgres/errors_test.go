package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/taskboard-api/internal/store"
)

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code, ConstraintName: "some_constraint"}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"nil error", nil, nil},
		{"no rows", sql.ErrNoRows, store.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", sql.ErrNoRows), store.ErrNotFound},
		{"unique violation", pgError(pgerrcode.UniqueViolation), store.ErrDuplicate},
		{"foreign key violation", pgError(pgerrcode.ForeignKeyViolation), store.ErrInvalidEntity},
		{"check violation", pgError(pgerrcode.CheckViolation), store.ErrInvalidEntity},
		{"not null violation", pgError(pgerrcode.NotNullViolation), store.ErrInvalidEntity},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mapped := MapError(tc.err)
			if tc.sentinel == nil {
				assert.Equal(t, tc.err, mapped)
				return
			}
			assert.ErrorIs(t, mapped, tc.sentinel)
			// The original error stays reachable for debugging.
			assert.ErrorIs(t, mapped, tc.err)
		})
	}

	t.Run("unrelated error passes through", func(t *testing.T) {
		err := errors.New("connection reset")
		assert.Equal(t, err, MapError(err))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(pgError(pgerrcode.UniqueViolation)))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", pgError(pgerrcode.UniqueViolation))))
	assert.False(t, IsUniqueViolation(pgError(pgerrcode.ForeignKeyViolation)))
	assert.False(t, IsUniqueViolation(errors.New("other")))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(pgError(pgerrcode.ForeignKeyViolation)))
	assert.False(t, IsForeignKeyViolation(pgError(pgerrcode.UniqueViolation)))
}
