package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/fintrack_backend/internal/apperrors"
	portsrepo "github.com/SscSPs/fintrack_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserPreferenceRepository struct {
	BaseRepository
}

func newPgxUserPreferenceRepository(pool *pgxpool.Pool) portsrepo.UserPreferenceReader {
	return &PgxUserPreferenceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.UserPreferenceReader = (*PgxUserPreferenceRepository)(nil)

// GetDisplayCurrency returns the stored display currency of the user.
func (r *PgxUserPreferenceRepository) GetDisplayCurrency(ctx context.Context, userID string) (string, error) {
	var code *string
	err := r.Pool.QueryRow(ctx,
		`SELECT display_currency_code FROM user_preferences WHERE user_id = $1;`,
		userID,
	).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to read preferences of user %s: %w", userID, err)
	}
	if code == nil {
		return "", apperrors.ErrNotFound
	}
	return *code, nil
}
