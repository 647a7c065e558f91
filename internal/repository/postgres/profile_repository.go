package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/repository"
)

const defaultSupplierSearchLimit = 20

type profileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	query := `
		SELECT id, username, email, role, business_name, phone_number
		FROM profiles
		WHERE id = $1
	`

	var p domain.Profile
	err := sqlx.GetContext(ctx, r.db, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}

	return &p, nil
}

func (r *profileRepository) SearchSuppliers(ctx context.Context, term string, limit int) ([]domain.Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultSupplierSearchLimit
	}

	query := `
		SELECT id, username, email, role, business_name, phone_number
		FROM profiles
		WHERE role = $1
		  AND ($2 = '' OR business_name ILIKE '%' || $2 || '%' OR username ILIKE '%' || $2 || '%')
		ORDER BY business_name ASC
		LIMIT $3
	`

	profiles := []domain.Profile{}
	if err := sqlx.SelectContext(ctx, r.db, &profiles, query, domain.RoleSupplier, term, limit); err != nil {
		return nil, fmt.Errorf("failed to search suppliers: %w", err)
	}

	return profiles, nil
}
