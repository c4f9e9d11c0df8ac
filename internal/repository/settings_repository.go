package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

// SettingsRepository provides database access to operator-managed settings.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new instance of SettingsRepository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns a single setting by key.
func (r *SettingsRepository) Get(ctx context.Context, key string) (*models.AppSetting, error) {
	const query = `SELECT key, value, updated_at FROM app_settings WHERE key = $1 LIMIT 1`
	var setting models.AppSetting
	if err := r.db.GetContext(ctx, &setting, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return &setting, nil
}

// List returns every setting.
func (r *SettingsRepository) List(ctx context.Context) ([]models.AppSetting, error) {
	const query = `SELECT key, value, updated_at FROM app_settings ORDER BY key ASC`
	var settings []models.AppSetting
	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return settings, nil
}

// Upsert writes a setting value.
func (r *SettingsRepository) Upsert(ctx context.Context, key, value string) error {
	const query = `INSERT INTO app_settings (key, value, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert setting: %w", err)
	}
	return nil
}
