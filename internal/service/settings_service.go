package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-portal-api/internal/models"
	appErrors "github.com/noah-isme/edu-portal-api/pkg/errors"
)

const settingsCacheKey = "settings:all"

type settingsRepo interface {
	Get(ctx context.Context, key string) (*models.AppSetting, error)
	List(ctx context.Context) ([]models.AppSetting, error)
	Upsert(ctx context.Context, key, value string) error
}

// SettingsService serves operator-managed settings with a read-through Redis
// cache. When the store is unreachable reads degrade to the configured
// fallback values instead of failing the page.
type SettingsService struct {
	repo      settingsRepo
	cache     *redis.Client
	cacheTTL  time.Duration
	fallbacks map[string]string
	logger    *zap.Logger
}

// NewSettingsService constructs a SettingsService instance. cache may be nil.
func NewSettingsService(repo settingsRepo, cache *redis.Client, cacheTTL time.Duration, fallbacks map[string]string, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallbacks == nil {
		fallbacks = map[string]string{}
	}
	return &SettingsService{repo: repo, cache: cache, cacheTTL: cacheTTL, fallbacks: fallbacks, logger: logger}
}

// All returns every setting as a key→value map. Fallback keys missing from
// the store are filled in; a store failure returns the fallbacks alone.
func (s *SettingsService) All(ctx context.Context) map[string]string {
	if cached := s.fromCache(ctx); cached != nil {
		return cached
	}

	values := make(map[string]string, len(s.fallbacks))
	for k, v := range s.fallbacks {
		values[k] = v
	}

	settings, err := s.repo.List(ctx)
	if err != nil {
		// Degrade to fallbacks rather than failing the read.
		s.logger.Warn("settings store unavailable, serving fallbacks", zap.Error(err))
		return values
	}
	for _, setting := range settings {
		values[setting.Key] = setting.Value
	}

	s.toCache(ctx, values)
	return values
}

// Get returns one setting value, falling back to the configured default when
// the key is absent or the store is unreachable.
func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if fallback, ok := s.fallbacks[key]; ok {
			if !errors.Is(err, sql.ErrNoRows) {
				s.logger.Warn("settings store unavailable, serving fallback", zap.String("key", key), zap.Error(err))
			}
			return fallback, nil
		}
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "setting not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read setting")
	}
	return setting.Value, nil
}

// Update writes one setting and invalidates the cache.
func (s *SettingsService) Update(ctx context.Context, key, value string) error {
	if key == "" {
		return appErrors.Clone(appErrors.ErrValidation, "setting key is required")
	}
	if err := s.repo.Upsert(ctx, key, value); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update setting")
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, settingsCacheKey).Err(); err != nil {
			s.logger.Warn("settings cache invalidation failed", zap.Error(err))
		}
	}
	return nil
}

func (s *SettingsService) fromCache(ctx context.Context) map[string]string {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, settingsCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var values map[string]string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}

func (s *SettingsService) toCache(ctx context.Context, values map[string]string) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, settingsCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("settings cache write failed", zap.Error(err))
	}
}
