package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edu-portal-api/internal/models"
)

type settingsRepoMock struct {
	settings []models.AppSetting
	upserts  map[string]string
	err      error
}

func (m *settingsRepoMock) Get(ctx context.Context, key string) (*models.AppSetting, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.settings {
		if s.Key == key {
			setting := s
			return &setting, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *settingsRepoMock) List(ctx context.Context) ([]models.AppSetting, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.settings, nil
}

func (m *settingsRepoMock) Upsert(ctx context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	if m.upserts == nil {
		m.upserts = make(map[string]string)
	}
	m.upserts[key] = value
	return nil
}

func TestSettingsAllMergesFallbacks(t *testing.T) {
	repo := &settingsRepoMock{settings: []models.AppSetting{
		{Key: models.SettingSupportTel, Value: "02-1234-5678"},
	}}
	svc := NewSettingsService(repo, nil, time.Minute, map[string]string{
		models.SettingSupportTel: "02-0000-0000",
		models.SettingNoticeURL:  "https://example.com/notice",
	}, nil)

	values := svc.All(context.Background())
	// Stored values win; missing keys fall back.
	assert.Equal(t, "02-1234-5678", values[models.SettingSupportTel])
	assert.Equal(t, "https://example.com/notice", values[models.SettingNoticeURL])
}

func TestSettingsAllDegradesOnStoreFailure(t *testing.T) {
	repo := &settingsRepoMock{err: errors.New("connection refused")}
	svc := NewSettingsService(repo, nil, time.Minute, map[string]string{
		models.SettingSupportTel: "02-0000-0000",
	}, nil)

	values := svc.All(context.Background())
	assert.Equal(t, "02-0000-0000", values[models.SettingSupportTel])
}

func TestSettingsGet(t *testing.T) {
	repo := &settingsRepoMock{settings: []models.AppSetting{
		{Key: models.SettingSupportTel, Value: "02-1234-5678"},
	}}
	svc := NewSettingsService(repo, nil, time.Minute, map[string]string{
		models.SettingNoticeURL: "https://example.com/notice",
	}, nil)

	value, err := svc.Get(context.Background(), models.SettingSupportTel)
	require.NoError(t, err)
	assert.Equal(t, "02-1234-5678", value)

	// Missing key with a fallback.
	value, err = svc.Get(context.Background(), models.SettingNoticeURL)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/notice", value)

	// Missing key without one.
	_, err = svc.Get(context.Background(), "unknown_key")
	require.Error(t, err)
}

func TestSettingsUpdate(t *testing.T) {
	repo := &settingsRepoMock{}
	svc := NewSettingsService(repo, nil, time.Minute, nil, nil)

	require.NoError(t, svc.Update(context.Background(), models.SettingNoticeURL, "https://example.com/v2"))
	assert.Equal(t, "https://example.com/v2", repo.upserts[models.SettingNoticeURL])

	err := svc.Update(context.Background(), "", "value")
	require.Error(t, err)
}
