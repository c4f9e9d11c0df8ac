package models

import "time"

// AppSetting is a key-value row of operator-managed settings.
type AppSetting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Well-known setting keys with service-side fallbacks.
const (
	SettingSupportTel = "support_tel"
	SettingNoticeURL  = "notice_url"
)
