package domain

import "time"

// Setting is a key/value row for small pieces of application state.
// Value holds JSON.
type Setting struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string { return "app_settings" }

const (
	SettingNotifiedAppointments = "notified_appointments"
	SettingSession              = "session"
)
