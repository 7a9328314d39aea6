package domain

import "time"

type Reminder string

const (
	ReminderNone  Reminder = "none"
	Reminder15Min Reminder = "15m"
	Reminder1Hour Reminder = "1h"
	Reminder1Day  Reminder = "1d"
)

// Offset returns how long before the start the reminder fires.
func (r Reminder) Offset() (time.Duration, bool) {
	switch r {
	case Reminder15Min:
		return 15 * time.Minute, true
	case Reminder1Hour:
		return time.Hour, true
	case Reminder1Day:
		return 24 * time.Hour, true
	default:
		return 0, false
	}
}

type Appointment struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	CustomerID string    `json:"customer_id" gorm:"index"`
	UserID     string    `json:"user_id" gorm:"index"`
	Title      string    `json:"title" validate:"required"`
	Start      time.Time `json:"start" gorm:"column:starts_at;index"`
	End        time.Time `json:"end" gorm:"column:ends_at"`
	AllDay     bool      `json:"all_day,omitempty"`
	Notes      string    `json:"notes,omitempty" gorm:"type:text"`
	Reminder   Reminder  `json:"reminder,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Appointment) TableName() string { return "appointments" }
