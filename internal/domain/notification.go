package domain

import "time"

type NotificationType string

const (
	NotifCustomer    NotificationType = "customer"
	NotifAppointment NotificationType = "appointment"
	NotifOffer       NotificationType = "offer"
	NotifInterview   NotificationType = "interview"
	NotifSystem      NotificationType = "system"
)

// Page is a navigation target a notification can deep link to.
type Page string

const (
	PageDashboard      Page = "dashboard"
	PageCustomers      Page = "customers"
	PageTasks          Page = "tasks"
	PageAppointments   Page = "appointments"
	PageInterviews     Page = "gorusme-formu"
	PageOffers         Page = "teklif-yaz"
	PageEmailDrafts    Page = "email-taslaklari"
	PageReconciliation Page = "mutabakat"
	PagePersonnel      Page = "personnel"
	PageERP            Page = "erp-entegrasyonu"
)

type Link struct {
	Page Page   `json:"page"`
	ID   string `json:"id,omitempty"`
}

type Notification struct {
	ID           string            `json:"id" gorm:"primaryKey"`
	MessageKey   string            `json:"message_key"`
	Replacements map[string]string `json:"replacements,omitempty" gorm:"serializer:json"`
	Type         NotificationType  `json:"type" gorm:"index"`
	Link         *Link             `json:"link,omitempty" gorm:"serializer:json"`
	IsRead       bool              `json:"is_read" gorm:"index"`
	ReadAt       *time.Time        `json:"read_at,omitempty"`
	Timestamp    time.Time         `json:"timestamp" gorm:"index"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationDraft is a notification before the center assigns identity and time.
type NotificationDraft struct {
	MessageKey   string
	Replacements map[string]string
	Type         NotificationType
	Link         *Link
}
