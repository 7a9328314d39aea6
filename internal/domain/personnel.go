package domain

import "time"

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

type LeaveRequest struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	UserID      string      `json:"user_id" gorm:"index" validate:"required"`
	Type        string      `json:"type" validate:"required"`
	StartDate   string      `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string      `json:"end_date" validate:"required,datetime=2006-01-02"`
	Status      LeaveStatus `json:"status" gorm:"index"`
	RequestDate time.Time   `json:"request_date" gorm:"index"`
	Reason      string      `json:"reason,omitempty" gorm:"type:text"`
}

func (LeaveRequest) TableName() string { return "leave_requests" }

type KmType string

const (
	KmMorning KmType = "morning"
	KmEvening KmType = "evening"
)

type KmRecord struct {
	ID     string    `json:"id" gorm:"primaryKey"`
	UserID string    `json:"user_id" gorm:"index" validate:"required"`
	Date   time.Time `json:"date" gorm:"index"`
	Km     int       `json:"km" validate:"gte=0"`
	Type   KmType    `json:"type" validate:"oneof=morning evening"`
}

func (KmRecord) TableName() string { return "km_records" }
