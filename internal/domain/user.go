package domain

import "github.com/shopspring/decimal"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type User struct {
	ID               string           `json:"id" gorm:"primaryKey"`
	Username         string           `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash     string           `json:"-"`
	Role             UserRole         `json:"role"`
	Name             string           `json:"name"`
	JobTitle         string           `json:"job_title,omitempty"`
	Phone            string           `json:"phone,omitempty"`
	StartDate        string           `json:"start_date,omitempty"`
	LicensePlate     string           `json:"license_plate,omitempty"`
	VehicleModel     string           `json:"vehicle_model,omitempty"`
	VehicleInitialKm int              `json:"vehicle_initial_km,omitempty"`
	AnnualLeaveDays  int              `json:"annual_leave_days,omitempty"`
	SalesTarget      *decimal.Decimal `json:"sales_target,omitempty" gorm:"type:decimal(20,4)"`
}

func (User) TableName() string { return "users" }
