package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReconciliationType string

const (
	ReconciliationCurrentAccount ReconciliationType = "current_account"
	ReconciliationBA             ReconciliationType = "ba"
	ReconciliationBS             ReconciliationType = "bs"
)

type ReconciliationStatus string

const (
	ReconciliationPending   ReconciliationStatus = "pending"
	ReconciliationAgreed    ReconciliationStatus = "agreed"
	ReconciliationDisagreed ReconciliationStatus = "disagreed"
)

type Reconciliation struct {
	ID               string               `json:"id" gorm:"primaryKey"`
	CustomerID       string               `json:"customer_id" gorm:"index"`
	Type             ReconciliationType   `json:"type"`
	Period           string               `json:"period" gorm:"index"`
	Amount           decimal.Decimal      `json:"amount" gorm:"type:decimal(20,4)"`
	Status           ReconciliationStatus `json:"status" gorm:"index"`
	CreatedBy        string               `json:"created_by"`
	LastEmailSent    *time.Time           `json:"last_email_sent,omitempty"`
	CustomerResponse string               `json:"customer_response,omitempty" gorm:"type:text"`
	Notes            string               `json:"notes,omitempty" gorm:"type:text"`
	AIAnalysis       string               `json:"ai_analysis,omitempty" gorm:"type:text"`
	CreatedAt        time.Time            `json:"created_at" gorm:"index"`
}

func (Reconciliation) TableName() string { return "reconciliations" }
