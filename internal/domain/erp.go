package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ERPSettingsID is the key of the singleton ERP settings row.
const ERPSettingsID = "default"

type ERPSettings struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	Server            string     `json:"server"`
	DatabasePath      string     `json:"database_path"`
	Username          string     `json:"username"`
	IsConnected       bool       `json:"is_connected"`
	LastSyncStock     *time.Time `json:"last_sync_stock,omitempty"`
	LastSyncInvoices  *time.Time `json:"last_sync_invoices,omitempty"`
	LastSyncCustomers *time.Time `json:"last_sync_customers,omitempty"`
	LastSyncOffers    *time.Time `json:"last_sync_offers,omitempty"`
}

func (ERPSettings) TableName() string { return "erp_settings" }

type StockItem struct {
	ID       string          `json:"id" gorm:"primaryKey"`
	Name     string          `json:"name" gorm:"index"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(20,4)"`
	LastSync time.Time       `json:"last_sync"`
}

func (StockItem) TableName() string { return "stock_items" }

type InvoiceLine struct {
	StockID  string          `json:"stock_id"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type Invoice struct {
	ID          string          `json:"id" gorm:"primaryKey"`
	CustomerID  string          `json:"customer_id" gorm:"index"`
	UserID      string          `json:"user_id" gorm:"index"`
	Date        time.Time       `json:"date" gorm:"index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(20,4)"`
	Items       []InvoiceLine   `json:"items" gorm:"serializer:json"`
	Description string          `json:"description,omitempty"`
}

func (Invoice) TableName() string { return "invoices" }
