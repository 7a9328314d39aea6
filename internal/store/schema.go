package store

import "slices"

// TableDef declares a table's key column and the secondary indices queries may use.
type TableDef struct {
	Name    string
	Key     string
	Indices []string
}

func (d TableDef) queryable(column string) bool {
	return column == d.Key || slices.Contains(d.Indices, column)
}

// SchemaVersion is bumped whenever a table definition changes shape.
const SchemaVersion = 1

var (
	UsersDef           = TableDef{Name: "users", Key: "id", Indices: []string{"username"}}
	CustomersDef       = TableDef{Name: "customers", Key: "id", Indices: []string{"name", "created_at", "status", "stage"}}
	AppointmentsDef    = TableDef{Name: "appointments", Key: "id", Indices: []string{"customer_id", "starts_at", "user_id"}}
	InterviewsDef      = TableDef{Name: "interviews", Key: "id", Indices: []string{"customer_id", "form_tarihi"}}
	OffersDef          = TableDef{Name: "offers", Key: "id", Indices: []string{"customer_id", "teklif_no", "created_at"}}
	TasksDef           = TableDef{Name: "tasks", Key: "id", Indices: []string{"assigned_to", "customer_id", "due_date", "status"}}
	NotificationsDef   = TableDef{Name: "notifications", Key: "id", Indices: []string{"timestamp", "is_read", "type"}}
	ReconciliationsDef = TableDef{Name: "reconciliations", Key: "id", Indices: []string{"customer_id", "status", "period", "created_at"}}
	ERPSettingsDef     = TableDef{Name: "erp_settings", Key: "id"}
	StockItemsDef      = TableDef{Name: "stock_items", Key: "id", Indices: []string{"name"}}
	InvoicesDef        = TableDef{Name: "invoices", Key: "id", Indices: []string{"customer_id", "user_id", "date"}}
	EmailDraftsDef     = TableDef{Name: "email_drafts", Key: "id", Indices: []string{"created_at", "status", "related_object_id"}}
	AISettingsDef      = TableDef{Name: "ai_settings", Key: "user_id"}
	LeaveRequestsDef   = TableDef{Name: "leave_requests", Key: "id", Indices: []string{"user_id", "request_date", "status"}}
	KmRecordsDef       = TableDef{Name: "km_records", Key: "id", Indices: []string{"user_id", "date"}}
	SettingsDef        = TableDef{Name: "app_settings", Key: "key"}
)
