package store

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"cnkcrm/internal/domain"
)

// Store groups the typed tables of the application database.
type Store struct {
	db  *gorm.DB
	pub Publisher

	Users           *Table[domain.User]
	Customers       *Table[domain.Customer]
	Appointments    *Table[domain.Appointment]
	Interviews      *Table[domain.Interview]
	Offers          *Table[domain.Offer]
	Tasks           *Table[domain.Task]
	Notifications   *Table[domain.Notification]
	Reconciliations *Table[domain.Reconciliation]
	ERPSettings     *Table[domain.ERPSettings]
	StockItems      *Table[domain.StockItem]
	Invoices        *Table[domain.Invoice]
	EmailDrafts     *Table[domain.EmailDraft]
	AISettings      *Table[domain.AISettings]
	LeaveRequests   *Table[domain.LeaveRequest]
	KmRecords       *Table[domain.KmRecord]
	Settings        *Table[domain.Setting]
}

// New binds the tables to db and reports committed writes to pub.
func New(db *gorm.DB, pub Publisher) *Store {
	if pub == nil {
		pub = noopPublisher{}
	}
	return &Store{
		db:              db,
		pub:             pub,
		Users:           NewTable[domain.User](db, UsersDef, pub),
		Customers:       NewTable[domain.Customer](db, CustomersDef, pub),
		Appointments:    NewTable[domain.Appointment](db, AppointmentsDef, pub),
		Interviews:      NewTable[domain.Interview](db, InterviewsDef, pub),
		Offers:          NewTable[domain.Offer](db, OffersDef, pub),
		Tasks:           NewTable[domain.Task](db, TasksDef, pub),
		Notifications:   NewTable[domain.Notification](db, NotificationsDef, pub),
		Reconciliations: NewTable[domain.Reconciliation](db, ReconciliationsDef, pub),
		ERPSettings:     NewTable[domain.ERPSettings](db, ERPSettingsDef, pub),
		StockItems:      NewTable[domain.StockItem](db, StockItemsDef, pub),
		Invoices:        NewTable[domain.Invoice](db, InvoicesDef, pub),
		EmailDrafts:     NewTable[domain.EmailDraft](db, EmailDraftsDef, pub),
		AISettings:      NewTable[domain.AISettings](db, AISettingsDef, pub),
		LeaveRequests:   NewTable[domain.LeaveRequest](db, LeaveRequestsDef, pub),
		KmRecords:       NewTable[domain.KmRecord](db, KmRecordsDef, pub),
		Settings:        NewTable[domain.Setting](db, SettingsDef, pub),
	}
}

func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn against tables bound to one database transaction.
// Changes are published only after the transaction commits.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	pending := &pendingPublisher{tables: map[string]struct{}{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx, pending))
	})
	if err != nil {
		return err
	}
	pending.flush(s.pub)
	return nil
}

type noopPublisher struct{}

func (noopPublisher) Publish(string) {}

type pendingPublisher struct {
	mu     sync.Mutex
	tables map[string]struct{}
}

func (p *pendingPublisher) Publish(table string) {
	p.mu.Lock()
	p.tables[table] = struct{}{}
	p.mu.Unlock()
}

func (p *pendingPublisher) flush(to Publisher) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for table := range p.tables {
		to.Publish(table)
	}
}
