package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cnkcrm/internal/observability/metrics"
)

// Publisher is told about every committed write, by table name.
type Publisher interface {
	Publish(table string)
}

// Query selects rows by one declared index. Equals, From (inclusive) and
// Before (exclusive) apply to Index; OrderBy must also be declared.
type Query struct {
	Index   string
	Equals  any
	From    any
	Before  any
	OrderBy string
	Desc    bool
	Limit   int
}

// Table is a typed collection of rows keyed by the definition's key column.
type Table[T any] struct {
	db  *gorm.DB
	def TableDef
	pub Publisher
}

func NewTable[T any](db *gorm.DB, def TableDef, pub Publisher) *Table[T] {
	return &Table[T]{db: db, def: def, pub: pub}
}

func (t *Table[T]) Name() string { return t.def.Name }

func (t *Table[T]) Get(ctx context.Context, id string) (*T, error) {
	var row T
	err := t.db.WithContext(ctx).Where(t.keyEq(id)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		t.observe("get", "not_found")
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, t.fail("get", err)
	}
	t.observe("get", "ok")
	return &row, nil
}

// Put inserts the row or replaces every column of the existing one.
func (t *Table[T]) Put(ctx context.Context, row *T) error {
	err := t.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error
	if err != nil {
		return t.fail("put", err)
	}
	t.committed("put")
	return nil
}

// Add inserts the row and fails with ErrDuplicateKey when the key is taken.
func (t *Table[T]) Add(ctx context.Context, row *T) error {
	err := t.db.WithContext(ctx).Create(row).Error
	if isUniqueConstraintError(err) {
		t.observe("add", "duplicate")
		return fmt.Errorf("%s: %w", t.def.Name, ErrDuplicateKey)
	}
	if err != nil {
		return t.fail("add", err)
	}
	t.committed("add")
	return nil
}

// Update sets the given columns on one row.
func (t *Table[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	res := t.db.WithContext(ctx).Model(new(T)).Where(t.keyEq(id)).Updates(fields)
	if res.Error != nil {
		return t.fail("update", res.Error)
	}
	if res.RowsAffected == 0 {
		t.observe("update", "not_found")
		return ErrNotFound
	}
	t.committed("update")
	return nil
}

// Delete removes the row; a missing key is not an error.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	res := t.db.WithContext(ctx).Where(t.keyEq(id)).Delete(new(T))
	if res.Error != nil {
		return t.fail("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		t.observe("delete", "noop")
		return nil
	}
	t.committed("delete")
	return nil
}

// BulkAdd inserts each row on its own and reports how many succeeded.
// The returned error joins the individual failures.
func (t *Table[T]) BulkAdd(ctx context.Context, rows []T) (int, error) {
	var (
		added int
		errs  []error
	)
	for i := range rows {
		err := t.db.WithContext(ctx).Create(&rows[i]).Error
		switch {
		case isUniqueConstraintError(err):
			errs = append(errs, fmt.Errorf("%s row %d: %w", t.def.Name, i, ErrDuplicateKey))
		case err != nil:
			errs = append(errs, t.fail("bulk_add", err))
		default:
			added++
		}
	}
	if added > 0 {
		t.committed("bulk_add")
	}
	return added, errors.Join(errs...)
}

// BulkPut upserts all rows in one statement.
func (t *Table[T]) BulkPut(ctx context.Context, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	err := t.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	if err != nil {
		return t.fail("bulk_put", err)
	}
	t.committed("bulk_put")
	return nil
}

func (t *Table[T]) Find(ctx context.Context, q Query) ([]T, error) {
	tx := t.db.WithContext(ctx).Model(new(T))
	if q.Index != "" {
		if !t.def.queryable(q.Index) {
			return nil, fmt.Errorf("%s.%s: %w", t.def.Name, q.Index, ErrUnknownIndex)
		}
		col := clause.Column{Name: q.Index}
		if q.Equals != nil {
			tx = tx.Where(clause.Eq{Column: col, Value: q.Equals})
		}
		if q.From != nil {
			tx = tx.Where(clause.Gte{Column: col, Value: q.From})
		}
		if q.Before != nil {
			tx = tx.Where(clause.Lt{Column: col, Value: q.Before})
		}
	}
	if q.OrderBy != "" {
		if !t.def.queryable(q.OrderBy) {
			return nil, fmt.Errorf("%s.%s: %w", t.def.Name, q.OrderBy, ErrUnknownIndex)
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Desc})
	}
	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: t.def.Key}, Desc: q.Desc})
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, t.fail("find", err)
	}
	t.observe("find", "ok")
	return rows, nil
}

// All returns every row ordered by the given declared index.
func (t *Table[T]) All(ctx context.Context, orderBy string, desc bool) ([]T, error) {
	return t.Find(ctx, Query{OrderBy: orderBy, Desc: desc})
}

func (t *Table[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := t.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, t.fail("count", err)
	}
	return n, nil
}

func (t *Table[T]) keyEq(id string) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: t.def.Key}, Value: id}
}

func (t *Table[T]) fail(op string, err error) error {
	t.observe(op, "error")
	return &StorageError{Op: op, Table: t.def.Name, Err: err}
}

func (t *Table[T]) committed(op string) {
	t.observe(op, "ok")
	if t.pub != nil {
		t.pub.Publish(t.def.Name)
	}
}

func (t *Table[T]) observe(op, result string) {
	metrics.ObserveStoreOperation(t.def.Name, op, result)
}
