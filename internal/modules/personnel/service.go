// Package personnel keeps staff leave requests and daily vehicle km logs.
package personnel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/pkg/clock"
	"cnkcrm/internal/pkg/validator"
	"cnkcrm/internal/store"
)

var (
	ErrLeaveNotFound = errors.New("leave request not found")
	ErrInvalidStatus = errors.New("leave status must be approved or rejected")
	ErrInvalidKm     = errors.New("km must be >= 0 and type morning or evening")
	ErrInvalidDates  = errors.New("leave end date is before start date")
)

const dateLayout = "2006-01-02"

type Service struct {
	store *store.Store
	log   *zap.Logger
	now   clock.Clock
}

func NewService(s *store.Store, log *zap.Logger, now clock.Clock) *Service {
	if now == nil {
		now = clock.System
	}
	return &Service{store: s, log: log, now: now}
}

// RequestLeave stores a pending request. Dates are YYYY-MM-DD, so they
// order as strings.
func (s *Service) RequestLeave(ctx context.Context, userID, kind, start, end, reason string) (string, error) {
	req := domain.LeaveRequest{
		ID:          ulid.Make().String(),
		UserID:      userID,
		Type:        kind,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.LeavePending,
		RequestDate: s.now(),
		Reason:      reason,
	}
	if err := validator.Struct(req); err != nil {
		return "", fmt.Errorf("leave request: %w", err)
	}
	if end < start {
		return "", ErrInvalidDates
	}

	if err := s.store.LeaveRequests.Add(ctx, &req); err != nil {
		return "", fmt.Errorf("add leave request: %w", err)
	}
	s.log.Info("leave requested", zap.String("leave_id", req.ID), zap.String("user_id", userID))
	return req.ID, nil
}

// Decide approves or rejects a request.
func (s *Service) Decide(ctx context.Context, id string, status domain.LeaveStatus) error {
	if status != domain.LeaveApproved && status != domain.LeaveRejected {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	err := s.store.LeaveRequests.Update(ctx, id, map[string]any{"status": status})
	if errors.Is(err, store.ErrNotFound) {
		return ErrLeaveNotFound
	}
	if err != nil {
		return fmt.Errorf("decide leave %s: %w", id, err)
	}
	s.log.Info("leave decided", zap.String("leave_id", id), zap.String("status", string(status)))
	return nil
}

// LeaveRequests returns a user's requests newest first.
func (s *Service) LeaveRequests(ctx context.Context, userID string) ([]domain.LeaveRequest, error) {
	return s.store.LeaveRequests.Find(ctx, store.Query{Index: "user_id", Equals: userID, OrderBy: "request_date", Desc: true})
}

// PendingLeaves returns every request still waiting for a decision.
func (s *Service) PendingLeaves(ctx context.Context) ([]domain.LeaveRequest, error) {
	return s.store.LeaveRequests.Find(ctx, store.Query{Index: "status", Equals: domain.LeavePending, OrderBy: "request_date"})
}

// UsedLeaveDays counts the approved calendar days of a user's requests.
func (s *Service) UsedLeaveDays(ctx context.Context, userID string) (int, error) {
	reqs, err := s.LeaveRequests(ctx, userID)
	if err != nil {
		return 0, err
	}
	var days int
	for _, r := range reqs {
		if r.Status != domain.LeaveApproved {
			continue
		}
		from, err1 := time.Parse(dateLayout, r.StartDate)
		to, err2 := time.Parse(dateLayout, r.EndDate)
		if err1 != nil || err2 != nil {
			continue
		}
		days += int(to.Sub(from).Hours()/24) + 1
	}
	return days, nil
}

// RecordKm logs an odometer reading taken now.
func (s *Service) RecordKm(ctx context.Context, userID string, km int, kind domain.KmType) (string, error) {
	rec := domain.KmRecord{
		ID:     ulid.Make().String(),
		UserID: userID,
		Date:   s.now(),
		Km:     km,
		Type:   kind,
	}
	if err := validator.Struct(rec); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidKm, err)
	}
	if err := s.store.KmRecords.Add(ctx, &rec); err != nil {
		return "", fmt.Errorf("add km record: %w", err)
	}
	return rec.ID, nil
}

// KmRecords returns a user's readings newest first.
func (s *Service) KmRecords(ctx context.Context, userID string) ([]domain.KmRecord, error) {
	return s.store.KmRecords.Find(ctx, store.Query{Index: "user_id", Equals: userID, OrderBy: "date", Desc: true})
}
