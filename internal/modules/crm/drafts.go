package crm

import (
	"context"
	"errors"
	"fmt"

	"cnkcrm/internal/domain"
	"cnkcrm/internal/store"
)

// AddEmailDraft stores a draft and returns its id.
func (r *Repository) AddEmailDraft(ctx context.Context, d domain.EmailDraft) (string, error) {
	d.ID = r.newID()
	d.CreatedAt = r.now()
	if d.Status == "" {
		d.Status = domain.DraftPending
	}
	if err := r.store.EmailDrafts.Add(ctx, &d); err != nil {
		return "", fmt.Errorf("add email draft: %w", err)
	}
	return d.ID, nil
}

func (r *Repository) UpdateEmailDraft(ctx context.Context, d domain.EmailDraft) error {
	if err := r.store.EmailDrafts.Put(ctx, &d); err != nil {
		return fmt.Errorf("update email draft %s: %w", d.ID, err)
	}
	return nil
}

func (r *Repository) MarkDraftSent(ctx context.Context, id string) error {
	err := r.store.EmailDrafts.Update(ctx, id, map[string]any{"status": domain.DraftSent})
	if errors.Is(err, store.ErrNotFound) {
		return ErrDraftNotFound
	}
	return err
}

func (r *Repository) DeleteEmailDraft(ctx context.Context, id string) error {
	if err := r.store.EmailDrafts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete email draft %s: %w", id, err)
	}
	return nil
}

// EmailDrafts lists drafts newest first.
func (r *Repository) EmailDrafts(ctx context.Context) ([]domain.EmailDraft, error) {
	return r.store.EmailDrafts.All(ctx, "created_at", true)
}

// HasDraftFor reports whether any draft references the given object.
func (r *Repository) HasDraftFor(ctx context.Context, objectID string) (bool, error) {
	rows, err := r.store.EmailDrafts.Find(ctx, store.Query{Index: "related_object_id", Equals: objectID, Limit: 1})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}
