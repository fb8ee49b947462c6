package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/wizard"
)

func TestCreateAndGetRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	session := &domain.Session{ID: "sess-1", State: wizard.NewState()}
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ID != "sess-1" {
		t.Fatalf("ID = %q, want sess-1", got.ID)
	}
	if got.State.Step != domain.StepUpload {
		t.Fatalf("Step = %d, want %d", got.State.Step, domain.StepUpload)
	}
}

func TestCreateRejectsMissingAndDuplicateIDs(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Create(ctx, nil); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("nil session: error = %v, want ErrInvalidInput", err)
	}
	if err := store.Create(ctx, &domain.Session{}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("empty id: error = %v, want ErrInvalidInput", err)
	}

	if err := store.Create(ctx, &domain.Session{ID: "sess-1"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := store.Create(ctx, &domain.Session{ID: "sess-1"}); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("duplicate id: error = %v, want ErrInvalidInput", err)
	}
}

func TestGetUnknownSessionReturnsNotFound(t *testing.T) {
	store := New()

	_, err := store.Get(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrSessionNotFound) {
		t.Fatalf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestUpdateCommitsMutationAndBumpsTimestamp(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Create(ctx, &domain.Session{ID: "sess-1", State: wizard.NewState()}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := store.Update(ctx, "sess-1", func(s *domain.Session) error {
		s.State.Step = domain.StepCategories
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.State.Step != domain.StepCategories {
		t.Fatalf("Step = %d, want %d", updated.State.Step, domain.StepCategories)
	}
	if updated.UpdatedAt.IsZero() {
		t.Fatalf("UpdatedAt not set")
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.State.Step != domain.StepCategories {
		t.Fatalf("persisted Step = %d, want %d", got.State.Step, domain.StepCategories)
	}
}

func TestUpdateDiscardsMutationWhenFnFails(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Create(ctx, &domain.Session{ID: "sess-1", State: wizard.NewState()}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	boom := errors.New("boom")
	_, err := store.Update(ctx, "sess-1", func(s *domain.Session) error {
		s.State.Step = domain.StepSummary
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.State.Step != domain.StepUpload {
		t.Fatalf("Step = %d, want unchanged %d", got.State.Step, domain.StepUpload)
	}
}

func TestGetReturnsDetachedSnapshot(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.Create(ctx, &domain.Session{ID: "sess-1", State: wizard.NewState()}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	first, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	first.State.Step = domain.StepSummary

	second, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if second.State.Step != domain.StepUpload {
		t.Fatalf("Step = %d, caller mutation leaked into store", second.State.Step)
	}
}
