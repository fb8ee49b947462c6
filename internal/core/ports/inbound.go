package ports

import (
	"context"
	"io"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/wizard"
)

// DispatchResult is the outcome of one action dispatch. Revealed carries the
// follow-up questions appended by this dispatch, if any.
type DispatchResult struct {
	Session  *domain.Session
	Revealed []domain.Question
}

// SessionService is the inbound contract for wizard session orchestration.
type SessionService interface {
	Create(ctx context.Context) (*domain.Session, error)
	Get(ctx context.Context, id string) (*domain.Session, error)
	Dispatch(ctx context.Context, id string, action wizard.Action) (*DispatchResult, error)
	// Advance marks the current step completed and moves forward, subject to
	// the step's completion gate.
	Advance(ctx context.Context, id string) (*domain.Session, error)
	// Navigate jumps directly to the target step. The int is the landing
	// step: the target on success, the redirect on ErrNavigationDenied.
	Navigate(ctx context.Context, id string, target int) (*domain.Session, int, error)
	// RefreshQuestions replaces the active question set, preferring the
	// remote generator and falling back locally.
	RefreshQuestions(ctx context.Context, id string) (*domain.Session, domain.QuestionSource, error)
}

// DocumentService is the inbound contract for document upload orchestration.
type DocumentService interface {
	Upload(ctx context.Context, sessionID, filename, mimeType, category string, body io.Reader) (*domain.Document, error)
	Get(ctx context.Context, sessionID, documentID string) (*domain.Document, error)
	Delete(ctx context.Context, sessionID, documentID string) error
	// ImportFields loads extracted fields persisted by the worker into the
	// session state.
	ImportFields(ctx context.Context, sessionID string) (*domain.Session, error)
}

// DocumentProcessor is the inbound contract for asynchronous document
// analysis.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}
