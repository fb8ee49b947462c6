package ports

import (
	"context"
	"io"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
)

// SessionStore holds live wizard sessions. Update serializes mutations per
// session: the callback sees the current session and edits it in place, and
// the store publishes the result atomically.
type SessionStore interface {
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, id string, fn func(*domain.Session) error) (*domain.Session, error)
}

// DocumentRepository persists document metadata rows.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	Delete(ctx context.Context, id string) error
}

// FieldRepository persists extracted fields produced by document analysis.
type FieldRepository interface {
	ReplaceForDocument(ctx context.Context, documentID string, fields []domain.ExtractedField) error
	ListByDocument(ctx context.Context, documentID string) ([]domain.ExtractedField, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.ExtractedField, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}

// ObjectStorage stores uploaded document blobs.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes document-uploaded events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor pulls plain text out of a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// FieldExtractor turns document text into structured extracted fields.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, doc *domain.Document, text string) ([]domain.ExtractedField, error)
}

// QuestionService is the remote question generation call. Callers must treat
// any error as non-fatal and substitute the local generator.
type QuestionService interface {
	GenerateQuestions(ctx context.Context, req domain.QuestionRequest) ([]domain.Question, error)
}
