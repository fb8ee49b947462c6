package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/ports"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/wizard"
)

// DocumentUseCase orchestrates document upload, deletion, and the import of
// worker-produced extracted fields into session state.
type DocumentUseCase struct {
	sessions ports.SessionStore
	repo     ports.DocumentRepository
	fields   ports.FieldRepository
	storage  ports.ObjectStorage
	queue    ports.MessageQueue
	logger   *slog.Logger
}

func NewDocumentUseCase(
	sessions ports.SessionStore,
	repo ports.DocumentRepository,
	fields ports.FieldRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	logger *slog.Logger,
) *DocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentUseCase{
		sessions: sessions,
		repo:     repo,
		fields:   fields,
		storage:  storage,
		queue:    queue,
		logger:   logger,
	}
}

// Upload persists the blob and metadata row, publishes the analysis event,
// and records the document in session state.
func (uc *DocumentUseCase) Upload(
	ctx context.Context,
	sessionID, filename, mimeType, category string,
	body io.Reader,
) (*domain.Document, error) {
	if _, err := uc.sessions.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s/%s_%s", sessionID, id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:             id,
		SessionID:      sessionID,
		Name:           filename,
		StoragePath:    storageKey,
		UploadProgress: 100,
		Type:           documentTypeFor(mimeType, filename),
		Status:         domain.StatusUploaded,
		Category:       category,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document metadata: %w", err)
	}

	if err := uc.queue.PublishDocumentUploaded(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish upload event: %w", err)
	}

	if _, err := uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		s.State = wizard.Apply(s.State, wizard.Action{Type: wizard.ActionAddDocument, Document: doc})
		return nil
	}); err != nil {
		return nil, err
	}

	return doc, nil
}

func (uc *DocumentUseCase) Get(ctx context.Context, sessionID, documentID string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.SessionID != sessionID {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document",
			fmt.Errorf("document %s does not belong to session %s", documentID, sessionID))
	}
	return doc, nil
}

// Delete removes the remote blob, field rows, and metadata row best-effort,
// then always removes the document from session state. Remote cleanup
// failures are logged, not propagated.
func (uc *DocumentUseCase) Delete(ctx context.Context, sessionID, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err == nil && doc.SessionID != sessionID {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document",
			fmt.Errorf("document %s does not belong to session %s", documentID, sessionID))
	}

	if err == nil {
		if storageErr := uc.storage.Delete(ctx, doc.StoragePath); storageErr != nil {
			uc.logger.Warn("delete_blob_failed", "document_id", documentID, "error", storageErr)
		}
		if fieldsErr := uc.fields.DeleteByDocument(ctx, documentID); fieldsErr != nil {
			uc.logger.Warn("delete_fields_failed", "document_id", documentID, "error", fieldsErr)
		}
		if repoErr := uc.repo.Delete(ctx, documentID); repoErr != nil {
			uc.logger.Warn("delete_row_failed", "document_id", documentID, "error", repoErr)
		}
	} else {
		uc.logger.Warn("delete_lookup_failed", "document_id", documentID, "error", err)
	}

	_, updateErr := uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		s.State = wizard.Apply(s.State, wizard.Action{Type: wizard.ActionRemoveDocument, DocumentID: documentID})
		return nil
	})
	return updateErr
}

// ImportFields loads extracted fields persisted by the worker and replaces
// the session's field set wholesale. Fields arrive unreviewed.
func (uc *DocumentUseCase) ImportFields(ctx context.Context, sessionID string) (*domain.Session, error) {
	fields, err := uc.fields.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list extracted fields: %w", err)
	}
	return uc.sessions.Update(ctx, sessionID, func(s *domain.Session) error {
		s.State = wizard.Apply(s.State, wizard.Action{Type: wizard.ActionSetExtractedFields, Fields: fields})
		return nil
	})
}

func documentTypeFor(mimeType, filename string) domain.DocumentType {
	mime := strings.ToLower(mimeType)
	switch {
	case strings.Contains(mime, "pdf") || strings.HasSuffix(strings.ToLower(filename), ".pdf"):
		return domain.DocTypePDF
	case strings.HasPrefix(mime, "image/"):
		return domain.DocTypeImage
	default:
		return domain.DocTypeDocument
	}
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "document.bin"
	}
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
