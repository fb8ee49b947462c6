package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/ports"
)

// ProcessDocumentUseCase is the worker-side pipeline: text extraction, LLM
// field extraction, and persistence of the results.
type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	fields    ports.FieldRepository
	extractor ports.TextExtractor
	analyzer  ports.FieldExtractor
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	fields ports.FieldRepository,
	extractor ports.TextExtractor,
	analyzer ports.FieldExtractor,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:      repo,
		fields:    fields,
		extractor: extractor,
		analyzer:  analyzer,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	fields, err := uc.extractPipeline(ctx, doc)
	if err != nil {
		if failErr := uc.markError(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark error status: %v", err, failErr)
		}
		return err
	}

	if err := uc.fields.ReplaceForDocument(ctx, documentID, fields); err != nil {
		saveErr := fmt.Errorf("save extracted fields: %w", err)
		if failErr := uc.markError(ctx, documentID, saveErr); failErr != nil {
			return fmt.Errorf("%w; mark error status: %v", saveErr, failErr)
		}
		return saveErr
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessed, ""); err != nil {
		return fmt.Errorf("set status=processed: %w", err)
	}
	return nil
}

func (uc *ProcessDocumentUseCase) extractPipeline(ctx context.Context, doc *domain.Document) ([]domain.ExtractedField, error) {
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if text == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("empty extracted text"))
	}

	fields, err := uc.analyzer.ExtractFields(ctx, doc, text)
	if err != nil {
		return nil, fmt.Errorf("extract fields: %w", err)
	}

	for i := range fields {
		if fields[i].ID == "" {
			fields[i].ID = uuid.NewString()
		}
		fields[i].DocumentID = doc.ID
		fields[i].OriginalValue = fields[i].Value
		fields[i].IsCorrect = nil
		if fields[i].Category == "" {
			fields[i].Category = doc.Category
		}
	}
	return fields, nil
}

func (uc *ProcessDocumentUseCase) markError(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.repo.UpdateStatus(ctx, documentID, domain.StatusError, processErr.Error())
}
