package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
)

type FieldRepository struct {
	db *sql.DB
}

func NewFieldRepository(db *sql.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

// ReplaceForDocument swaps the field set for a document in one transaction,
// so reprocessing a document never leaves stale fields behind.
func (r *FieldRepository) ReplaceForDocument(ctx context.Context, documentID string, fields []domain.ExtractedField) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var sessionID string
	row := tx.QueryRowContext(ctx, `SELECT session_id FROM documents WHERE id = $1`, documentID)
	if err := row.Scan(&sessionID); err != nil {
		return fmt.Errorf("resolve document session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM extracted_fields WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("clear extracted fields: %w", err)
	}

	now := time.Now().UTC()
	for _, field := range fields {
		_, err := tx.ExecContext(ctx, `
INSERT INTO extracted_fields (
	id, document_id, session_id, name, value, original_value, category, is_correct, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
			field.ID, documentID, sessionID, field.Name, field.Value,
			field.OriginalValue, field.Category, field.IsCorrect, now,
		)
		if err != nil {
			return fmt.Errorf("insert extracted field: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace tx: %w", err)
	}
	return nil
}

func (r *FieldRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.ExtractedField, error) {
	return r.list(ctx, `
SELECT id, document_id, name, value, original_value, category, is_correct
FROM extracted_fields
WHERE document_id = $1
ORDER BY created_at, id
`, documentID)
}

func (r *FieldRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.ExtractedField, error) {
	return r.list(ctx, `
SELECT id, document_id, name, value, original_value, category, is_correct
FROM extracted_fields
WHERE session_id = $1
ORDER BY created_at, id
`, sessionID)
}

func (r *FieldRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM extracted_fields WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("delete extracted fields: %w", err)
	}
	return nil
}

func (r *FieldRepository) list(ctx context.Context, query string, arg any) ([]domain.ExtractedField, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query extracted fields: %w", err)
	}
	defer rows.Close()

	fields := make([]domain.ExtractedField, 0)
	for rows.Next() {
		var field domain.ExtractedField
		var isCorrect sql.NullBool
		if err := rows.Scan(
			&field.ID, &field.DocumentID, &field.Name, &field.Value,
			&field.OriginalValue, &field.Category, &isCorrect,
		); err != nil {
			return nil, fmt.Errorf("scan extracted field: %w", err)
		}
		if isCorrect.Valid {
			verdict := isCorrect.Bool
			field.IsCorrect = &verdict
		}
		fields = append(fields, field)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extracted fields: %w", err)
	}
	return fields, nil
}
