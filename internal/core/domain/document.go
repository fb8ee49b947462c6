package domain

import "time"

type DocumentStatus string

const (
	StatusUploading DocumentStatus = "uploading"
	StatusUploaded  DocumentStatus = "uploaded"
	StatusProcessed DocumentStatus = "processed"
	StatusError     DocumentStatus = "error"
)

type DocumentType string

const (
	DocTypeDocument DocumentType = "document"
	DocTypeImage    DocumentType = "image"
	DocTypePDF      DocumentType = "pdf"
)

type Document struct {
	ID             string         `json:"id"`
	SessionID      string         `json:"session_id,omitempty"`
	Name           string         `json:"name"`
	StoragePath    string         `json:"storage_path,omitempty"`
	PreviewURL     string         `json:"preview_url,omitempty"`
	UploadProgress int            `json:"upload_progress"`
	Type           DocumentType   `json:"type"`
	Status         DocumentStatus `json:"status"`
	Category       string         `json:"category,omitempty"`
	Error          string         `json:"error,omitempty"`
	CreatedAt      time.Time      `json:"created_at,omitzero"`
	UpdatedAt      time.Time      `json:"updated_at,omitzero"`
}

// ExtractedField is a name/value pair read from an uploaded document by the
// analysis step. IsCorrect == nil means the user has not reviewed it yet.
type ExtractedField struct {
	ID            string `json:"id"`
	DocumentID    string `json:"document_id,omitempty"`
	Name          string `json:"name"`
	Value         string `json:"value"`
	IsCorrect     *bool  `json:"is_correct"`
	OriginalValue string `json:"original_value,omitempty"`
	Category      string `json:"category,omitempty"`
}

func (f ExtractedField) Reviewed() bool {
	return f.IsCorrect != nil
}
