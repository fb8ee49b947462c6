package domain

// DocumentSummary is the trimmed document shape sent to the question
// generation service.
type DocumentSummary struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Type     DocumentType `json:"type"`
	Category string       `json:"category,omitempty"`
}

// QuestionRequest is the personalization payload for remote question
// generation.
type QuestionRequest struct {
	SelectedCategories []Category        `json:"selectedCategories"`
	Documents          []DocumentSummary `json:"documents"`
	ExtractedFields    []ExtractedField  `json:"extractedFields,omitempty"`
	PreviousAnswers    map[string]string `json:"previousAnswers,omitempty"`
}

// QuestionSource tags where a generated question set came from. A failed
// remote call never surfaces to callers; the deterministic local generator
// substitutes and the result is tagged SourceFallback.
type QuestionSource string

const (
	SourceRemote   QuestionSource = "remote"
	SourceFallback QuestionSource = "fallback"
)
