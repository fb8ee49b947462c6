package domain

import "time"

// Wizard steps, in fixed order. A step may be navigated to directly only when
// it is already completed or is the current step; Continue marks the current
// step completed before advancing.
const (
	StepUpload     = 1
	StepImport     = 2
	StepCategories = 3
	StepReview     = 4
	StepQuestions  = 5
	StepSummary    = 6
)

type Subcategory struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
	// Quantity is defined only while Selected; zero means unset. It defaults
	// to 1 on selection and is cleared on deselection.
	Quantity int `json:"quantity,omitempty"`
}

type Category struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Icon          string        `json:"icon,omitempty"`
	Description   string        `json:"description,omitempty"`
	Selected      bool          `json:"selected"`
	Badge         string        `json:"badge,omitempty"`
	Subcategories []Subcategory `json:"subcategories,omitempty"`
}

// Highlight is a free-form rectangular annotation on a document preview.
type Highlight struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Label      string  `json:"label"`
	Color      string  `json:"color,omitempty"`
}

type PersonalInfo struct {
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	FilingStatus string `json:"filing_status,omitempty"`
}

// WizardState is the aggregate root for one session. It is owned exclusively
// by the reducer: every change flows through a typed action and produces a new
// value, never an in-place edit.
type WizardState struct {
	Step            int              `json:"step"`
	Documents       []Document       `json:"documents"`
	ExtractedFields []ExtractedField `json:"extracted_fields"`
	Categories      []Category       `json:"categories"`
	Questions       []Question       `json:"questions"`
	Highlights      []Highlight      `json:"highlights"`
	PersonalInfo    PersonalInfo     `json:"personal_info"`
	CompletedSteps  []int            `json:"completed_steps"`
}

type Session struct {
	ID        string      `json:"id"`
	State     WizardState `json:"state"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// StepCompleted reports whether the step is in the completed set.
func (s WizardState) StepCompleted(step int) bool {
	for _, done := range s.CompletedSteps {
		if done == step {
			return true
		}
	}
	return false
}

// FindQuestion returns the active question with the given id, if present.
func (s WizardState) FindQuestion(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// FindDocument returns the document with the given id, if present.
func (s WizardState) FindDocument(id string) (Document, bool) {
	for _, doc := range s.Documents {
		if doc.ID == id {
			return doc, true
		}
	}
	return Document{}, false
}
