package wizard

import "github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"

type ActionType string

const (
	ActionSetStep                   ActionType = "SET_STEP"
	ActionAddDocument               ActionType = "ADD_DOCUMENT"
	ActionUpdateDocument            ActionType = "UPDATE_DOCUMENT"
	ActionRemoveDocument            ActionType = "REMOVE_DOCUMENT"
	ActionSetExtractedFields        ActionType = "SET_EXTRACTED_FIELDS"
	ActionUpdateExtractedField      ActionType = "UPDATE_EXTRACTED_FIELD"
	ActionSetCategories             ActionType = "SET_CATEGORIES"
	ActionToggleCategory            ActionType = "TOGGLE_CATEGORY"
	ActionToggleSubcategory         ActionType = "TOGGLE_SUBCATEGORY"
	ActionUpdateSubcategoryQuantity ActionType = "UPDATE_SUBCATEGORY_QUANTITY"
	ActionAddHighlight              ActionType = "ADD_HIGHLIGHT"
	ActionRemoveHighlight           ActionType = "REMOVE_HIGHLIGHT"
	ActionSetQuestions              ActionType = "SET_QUESTIONS"
	ActionAnswerQuestion            ActionType = "ANSWER_QUESTION"
	ActionAddFollowUpQuestions      ActionType = "ADD_FOLLOW_UP_QUESTIONS"
	ActionUpdatePersonalInfo        ActionType = "UPDATE_PERSONAL_INFO"
	ActionMarkStepCompleted         ActionType = "MARK_STEP_COMPLETED"
	ActionReset                     ActionType = "RESET"
)

// DocumentPatch is a shallow merge into an existing document; nil fields are
// left untouched.
type DocumentPatch struct {
	Name           *string                `json:"name,omitempty"`
	PreviewURL     *string                `json:"preview_url,omitempty"`
	UploadProgress *int                   `json:"upload_progress,omitempty"`
	Type           *domain.DocumentType   `json:"type,omitempty"`
	Status         *domain.DocumentStatus `json:"status,omitempty"`
	Category       *string                `json:"category,omitempty"`
	Error          *string                `json:"error,omitempty"`
}

// FieldPatch is a shallow merge into an extracted field. Setting Value without
// an explicit verdict counts as a user edit and forces IsCorrect to true.
type FieldPatch struct {
	Name      *string `json:"name,omitempty"`
	Value     *string `json:"value,omitempty"`
	IsCorrect *bool   `json:"is_correct,omitempty"`
}

type PersonalInfoPatch struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	FilingStatus *string `json:"filing_status,omitempty"`
}

// Action is the single mutation envelope processed by Apply. Only the fields
// relevant to Type are read; the rest stay zero.
type Action struct {
	Type ActionType `json:"type"`

	Step int `json:"step,omitempty"`

	Document      *domain.Document `json:"document,omitempty"`
	DocumentID    string           `json:"document_id,omitempty"`
	DocumentPatch *DocumentPatch   `json:"document_patch,omitempty"`

	Fields     []domain.ExtractedField `json:"fields,omitempty"`
	FieldID    string                  `json:"field_id,omitempty"`
	FieldPatch *FieldPatch             `json:"field_patch,omitempty"`

	Categories    []domain.Category `json:"categories,omitempty"`
	CategoryID    string            `json:"category_id,omitempty"`
	SubcategoryID string            `json:"subcategory_id,omitempty"`
	// Quantity carries the target value for UPDATE_SUBCATEGORY_QUANTITY and,
	// for TOGGLE_SUBCATEGORY, an optional restore value applied on reselect
	// instead of the default of 1.
	Quantity int `json:"quantity,omitempty"`

	Highlight   *domain.Highlight `json:"highlight,omitempty"`
	HighlightID string            `json:"highlight_id,omitempty"`

	QuestionID       string            `json:"question_id,omitempty"`
	Answer           string            `json:"answer,omitempty"`
	Questions        []domain.Question `json:"questions,omitempty"`
	ParentQuestionID string            `json:"parent_question_id,omitempty"`

	PersonalInfo *PersonalInfoPatch `json:"personal_info,omitempty"`
}
