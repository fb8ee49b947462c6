package wizard

import "github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"

// NewState builds the initial wizard state: first step, catalog categories,
// baseline questions, everything else empty.
func NewState() domain.WizardState {
	return domain.WizardState{
		Step:            domain.StepUpload,
		Documents:       []domain.Document{},
		ExtractedFields: []domain.ExtractedField{},
		Categories:      domain.CatalogCategories(),
		Questions:       domain.BaselineQuestions(),
		Highlights:      []domain.Highlight{},
		CompletedSteps:  []int{},
	}
}

// Apply is the wizard reducer: a total function from (state, action) to a new
// state value. Unknown action types and lookups that miss are silent no-ops.
// The input state is never mutated; only the slices an action touches are
// copied.
func Apply(state domain.WizardState, action Action) domain.WizardState {
	switch action.Type {
	case ActionSetStep:
		state.Step = action.Step
		return state

	case ActionAddDocument:
		if action.Document == nil {
			return state
		}
		state.Documents = appendDocument(state.Documents, *action.Document)
		return state

	case ActionUpdateDocument:
		return updateDocument(state, action.DocumentID, action.DocumentPatch)

	case ActionRemoveDocument:
		state.Documents = removeDocument(state.Documents, action.DocumentID)
		return state

	case ActionSetExtractedFields:
		state.ExtractedFields = append([]domain.ExtractedField{}, action.Fields...)
		return state

	case ActionUpdateExtractedField:
		return updateField(state, action.FieldID, action.FieldPatch)

	case ActionSetCategories:
		state.Categories = append([]domain.Category{}, action.Categories...)
		return state

	case ActionToggleCategory:
		return toggleCategory(state, action.CategoryID)

	case ActionToggleSubcategory:
		return toggleSubcategory(state, action.CategoryID, action.SubcategoryID, action.Quantity)

	case ActionUpdateSubcategoryQuantity:
		return updateSubcategoryQuantity(state, action.CategoryID, action.SubcategoryID, action.Quantity)

	case ActionAddHighlight:
		if action.Highlight == nil {
			return state
		}
		highlights := make([]domain.Highlight, 0, len(state.Highlights)+1)
		highlights = append(highlights, state.Highlights...)
		state.Highlights = append(highlights, *action.Highlight)
		return state

	case ActionRemoveHighlight:
		filtered := make([]domain.Highlight, 0, len(state.Highlights))
		for _, h := range state.Highlights {
			if h.ID != action.HighlightID {
				filtered = append(filtered, h)
			}
		}
		state.Highlights = filtered
		return state

	case ActionSetQuestions:
		state.Questions = append([]domain.Question{}, action.Questions...)
		return state

	case ActionAnswerQuestion:
		return answerQuestion(state, action.QuestionID, action.Answer)

	case ActionAddFollowUpQuestions:
		return addFollowUps(state, action.ParentQuestionID, action.Questions)

	case ActionUpdatePersonalInfo:
		return updatePersonalInfo(state, action.PersonalInfo)

	case ActionMarkStepCompleted:
		if state.StepCompleted(action.Step) {
			return state
		}
		completed := make([]int, 0, len(state.CompletedSteps)+1)
		completed = append(completed, state.CompletedSteps...)
		state.CompletedSteps = append(completed, action.Step)
		return state

	case ActionReset:
		return NewState()

	default:
		return state
	}
}

func appendDocument(docs []domain.Document, doc domain.Document) []domain.Document {
	out := make([]domain.Document, 0, len(docs)+1)
	out = append(out, docs...)
	return append(out, doc)
}

func removeDocument(docs []domain.Document, id string) []domain.Document {
	out := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if doc.ID != id {
			out = append(out, doc)
		}
	}
	return out
}

func updateDocument(state domain.WizardState, id string, patch *DocumentPatch) domain.WizardState {
	if patch == nil {
		return state
	}
	for idx, doc := range state.Documents {
		if doc.ID != id {
			continue
		}
		if patch.Name != nil {
			doc.Name = *patch.Name
		}
		if patch.PreviewURL != nil {
			doc.PreviewURL = *patch.PreviewURL
		}
		if patch.UploadProgress != nil {
			doc.UploadProgress = *patch.UploadProgress
		}
		if patch.Type != nil {
			doc.Type = *patch.Type
		}
		if patch.Status != nil {
			doc.Status = *patch.Status
		}
		if patch.Category != nil {
			doc.Category = *patch.Category
		}
		if patch.Error != nil {
			doc.Error = *patch.Error
		}
		docs := append([]domain.Document{}, state.Documents...)
		docs[idx] = doc
		state.Documents = docs
		return state
	}
	return state
}

func updateField(state domain.WizardState, id string, patch *FieldPatch) domain.WizardState {
	if patch == nil {
		return state
	}
	for idx, field := range state.ExtractedFields {
		if field.ID != id {
			continue
		}
		if patch.Name != nil {
			field.Name = *patch.Name
		}
		if patch.Value != nil {
			field.Value = *patch.Value
			if patch.IsCorrect == nil {
				// A user edit counts as confirmation.
				verdict := true
				field.IsCorrect = &verdict
			}
		}
		if patch.IsCorrect != nil {
			verdict := *patch.IsCorrect
			field.IsCorrect = &verdict
		}
		fields := append([]domain.ExtractedField{}, state.ExtractedFields...)
		fields[idx] = field
		state.ExtractedFields = fields
		return state
	}
	return state
}

func toggleCategory(state domain.WizardState, categoryID string) domain.WizardState {
	for idx, cat := range state.Categories {
		if cat.ID != categoryID {
			continue
		}
		cat.Selected = !cat.Selected
		categories := append([]domain.Category{}, state.Categories...)
		categories[idx] = cat
		state.Categories = categories
		return state
	}
	return state
}

// toggleSubcategory flips the subcategory. On select, Quantity becomes the
// supplied restore value when positive, otherwise 1. On deselect, Quantity is
// cleared; a prior custom quantity is not remembered across the round trip.
func toggleSubcategory(state domain.WizardState, categoryID, subcategoryID string, restoreQuantity int) domain.WizardState {
	for catIdx, cat := range state.Categories {
		if cat.ID != categoryID {
			continue
		}
		for subIdx, sub := range cat.Subcategories {
			if sub.ID != subcategoryID {
				continue
			}
			sub.Selected = !sub.Selected
			if sub.Selected {
				sub.Quantity = 1
				if restoreQuantity > 0 {
					sub.Quantity = restoreQuantity
				}
			} else {
				sub.Quantity = 0
			}
			subs := append([]domain.Subcategory{}, cat.Subcategories...)
			subs[subIdx] = sub
			cat.Subcategories = subs
			categories := append([]domain.Category{}, state.Categories...)
			categories[catIdx] = cat
			state.Categories = categories
			return state
		}
		return state
	}
	return state
}

func updateSubcategoryQuantity(state domain.WizardState, categoryID, subcategoryID string, quantity int) domain.WizardState {
	if quantity < 1 {
		quantity = 1
	}
	for catIdx, cat := range state.Categories {
		if cat.ID != categoryID {
			continue
		}
		for subIdx, sub := range cat.Subcategories {
			if sub.ID != subcategoryID {
				continue
			}
			if !sub.Selected {
				return state
			}
			sub.Quantity = quantity
			subs := append([]domain.Subcategory{}, cat.Subcategories...)
			subs[subIdx] = sub
			cat.Subcategories = subs
			categories := append([]domain.Category{}, state.Categories...)
			categories[catIdx] = cat
			state.Categories = categories
			return state
		}
		return state
	}
	return state
}

func answerQuestion(state domain.WizardState, questionID, answer string) domain.WizardState {
	for idx, q := range state.Questions {
		if q.ID != questionID {
			continue
		}
		q.Answer = answer
		questions := append([]domain.Question{}, state.Questions...)
		questions[idx] = q
		state.Questions = questions
		return state
	}
	return state
}

// addFollowUps appends follow-up questions tagged with the parent id, seeding
// each with an empty answer so progress accounting counts them immediately.
// Questions whose id is already active are skipped, which makes repeated
// identical dispatches safe.
func addFollowUps(state domain.WizardState, parentID string, followUps []domain.Question) domain.WizardState {
	if len(followUps) == 0 {
		return state
	}
	active := make(map[string]struct{}, len(state.Questions))
	for _, q := range state.Questions {
		active[q.ID] = struct{}{}
	}

	questions := append([]domain.Question{}, state.Questions...)
	appended := false
	for _, fu := range followUps {
		if _, exists := active[fu.ID]; exists {
			continue
		}
		fu.ParentQuestionID = parentID
		fu.Answer = ""
		questions = append(questions, fu)
		active[fu.ID] = struct{}{}
		appended = true
	}
	if !appended {
		return state
	}
	state.Questions = questions
	return state
}

func updatePersonalInfo(state domain.WizardState, patch *PersonalInfoPatch) domain.WizardState {
	if patch == nil {
		return state
	}
	info := state.PersonalInfo
	if patch.FirstName != nil {
		info.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		info.LastName = *patch.LastName
	}
	if patch.Email != nil {
		info.Email = *patch.Email
	}
	if patch.Phone != nil {
		info.Phone = *patch.Phone
	}
	if patch.Address != nil {
		info.Address = *patch.Address
	}
	if patch.FilingStatus != nil {
		info.FilingStatus = *patch.FilingStatus
	}
	state.PersonalInfo = info
	return state
}
