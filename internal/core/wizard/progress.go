package wizard

import (
	"math"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
)

// AllFieldsReviewed reports whether every extracted field has been explicitly
// marked correct or edited. Vacuously true with no fields.
func AllFieldsReviewed(state domain.WizardState) bool {
	for _, field := range state.ExtractedFields {
		if !field.Reviewed() {
			return false
		}
	}
	return true
}

// FieldReviewCompletion returns the reviewed share of extracted fields as a
// percentage. Zero fields reports 0.
func FieldReviewCompletion(state domain.WizardState) float64 {
	total := len(state.ExtractedFields)
	if total == 0 {
		return 0
	}
	reviewed := 0
	for _, field := range state.ExtractedFields {
		if field.Reviewed() {
			reviewed++
		}
	}
	return float64(reviewed) / float64(total) * 100
}

// VisibleQuestionCount is the progress denominator: every top-level question
// plus every follow-up already revealed into the active set. Unrevealed
// follow-up subtrees do not count.
func VisibleQuestionCount(state domain.WizardState) int {
	return len(state.Questions)
}

// AnsweredQuestionCount counts active questions with a non-empty answer.
func AnsweredQuestionCount(state domain.WizardState) int {
	answered := 0
	for _, q := range state.Questions {
		if q.Answered() {
			answered++
		}
	}
	return answered
}

// QuestionCompletion returns the answered share of visible questions as a
// percentage.
func QuestionCompletion(state domain.WizardState) float64 {
	total := VisibleQuestionCount(state)
	if total == 0 {
		return 0
	}
	return float64(AnsweredQuestionCount(state)) / float64(total) * 100
}

// SelectedCategoryCount counts selected top-level categories.
func SelectedCategoryCount(state domain.WizardState) int {
	selected := 0
	for _, cat := range state.Categories {
		if cat.Selected {
			selected++
		}
	}
	return selected
}

// ProfileScore is the summary-step completion score: four 25-point components
// (any document uploaded, fields reviewed, up to 5 categories selected, up to
// 10 questions answered), capped at 100.
func ProfileScore(state domain.WizardState) int {
	score := 0.0

	if len(state.Documents) > 0 {
		score += 25
	}
	if total := len(state.ExtractedFields); total > 0 {
		reviewed := 0
		for _, field := range state.ExtractedFields {
			if field.Reviewed() {
				reviewed++
			}
		}
		score += 25 * float64(reviewed) / float64(total)
	}
	score += 25 * math.Min(float64(SelectedCategoryCount(state)), 5) / 5
	score += 25 * math.Min(float64(AnsweredQuestionCount(state)), 10) / 10

	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}
