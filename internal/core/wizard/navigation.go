package wizard

import "github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"

// CanNavigate decides whether the session may jump directly to the target
// step. When navigation is denied it returns the step the caller should land
// on instead. The one irregular transition: the Review step requires the
// Categories step to be completed and redirects there otherwise.
func CanNavigate(state domain.WizardState, target int) (bool, int) {
	if target < domain.StepUpload || target > domain.StepSummary {
		return false, state.Step
	}
	if target == domain.StepReview && !state.StepCompleted(domain.StepCategories) {
		return false, domain.StepCategories
	}
	if target == state.Step || state.StepCompleted(target) {
		return true, target
	}
	return false, state.Step
}

// CanCompleteStep gates forward progression out of a step. Only the Review
// step has a condition: every extracted field must carry an explicit verdict.
func CanCompleteStep(state domain.WizardState, step int) bool {
	if step == domain.StepReview {
		return AllFieldsReviewed(state)
	}
	return true
}
