package wizard

import (
	"testing"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
)

func TestCanNavigateReviewRequiresCategories(t *testing.T) {
	state := NewState()
	state.Step = domain.StepImport
	state.CompletedSteps = []int{domain.StepUpload}

	ok, redirect := CanNavigate(state, domain.StepReview)
	if ok {
		t.Fatalf("review must be unreachable before categories is completed")
	}
	if redirect != domain.StepCategories {
		t.Fatalf("expected redirect to categories step, got %d", redirect)
	}

	state.CompletedSteps = append(state.CompletedSteps, domain.StepImport, domain.StepCategories, domain.StepReview)
	ok, landing := CanNavigate(state, domain.StepReview)
	if !ok || landing != domain.StepReview {
		t.Fatalf("review must open once categories is completed, got ok=%v landing=%d", ok, landing)
	}
}

func TestCanNavigateBounds(t *testing.T) {
	state := NewState()
	state.Step = domain.StepCategories

	for _, target := range []int{0, domain.StepSummary + 1, -3} {
		ok, landing := CanNavigate(state, target)
		if ok {
			t.Fatalf("out-of-range step %d must be rejected", target)
		}
		if landing != state.Step {
			t.Fatalf("rejection must land on the current step, got %d", landing)
		}
	}
}

func TestCanNavigateCurrentAndCompleted(t *testing.T) {
	state := NewState()
	state.Step = domain.StepCategories
	state.CompletedSteps = []int{domain.StepUpload, domain.StepImport}

	if ok, _ := CanNavigate(state, domain.StepCategories); !ok {
		t.Fatalf("current step must always be reachable")
	}
	if ok, _ := CanNavigate(state, domain.StepUpload); !ok {
		t.Fatalf("completed step must be reachable")
	}
	if ok, _ := CanNavigate(state, domain.StepQuestions); ok {
		t.Fatalf("future uncompleted step must be unreachable")
	}
}

func TestCanCompleteStepReviewGate(t *testing.T) {
	state := NewState()
	state.ExtractedFields = []domain.ExtractedField{
		{ID: "f-1", Name: "Wages", Value: "50000"},
	}

	if !CanCompleteStep(state, domain.StepUpload) {
		t.Fatalf("non-review steps complete unconditionally")
	}
	if CanCompleteStep(state, domain.StepReview) {
		t.Fatalf("review must not complete with unreviewed fields")
	}

	verdict := true
	state.ExtractedFields[0].IsCorrect = &verdict
	if !CanCompleteStep(state, domain.StepReview) {
		t.Fatalf("review must complete once every field carries a verdict")
	}
}
