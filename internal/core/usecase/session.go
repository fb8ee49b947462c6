package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/ports"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/questiongen"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/wizard"
)

// SessionUseCase owns the wizard state machine for every live session. All
// mutation funnels through the store's per-session Update, so concurrent
// dispatches against one session serialize and the reducer never races.
type SessionUseCase struct {
	sessions ports.SessionStore
	local    *questiongen.Generator
	remote   ports.QuestionService
	ids      questiongen.IDGenerator
}

func NewSessionUseCase(
	sessions ports.SessionStore,
	local *questiongen.Generator,
	remote ports.QuestionService,
	ids questiongen.IDGenerator,
) *SessionUseCase {
	if ids == nil {
		ids = questiongen.UUIDGenerator{}
	}
	return &SessionUseCase{
		sessions: sessions,
		local:    local,
		remote:   remote,
		ids:      ids,
	}
}

func (uc *SessionUseCase) Create(ctx context.Context) (*domain.Session, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		ID:        uuid.NewString(),
		State:     wizard.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (uc *SessionUseCase) Get(ctx context.Context, id string) (*domain.Session, error) {
	return uc.sessions.Get(ctx, id)
}

// Dispatch applies one action. Answering a question whose follow-up map
// matches the answer reveals the subtree in the same dispatch: the follow-ups
// are appended tagged with the parent id and seeded with empty answers.
func (uc *SessionUseCase) Dispatch(ctx context.Context, id string, action wizard.Action) (*ports.DispatchResult, error) {
	if action.Type == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "dispatch", errors.New("action type is required"))
	}

	var revealed []domain.Question
	session, err := uc.sessions.Update(ctx, id, func(s *domain.Session) error {
		s.State = wizard.Apply(s.State, action)

		if action.Type != wizard.ActionAnswerQuestion {
			return nil
		}
		parent, ok := s.State.FindQuestion(action.QuestionID)
		if !ok {
			return nil
		}
		subtree, ok := parent.FollowUpsFor(action.Answer)
		if !ok {
			return nil
		}
		before := len(s.State.Questions)
		s.State = wizard.Apply(s.State, wizard.Action{
			Type:             wizard.ActionAddFollowUpQuestions,
			ParentQuestionID: parent.ID,
			Questions:        subtree,
		})
		revealed = append([]domain.Question{}, s.State.Questions[before:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ports.DispatchResult{Session: session, Revealed: revealed}, nil
}

// Advance marks the current step completed and moves one step forward.
func (uc *SessionUseCase) Advance(ctx context.Context, id string) (*domain.Session, error) {
	return uc.sessions.Update(ctx, id, func(s *domain.Session) error {
		current := s.State.Step
		if !wizard.CanCompleteStep(s.State, current) {
			return domain.WrapError(domain.ErrNavigationDenied, "advance",
				fmt.Errorf("step %d is not complete", current))
		}
		s.State = wizard.Apply(s.State, wizard.Action{Type: wizard.ActionMarkStepCompleted, Step: current})
		if current < domain.StepSummary {
			s.State = wizard.Apply(s.State, wizard.Action{Type: wizard.ActionSetStep, Step: current + 1})
		}
		return nil
	})
}

// Navigate jumps directly to target. On denial the returned int is the step
// the caller should land on instead (the Review guard redirects to
// Categories).
func (uc *SessionUseCase) Navigate(ctx context.Context, id string, target int) (*domain.Session, int, error) {
	landing := target
	session, err := uc.sessions.Update(ctx, id, func(s *domain.Session) error {
		ok, redirect := wizard.CanNavigate(s.State, target)
		if !ok {
			landing = redirect
			return domain.WrapError(domain.ErrNavigationDenied, "navigate",
				fmt.Errorf("step %d is not reachable", target))
		}
		s.State = wizard.Apply(s.State, wizard.Action{Type: wizard.ActionSetStep, Step: target})
		return nil
	})
	if err != nil {
		return nil, landing, err
	}
	return session, landing, nil
}

// RefreshQuestions replaces the active question set. The remote generator is
// preferred; any transport or parsing failure degrades to the deterministic
// local generator and tags the result as a fallback, so the caller never sees
// an error or an empty set.
func (uc *SessionUseCase) RefreshQuestions(ctx context.Context, id string) (*domain.Session, domain.QuestionSource, error) {
	current, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	questions, source := uc.generate(ctx, current.State)
	if len(questions) < 2 {
		questions = uc.local.Fallback()
		source = domain.SourceFallback
	}
	uc.ensureIDs(questions)

	session, err := uc.sessions.Update(ctx, id, func(s *domain.Session) error {
		s.State = wizard.Apply(s.State, wizard.Action{Type: wizard.ActionSetQuestions, Questions: questions})
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return session, source, nil
}

func (uc *SessionUseCase) generate(ctx context.Context, state domain.WizardState) ([]domain.Question, domain.QuestionSource) {
	if uc.remote != nil {
		questions, err := uc.remote.GenerateQuestions(ctx, buildQuestionRequest(state))
		if err == nil && len(questions) > 0 {
			return questions, domain.SourceRemote
		}
	}
	return uc.local.Generate(state.Categories, state.Documents, state.ExtractedFields), domain.SourceFallback
}

// ensureIDs synthesizes ids for questions the remote generator returned
// without one, recursing through follow-up subtrees. Ids must be unique
// across the whole batch; a remote id that collides with an earlier one is
// replaced the same way a missing id is.
func (uc *SessionUseCase) ensureIDs(questions []domain.Question) {
	uc.assignIDs(questions, make(map[string]struct{}))
}

func (uc *SessionUseCase) assignIDs(questions []domain.Question, seen map[string]struct{}) {
	for i := range questions {
		id := questions[i].ID
		for {
			if id == "" {
				id = uc.ids.NewID()
				continue
			}
			if _, dup := seen[id]; !dup {
				break
			}
			id = uc.ids.NewID()
		}
		seen[id] = struct{}{}
		questions[i].ID = id
		for key, subtree := range questions[i].FollowUps {
			uc.assignIDs(subtree, seen)
			questions[i].FollowUps[key] = subtree
		}
	}
}

func buildQuestionRequest(state domain.WizardState) domain.QuestionRequest {
	var selected []domain.Category
	for _, cat := range state.Categories {
		if cat.Selected {
			selected = append(selected, cat)
		}
	}

	summaries := make([]domain.DocumentSummary, 0, len(state.Documents))
	for _, doc := range state.Documents {
		summaries = append(summaries, domain.DocumentSummary{
			ID:       doc.ID,
			Name:     doc.Name,
			Type:     doc.Type,
			Category: doc.Category,
		})
	}

	answers := make(map[string]string)
	for _, q := range state.Questions {
		if q.Answered() {
			answers[q.Text] = q.Answer
		}
	}

	return domain.QuestionRequest{
		SelectedCategories: selected,
		Documents:          summaries,
		ExtractedFields:    state.ExtractedFields,
		PreviousAnswers:    answers,
	}
}
