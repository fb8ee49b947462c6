package domain

import "strings"

// MissingDocument is a non-blocking advisory attached to a question, suggesting
// an expected but not-yet-uploaded form. It never prevents answering.
type MissingDocument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	FormNumber  string `json:"formNumber,omitempty"`
	RequiredFor string `json:"requiredFor,omitempty"`
}

// QuestionCondition ties a question to a category selection state.
type QuestionCondition struct {
	CategoryID string `json:"categoryId"`
	Selected   bool   `json:"selected"`
}

// Question is one node of the conditional questionnaire. FollowUpQuestions is
// keyed by the literal answer (a member of Options, or a prefix such as
// "Yes - ...") that reveals the subtree. Follow-ups are not part of the active
// question list until their trigger answer is selected; at that point they are
// appended tagged with ParentQuestionID.
//
// JSON field names follow the question-generation wire contract rather than
// the snake_case used elsewhere, so remote generator output unmarshals as-is.
type Question struct {
	ID               string                `json:"id"`
	Text             string                `json:"text"`
	CategoryID       string                `json:"categoryId,omitempty"`
	Answer           string                `json:"answer"`
	Options          []string              `json:"options,omitempty"`
	Condition        *QuestionCondition    `json:"condition,omitempty"`
	FollowUps        map[string][]Question `json:"followUpQuestions,omitempty"`
	ParentQuestionID string                `json:"parentQuestionId,omitempty"`
	MissingDocument  *MissingDocument      `json:"missingDocument,omitempty"`
}

// Answered reports whether the question carries a non-empty answer.
func (q Question) Answered() bool {
	return strings.TrimSpace(q.Answer) != ""
}

// FollowUpsFor resolves the follow-up subtree for an answer. Exact key match
// wins; otherwise a key matches if it is a whole-word prefix of the answer,
// covering compound option literals like "Yes - both federal and state"
// against the key "Yes". The boundary check keeps near-miss literals apart:
// "Not sure" never selects the key "No". A key longer than the answer never
// matches. Ambiguous prefix hits resolve to nothing.
func (q Question) FollowUpsFor(answer string) ([]Question, bool) {
	if len(q.FollowUps) == 0 || strings.TrimSpace(answer) == "" {
		return nil, false
	}
	if subtree, ok := q.FollowUps[answer]; ok {
		return subtree, true
	}

	var (
		matched []Question
		hits    int
	)
	for key, subtree := range q.FollowUps {
		if answerSelectsKey(answer, key) {
			matched = subtree
			hits++
		}
	}
	if hits == 1 {
		return matched, true
	}
	return nil, false
}

func answerSelectsKey(answer, key string) bool {
	if len(answer) <= len(key) || !strings.HasPrefix(answer, key) {
		return false
	}
	switch answer[len(key)] {
	case ' ', '-', ':', ',':
		return true
	}
	return false
}
