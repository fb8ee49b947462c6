package httpadapter

import (
	"fmt"
	"net/http"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/wizard"
)

type summaryCategory struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Subcategories []domain.Subcategory `json:"subcategories,omitempty"`
}

type summaryAnswer struct {
	Text       string `json:"text"`
	Answer     string `json:"answer"`
	CategoryID string `json:"categoryId,omitempty"`
}

type summaryPayload struct {
	SessionID          string                  `json:"session_id"`
	ProfileScore       int                     `json:"profile_score"`
	PersonalInfo       domain.PersonalInfo     `json:"personal_info"`
	SelectedCategories []summaryCategory       `json:"selected_categories"`
	Documents          []domain.Document       `json:"documents"`
	ExtractedFields    []domain.ExtractedField `json:"extracted_fields"`
	Answers            []summaryAnswer         `json:"answers"`
}

func buildSummary(session *domain.Session) summaryPayload {
	state := session.State

	var categories []summaryCategory
	for _, cat := range state.Categories {
		if !cat.Selected {
			continue
		}
		entry := summaryCategory{ID: cat.ID, Name: cat.Name}
		for _, sub := range cat.Subcategories {
			if sub.Selected {
				entry.Subcategories = append(entry.Subcategories, sub)
			}
		}
		categories = append(categories, entry)
	}

	var answers []summaryAnswer
	for _, q := range state.Questions {
		if !q.Answered() {
			continue
		}
		answers = append(answers, summaryAnswer{
			Text:       q.Text,
			Answer:     q.Answer,
			CategoryID: q.CategoryID,
		})
	}

	return summaryPayload{
		SessionID:          session.ID,
		ProfileScore:       wizard.ProfileScore(state),
		PersonalInfo:       state.PersonalInfo,
		SelectedCategories: categories,
		Documents:          state.Documents,
		ExtractedFields:    state.ExtractedFields,
		Answers:            answers,
	}
}

func (rt *Router) summary(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	session, err := rt.sessions.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordSummaryExport(serviceName, "json")
	}
	writeJSON(w, http.StatusOK, buildSummary(session))
}

func (rt *Router) summaryXLSX(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	session, err := rt.sessions.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := renderSummaryWorkbook(buildSummary(session))
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordSummaryExport(serviceName, "xlsx")
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "tax-summary-"+session.ID+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
