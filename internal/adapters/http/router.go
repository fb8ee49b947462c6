// Package httpadapter exposes the wizard over HTTP.
package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tevinharrell123/ai-tax-buddy/internal/config"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/ports"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/wizard"
	"github.com/tevinharrell123/ai-tax-buddy/internal/observability/metrics"
)

const serviceName = "api"

type Router struct {
	cfg       config.Config
	sessions  ports.SessionService
	documents ports.DocumentService
	metrics   *metrics.HTTPServerMetrics
}

func NewRouter(
	cfg config.Config,
	sessions ports.SessionService,
	documents ports.DocumentService,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		cfg:       cfg,
		sessions:  sessions,
		documents: documents,
		metrics:   httpMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}
	mux.HandleFunc("/v1/sessions", rt.createSession)
	mux.HandleFunc("/v1/sessions/", rt.sessionSubtree)

	var handler http.Handler = mux
	handler = newValidationMiddleware(handler)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, time.Duration(rt.cfg.APIBackpressureWaitMS)*time.Millisecond)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) createSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	session, err := rt.sessions.Create(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// sessionSubtree dispatches everything under /v1/sessions/{id}. The path is
// split by hand so the route table stays in one place.
func (rt *Router) sessionSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	segments := strings.Split(strings.Trim(rest, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "session id is required"})
		return
	}
	sessionID := segments[0]

	switch {
	case len(segments) == 1:
		rt.getSession(w, r, sessionID)
	case len(segments) == 2 && segments[1] == "actions":
		rt.dispatchAction(w, r, sessionID)
	case len(segments) == 2 && segments[1] == "advance":
		rt.advance(w, r, sessionID)
	case len(segments) == 2 && segments[1] == "navigate":
		rt.navigate(w, r, sessionID)
	case len(segments) == 2 && segments[1] == "progress":
		rt.progress(w, r, sessionID)
	case len(segments) == 3 && segments[1] == "questions" && segments[2] == "generate":
		rt.generateQuestions(w, r, sessionID)
	case len(segments) == 2 && segments[1] == "documents":
		rt.uploadDocument(w, r, sessionID)
	case len(segments) == 3 && segments[1] == "documents":
		rt.documentByID(w, r, sessionID, segments[2])
	case len(segments) == 3 && segments[1] == "fields" && segments[2] == "import":
		rt.importFields(w, r, sessionID)
	case len(segments) == 2 && segments[1] == "summary":
		rt.summary(w, r, sessionID)
	case len(segments) == 2 && segments[1] == "summary.xlsx":
		rt.summaryXLSX(w, r, sessionID)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown route"})
	}
}

func (rt *Router) getSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	session, err := rt.sessions.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (rt *Router) dispatchAction(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var action wizard.Action
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	result, err := rt.sessions.Dispatch(r.Context(), sessionID, action)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordWizardAction(serviceName, string(action.Type))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session":  result.Session,
		"revealed": result.Revealed,
	})
}

func (rt *Router) advance(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	session, err := rt.sessions.Advance(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (rt *Router) navigate(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Step int `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	session, landing, err := rt.sessions.Navigate(r.Context(), sessionID, req.Step)
	if err != nil {
		if domain.IsKind(err, domain.ErrNavigationDenied) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":         err.Error(),
				"redirect_step": landing,
			})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session": session,
		"step":    landing,
	})
}

func (rt *Router) progress(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	session, err := rt.sessions.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	state := session.State
	writeJSON(w, http.StatusOK, map[string]any{
		"step":                    state.Step,
		"completed_steps":         state.CompletedSteps,
		"all_fields_reviewed":     wizard.AllFieldsReviewed(state),
		"field_review_completion": wizard.FieldReviewCompletion(state),
		"question_completion":     wizard.QuestionCompletion(state),
		"visible_questions":       wizard.VisibleQuestionCount(state),
		"answered_questions":      wizard.AnsweredQuestionCount(state),
		"selected_categories":     wizard.SelectedCategoryCount(state),
		"profile_score":           wizard.ProfileScore(state),
	})
}

func (rt *Router) generateQuestions(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	session, source, err := rt.sessions.RefreshQuestions(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordQuestionGeneration(serviceName, string(source), len(session.State.Questions))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session":   session,
		"questions": session.State.Questions,
		"source":    source,
	})
}

func (rt *Router) importFields(w http.ResponseWriter, r *http.Request, sessionID string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	session, err := rt.documents.ImportFields(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
