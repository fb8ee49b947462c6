package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tevinharrell123/ai-tax-buddy/internal/config"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/ports"
	"github.com/tevinharrell123/ai-tax-buddy/internal/core/wizard"
)

type fakeSessionService struct {
	session    *domain.Session
	revealed   []domain.Question
	landing    int
	source     domain.QuestionSource
	err        error
	lastAction wizard.Action
}

func (f *fakeSessionService) Create(context.Context) (*domain.Session, error) {
	return f.session, f.err
}

func (f *fakeSessionService) Get(context.Context, string) (*domain.Session, error) {
	return f.session, f.err
}

func (f *fakeSessionService) Dispatch(_ context.Context, _ string, action wizard.Action) (*ports.DispatchResult, error) {
	f.lastAction = action
	if f.err != nil {
		return nil, f.err
	}
	return &ports.DispatchResult{Session: f.session, Revealed: f.revealed}, nil
}

func (f *fakeSessionService) Advance(context.Context, string) (*domain.Session, error) {
	return f.session, f.err
}

func (f *fakeSessionService) Navigate(context.Context, string, int) (*domain.Session, int, error) {
	return f.session, f.landing, f.err
}

func (f *fakeSessionService) RefreshQuestions(context.Context, string) (*domain.Session, domain.QuestionSource, error) {
	return f.session, f.source, f.err
}

type fakeDocumentService struct {
	doc      *domain.Document
	session  *domain.Session
	err      error
	uploaded string
	deleted  string
}

func (f *fakeDocumentService) Upload(_ context.Context, _, filename, _, _ string, body io.Reader) (*domain.Document, error) {
	f.uploaded = filename
	if f.err != nil {
		return nil, f.err
	}
	_, _ = io.Copy(io.Discard, body)
	return f.doc, nil
}

func (f *fakeDocumentService) Get(context.Context, string, string) (*domain.Document, error) {
	return f.doc, f.err
}

func (f *fakeDocumentService) Delete(_ context.Context, _, documentID string) error {
	f.deleted = documentID
	return f.err
}

func (f *fakeDocumentService) ImportFields(context.Context, string) (*domain.Session, error) {
	return f.session, f.err
}

func newTestHandler(cfg config.Config, sessions ports.SessionService, documents ports.DocumentService) http.Handler {
	return NewRouter(cfg, sessions, documents, nil).Handler()
}

func testSession() *domain.Session {
	return &domain.Session{ID: "sess-1", State: wizard.NewState()}
}

func TestCreateSessionReturns201(t *testing.T) {
	sessions := &fakeSessionService{session: testSession()}
	handler := newTestHandler(config.Config{}, sessions, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", res.Code)
	}
	var body domain.Session
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != "sess-1" {
		t.Fatalf("id = %q, want sess-1", body.ID)
	}
}

func TestGetSessionNotFoundMapsTo404(t *testing.T) {
	sessions := &fakeSessionService{
		err: domain.WrapError(domain.ErrSessionNotFound, "lookup session", fmt.Errorf("id=missing")),
	}
	handler := newTestHandler(config.Config{}, sessions, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.Code)
	}
}

func TestDispatchActionReturnsRevealedFollowUps(t *testing.T) {
	sessions := &fakeSessionService{
		session:  testSession(),
		revealed: []domain.Question{{ID: "q-1-1", Text: "Which employers?"}},
	}
	handler := newTestHandler(config.Config{}, sessions, nil)

	payload := `{"type":"ANSWER_QUESTION","question_id":"q-1","answer":"No"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess-1/actions", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", res.Code, res.Body.String())
	}
	if sessions.lastAction.Type != wizard.ActionAnswerQuestion {
		t.Fatalf("action type = %q", sessions.lastAction.Type)
	}
	var body struct {
		Revealed []domain.Question `json:"revealed"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Revealed) != 1 || body.Revealed[0].ID != "q-1-1" {
		t.Fatalf("revealed = %+v", body.Revealed)
	}
}

func TestDispatchActionWithoutTypeRejected(t *testing.T) {
	sessions := &fakeSessionService{session: testSession()}
	handler := newTestHandler(config.Config{}, sessions, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess-1/actions", strings.NewReader(`{"step":3}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
	if sessions.lastAction.Type != "" {
		t.Fatalf("invalid action reached the service: %q", sessions.lastAction.Type)
	}
}

func TestNavigateDeniedReturnsConflictWithRedirect(t *testing.T) {
	sessions := &fakeSessionService{
		landing: domain.StepCategories,
		err:     domain.WrapError(domain.ErrNavigationDenied, "navigate", fmt.Errorf("select categories first")),
	}
	handler := newTestHandler(config.Config{}, sessions, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess-1/navigate", strings.NewReader(`{"step":4}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", res.Code)
	}
	var body struct {
		RedirectStep int `json:"redirect_step"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.RedirectStep != domain.StepCategories {
		t.Fatalf("redirect_step = %d, want %d", body.RedirectStep, domain.StepCategories)
	}
}

func TestNavigateStepOutOfRangeRejected(t *testing.T) {
	handler := newTestHandler(config.Config{}, &fakeSessionService{session: testSession()}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess-1/navigate", strings.NewReader(`{"step":9}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
}

func TestProgressIncludesAccountingFields(t *testing.T) {
	session := testSession()
	session.State.Step = domain.StepQuestions
	sessions := &fakeSessionService{session: session}
	handler := newTestHandler(config.Config{}, sessions, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/sess-1/progress", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["step"] != float64(domain.StepQuestions) {
		t.Fatalf("step = %v", body["step"])
	}
	for _, key := range []string{"profile_score", "field_review_completion", "question_completion", "visible_questions"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("missing %q in progress payload", key)
		}
	}
}

func TestGenerateQuestionsTemporaryFailureMapsTo503(t *testing.T) {
	sessions := &fakeSessionService{
		err: domain.WrapError(domain.ErrTemporary, "generate questions", fmt.Errorf("model overloaded")),
	}
	handler := newTestHandler(config.Config{}, sessions, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess-1/questions/generate", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", res.Code)
	}
}

func TestSummaryFiltersUnselectedAndUnanswered(t *testing.T) {
	session := testSession()
	session.State.Categories = []domain.Category{
		{ID: "income", Name: "Income", Selected: true, Subcategories: []domain.Subcategory{
			{ID: "w2", Name: "W-2 Employment", Selected: true, Quantity: 2},
			{ID: "freelance", Name: "Freelance"},
		}},
		{ID: "deductions", Name: "Deductions"},
	}
	session.State.Questions = []domain.Question{
		{ID: "q-1", Text: "Did you work multiple jobs?", Answer: "Yes", CategoryID: "income"},
		{ID: "q-2", Text: "Any charitable donations?"},
	}
	handler := newTestHandler(config.Config{}, &fakeSessionService{session: session}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/sess-1/summary", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	var body summaryPayload
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.SelectedCategories) != 1 || body.SelectedCategories[0].ID != "income" {
		t.Fatalf("selected categories = %+v", body.SelectedCategories)
	}
	if len(body.SelectedCategories[0].Subcategories) != 1 {
		t.Fatalf("subcategories = %+v", body.SelectedCategories[0].Subcategories)
	}
	if len(body.Answers) != 1 || body.Answers[0].Answer != "Yes" {
		t.Fatalf("answers = %+v", body.Answers)
	}
}

func TestSummaryXLSXSetsAttachmentHeaders(t *testing.T) {
	handler := newTestHandler(config.Config{}, &fakeSessionService{session: testSession()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/sess-1/summary.xlsx", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	if got := res.Header().Get("Content-Type"); got != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := res.Header().Get("Content-Disposition"); !strings.Contains(got, "tax-summary-sess-1.xlsx") {
		t.Fatalf("Content-Disposition = %q", got)
	}
	if res.Body.Len() == 0 {
		t.Fatalf("empty workbook body")
	}
}

func TestUploadDocumentReturns202(t *testing.T) {
	documents := &fakeDocumentService{
		doc: &domain.Document{ID: "doc-1", SessionID: "sess-1", Name: "w2.pdf", Type: domain.DocTypePDF, Status: domain.StatusUploaded},
	}
	handler := newTestHandler(config.Config{}, &fakeSessionService{session: testSession()}, documents)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "w2.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte("%PDF-1.7 payload"))
	_ = form.WriteField("category", "income")
	_ = form.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess-1/documents", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", res.Code, res.Body.String())
	}
	if documents.uploaded != "w2.pdf" {
		t.Fatalf("uploaded = %q", documents.uploaded)
	}
}

func TestUploadWithoutFilePartRejected(t *testing.T) {
	handler := newTestHandler(config.Config{}, &fakeSessionService{session: testSession()}, &fakeDocumentService{})

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	_ = form.WriteField("category", "income")
	_ = form.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/sess-1/documents", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
}

func TestDeleteDocumentConfirms(t *testing.T) {
	documents := &fakeDocumentService{}
	handler := newTestHandler(config.Config{}, &fakeSessionService{session: testSession()}, documents)

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/sess-1/documents/doc-1", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	if documents.deleted != "doc-1" {
		t.Fatalf("deleted = %q", documents.deleted)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	handler := newTestHandler(config.Config{}, &fakeSessionService{session: testSession()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/nope", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.Code)
	}
}

func TestWrongMethodReturns405(t *testing.T) {
	handler := newTestHandler(config.Config{}, &fakeSessionService{session: testSession()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/sess-1/actions", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", res.Code)
	}
}
