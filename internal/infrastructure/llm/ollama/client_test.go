package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
)

func TestExtractFieldsParsesModelResponse(t *testing.T) {
	var capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedPrompt, _ = payload["prompt"].(string)
		_, _ = w.Write([]byte(`{"response":"Here you go: [{\"name\":\"Employer\",\"value\":\"Acme Corp\",\"category\":\"income\"}] done"}`))
	}))
	defer server.Close()

	parser := NewFieldParser(New(server.URL, "llama3", nil))
	doc := &domain.Document{ID: "doc-1", Name: "w2.pdf", Category: "income"}
	fields, err := parser.ExtractFields(context.Background(), doc, "W-2 Wage and Tax Statement Acme Corp")
	if err != nil {
		t.Fatalf("ExtractFields() error = %v", err)
	}
	if len(fields) != 1 {
		t.Fatalf("len(fields) = %d, want 1", len(fields))
	}
	if fields[0].Name != "Employer" || fields[0].Value != "Acme Corp" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}
	if !strings.Contains(capturedPrompt, "Acme Corp") {
		t.Fatalf("document text missing from prompt: %s", capturedPrompt)
	}
}

func TestGenerateQuestionsBuildsProfilePrompt(t *testing.T) {
	var capturedPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		capturedPrompt, _ = payload["prompt"].(string)
		_, _ = w.Write([]byte(`{"response":"[{\"id\":\"q-1\",\"text\":\"Did you change jobs during the year?\",\"type\":\"boolean\",\"options\":[\"Yes\",\"No\"]}]"}`))
	}))
	defer server.Close()

	gen := NewQuestionGenerator(New(server.URL, "llama3", nil))
	questions, err := gen.GenerateQuestions(context.Background(), domain.QuestionRequest{
		SelectedCategories: []domain.Category{{
			ID: "income", Name: "Income", Selected: true,
			Subcategories: []domain.Subcategory{{ID: "w2", Name: "W-2 Employment", Selected: true, Quantity: 2}},
		}},
		Documents:       []domain.DocumentSummary{{Name: "w2.pdf", Category: "income"}},
		PreviousAnswers: map[string]string{"q-base-1": "Single"},
	})
	if err != nil {
		t.Fatalf("GenerateQuestions() error = %v", err)
	}
	if len(questions) != 1 || questions[0].Text != "Did you change jobs during the year?" {
		t.Fatalf("unexpected questions: %+v", questions)
	}
	for _, want := range []string{"Income", "W-2 Employment", "x2", "w2.pdf", "Single"} {
		if !strings.Contains(capturedPrompt, want) {
			t.Fatalf("prompt missing %q: %s", want, capturedPrompt)
		}
	}
}

func TestGenerateIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusNotFound)
	}))
	defer server.Close()

	parser := NewFieldParser(New(server.URL, "llama3", nil))
	_, err := parser.ExtractFields(context.Background(), &domain.Document{ID: "doc-1"}, "text")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model not loaded") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}

func TestRetryableStatusSurfacesAsTemporary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	parser := NewFieldParser(New(server.URL, "llama3", nil))
	_, err := parser.ExtractFields(context.Background(), &domain.Document{ID: "doc-1"}, "text")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("error = %v, want ErrTemporary", err)
	}
}

func TestClassifyOllamaError(t *testing.T) {
	cases := []struct {
		name          string
		err           error
		retryable     bool
		recordFailure bool
	}{
		{"canceled context", context.Canceled, false, false},
		{"deadline exceeded", context.DeadlineExceeded, false, false},
		{"retryable status", &HTTPStatusError{StatusCode: http.StatusBadGateway, Status: "502 Bad Gateway"}, true, true},
		{"client status", &HTTPStatusError{StatusCode: http.StatusBadRequest, Status: "400 Bad Request"}, false, false},
		{"unknown error", errors.New("boom"), false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			class := classifyOllamaError(tc.err)
			if class.Retryable != tc.retryable {
				t.Fatalf("Retryable = %v, want %v", class.Retryable, tc.retryable)
			}
			if class.RecordFailure != tc.recordFailure {
				t.Fatalf("RecordFailure = %v, want %v", class.RecordFailure, tc.recordFailure)
			}
		})
	}
}
