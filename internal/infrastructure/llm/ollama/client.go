// Package ollama adapts a local Ollama server for document field extraction
// and personalized question generation.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
	"github.com/tevinharrell123/ai-tax-buddy/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL, model string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
	}
}

// FieldParser implements document field extraction on top of the shared
// client.
type FieldParser struct {
	client *Client
}

func NewFieldParser(client *Client) *FieldParser {
	return &FieldParser{client: client}
}

func (p *FieldParser) ExtractFields(ctx context.Context, doc *domain.Document, text string) ([]domain.ExtractedField, error) {
	respText, err := p.client.generateJSON(ctx, "extract_fields", buildFieldExtractionPrompt(doc, text))
	if err != nil {
		return nil, err
	}

	var fields []domain.ExtractedField
	if err := json.Unmarshal([]byte(extractJSONArray(respText)), &fields); err != nil {
		return nil, fmt.Errorf("parse extracted fields json: %w", err)
	}
	return fields, nil
}

// QuestionGenerator implements remote question generation on top of the
// shared client.
type QuestionGenerator struct {
	client *Client
}

func NewQuestionGenerator(client *Client) *QuestionGenerator {
	return &QuestionGenerator{client: client}
}

func (g *QuestionGenerator) GenerateQuestions(ctx context.Context, req domain.QuestionRequest) ([]domain.Question, error) {
	respText, err := g.client.generateJSON(ctx, "generate_questions", buildQuestionPrompt(req))
	if err != nil {
		return nil, err
	}

	var questions []domain.Question
	if err := json.Unmarshal([]byte(extractJSONArray(respText)), &questions); err != nil {
		return nil, fmt.Errorf("parse questions json: %w", err)
	}
	return questions, nil
}

func (c *Client) generateJSON(ctx context.Context, operation, prompt string) (string, error) {
	reqBody := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"format": "json",
	}

	var response struct {
		Response string `json:"response"`
	}
	call := func(ctx context.Context) error {
		return c.postJSON(ctx, "/api/generate", reqBody, &response, operation)
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "ollama_"+operation, call, classifyOllamaError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", wrapTemporaryIfNeeded(operation, err)
	}
	return strings.TrimSpace(response.Response), nil
}
