package ollama

import (
	"fmt"
	"strings"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
)

func buildFieldExtractionPrompt(doc *domain.Document, text string) string {
	const maxSnippet = 6000
	snippet := text
	if len(snippet) > maxSnippet {
		snippet = snippet[:maxSnippet]
	}

	return fmt.Sprintf(`You are a tax document parser.
The document below is named %q and was uploaded as category %q.
Return a strict JSON array of objects with keys:
name (string), value (string), category (string).
Extract every tax-relevant field you can find: taxpayer names, SSN/EIN, wages, withholdings, box amounts, payer details, dates.
No markdown, no extra keys, no commentary.

Document text:
%s`, doc.Name, doc.Category, snippet)
}

func buildQuestionPrompt(req domain.QuestionRequest) string {
	var b strings.Builder

	b.WriteString("Selected categories:\n")
	for _, cat := range req.SelectedCategories {
		b.WriteString("- " + cat.Name)
		var subs []string
		for _, sub := range cat.Subcategories {
			if !sub.Selected {
				continue
			}
			if sub.Quantity > 1 {
				subs = append(subs, fmt.Sprintf("%s (x%d)", sub.Name, sub.Quantity))
			} else {
				subs = append(subs, sub.Name)
			}
		}
		if len(subs) > 0 {
			b.WriteString(": " + strings.Join(subs, ", "))
		}
		b.WriteString("\n")
	}

	if len(req.Documents) > 0 {
		b.WriteString("\nUploaded documents:\n")
		for _, doc := range req.Documents {
			b.WriteString(fmt.Sprintf("- %s (type=%s category=%s)\n", doc.Name, doc.Type, doc.Category))
		}
	}

	if len(req.PreviousAnswers) > 0 {
		b.WriteString("\nAlready answered:\n")
		for question, answer := range req.PreviousAnswers {
			b.WriteString(fmt.Sprintf("- Q: %s A: %s\n", question, answer))
		}
	}

	return `You are a tax interview assistant.
Based on the taxpayer profile below, produce the follow-up questions a preparer would ask next.
Return a strict JSON array of question objects with keys:
text (string), categoryId (string), options (array of strings, optional),
followUpQuestions (object mapping an answer option to an array of nested question objects, optional),
missingDocument (object with keys name, description, formNumber, requiredFor; only when a supporting form was not uploaded).
Do not repeat questions that were already answered.
No markdown, no extra keys, no commentary.

Taxpayer profile:
` + b.String()
}

func extractJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
