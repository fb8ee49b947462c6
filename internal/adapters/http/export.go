package httpadapter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// renderSummaryWorkbook lays the summary out as one sheet per concern.
func renderSummaryWorkbook(summary summaryPayload) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const overview = "Overview"
	f.SetSheetName("Sheet1", overview)

	setRow(f, overview, 1, "Session", summary.SessionID)
	setRow(f, overview, 2, "Profile score", fmt.Sprintf("%d / 100", summary.ProfileScore))
	setRow(f, overview, 3, "Name", strings.TrimSpace(summary.PersonalInfo.FirstName+" "+summary.PersonalInfo.LastName))
	setRow(f, overview, 4, "Email", summary.PersonalInfo.Email)
	setRow(f, overview, 5, "Filing status", summary.PersonalInfo.FilingStatus)

	row := 7
	setRow(f, overview, row, "Selected categories", "")
	for _, cat := range summary.SelectedCategories {
		row++
		var subs []string
		for _, sub := range cat.Subcategories {
			if sub.Quantity > 1 {
				subs = append(subs, fmt.Sprintf("%s (x%d)", sub.Name, sub.Quantity))
			} else {
				subs = append(subs, sub.Name)
			}
		}
		setRow(f, overview, row, cat.Name, strings.Join(subs, ", "))
	}

	const documents = "Documents"
	if _, err := f.NewSheet(documents); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", documents, err)
	}
	setHeader(f, documents, "Name", "Type", "Category", "Status")
	for i, doc := range summary.Documents {
		r := i + 2
		_ = f.SetCellValue(documents, cell("A", r), doc.Name)
		_ = f.SetCellValue(documents, cell("B", r), string(doc.Type))
		_ = f.SetCellValue(documents, cell("C", r), doc.Category)
		_ = f.SetCellValue(documents, cell("D", r), string(doc.Status))
	}

	const fields = "Fields"
	if _, err := f.NewSheet(fields); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", fields, err)
	}
	setHeader(f, fields, "Field", "Value", "Category", "Reviewed")
	for i, field := range summary.ExtractedFields {
		r := i + 2
		reviewed := "no"
		if field.Reviewed() {
			reviewed = "yes"
		}
		_ = f.SetCellValue(fields, cell("A", r), field.Name)
		_ = f.SetCellValue(fields, cell("B", r), field.Value)
		_ = f.SetCellValue(fields, cell("C", r), field.Category)
		_ = f.SetCellValue(fields, cell("D", r), reviewed)
	}

	const answers = "Answers"
	if _, err := f.NewSheet(answers); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", answers, err)
	}
	setHeader(f, answers, "Question", "Answer", "Category")
	for i, answer := range summary.Answers {
		r := i + 2
		_ = f.SetCellValue(answers, cell("A", r), answer.Text)
		_ = f.SetCellValue(answers, cell("B", r), answer.Answer)
		_ = f.SetCellValue(answers, cell("C", r), answer.CategoryID)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, label, value string) {
	_ = f.SetCellValue(sheet, cell("A", row), label)
	_ = f.SetCellValue(sheet, cell("B", row), value)
}

func setHeader(f *excelize.File, sheet string, labels ...string) {
	for i, label := range labels {
		_ = f.SetCellValue(sheet, cell(string(rune('A'+i)), 1), label)
	}
}

func cell(column string, row int) string {
	return fmt.Sprintf("%s%d", column, row)
}
