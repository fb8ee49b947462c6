package domain

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type yamlSubcategory struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type yamlCategory struct {
	ID            string            `yaml:"id"`
	Name          string            `yaml:"name"`
	Icon          string            `yaml:"icon"`
	Description   string            `yaml:"description"`
	Badge         string            `yaml:"badge"`
	Subcategories []yamlSubcategory `yaml:"subcategories"`
}

type yamlQuestion struct {
	ID         string   `yaml:"id"`
	Text       string   `yaml:"text"`
	CategoryID string   `yaml:"categoryId"`
	Options    []string `yaml:"options"`
}

type yamlCatalog struct {
	Categories        []yamlCategory `yaml:"categories"`
	BaselineQuestions []yamlQuestion `yaml:"baseline_questions"`
}

var catalog yamlCatalog

func init() {
	if err := yaml.Unmarshal(catalogYAML, &catalog); err != nil {
		panic(fmt.Sprintf("domain: parse embedded catalog: %v", err))
	}
	if len(catalog.Categories) == 0 {
		panic("domain: embedded catalog has no categories")
	}
}

// CatalogCategories returns a fresh, deselected copy of the static category
// catalog. Each call allocates its own slices so callers can hand the result
// to a session without sharing.
func CatalogCategories() []Category {
	out := make([]Category, 0, len(catalog.Categories))
	for _, c := range catalog.Categories {
		subs := make([]Subcategory, 0, len(c.Subcategories))
		for _, sub := range c.Subcategories {
			subs = append(subs, Subcategory{ID: sub.ID, Name: sub.Name})
		}
		out = append(out, Category{
			ID:            c.ID,
			Name:          c.Name,
			Icon:          c.Icon,
			Description:   c.Description,
			Badge:         c.Badge,
			Subcategories: subs,
		})
	}
	return out
}

// BaselineQuestions returns a fresh copy of the static question table seeded
// into every new session before any generation has run.
func BaselineQuestions() []Question {
	out := make([]Question, 0, len(catalog.BaselineQuestions))
	for _, q := range catalog.BaselineQuestions {
		out = append(out, Question{
			ID:         q.ID,
			Text:       q.Text,
			CategoryID: q.CategoryID,
			Options:    append([]string(nil), q.Options...),
		})
	}
	return out
}
