// Package questiongen builds the conditional questionnaire from the user's
// category selection, uploaded documents, and extracted fields. Generate is
// pure and never fails: a lookup miss simply skips that question block. The
// same generator doubles as the deterministic local fallback when the remote
// question service is unavailable.
package questiongen

import (
	"fmt"
	"strings"

	"github.com/tevinharrell123/ai-tax-buddy/internal/core/domain"
)

type Generator struct {
	ids IDGenerator
}

func New(ids IDGenerator) *Generator {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Generator{ids: ids}
}

// Generate produces the top-level question list for the given selection.
// Category rules run first; if they yield fewer than 3 questions the fixed
// general-purpose set pads the output; a credits selection always adds the
// student-loan question; the retirement question closes every list.
func (g *Generator) Generate(
	categories []domain.Category,
	documents []domain.Document,
	fields []domain.ExtractedField,
) []domain.Question {
	sel := newSelection(categories)
	docs := docIndex(documents)

	var rule []domain.Question
	rule = append(rule, g.incomeQuestions(sel, docs)...)
	rule = append(rule, g.deductionQuestions(sel, docs)...)
	rule = append(rule, g.homeQuestions(sel, docs)...)
	rule = append(rule, g.familyQuestions(sel, docs)...)
	rule = append(rule, g.creditQuestions(sel, docs)...)
	rule = append(rule, g.healthQuestions(sel, docs)...)

	out := rule
	if len(rule) < 3 {
		out = append(out, g.generalQuestions()...)
	}
	if sel.categorySelected("credits") {
		out = append(out, g.studentLoanQuestion(docs))
	}
	out = append(out, g.retirementQuestion())
	return out
}

// Fallback is the fixed minimum set substituted when remote generation fails.
// Always at least two questions, never an error.
func (g *Generator) Fallback() []domain.Question {
	out := g.generalQuestions()
	return append(out, g.retirementQuestion())
}

// selection indexes category/subcategory state for rule checks.
type selection struct {
	categories map[string]domain.Category
}

func newSelection(categories []domain.Category) selection {
	index := make(map[string]domain.Category, len(categories))
	for _, cat := range categories {
		index[cat.ID] = cat
	}
	return selection{categories: index}
}

func (s selection) categorySelected(id string) bool {
	cat, ok := s.categories[id]
	return ok && cat.Selected
}

// subcategorySelected is meaningful only while the owning category is
// selected.
func (s selection) subcategorySelected(categoryID, subcategoryID string) bool {
	cat, ok := s.categories[categoryID]
	if !ok || !cat.Selected {
		return false
	}
	for _, sub := range cat.Subcategories {
		if sub.ID == subcategoryID {
			return sub.Selected
		}
	}
	return false
}

func (s selection) quantity(categoryID, subcategoryID string) int {
	cat, ok := s.categories[categoryID]
	if !ok {
		return 1
	}
	for _, sub := range cat.Subcategories {
		if sub.ID == subcategoryID && sub.Quantity > 0 {
			return sub.Quantity
		}
	}
	return 1
}

type docIndex []domain.Document

// has reports whether any uploaded document matches one of the terms by
// case-insensitive substring against its name, type, or category.
func (d docIndex) has(terms ...string) bool {
	for _, doc := range d {
		haystack := strings.ToLower(doc.Name + " " + string(doc.Type) + " " + doc.Category)
		for _, term := range terms {
			if strings.Contains(haystack, strings.ToLower(term)) {
				return true
			}
		}
	}
	return false
}

// build assigns a fresh unique id to the question and every node of its
// follow-up subtrees.
func (g *Generator) build(q domain.Question) domain.Question {
	q.ID = g.ids.NewID()
	for key, subtree := range q.FollowUps {
		tagged := make([]domain.Question, len(subtree))
		for i, child := range subtree {
			tagged[i] = g.build(child)
		}
		q.FollowUps[key] = tagged
	}
	return q
}

func advisoryUnless(docs docIndex, advisory domain.MissingDocument, terms ...string) *domain.MissingDocument {
	if docs.has(terms...) {
		return nil
	}
	return &advisory
}

var yesNo = []string{"Yes", "No"}
var yesNoUnsure = []string{"Yes", "No", "Not sure"}

func (g *Generator) incomeQuestions(sel selection, docs docIndex) []domain.Question {
	var out []domain.Question

	if sel.subcategorySelected("income", "w2") {
		n := sel.quantity("income", "w2")
		text := "Have you received your W-2 from your employer?"
		if n > 1 {
			text = fmt.Sprintf("You indicated having %d W-2s. Have you received all of them from your employers?", n)
		}
		out = append(out, g.build(domain.Question{
			Text:       text,
			CategoryID: "income",
			Options:    yesNoUnsure,
			FollowUps: map[string][]domain.Question{
				"No": {{
					Text:       "Have you contacted your employer about the missing W-2?",
					CategoryID: "income",
					Options:    yesNo,
				}},
			},
			MissingDocument: advisoryUnless(docs, domain.MissingDocument{
				Name:        "W-2 Wage and Tax Statement",
				Description: "Reports annual wages and the taxes withheld by your employer.",
				FormNumber:  "W-2",
				RequiredFor: "Reporting employment income",
			}, "w-2", "w2"),
		}))
	}

	if sel.subcategorySelected("income", "freelance") {
		out = append(out, g.build(domain.Question{
			Text:       "Did you receive any 1099-NEC or 1099-K forms for freelance or contract work?",
			CategoryID: "income",
			Options:    yesNoUnsure,
			FollowUps: map[string][]domain.Question{
				"Yes": {
					{
						Text:       "Did you use part of your home regularly and exclusively for this work?",
						CategoryID: "income",
						Options:    yesNo,
					},
					{
						Text:       "Did you make quarterly estimated tax payments during the year?",
						CategoryID: "income",
						Options:    yesNoUnsure,
					},
				},
			},
			MissingDocument: advisoryUnless(docs, domain.MissingDocument{
				Name:        "1099-NEC Nonemployee Compensation",
				Description: "Reports income from freelance or contract work of $600 or more.",
				FormNumber:  "1099-NEC",
				RequiredFor: "Reporting self-employment income",
			}, "1099-nec", "1099nec", "1099-k"),
		}))
	}

	if sel.subcategorySelected("income", "investments") {
		out = append(out, g.build(domain.Question{
			Text:       "Did you sell any stocks, bonds, crypto, or other investments this tax year?",
			CategoryID: "income",
			Options:    yesNo,
			FollowUps: map[string][]domain.Question{
				"Yes": {
					{
						Text:       "Were any of the investments you sold held for more than one year?",
						CategoryID: "income",
						Options:    []string{"Yes, all of them", "Some of them", "No"},
					},
					{
						Text:       "Did any sales involve cryptocurrency or digital assets?",
						CategoryID: "income",
						Options:    yesNo,
					},
				},
			},
			MissingDocument: advisoryUnless(docs, domain.MissingDocument{
				Name:        "1099-B Proceeds From Broker Transactions",
				Description: "Reports proceeds and cost basis for investment sales.",
				FormNumber:  "1099-B",
				RequiredFor: "Reporting capital gains and losses",
			}, "1099-b", "1099b"),
		}))
	}

	return out
}

func (g *Generator) deductionQuestions(sel selection, docs docIndex) []domain.Question {
	var out []domain.Question

	if sel.subcategorySelected("deductions", "charity") {
		out = append(out, g.build(domain.Question{
			Text:       "Did you make charitable donations this year?",
			CategoryID: "deductions",
			Options:    []string{"Yes - cash only", "Yes - cash and goods", "No"},
			FollowUps: map[string][]domain.Question{
				"Yes - cash and goods": {{
					Text:       "Was the total value of donated goods more than $500?",
					CategoryID: "deductions",
					Options:    yesNoUnsure,
				}},
			},
			MissingDocument: advisoryUnless(docs, domain.MissingDocument{
				Name:        "Donation receipts",
				Description: "Written acknowledgments from charities for donations of $250 or more.",
				RequiredFor: "Itemizing charitable deductions",
			}, "donation", "charity", "receipt"),
		}))
	}

	if sel.subcategorySelected("deductions", "medical") {
		out = append(out, g.build(domain.Question{
			Text:       "Did your out-of-pocket medical expenses exceed 7.5% of your income?",
			CategoryID: "deductions",
			Options:    yesNoUnsure,
		}))
	}

	return out
}

func (g *Generator) homeQuestions(sel selection, docs docIndex) []domain.Question {
	var out []domain.Question

	if sel.subcategorySelected("home", "homeowner") {
		out = append(out, g.build(domain.Question{
			Text:       "Did you pay mortgage interest on your home this year?",
			CategoryID: "home",
			Options:    yesNo,
			FollowUps: map[string][]domain.Question{
				"Yes": {{
					Text:       "Did you pay points to reduce your mortgage rate when buying or refinancing?",
					CategoryID: "home",
					Options:    yesNoUnsure,
				}},
			},
			MissingDocument: advisoryUnless(docs, domain.MissingDocument{
				Name:        "Mortgage Interest Statement",
				Description: "Reports mortgage interest of $600 or more paid during the year.",
				FormNumber:  "1098",
				RequiredFor: "Deducting mortgage interest",
			}, "1098", "mortgage"),
		}))
	}

	if sel.subcategorySelected("home", "sale") {
		out = append(out, g.build(domain.Question{
			Text:       "Did you sell your primary home this year?",
			CategoryID: "home",
			Options:    yesNo,
			FollowUps: map[string][]domain.Question{
				"Yes": {
					{
						Text:       "Did you live in the home for at least 2 of the last 5 years?",
						CategoryID: "home",
						Options:    yesNo,
					},
					{
						Text:       "Was your gain on the sale more than $250,000 ($500,000 if married filing jointly)?",
						CategoryID: "home",
						Options:    yesNoUnsure,
					},
				},
			},
		}))
	}

	return out
}

func (g *Generator) familyQuestions(sel selection, docs docIndex) []domain.Question {
	var out []domain.Question

	if sel.subcategorySelected("family", "dependents") {
		n := sel.quantity("family", "dependents")
		text := fmt.Sprintf("You indicated having %d dependents. How old were they at the end of the tax year?", n)
		if n == 1 {
			text = "You indicated having 1 dependent. How old was your dependent at the end of the tax year?"
		}
		out = append(out, g.build(domain.Question{
			Text:       text,
			CategoryID: "family",
			Options:    []string{"All under 17", "Some under 17, some 17 or older", "All 17 or older"},
			FollowUps: map[string][]domain.Question{
				"All under 17": {
					{
						Text:       "Did each child live with you for more than half the year?",
						CategoryID: "family",
						Options:    yesNo,
					},
					{
						Text:       "Did you provide more than half of their financial support?",
						CategoryID: "family",
						Options:    yesNo,
					},
				},
			},
		}))
	}

	if sel.subcategorySelected("family", "childcare") {
		out = append(out, g.build(domain.Question{
			Text:       "Did you pay for childcare so you (and your spouse, if filing jointly) could work?",
			CategoryID: "family",
			Options:    yesNo,
			FollowUps: map[string][]domain.Question{
				"Yes": {{
					Text:       "Do you have the care provider's name, address, and tax ID number?",
					CategoryID: "family",
					Options:    yesNoUnsure,
				}},
			},
			MissingDocument: advisoryUnless(docs, domain.MissingDocument{
				Name:        "Childcare provider statement",
				Description: "Year-end statement showing amounts paid and the provider's tax ID.",
				RequiredFor: "Claiming the child and dependent care credit",
			}, "childcare", "child care", "daycare"),
		}))
	}

	return out
}

func (g *Generator) creditQuestions(sel selection, docs docIndex) []domain.Question {
	var out []domain.Question

	if sel.subcategorySelected("credits", "education") {
		out = append(out, g.build(domain.Question{
			Text:       "Did you or a dependent pay tuition or required fees to an eligible school?",
			CategoryID: "credits",
			Options:    yesNo,
			FollowUps: map[string][]domain.Question{
				"Yes": {{
					Text:       "Was the student enrolled at least half-time in a degree program?",
					CategoryID: "credits",
					Options:    yesNoUnsure,
				}},
			},
			MissingDocument: advisoryUnless(docs, domain.MissingDocument{
				Name:        "Tuition Statement",
				Description: "Reports tuition payments received by an eligible education institution.",
				FormNumber:  "1098-T",
				RequiredFor: "Claiming education credits",
			}, "1098-t", "tuition"),
		}))
	}

	if sel.subcategorySelected("credits", "energy") {
		out = append(out, g.build(domain.Question{
			Text:       "Did you install solar panels, heat pumps, or other qualifying energy improvements?",
			CategoryID: "credits",
			Options:    yesNo,
		}))
	}

	return out
}

func (g *Generator) healthQuestions(sel selection, docs docIndex) []domain.Question {
	var out []domain.Question

	if sel.subcategorySelected("health", "hsa") {
		out = append(out, g.build(domain.Question{
			Text:       "Did you contribute to a Health Savings Account (HSA) this year?",
			CategoryID: "health",
			Options:    yesNo,
			FollowUps: map[string][]domain.Question{
				"Yes": {{
					Text:       "Were any contributions made outside of payroll deductions?",
					CategoryID: "health",
					Options:    yesNoUnsure,
				}},
			},
			MissingDocument: advisoryUnless(docs, domain.MissingDocument{
				Name:        "HSA Contribution Information",
				Description: "Reports contributions made to your health savings account.",
				FormNumber:  "5498-SA",
				RequiredFor: "Reporting HSA contributions",
			}, "5498", "hsa"),
		}))
	}

	if sel.subcategorySelected("health", "insurance") {
		out = append(out, g.build(domain.Question{
			Text:       "Did you buy health insurance through a state or federal marketplace?",
			CategoryID: "health",
			Options:    yesNo,
			MissingDocument: advisoryUnless(docs, domain.MissingDocument{
				Name:        "Health Insurance Marketplace Statement",
				Description: "Reports marketplace coverage and any advance premium tax credit.",
				FormNumber:  "1095-A",
				RequiredFor: "Reconciling the premium tax credit",
			}, "1095", "marketplace"),
		}))
	}

	return out
}

// generalQuestions is the fixed padding set used when category rules produce a
// thin questionnaire, and the backbone of the fallback set.
func (g *Generator) generalQuestions() []domain.Question {
	return []domain.Question{
		g.build(domain.Question{
			Text:       "What is your filing status for this tax year?",
			CategoryID: "general",
			Options:    []string{"Single", "Married filing jointly", "Married filing separately", "Head of household"},
		}),
		g.build(domain.Question{
			Text:       "Did you work remotely from a state different from your employer's?",
			CategoryID: "general",
			Options:    yesNo,
		}),
		g.build(domain.Question{
			Text:       "Did you move to a different state during the tax year?",
			CategoryID: "general",
			Options:    yesNo,
		}),
	}
}

func (g *Generator) studentLoanQuestion(docs docIndex) domain.Question {
	return g.build(domain.Question{
		Text:       "Did you pay interest on a student loan this year?",
		CategoryID: "credits",
		Options:    yesNoUnsure,
		MissingDocument: advisoryUnless(docs, domain.MissingDocument{
			Name:        "Student Loan Interest Statement",
			Description: "Reports student loan interest of $600 or more paid during the year.",
			FormNumber:  "1098-E",
			RequiredFor: "Deducting student loan interest",
		}, "1098-e", "student loan"),
	})
}

func (g *Generator) retirementQuestion() domain.Question {
	return g.build(domain.Question{
		Text:       "Did you contribute to a retirement account (401(k), IRA, or similar) this year?",
		CategoryID: "general",
		Options:    []string{"Yes - through my employer", "Yes - on my own", "Yes - both", "No"},
	})
}
