// Package classify routes free-text questions to a document category so
// retrieval can pick the right collection.
package classify

import (
	"context"
	"fmt"
	"strings"

	"github.com/unikit/regent/pkg/llm"
)

// Category is the closed set of routing outcomes. Anything the model says
// that does not parse into one of these falls back to CategoryOther.
type Category string

const (
	CategoryHandbook          Category = "handbook"
	CategoryAcademicIntegrity Category = "academic_integrity"
	CategoryOther             Category = "other"
)

const systemPrompt = `You are a classification system for university student queries.

Classify questions into ONE category:

Category: 'handbook'
Topics include degree requirements, registration and progression,
thesis submission procedures and deadlines, examination procedures
(viva voce, examiners, outcomes), resubmission processes, supervisor
responsibilities, award definitions and programme regulations.

Category: 'academic_integrity'
Topics include plagiarism, cheating in examinations or coursework,
collusion and false authorship, fabrication or falsification of
results, academic malpractice procedures and penalties, proofreading
and citation policies, and appeals against malpractice penalties.

Category: 'other'
For questions that fit neither category, such as general university
services, accommodation, finance, or non-academic student support.

IMPORTANT DISTINCTIONS:
- Questions about thesis examination or submission -> 'handbook'
- Questions about misconduct in a thesis -> 'academic_integrity'
- Questions about normal progression or requirements -> 'handbook'
- Questions about dishonesty, cheating, or plagiarism -> 'academic_integrity'

OUTPUT INSTRUCTION:
Respond with ONLY ONE WORD - the category name in lowercase.
Valid responses: handbook, academic_integrity, or other
Do NOT include any explanation, punctuation, or additional text.`

// Classifier asks a completion provider which category a question belongs
// to. The provider should be pinned to temperature 0.
type Classifier struct {
	provider llm.Provider
}

// New creates a Classifier.
func New(provider llm.Provider) *Classifier {
	return &Classifier{provider: provider}
}

// Classify returns the category for a question. Provider failures return
// an error; callers are expected to fall back to CategoryOther.
func (c *Classifier) Classify(ctx context.Context, question string) (Category, error) {
	resp, err := c.provider.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: question},
	})
	if err != nil {
		return CategoryOther, fmt.Errorf("classification request failed: %w", err)
	}

	return ParseCategory(resp.Content), nil
}

// ParseCategory cleans a model response down to a category. The first
// word is taken, punctuation stripped, and anything unrecognized maps to
// CategoryOther.
func ParseCategory(raw string) Category {
	s := strings.ToLower(strings.TrimSpace(raw))
	if fields := strings.Fields(s); len(fields) > 0 {
		s = fields[0]
	}
	s = strings.Trim(s, `,.:;!?"'`)

	switch Category(s) {
	case CategoryHandbook, CategoryAcademicIntegrity, CategoryOther:
		return Category(s)
	}

	// The model occasionally wraps the label in extra text.
	for _, c := range []Category{CategoryAcademicIntegrity, CategoryHandbook} {
		if strings.Contains(s, string(c)) {
			return c
		}
	}

	return CategoryOther
}
