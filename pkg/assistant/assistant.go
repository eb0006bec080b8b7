// Package assistant composes the language model, the knowledge index, the
// query classifier and the conversation history into the question-answering
// service the API exposes.
package assistant

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/unikit/regent/pkg/classify"
	"github.com/unikit/regent/pkg/history"
	"github.com/unikit/regent/pkg/knowledge"
	"github.com/unikit/regent/pkg/llm"
)

const defaultInstructions = "You are a university student support assistant. " +
	"Answer the student's question using the handbook context provided. " +
	"If the context does not cover the question, say so rather than guessing."

// Response is the outcome of answering one question.
type Response struct {
	Answer   string            `json:"answer"`
	Category classify.Category `json:"category"`
	Context  []string          `json:"context_used,omitempty"`
}

// Assistant answers student questions, grounding handbook and academic
// integrity queries in retrieved chunks and answering everything else from
// the model alone.
type Assistant struct {
	provider     llm.Provider
	index        *knowledge.Index
	classifier   *classify.Classifier
	history      history.Store
	topK         int
	instructions string
	logger       *slog.Logger
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithClassifier sets the query classifier. Without one every question is
// treated as a handbook question.
func WithClassifier(c *classify.Classifier) Option {
	return func(a *Assistant) { a.classifier = c }
}

// WithHistory sets the conversation history store.
func WithHistory(store history.Store) Option {
	return func(a *Assistant) { a.history = store }
}

// WithTopK sets how many chunks retrieval returns per question.
func WithTopK(k int) Option {
	return func(a *Assistant) {
		if k > 0 {
			a.topK = k
		}
	}
}

// WithInstructions overrides the system prompt.
func WithInstructions(instructions string) Option {
	return func(a *Assistant) {
		if instructions != "" {
			a.instructions = instructions
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assistant) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an Assistant backed by the given model provider and knowledge
// index.
func New(provider llm.Provider, index *knowledge.Index, opts ...Option) *Assistant {
	a := &Assistant{
		provider:     provider,
		index:        index,
		topK:         knowledge.DefaultTopK,
		instructions: defaultInstructions,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Answer classifies the question, retrieves context when the category calls
// for it, asks the model and records the exchange under the caller's token.
// Classification and history failures degrade rather than fail the request.
func (a *Assistant) Answer(ctx context.Context, token, question, level string) (*Response, error) {
	category := a.classify(ctx, question)
	log := a.logger.With("category", string(category))

	chunks, err := a.retrieve(ctx, category, question, level)
	if err != nil {
		return nil, err
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: a.instructions},
	}
	if len(chunks) > 0 {
		messages = append(messages, llm.Message{
			Role:    llm.RoleAssistant,
			Content: "Relevant context:\n\n" + strings.Join(chunks, "\n\n"),
		})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})

	reply, err := a.provider.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if a.history != nil {
		ex := history.Exchange{Question: question, Answer: reply.Content}
		if err := a.history.Append(ctx, token, ex); err != nil {
			log.Error("failed to record exchange", "error", err)
		}
	}

	return &Response{
		Answer:   reply.Content,
		Category: category,
		Context:  chunks,
	}, nil
}

// History returns the caller's recorded exchanges, oldest first. Without a
// history store it returns nothing.
func (a *Assistant) History(ctx context.Context, token string) ([]history.Exchange, error) {
	if a.history == nil {
		return nil, nil
	}
	return a.history.List(ctx, token)
}

func (a *Assistant) classify(ctx context.Context, question string) classify.Category {
	if a.classifier == nil {
		return classify.CategoryHandbook
	}
	category, err := a.classifier.Classify(ctx, question)
	if err != nil {
		a.logger.Warn("classification failed, treating as general query", "error", err)
		return classify.CategoryOther
	}
	return category
}

// retrieve returns context chunks for categories that have a collection. A
// handbook question needs the caller's level; the academic integrity
// collection is shared across levels.
func (a *Assistant) retrieve(ctx context.Context, category classify.Category, question, level string) ([]string, error) {
	var docType string
	switch category {
	case classify.CategoryHandbook:
		docType = knowledge.DocTypeHandbook
		if strings.TrimSpace(level) == "" {
			return nil, knowledge.ErrLevelRequired
		}
	case classify.CategoryAcademicIntegrity:
		docType = knowledge.DocTypeAcademicIntegrity
		level = ""
	default:
		return nil, nil
	}

	chunks, err := a.index.Search(ctx, question, docType, level, a.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	return chunks, nil
}
