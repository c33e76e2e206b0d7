// Package retriever implements multi-query retrieval of resumes: a job
// description is expanded into several alternative phrasings, each phrasing
// is run against the vector store, and the merged results are deduplicated
// by resume identity.
package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eightynine/talentbot/internal/llm"
)

const expandPromptTemplate = `You are an expert in talent acquisition.
Your task is to generate %d different versions (in English) of the given job description to retrieve relevant documents from a vector database.
By generating multiple perspectives on the job description, your goal is to help the user overcome some of the limitations of distance-based similarity search.
Make sure that all significant elements of the job description are represented in at least one query.
Exclude any non-essential information such as job ID, salary, and location, which do not enhance the effectiveness of the resume search.
Only use the information provided in the given job description. Do not make up any requirements of your own.
Provide these alternative queries separated by newlines.

The original job description:
%s`

// DefaultExpansions is the number of alternative phrasings requested per expansion.
const DefaultExpansions = 4

// QueryExpander generates alternative phrasings of a job description via a
// single LLM call.
type QueryExpander struct {
	llmClient  llm.LLM
	opts       llm.GenerateOptions
	expansions int
	logger     *slog.Logger
}

// ExpanderOption is a functional option for configuring QueryExpander.
type ExpanderOption func(*QueryExpander)

// WithExpansions sets the number of alternative phrasings to request.
func WithExpansions(n int) ExpanderOption {
	return func(e *QueryExpander) {
		if n > 0 {
			e.expansions = n
		}
	}
}

// WithExpanderGenerateOptions sets the LLM generation options for expansion calls.
func WithExpanderGenerateOptions(opts llm.GenerateOptions) ExpanderOption {
	return func(e *QueryExpander) {
		e.opts = opts
	}
}

// WithExpanderLogger sets the logger.
func WithExpanderLogger(logger *slog.Logger) ExpanderOption {
	return func(e *QueryExpander) {
		e.logger = logger
	}
}

// NewQueryExpander creates a new query expander.
func NewQueryExpander(llmClient llm.LLM, opts ...ExpanderOption) *QueryExpander {
	e := &QueryExpander{
		llmClient:  llmClient,
		expansions: DefaultExpansions,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Expand asks the LLM for alternative phrasings of the job description and
// returns them one per line, blank lines removed. A response with no usable
// lines yields an empty slice, not an error; the retriever treats that as an
// empty query set. The input is sent as-is, even when empty.
func (e *QueryExpander) Expand(ctx context.Context, jobDescription string) ([]string, error) {
	prompt := fmt.Sprintf(expandPromptTemplate, e.expansions, jobDescription)

	response, err := e.llmClient.Generate(ctx, prompt, e.opts)
	if err != nil {
		return nil, fmt.Errorf("query expansion failed: %w", err)
	}

	var queries []string
	for _, line := range strings.Split(response, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		queries = append(queries, line)
	}

	e.logger.Debug("expanded job description", "queries", len(queries))

	return queries, nil
}
