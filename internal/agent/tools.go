package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eightynine/talentbot/internal/repository"
	"github.com/eightynine/talentbot/internal/resume"
	"github.com/eightynine/talentbot/internal/service"
)

// SearchTool finds resumes matching a job description.
type SearchTool struct {
	search *service.SearchService
}

// NewSearchTool creates the resume search tool.
func NewSearchTool(search *service.SearchService) *SearchTool {
	return &SearchTool{search: search}
}

func (t *SearchTool) Name() string { return "resume_search" }

func (t *SearchTool) Description() string {
	return "useful when looking for resumes that match a job description."
}

func (t *SearchTool) InputSchema() string {
	return "a job description as plain text"
}

// Run searches resumes and returns the matches as JSON for the model to
// present. Search failures propagate; the agent loop turns them into an
// apology rather than crashing the conversation.
func (t *SearchTool) Run(ctx context.Context, input string) (string, error) {
	results, err := t.search.Search(ctx, input)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No matching resumes found.", nil
	}

	out, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to encode search results: %w", err)
	}
	return string(out), nil
}

// SummarizationTool returns the stored summary of a resume.
type SummarizationTool struct {
	resumes repository.ResumeRepository
}

// NewSummarizationTool creates the resume summarization tool.
func NewSummarizationTool(resumes repository.ResumeRepository) *SummarizationTool {
	return &SummarizationTool{resumes: resumes}
}

func (t *SummarizationTool) Name() string { return "resume_summarization" }

func (t *SummarizationTool) Description() string {
	return "useful when you want to summarize a resume."
}

func (t *SummarizationTool) InputSchema() string {
	return "a resume id"
}

func (t *SummarizationTool) Run(ctx context.Context, input string) (string, error) {
	res, err := lookupResume(ctx, t.resumes, input)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "Resume not found", nil
	}
	return res.Summary, nil
}

// DetailsTool returns the full rendered text of a resume.
type DetailsTool struct {
	resumes repository.ResumeRepository
}

// NewDetailsTool creates the resume details tool.
func NewDetailsTool(resumes repository.ResumeRepository) *DetailsTool {
	return &DetailsTool{resumes: resumes}
}

func (t *DetailsTool) Name() string { return "resume_details" }

func (t *DetailsTool) Description() string {
	return "useful when you want to get details of a resume."
}

func (t *DetailsTool) InputSchema() string {
	return "a resume id"
}

func (t *DetailsTool) Run(ctx context.Context, input string) (string, error) {
	res, err := lookupResume(ctx, t.resumes, input)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "Resume not found", nil
	}
	return resume.Render(&res.Data)
}

// lookupResume parses a resume ID and fetches the record. A missing record
// returns (nil, nil) so tools can answer "not found" instead of erroring.
func lookupResume(ctx context.Context, resumes repository.ResumeRepository, input string) (*repository.Resume, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid resume id %q", input)
	}

	res, err := resumes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

var (
	_ Tool = (*SearchTool)(nil)
	_ Tool = (*SummarizationTool)(nil)
	_ Tool = (*DetailsTool)(nil)
)
