package reranker

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/eightynine/talentbot/internal/llm"
)

const rerankPromptTemplate = `You are an expert in talent acquisition.

Evaluate the suitability of the following resume (<resume></resume>) for the job described in the job description (<jd></jd>).

Rate the match between the resume and the job description on a scale of 0-100, and provide an explanation of your reasoning. Use the following JSON structure for your response:
{"score": [score], "reason": "[your reason]"}

<resume>
%s
</resume>

<jd>
%s
</jd>

Current GMT time is %s`

// timeLayout matches the human-readable timestamp format used in prompts.
const timeLayout = "Monday, January 02, 2006 15:04"

// LLMReranker scores each candidate with one LLM call per resume, batched
// through the client's GenerateBatch so the provider owns the concurrency
// limit. All prompts in a batch share a single wall-clock timestamp so the
// model judges every candidate against the same "now".
type LLMReranker struct {
	llmClient llm.LLM
	opts      llm.GenerateOptions
	now       func() time.Time
}

// LLMRerankerOption is a functional option for configuring LLMReranker.
type LLMRerankerOption func(*LLMReranker)

// WithGenerateOptions sets the LLM generation options for scoring calls.
func WithGenerateOptions(opts llm.GenerateOptions) LLMRerankerOption {
	return func(r *LLMReranker) {
		r.opts = opts
	}
}

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) LLMRerankerOption {
	return func(r *LLMReranker) {
		r.now = now
	}
}

// NewLLMReranker creates a new LLM-based reranker.
func NewLLMReranker(llmClient llm.LLM, opts ...LLMRerankerOption) *LLMReranker {
	r := &LLMReranker{
		llmClient: llmClient,
		opts: llm.GenerateOptions{
			Temperature: 0.0, // Deterministic scoring
			MaxTokens:   1024,
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// suitability is the structured judgment returned by the LLM per candidate.
type suitability struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Rerank scores candidates against the job description and returns those at
// or above threshold, ordered by score descending with ties keeping input
// order. An empty candidate list returns immediately without an LLM call.
//
// A response that does not parse as {"score", "reason"} JSON fails the whole
// call: a silently dropped candidate would be indistinguishable from one that
// legitimately scored below threshold.
func (r *LLMReranker) Rerank(ctx context.Context, jobDescription string, candidates []Candidate, threshold int) ([]RankedResume, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	currentTime := r.now().UTC().Format(timeLayout)

	prompts := make([]string, len(candidates))
	for i, candidate := range candidates {
		prompts[i] = fmt.Sprintf(rerankPromptTemplate, candidate.ResumeText, jobDescription, currentTime)
	}

	responses, err := r.llmClient.GenerateBatch(ctx, prompts, r.opts)
	if err != nil {
		return nil, fmt.Errorf("rerank batch failed: %w", err)
	}

	type scored struct {
		candidate Candidate
		score     int
		reason    string
	}

	var kept []scored
	for i, response := range responses {
		judgment, err := parseSuitability(response)
		if err != nil {
			return nil, fmt.Errorf("rerank result for resume %d: %w", candidates[i].ID, err)
		}
		if judgment.Score < threshold {
			continue
		}
		kept = append(kept, scored{
			candidate: candidates[i],
			score:     judgment.Score,
			reason:    judgment.Reason,
		})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})

	results := make([]RankedResume, len(kept))
	for i, s := range kept {
		results[i] = RankedResume{
			ID:        s.candidate.ID,
			Name:      s.candidate.Name,
			Reason:    s.reason,
			ResumeURL: s.candidate.URL,
		}
	}

	return results, nil
}

// parseSuitability extracts the {"score", "reason"} judgment from an LLM
// response, tolerating markdown code fences around the JSON.
func parseSuitability(response string) (*suitability, error) {
	response = stripCodeFence(response)

	var judgment suitability
	if err := json.Unmarshal([]byte(response), &judgment); err != nil {
		return nil, fmt.Errorf("failed to parse suitability judgment: %w", err)
	}
	if judgment.Score < 0 || judgment.Score > 100 {
		return nil, fmt.Errorf("suitability score %d out of range", judgment.Score)
	}

	return &judgment, nil
}

// stripCodeFence unwraps JSON from markdown code blocks if present.
func stripCodeFence(response string) string {
	response = strings.TrimSpace(response)

	if idx := strings.Index(response, "```json"); idx != -1 {
		start := idx + 7
		if end := strings.Index(response[start:], "```"); end != -1 {
			response = response[start : start+end]
		}
	} else if idx := strings.Index(response, "```"); idx != -1 {
		start := idx + 3
		if end := strings.Index(response[start:], "```"); end != -1 {
			response = response[start : start+end]
		}
	}

	return strings.TrimSpace(response)
}

// Ensure LLMReranker implements Reranker interface.
var _ Reranker = (*LLMReranker)(nil)
