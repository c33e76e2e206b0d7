package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is the model used when GenerateOptions.Model is empty.
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiClient implements the LLM interface using the Google Gemini API.
type GeminiClient struct {
	client           *genai.Client
	model            string
	batchConcurrency int
}

// GeminiOption is a functional option for configuring GeminiClient.
type GeminiOption func(*GeminiClient)

// WithGeminiModel sets the default model for the client.
func WithGeminiModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		c.model = model
	}
}

// WithGeminiBatchConcurrency sets the number of concurrent requests used by GenerateBatch.
func WithGeminiBatchConcurrency(n int) GeminiOption {
	return func(c *GeminiClient) {
		if n > 0 {
			c.batchConcurrency = n
		}
	}
}

// NewGeminiClient creates a new Gemini LLM client.
func NewGeminiClient(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	c := &GeminiClient{
		client:           client,
		model:            DefaultGeminiModel,
		batchConcurrency: DefaultBatchConcurrency,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Generate sends a prompt to Gemini and returns the complete response.
func (c *GeminiClient) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	model := c.generativeModel(opts)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	return extractGeminiText(resp)
}

// GenerateBatch runs one generation per prompt with bounded concurrency and
// returns responses in prompt order. Any failed generation fails the batch.
func (c *GeminiClient) GenerateBatch(ctx context.Context, prompts []string, opts GenerateOptions) ([]string, error) {
	if len(prompts) == 0 {
		return nil, nil
	}

	results := make([]string, len(prompts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.batchConcurrency)

	for i, prompt := range prompts {
		g.Go(func() error {
			response, err := c.Generate(ctx, prompt, opts)
			if err != nil {
				return fmt.Errorf("prompt %d: %w", i, err)
			}
			results[i] = response
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// GenerateStream sends a prompt to Gemini and streams response chunks.
func (c *GeminiClient) GenerateStream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan StreamChunk, error) {
	model := c.generativeModel(opts)
	iter := model.GenerateContentStream(ctx, genai.Text(prompt))

	chunks := make(chan StreamChunk)

	go func() {
		defer close(chunks)

		for {
			resp, err := iter.Next()
			if err != nil {
				if errors.Is(err, iterator.Done) {
					chunks <- StreamChunk{Done: true}
					return
				}
				chunks <- StreamChunk{Error: fmt.Errorf("gemini stream: %w", err), Done: true}
				return
			}

			text, err := extractGeminiText(resp)
			if err != nil {
				chunks <- StreamChunk{Error: err, Done: true}
				return
			}

			select {
			case <-ctx.Done():
				chunks <- StreamChunk{Error: ctx.Err(), Done: true}
				return
			case chunks <- StreamChunk{Token: text}:
			}
		}
	}()

	return chunks, nil
}

// generativeModel resolves a configured genai model from options.
func (c *GeminiClient) generativeModel(opts GenerateOptions) *genai.GenerativeModel {
	name := opts.Model
	if name == "" {
		name = c.model
	}

	model := c.client.GenerativeModel(name)
	if opts.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(opts.SystemPrompt)},
		}
	}
	if opts.Temperature > 0 {
		model.SetTemperature(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}

	return model
}

// extractGeminiText concatenates the text parts of the first candidate.
func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return sb.String(), nil
}

// Ensure GeminiClient implements LLM interface.
var _ LLM = (*GeminiClient)(nil)
