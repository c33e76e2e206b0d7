package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eightynine/talentbot/internal/llm"
	"github.com/eightynine/talentbot/internal/memory"
)

const systemPrompt = `You are TalentBot, an AI-powered talent acquisition assistant.
Your mission is to assist the talent acquisition team with tasks related to finding and recruiting talent.
Use the provided tools if necessary to complete the task.
Translate the user's question into English if necessary.
Respond in the same language as the user's original question.
If you cannot answer a question, simply say "I don't know" without providing any speculative information.`

const toolProtocol = `To use a tool, respond with exactly one JSON object:
{"tool": "<tool name>", "input": "<tool input>"}

To answer the user directly, respond with:
{"answer": "<your answer>"}

Respond with JSON only, no other text.`

// DefaultMaxSteps bounds tool-call rounds within one chat turn.
const DefaultMaxSteps = 5

// Agent runs the chat loop: the selected LLM decides per step whether to
// invoke a tool or answer, observations are fed back, and the session
// history is kept in the memory store.
type Agent struct {
	llms     *llm.Registry
	tools    []Tool
	memory   *memory.Store
	maxSteps int
	logger   *slog.Logger
}

// AgentOption is a functional option for configuring Agent.
type AgentOption func(*Agent)

// WithMaxSteps sets the maximum tool-call rounds per turn.
func WithMaxSteps(n int) AgentOption {
	return func(a *Agent) {
		if n > 0 {
			a.maxSteps = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) AgentOption {
	return func(a *Agent) {
		a.logger = logger
	}
}

// New creates a new agent.
func New(llms *llm.Registry, tools []Tool, store *memory.Store, opts ...AgentOption) *Agent {
	a := &Agent{
		llms:     llms,
		tools:    tools,
		memory:   store,
		maxSteps: DefaultMaxSteps,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// decision is the model's per-step choice: either a tool call or an answer.
type decision struct {
	Tool   string `json:"tool"`
	Input  string `json:"input"`
	Answer string `json:"answer"`
}

// step records one tool invocation and its observation within a turn.
type step struct {
	tool        string
	input       string
	observation string
}

// Chat runs one conversation turn. modelKey selects the completion provider
// ("" uses the configured default). sink may be nil.
func (a *Agent) Chat(ctx context.Context, sessionID, input, modelKey string, sink EventSink) (string, error) {
	if sink == nil {
		sink = NopSink{}
	}

	client, err := a.llms.Get(modelKey)
	if err != nil {
		return "", err
	}

	history := a.memory.History(sessionID)
	a.memory.Append(sessionID, memory.RoleUser, input)

	var steps []step
	for round := 0; round < a.maxSteps; round++ {
		prompt := a.buildPrompt(history, input, steps)

		response, err := client.Generate(ctx, prompt, llm.GenerateOptions{SystemPrompt: systemPrompt})
		if err != nil {
			return "", fmt.Errorf("chat generation failed: %w", err)
		}

		d := parseDecision(response)
		if d.Tool == "" {
			answer := d.Answer
			if answer == "" {
				// The model ignored the protocol and answered in plain
				// text; accept it rather than failing the turn.
				answer = strings.TrimSpace(response)
			}
			sink.OnToken(answer)
			a.memory.Append(sessionID, memory.RoleAssistant, answer)
			return answer, nil
		}

		observation := a.runTool(ctx, d.Tool, d.Input, sink)
		steps = append(steps, step{tool: d.Tool, input: d.Input, observation: observation})
	}

	return "", fmt.Errorf("no answer after %d tool rounds", a.maxSteps)
}

// runTool dispatches a tool call by name. Tool failures become observations
// so the model can relay an apology instead of the turn erroring out.
func (a *Agent) runTool(ctx context.Context, name, input string, sink EventSink) string {
	tool := a.findTool(name)
	if tool == nil {
		return fmt.Sprintf("Error: unknown tool %q", name)
	}

	sink.OnToolStart(name)
	defer sink.OnToolEnd(name)

	a.logger.Info("running tool", "tool", name)

	observation, err := tool.Run(ctx, input)
	if err != nil {
		a.logger.Error("tool failed", "tool", name, "error", err)
		return fmt.Sprintf("Error: the %s tool failed. Apologize to the user and suggest trying again.", name)
	}
	return observation
}

func (a *Agent) findTool(name string) Tool {
	for _, tool := range a.tools {
		if tool.Name() == name {
			return tool
		}
	}
	return nil
}

func (a *Agent) buildPrompt(history []memory.Message, input string, steps []step) string {
	var sb strings.Builder

	sb.WriteString("## Available Tools\n")
	for _, tool := range a.tools {
		fmt.Fprintf(&sb, "- %s: %s Input: %s\n", tool.Name(), tool.Description(), tool.InputSchema())
	}
	sb.WriteString("\n")
	sb.WriteString(toolProtocol)
	sb.WriteString("\n\n")

	if len(history) > 0 {
		sb.WriteString("## Conversation History\n")
		for _, msg := range history {
			switch msg.Role {
			case memory.RoleUser:
				sb.WriteString("User: " + msg.Content + "\n")
			case memory.RoleAssistant:
				sb.WriteString("Assistant: " + msg.Content + "\n")
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Question\n")
	sb.WriteString(input)
	sb.WriteString("\n")

	if len(steps) > 0 {
		sb.WriteString("\n## Tool Results So Far\n")
		for _, s := range steps {
			fmt.Fprintf(&sb, "Called %s with input: %s\nResult: %s\n\n", s.tool, s.input, s.observation)
		}
	}

	return sb.String()
}

// parseDecision extracts the tool-or-answer choice from a model response,
// tolerating markdown fences. An unparseable response is treated as a plain
// answer with no tool.
func parseDecision(response string) decision {
	text := stripCodeFence(response)

	var d decision
	if err := json.Unmarshal([]byte(text), &d); err != nil {
		return decision{}
	}
	return d
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
