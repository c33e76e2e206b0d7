// Package agent implements the conversational assistant: an LLM-driven loop
// that answers recruiter questions by dispatching to resume tools.
package agent

import "context"

// Tool is a capability the agent can invoke by name. Input is the raw
// argument string the model produced; each tool documents its expected shape
// in InputSchema.
type Tool interface {
	// Name is the identifier the model uses to select this tool.
	Name() string

	// Description tells the model when the tool is useful.
	Description() string

	// InputSchema describes the expected input, shown to the model.
	InputSchema() string

	// Run executes the tool and returns an observation for the model.
	Run(ctx context.Context, input string) (string, error)
}

// EventSink receives progress events during a chat turn. All hooks are
// invoked synchronously; a nil sink is replaced by a no-op.
type EventSink interface {
	// OnToken is called with generated answer text.
	OnToken(token string)

	// OnToolStart is called before a tool runs.
	OnToolStart(name string)

	// OnToolEnd is called after a tool returns.
	OnToolEnd(name string)
}

// NopSink is an EventSink that ignores all events.
type NopSink struct{}

func (NopSink) OnToken(string)     {}
func (NopSink) OnToolStart(string) {}
func (NopSink) OnToolEnd(string)   {}
