package agent

import (
	"context"

	"atlas/internal/agent/tools"
)

// Block types inside a conversation turn.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Block is one content block of a turn, provider-neutral. Which fields
// are set depends on Type: Text for text blocks, ID/Name/Input for
// tool_use, ToolUseID/Text/IsError for tool_result.
type Block struct {
	Type      string
	Text      string
	ID        string
	Name      string
	Input     map[string]interface{}
	ToolUseID string
	IsError   bool
}

// Turn is one message in the conversation sent to the model.
type Turn struct {
	Role   string // "user" or "assistant"
	Blocks []Block
}

// Completion is the model's response to one request.
type Completion struct {
	StopReason string
	Blocks     []Block
}

// CompletionRequest carries everything needed for one model call.
type CompletionRequest struct {
	Model     string
	MaxTokens int
	System    string
	Messages  []Turn
	Tools     []tools.Definition
}

// Completer produces one model completion. The production
// implementation wraps the Anthropic API; tests script it.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}
