package agent

import (
	"context"
	"encoding/json"
	"log/slog"

	"atlas/internal/agent/tools"
	"atlas/internal/domain/models"
)

// Loop runs bounded tool-use conversations: call the model, execute any
// tools it asks for, feed the results back, repeat until it answers in
// text or the round limit trips.
type Loop struct {
	completer Completer
	registry  *tools.Registry
	model     string
	maxTokens int
	maxRounds int
	logger    *slog.Logger
}

// NewLoop creates an agent loop. maxRounds bounds how many tool rounds
// one conversation may take before it is abandoned.
func NewLoop(completer Completer, registry *tools.Registry, model string, maxTokens, maxRounds int, logger *slog.Logger) *Loop {
	return &Loop{
		completer: completer,
		registry:  registry,
		model:     model,
		maxTokens: maxTokens,
		maxRounds: maxRounds,
		logger:    logger,
	}
}

// Run sends the transcript through the loop and returns the model's
// final text answer. The transcript must end with the new user message.
// Tool failures are reported back to the model as error results and
// never abort the conversation; only transport errors and the round
// limit do.
func (l *Loop) Run(ctx context.Context, transcript []models.AgentMessage, doc *DocumentContext) (string, error) {
	messages := make([]Turn, 0, len(transcript))
	for _, msg := range transcript {
		messages = append(messages, Turn{
			Role:   msg.Role,
			Blocks: []Block{{Type: BlockText, Text: msg.Content}},
		})
	}

	system := buildSystemPrompt(doc)

	for round := 0; ; round++ {
		completion, err := l.completer.Complete(ctx, CompletionRequest{
			Model:     l.model,
			MaxTokens: l.maxTokens,
			System:    system,
			Messages:  messages,
			Tools:     l.registry.Definitions(),
		})
		if err != nil {
			return "", err
		}

		if completion.StopReason != "tool_use" {
			return firstText(completion.Blocks), nil
		}

		if round >= l.maxRounds {
			l.logger.Warn("abandoning conversation at tool round limit",
				"limit", l.maxRounds)
			return "", &RoundLimitError{Limit: l.maxRounds}
		}

		calls := toolCalls(completion.Blocks)
		l.logger.Debug("executing tool round",
			"round", round+1, "tools", len(calls))

		results := l.registry.ExecuteParallel(ctx, calls)

		messages = append(messages,
			Turn{Role: "assistant", Blocks: completion.Blocks},
			Turn{Role: "user", Blocks: resultBlocks(results)},
		)
	}
}

// firstText returns the first text block's content, or "".
func firstText(blocks []Block) string {
	for _, block := range blocks {
		if block.Type == BlockText {
			return block.Text
		}
	}
	return ""
}

// toolCalls extracts the tool_use blocks from a completion.
func toolCalls(blocks []Block) []tools.Call {
	calls := make([]tools.Call, 0, len(blocks))
	for _, block := range blocks {
		if block.Type == BlockToolUse {
			calls = append(calls, tools.Call{
				ID:    block.ID,
				Name:  block.Name,
				Input: block.Input,
			})
		}
	}
	return calls
}

// resultBlocks converts tool results into the tool_result blocks of the
// follow-up user turn. Successful results are JSON-encoded; failures
// carry the error text with the error flag set.
func resultBlocks(results []tools.Result) []Block {
	blocks := make([]Block, len(results))
	for i, result := range results {
		block := Block{
			Type:      BlockToolResult,
			ToolUseID: result.ID,
		}
		if result.IsError {
			block.Text = result.Error.Error()
			block.IsError = true
		} else {
			encoded, err := json.Marshal(result.Result)
			if err != nil {
				block.Text = "failed to encode tool result"
				block.IsError = true
			} else {
				block.Text = string(encoded)
			}
		}
		blocks[i] = block
	}
	return blocks
}
