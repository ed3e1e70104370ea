package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"atlas/internal/agent"
	"atlas/internal/agent/tools"
)

// convertMessages converts provider-neutral turns to SDK message params.
func convertMessages(turns []agent.Turn) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(turns))

	for i, turn := range turns {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(turn.Blocks))

		for _, block := range turn.Blocks {
			switch block.Type {
			case agent.BlockText:
				blocks = append(blocks, anthropic.NewTextBlock(block.Text))
			case agent.BlockToolUse:
				blocks = append(blocks, anthropic.NewToolUseBlock(block.ID, block.Input, block.Name))
			case agent.BlockToolResult:
				blocks = append(blocks, anthropic.NewToolResultBlock(block.ToolUseID, block.Text, block.IsError))
			default:
				return nil, fmt.Errorf("message %d: unsupported block type %q", i, block.Type)
			}
		}

		switch turn.Role {
		case "user":
			result = append(result, anthropic.NewUserMessage(blocks...))
		case "assistant":
			result = append(result, anthropic.NewAssistantMessage(blocks...))
		default:
			return nil, fmt.Errorf("message %d: unsupported role %q", i, turn.Role)
		}
	}

	return result, nil
}

// convertTools converts tool definitions to the SDK's tool params.
func convertTools(defs []tools.Definition) []anthropic.ToolUnionParam {
	result := make([]anthropic.ToolUnionParam, len(defs))
	for i, def := range defs {
		toolParam := anthropic.ToolParam{
			Name:        def.Name,
			Description: anthropic.String(def.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: def.Properties,
				Required:   def.Required,
			},
		}
		result[i] = anthropic.ToolUnionParam{OfTool: &toolParam}
	}
	return result
}

// convertResponse converts an SDK message to the neutral completion.
func convertResponse(msg *anthropic.Message) (*agent.Completion, error) {
	blocks := make([]agent.Block, 0, len(msg.Content))

	for i, content := range msg.Content {
		switch content.Type {
		case "text":
			blocks = append(blocks, agent.Block{
				Type: agent.BlockText,
				Text: content.Text,
			})

		case "tool_use":
			var input map[string]interface{}
			if len(content.Input) > 0 {
				if err := json.Unmarshal(content.Input, &input); err != nil {
					return nil, fmt.Errorf("block %d: failed to parse tool input: %w", i, err)
				}
			}
			blocks = append(blocks, agent.Block{
				Type:  agent.BlockToolUse,
				ID:    content.ID,
				Name:  content.Name,
				Input: input,
			})

		// Thinking and other block types are not surfaced to the loop.
		default:
			continue
		}
	}

	return &agent.Completion{
		StopReason: string(msg.StopReason),
		Blocks:     blocks,
	}, nil
}
