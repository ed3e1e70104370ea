package tools

import "context"

// Executor runs a single tool.
// Implementations must be safe for concurrent use and respect context
// cancellation. The returned value must be JSON-serializable.
type Executor interface {
	Execute(ctx context.Context, input map[string]interface{}) (interface{}, error)
}

// Definition describes a tool to the model: its name, what it does, and
// the JSON schema of its input. Properties holds the schema's property
// map; Required lists the mandatory parameter names.
type Definition struct {
	Name        string
	Description string
	Properties  map[string]interface{}
	Required    []string
}
