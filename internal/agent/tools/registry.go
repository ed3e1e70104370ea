package tools

import (
	"context"
	"fmt"
	"sync"
)

// Call is a single tool invocation requested by the model.
type Call struct {
	ID    string                 `json:"id"`
	Name  string                 `json:"name"`
	Input map[string]interface{} `json:"input"`
}

// Result is the outcome of one tool execution. A failed execution is a
// result with IsError set, never a loop-level error: failures go back
// to the model as tool output so it can react.
type Result struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Result  interface{} `json:"result"`
	Error   error       `json:"error"`
	IsError bool        `json:"is_error"`
}

// Registry holds the tools exposed to the agent and executes calls
// against them. Safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	executors   map[string]Executor
	definitions []Definition
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[string]Executor),
	}
}

// Register adds a tool under its definition's name, replacing any
// existing tool with the same name.
func (r *Registry) Register(def Definition, executor Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.executors[def.Name]; exists {
		for i := range r.definitions {
			if r.definitions[i].Name == def.Name {
				r.definitions[i] = def
				break
			}
		}
	} else {
		r.definitions = append(r.definitions, def)
	}
	r.executors[def.Name] = executor
}

// Get returns the executor registered under name, or nil.
func (r *Registry) Get(name string) Executor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.executors[name]
}

// Definitions returns the registered tool definitions in registration
// order, for advertising to the model.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Definition(nil), r.definitions...)
}

// Execute runs one call. Unknown tools and executor errors both come
// back as error results.
func (r *Registry) Execute(ctx context.Context, call Call) Result {
	executor := r.Get(call.Name)
	if executor == nil {
		return Result{
			ID:      call.ID,
			Name:    call.Name,
			Error:   fmt.Errorf("tool not found: %s", call.Name),
			IsError: true,
		}
	}

	result, err := executor.Execute(ctx, call.Input)
	if err != nil {
		return Result{
			ID:      call.ID,
			Name:    call.Name,
			Error:   err,
			IsError: true,
		}
	}

	return Result{
		ID:     call.ID,
		Name:   call.Name,
		Result: result,
	}
}

// ExecuteParallel runs every call concurrently and returns results in
// call order.
func (r *Registry) ExecuteParallel(ctx context.Context, calls []Call) []Result {
	if len(calls) == 0 {
		return []Result{}
	}

	results := make([]Result, len(calls))
	var wg sync.WaitGroup

	for i, call := range calls {
		wg.Add(1)
		go func(index int, call Call) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[index] = Result{
					ID:      call.ID,
					Name:    call.Name,
					Error:   ctx.Err(),
					IsError: true,
				}
				return
			default:
			}

			results[index] = r.Execute(ctx, call)
		}(i, call)
	}

	wg.Wait()
	return results
}
