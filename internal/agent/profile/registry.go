// Package profile holds the agent model registry. Model metadata lives
// in an embedded YAML file so deployments cannot drift from the binary.
package profile

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Model describes one assistant model that can drive the agent loop.
type Model struct {
	// ID is the wire model identifier, set from the YAML key.
	ID string `yaml:"-" json:"id"`

	DisplayName   string `yaml:"display_name" json:"display_name"`
	Description   string `yaml:"description" json:"description"`
	SupportsTools bool   `yaml:"supports_tools" json:"supports_tools"`
	ContextWindow int    `yaml:"context_window" json:"context_window"`
	MaxOutput     int    `yaml:"max_output" json:"max_output"`
}

// Registry is the loaded model catalog.
type Registry struct {
	provider string
	models   []Model
	byID     map[string]int
}

// NewRegistry loads the embedded model catalog.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/models.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read model catalog: %w", err)
	}

	var catalog catalogFile
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal model catalog: %w", err)
	}
	if len(catalog.Models) == 0 {
		return nil, fmt.Errorf("model catalog is empty")
	}

	r := &Registry{
		provider: catalog.Provider,
		models:   catalog.Models,
		byID:     make(map[string]int, len(catalog.Models)),
	}
	for i, model := range catalog.Models {
		r.byID[model.ID] = i
	}
	return r, nil
}

// Provider returns the provider the catalog belongs to.
func (r *Registry) Provider() string {
	return r.provider
}

// Models returns the catalog in YAML order.
func (r *Registry) Models() []Model {
	return append([]Model(nil), r.models...)
}

// Lookup returns the model with the given id.
func (r *Registry) Lookup(id string) (*Model, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", id)
	}
	model := r.models[i]
	return &model, nil
}

// Validate checks that id names a cataloged model with tool support,
// which the agent loop requires.
func (r *Registry) Validate(id string) error {
	model, err := r.Lookup(id)
	if err != nil {
		return err
	}
	if !model.SupportsTools {
		return fmt.Errorf("model %s does not support tool use", id)
	}
	return nil
}

// catalogFile mirrors the YAML layout. Models are keyed by id in the
// file; the custom unmarshaler preserves file order.
type catalogFile struct {
	Provider string
	Models   []Model
}

func (c *catalogFile) UnmarshalYAML(node *yaml.Node) error {
	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == "provider" {
			c.Provider = node.Content[i+1].Value
			break
		}
	}

	type modelsOnly struct {
		Models map[string]Model `yaml:"models"`
	}
	var m modelsOnly
	if err := node.Decode(&m); err != nil {
		return err
	}

	for i := 0; i < len(node.Content); i += 2 {
		if node.Content[i].Value == "models" {
			modelsNode := node.Content[i+1]
			for j := 0; j < len(modelsNode.Content); j += 2 {
				modelID := modelsNode.Content[j].Value
				if model, ok := m.Models[modelID]; ok {
					model.ID = modelID
					c.Models = append(c.Models, model)
				}
			}
			break
		}
	}

	return nil
}
