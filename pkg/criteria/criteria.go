package criteria

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kubelab/kubelab/pkg/types"
)

// Document is a criteria file: the validation criteria for the steps of one
// exercise. YAML is the native format; JSON documents parse too since YAML is
// a superset.
type Document struct {
	APIVersion string `yaml:"apiVersion" json:"apiVersion"`
	Kind       string `yaml:"kind" json:"kind"`
	Metadata   Meta   `yaml:"metadata" json:"metadata"`
	Steps      []Step `yaml:"steps" json:"steps"`
}

// Meta carries document identification
type Meta struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Step binds a step identifier to its validation criteria
type Step struct {
	ID       string                   `yaml:"id" json:"id"`
	Name     string                   `yaml:"name,omitempty" json:"name,omitempty"`
	Criteria types.ValidationCriteria `yaml:"criteria" json:"criteria"`
}

const expectedKind = "ValidationCriteria"

var validTypes = map[types.CriteriaType]bool{
	types.CriteriaTypeCluster:   true,
	types.CriteriaTypeContainer: true,
	types.CriteriaTypeHTTP:      true,
	types.CriteriaTypeCustom:    true,
}

// Load reads and parses a criteria document from a file
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read criteria file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a criteria document. Malformed checks are a
// parse error here, never a runtime surprise in the engine.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) validate() error {
	if d.Kind != "" && d.Kind != expectedKind {
		return fmt.Errorf("unsupported document kind: %s", d.Kind)
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("document defines no steps")
	}

	seen := make(map[string]bool, len(d.Steps))
	for i := range d.Steps {
		step := &d.Steps[i]
		if step.ID == "" {
			return fmt.Errorf("step %d has no id", i)
		}
		if seen[step.ID] {
			return fmt.Errorf("duplicate step id: %s", step.ID)
		}
		seen[step.ID] = true

		if !validTypes[step.Criteria.Type] {
			return fmt.Errorf("step %s: unknown criteria type: %q", step.ID, step.Criteria.Type)
		}
		if len(step.Criteria.Checks) == 0 {
			return fmt.Errorf("step %s defines no checks", step.ID)
		}
		for j := range step.Criteria.Checks {
			if err := step.Criteria.Checks[j].Validate(); err != nil {
				return fmt.Errorf("step %s check %d: %w", step.ID, j, err)
			}
		}
	}
	return nil
}

// Find returns the step with the given id, or nil if absent
func (d *Document) Find(stepID string) *Step {
	for i := range d.Steps {
		if d.Steps[i].ID == stepID {
			return &d.Steps[i]
		}
	}
	return nil
}
