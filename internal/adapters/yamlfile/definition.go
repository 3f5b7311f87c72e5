// Package yamlfile loads machine definitions and path files from their YAML
// notation. It owns parsing and reference resolution only; structural
// validation of the machine lives in the compiler, and inheritance
// flattening in the paths package.
package yamlfile

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/rsmiech/flowrunner/internal/compiler"
	"github.com/rsmiech/flowrunner/internal/dto"
	"github.com/rsmiech/flowrunner/pkg/domain"
)

// LoadDefinition reads a machine definition file and builds the validated
// model. Any structural problem in the definition fails the load.
func LoadDefinition(file string) (*domain.Model, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}
	return ParseDefinition(data)
}

// ParseDefinition builds a model from raw YAML bytes.
func ParseDefinition(data []byte) (*domain.Model, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed definition YAML: %w", err)
	}

	var raw dto.RawDefinition
	if err := decode(doc, &raw); err != nil {
		return nil, fmt.Errorf("unexpected definition structure: %w", err)
	}

	model, err := compiler.Build(&raw)
	if err != nil {
		return nil, err
	}
	return model, nil
}

func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}
