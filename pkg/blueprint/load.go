package blueprint

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML blueprint document. Unknown keys are rejected.
func Parse(data []byte) (*Blueprint, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse blueprint yaml: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("empty blueprint")
	}

	var bp Blueprint
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &bp,
		TagName:     "mapstructure",
		ErrorUnused: true,
		// Scalars such as `text: 42` are accepted as strings.
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid blueprint: %w", err)
	}
	return &bp, nil
}
