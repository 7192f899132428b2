package config

import (
	"github.com/koustreak/autoseq/internal/errs"
	"github.com/koustreak/autoseq/internal/render"
	"go.yaml.in/yaml/v3"
)

// AdditionalOptions is the `additional` mapping. Entries keep the order of
// the YAML document so generated files are stable across runs.
type AdditionalOptions []render.Option

// UnmarshalYAML accepts a mapping of scalars. Values are kept as written and
// emitted into the descriptor verbatim.
func (a *AdditionalOptions) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return errs.Newf(errs.ErrKindInvalidInput, "additional: expected a mapping at line %d", value.Line)
	}

	opts := make(AdditionalOptions, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return errs.Newf(errs.ErrKindInvalidInput, "additional.%s: expected a scalar at line %d", key.Value, val.Line)
		}
		opts = append(opts, render.Option{Key: key.Value, Value: val.Value})
	}
	*a = opts
	return nil
}
