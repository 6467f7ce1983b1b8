package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/waymark/internal/validator"
	"github.com/aretw0/waymark/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Format names a definition encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf guesses the format from a file extension. Unknown extensions are read as YAML.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads and parses a definition file.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	def, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a definition. JSON is parsed through the YAML decoder, of which it is a subset.
func Parse(data []byte, format Format) (*Definition, error) {
	if format != FormatYAML && format != FormatJSON {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", format, err)
	}

	var def Definition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  objectKindHook,
		ErrorUnused: true,
		Result:      &def,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode definition: %w", err)
	}
	return &def, nil
}

// objectKindHook decodes kind names such as "IMAGE" into domain.ObjectKind.
func objectKindHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(domain.ObjectKind(0)) || from.Kind() != reflect.String {
		return data, nil
	}
	return domain.ParseObjectKind(data.(string))
}

// Marshal encodes a definition in the given format.
func Marshal(def *Definition, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(def, "", "  ")
	case FormatYAML:
		return yaml.Marshal(def)
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}

// Validate checks the definition without registering anything.
func (d *Definition) Validate() error {
	states, transitions := d.domain()
	var problems []error

	if err := validator.Validate(states, transitions); err != nil {
		problems = append(problems, err)
	}

	known := make(map[string]struct{}, len(states))
	for _, s := range states {
		known[s.Name] = struct{}{}
	}
	for _, name := range d.Initial {
		if _, ok := known[name]; !ok {
			problems = append(problems, fmt.Errorf("initial %w: %s", domain.ErrStateNotFound, name))
		}
	}

	return errors.Join(problems...)
}

func (d *Definition) domain() ([]domain.State, []domain.Transition) {
	states := make([]domain.State, len(d.States))
	for i, s := range d.States {
		states[i] = s.State()
	}
	transitions := make([]domain.Transition, len(d.Transitions))
	for i, t := range d.Transitions {
		transitions[i] = t.Transition()
	}
	return states, transitions
}
