package input

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// ValidationError lists every problem found in an input document.
type ValidationError struct {
	Source   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d problem(s):\n  %s", e.Source, len(e.Problems), strings.Join(e.Problems, "\n  "))
}

func (e *ValidationError) add(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

func compiled(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	parsed, err := normalize(def)
	if err != nil {
		return nil, fmt.Errorf("normalize schema %s: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, parsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	schemaCache.Store(name, sch)
	return sch, nil
}

// normalize turns any YAML- or Go-shaped value into the plain JSON value
// tree the schema validator expects.
func normalize(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decode parses a YAML or JSON document, validates it against the named
// schema and unmarshals it into dst. JSON is accepted as a YAML subset.
func decode(source string, data []byte, name string, def map[string]any, dst any) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return &ValidationError{Source: source, Problems: []string{fmt.Sprintf("parse: %v", err)}}
	}
	if raw == nil {
		return &ValidationError{Source: source, Problems: []string{"document is empty"}}
	}
	doc, err := normalize(raw)
	if err != nil {
		return &ValidationError{Source: source, Problems: []string{fmt.Sprintf("document is not a JSON-compatible mapping: %v", err)}}
	}

	sch, err := compiled(name, def)
	if err != nil {
		return err
	}
	if err := sch.Validate(doc); err != nil {
		verr := &ValidationError{Source: source}
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			for _, u := range ve.BasicOutput().Errors {
				if u.Error == nil {
					continue
				}
				loc := u.InstanceLocation
				if loc == "" {
					loc = "/"
				}
				verr.add("%s: %s", loc, u.Error.String())
			}
		}
		if len(verr.Problems) == 0 {
			verr.add("%v", err)
		}
		return verr
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("re-encode %s: %w", source, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return &ValidationError{Source: source, Problems: []string{err.Error()}}
	}
	return nil
}
