package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// Issue captures a single validation failure.
type Issue struct {
	Location string
	Message  string
}

func (i Issue) String() string {
	location := strings.TrimSpace(i.Location)
	if location == "" {
		location = "#"
	} else if !strings.HasPrefix(location, "#") {
		location = "#" + location
	}
	if i.Message == "" {
		return location
	}
	return fmt.Sprintf("%s: %s", location, i.Message)
}

// PayloadError surfaces schema issues for a payload.
type PayloadError struct {
	Issues []Issue
	Cause  error
}

func (e *PayloadError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from err.
func Issues(err error) []Issue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectIssues(validationErr)
	}
	return []Issue{{Message: err.Error()}}
}

// Schema is a compiled JSON schema ready to validate payloads.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile turns a JSON schema document into a reusable Schema.
func Compile(name string, schema map[string]any) (*Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	resource := name + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(encoded)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return &Schema{compiled: compiled}, nil
}

// Validate checks payload against the schema. The payload is normalised into
// plain JSON values first, so YAML decoded maps and time values are accepted.
func (s *Schema) Validate(payload map[string]any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	normalized, err := toJSONValue(payload)
	if err != nil {
		return &PayloadError{Issues: []Issue{{Message: err.Error()}}, Cause: err}
	}
	if normalized == nil {
		normalized = map[string]any{}
	}
	if err := s.compiled.Validate(normalized); err != nil {
		return &PayloadError{Issues: Issues(err), Cause: err}
	}
	return nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	if err == nil {
		return nil
	}
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}

// toJSONValue converts YAML decoded data (map[any]any, typed slices, time
// values) into the value space produced by encoding/json.
func toJSONValue(payload map[string]any) (any, error) {
	encoded, err := json.Marshal(NormalizeYAML(payload))
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NormalizeYAML rewrites map[any]any nodes into map[string]any recursively.
func NormalizeYAML(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = NormalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = NormalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = NormalizeYAML(item)
		}
		return out
	default:
		return value
	}
}
