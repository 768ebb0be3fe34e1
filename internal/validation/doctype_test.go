package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestPostTypeAcceptsValidFrontmatter(t *testing.T) {
	schema, err := PostType().Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	payload := map[string]any{
		"title": "Hello",
		"date":  time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC),
		"tags":  []any{"go", "blog"},
		"extra": map[any]any{"nested": 1},
	}
	if err := schema.Validate(payload); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestPostTypeRejectsMissingRequiredFields(t *testing.T) {
	schema, err := PostType().Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	err = schema.Validate(map[string]any{"tags": []any{"go"}})
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	issues := Issues(err)
	if len(issues) == 0 {
		t.Fatalf("expected issues, got none")
	}
	joined := err.Error()
	if !strings.Contains(joined, "title") || !strings.Contains(joined, "date") {
		t.Fatalf("expected missing title and date in %q", joined)
	}
}

func TestPostTypeRejectsNonStringTags(t *testing.T) {
	schema, err := PostType().Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	err = schema.Validate(map[string]any{
		"title": "Hello",
		"date":  "2021-03-04",
		"tags":  []any{"go", 3},
	})
	if err == nil {
		t.Fatal("expected validation error for numeric tag")
	}
	issues := Issues(err)
	if len(issues) == 0 || !strings.Contains(issues[0].Location, "/tags") {
		t.Fatalf("expected tags issue, got %+v", issues)
	}
}

func TestNormalizeYAMLRewritesInterfaceMaps(t *testing.T) {
	got := NormalizeYAML(map[any]any{"a": []any{map[any]any{1: "x"}}})
	m, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", got)
	}
	inner := m["a"].([]any)[0].(map[string]any)
	if inner["1"] != "x" {
		t.Fatalf("unexpected normalised value %#v", inner)
	}
}
