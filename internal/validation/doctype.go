package validation

import "strings"

// Field types understood by document type definitions.
const (
	FieldString = "string"
	FieldDate   = "date"
	FieldList   = "list"
)

// FieldDef declares one frontmatter field of a document type.
type FieldDef struct {
	Name     string
	Type     string
	Required bool
}

// DocumentType is a named set of frontmatter fields.
type DocumentType struct {
	Name   string
	Fields []FieldDef
}

// PostType is the blog post document type.
func PostType() DocumentType {
	return DocumentType{
		Name: "Post",
		Fields: []FieldDef{
			{Name: "title", Type: FieldString, Required: true},
			{Name: "date", Type: FieldDate, Required: true},
			{Name: "tags", Type: FieldList},
			{Name: "image", Type: FieldString},
			{Name: "excerpt", Type: FieldString},
		},
	}
}

// JSONSchema renders the document type as a JSON schema. Unknown keys are
// allowed so authors can carry custom frontmatter.
func (t DocumentType) JSONSchema() map[string]any {
	properties := make(map[string]any, len(t.Fields))
	required := make([]any, 0)

	for _, field := range t.Fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		properties[name] = fieldSchema(field.Type)
		if field.Required {
			required = append(required, name)
		}
	}

	schema := map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"title":                t.Name,
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": true,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Compile builds the validator for the document type.
func (t DocumentType) Compile() (*Schema, error) {
	name := strings.ToLower(strings.TrimSpace(t.Name))
	if name == "" {
		name = "document"
	}
	return Compile(name, t.JSONSchema())
}

func fieldSchema(fieldType string) map[string]any {
	switch strings.ToLower(strings.TrimSpace(fieldType)) {
	case FieldString:
		return map[string]any{"type": "string"}
	case FieldDate:
		return map[string]any{"type": "string", "minLength": 1}
	case FieldList:
		return map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		}
	default:
		return map[string]any{}
	}
}
