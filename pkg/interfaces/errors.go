package interfaces

import (
	"fmt"
	"strings"
)

// ParseError reports malformed or invalid frontmatter. It is fatal for the
// whole build.
type ParseError struct {
	Path   string
	Issues []string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s", e.Path)
	if len(e.Issues) > 0 {
		msg += ": " + strings.Join(e.Issues, "; ")
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// TransformError reports a failing Markdown pipeline stage.
type TransformError struct {
	Path  string
	Stage string
	Err   error
}

func (e *TransformError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("transform %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %v", e.Path, e.Stage, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// ConfigurationError reports missing or invalid startup configuration, such
// as an absent external service credential.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ResolutionWarning records a remote lookup that returned partial data. It
// never aborts a build.
type ResolutionWarning struct {
	Slug      string
	Reference string
	Missing   []string
}

func (w ResolutionWarning) String() string {
	return fmt.Sprintf("%s: image %q missing %s", w.Slug, w.Reference, strings.Join(w.Missing, ", "))
}
