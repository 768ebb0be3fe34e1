package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "contentlayer.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ImagesLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != imagesModule {
		t.Fatalf("expected module %s, got %v", imagesModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != imagesModule {
		t.Fatalf("expected module field %s, got %v", imagesModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestWithDocumentContextSkipsBlankValues(t *testing.T) {
	rec := &recordingLogger{}

	WithDocumentContext(rec, "hello-world", "  ")

	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	if rec.fields[0][fieldSlug] != "hello-world" {
		t.Fatalf("slug mismatch, got %v", rec.fields[0][fieldSlug])
	}
	if _, ok := rec.fields[0][fieldPath]; ok {
		t.Fatalf("expected blank path to be skipped, got %v", rec.fields[0])
	}
}

func TestWithImageReferenceIgnoresEmpty(t *testing.T) {
	rec := &recordingLogger{}
	if got := WithImageReference(rec, ""); got != rec {
		t.Fatalf("expected logger to be returned unchanged")
	}
	if len(rec.fields) != 0 {
		t.Fatalf("expected no fields, got %v", rec.fields)
	}
}
