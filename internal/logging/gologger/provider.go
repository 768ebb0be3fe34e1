// Package gologger backs the contentlayer loggers with go-logger.
package gologger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-contentlayer/internal/logging"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// Config mirrors the -log-level and -log-format flags of the CLI.
type Config struct {
	Level  string
	Format string
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

var formats = map[string]func() glog.Option{
	"":        glog.WithLoggerTypeConsole,
	"console": glog.WithLoggerTypeConsole,
	"json":    glog.WithLoggerTypeJSON,
	"pretty":  glog.WithLoggerTypePretty,
}

// Provider hands out go-logger children named after the build modules.
type Provider struct {
	root *glog.BaseLogger
}

// NewProvider builds the root logger. An empty level keeps go-logger's
// default and an empty format selects console output.
func NewProvider(cfg Config) (*Provider, error) {
	format, ok := formats[strings.ToLower(strings.TrimSpace(cfg.Format))]
	if !ok {
		return nil, fmt.Errorf("gologger: unsupported format %q", cfg.Format)
	}
	options := []glog.Option{format()}

	if name := strings.ToLower(strings.TrimSpace(cfg.Level)); name != "" {
		level, ok := levels[name]
		if !ok {
			return nil, fmt.Errorf("gologger: unsupported level %q", cfg.Level)
		}
		options = append(options, glog.WithLevel(level))
	}

	return &Provider{root: glog.NewLogger(options...)}, nil
}

// GetLogger returns the logger for a module such as "contentlayer.images".
func (p *Provider) GetLogger(name string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	if name = strings.TrimSpace(name); name == "" {
		return &moduleLogger{inner: p.root}
	}
	return &moduleLogger{inner: p.root.GetLogger(name)}
}

type moduleLogger struct {
	inner glog.Logger
}

func (l *moduleLogger) Trace(msg string, args ...any) { l.inner.Trace(msg, args...) }
func (l *moduleLogger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }
func (l *moduleLogger) Info(msg string, args ...any)  { l.inner.Info(msg, args...) }
func (l *moduleLogger) Warn(msg string, args ...any)  { l.inner.Warn(msg, args...) }
func (l *moduleLogger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }
func (l *moduleLogger) Fatal(msg string, args ...any) { l.inner.Fatal(msg, args...) }

// WithFields attaches document and image fields such as slug or reference.
func (l *moduleLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	if with, ok := l.inner.(glog.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		for k, v := range fields {
			copied[k] = v
		}
		return &moduleLogger{inner: with.WithFields(copied)}
	}
	if with, ok := l.inner.(interface{ With(...any) *glog.BaseLogger }); ok {
		return &moduleLogger{inner: with.With(sortedArgs(fields)...)}
	}
	return l
}

func (l *moduleLogger) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return &moduleLogger{inner: l.inner.WithContext(ctx)}
}

func sortedArgs(fields map[string]any) []any {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}
