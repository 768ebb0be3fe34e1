package buildcmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-contentlayer/internal/build"
	"github.com/goliatone/go-contentlayer/internal/commands"
	"github.com/goliatone/go-contentlayer/internal/logging"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

const buildOperation = "build.run"

var _ command.Commander[BuildCommand] = (*BuildHandler)(nil)

// Builder runs a build. *build.Service satisfies it.
type Builder interface {
	Build(ctx context.Context, opts build.Options) (*build.Report, error)
}

// ReportFunc receives the report of a successful build.
type ReportFunc func(*build.Report)

// BuildHandler executes BuildCommand through the shared command handler.
type BuildHandler struct {
	inner *commands.Handler[BuildCommand]
}

// NewBuildHandler binds a handler to builder. onReport may be nil.
func NewBuildHandler(builder Builder, logger interfaces.Logger, onReport ReportFunc, opts ...commands.HandlerOption[BuildCommand]) *BuildHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg BuildCommand) error {
		report, err := builder.Build(ctx, build.Options{DryRun: msg.DryRun, BuildID: msg.BuildID})
		if err != nil {
			return err
		}
		for _, warning := range report.Warnings {
			logging.WithFields(baseLogger, map[string]any{
				"slug":      warning.Slug,
				"reference": warning.Reference,
			}).Warn("build.command.image_incomplete", "missing", warning.Missing)
		}
		logging.WithFields(baseLogger, map[string]any{
			"build_id":  report.BuildID,
			"documents": report.Documents,
			"warnings":  len(report.Warnings),
			"files":     len(report.Files),
			"dry_run":   report.DryRun,
		}).Info("build.command.completed")
		if onReport != nil {
			onReport(report)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildCommand]{
		commands.WithLogger[BuildCommand](baseLogger),
		commands.WithOperation[BuildCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildCommand) map[string]any {
			fields := map[string]any{}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			if msg.BuildID != "" {
				fields["build_id"] = msg.BuildID
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[BuildCommand].
func (h *BuildHandler) Execute(ctx context.Context, msg BuildCommand) error {
	return h.inner.Execute(ctx, msg)
}
