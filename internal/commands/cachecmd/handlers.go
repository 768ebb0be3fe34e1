package cachecmd

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-contentlayer/internal/commands"
	"github.com/goliatone/go-contentlayer/internal/logging"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

const clearOperation = "cache.clear"

// ErrCacheUnavailable is returned when caching is disabled.
var ErrCacheUnavailable = errors.New("cache command: cache not configured")

var _ command.Commander[CacheClearCommand] = (*ClearHandler)(nil)

// ClearHandler executes CacheClearCommand.
type ClearHandler struct {
	inner *commands.Handler[CacheClearCommand]
}

// NewClearHandler binds a handler to store.
func NewClearHandler(store interfaces.ImageCacheAdmin, logger interfaces.Logger, opts ...commands.HandlerOption[CacheClearCommand]) *ClearHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg CacheClearCommand) error {
		if store == nil {
			return ErrCacheUnavailable
		}
		if msg.All {
			if err := store.Clear(ctx); err != nil {
				return err
			}
			baseLogger.Info("cache.command.cleared")
			return nil
		}
		key := strings.TrimSpace(msg.Key)
		if err := store.Delete(ctx, key); err != nil {
			return err
		}
		logging.WithImageReference(baseLogger, key).Info("cache.command.deleted")
		return nil
	}

	handlerOpts := []commands.HandlerOption[CacheClearCommand]{
		commands.WithLogger[CacheClearCommand](baseLogger),
		commands.WithOperation[CacheClearCommand](clearOperation),
		commands.WithMessageFields(func(msg CacheClearCommand) map[string]any {
			if msg.All {
				return map[string]any{"all": true}
			}
			return map[string]any{"reference": msg.Key}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ClearHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[CacheClearCommand].
func (h *ClearHandler) Execute(ctx context.Context, msg CacheClearCommand) error {
	return h.inner.Execute(ctx, msg)
}
