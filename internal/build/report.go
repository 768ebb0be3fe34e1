package build

import (
	"time"

	"github.com/goliatone/go-contentlayer/internal/cache"
	"github.com/goliatone/go-contentlayer/pkg/interfaces"
)

// Report summarises a finished build.
type Report struct {
	BuildID   string
	StartedAt time.Time
	Duration  time.Duration
	Documents int
	Slugs     []string
	Warnings  []interfaces.ResolutionWarning
	Cache     cache.Stats
	Files     []string
	DryRun    bool
}

// WarningStrings renders warnings for logs and the manifest.
func (r *Report) WarningStrings() []string {
	if r == nil || len(r.Warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.Warnings))
	for _, warning := range r.Warnings {
		out = append(out, warning.String())
	}
	return out
}
