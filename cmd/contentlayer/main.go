package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	contentlayer "github.com/goliatone/go-contentlayer"
)

var moduleBuilder = func(ctx context.Context, cfg contentlayer.Config, opts ...contentlayer.Option) (*contentlayer.Module, error) {
	return contentlayer.New(ctx, cfg, opts...)
}

const usage = `usage: contentlayer [flags] <command> [args]

commands:
  build            parse, transform and resolve every document, then write generated output
  cache list       list cached image references
  cache clear KEY  remove a single cached image reference
  cache clear -all remove every cached image reference
  preview -file F  render a single document to HTML

build reads UNSPLASH_ACCESS_KEY and IMGIX_SECURE_TOKEN from the environment.
cache and preview run without them.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatalf("contentlayer: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg := contentlayer.DefaultConfig()

	fs := flag.NewFlagSet("contentlayer", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage); fs.PrintDefaults() }
	fs.StringVar(&cfg.Content.Dir, "content-dir", cfg.Content.Dir, "Directory holding the post sources")
	fs.StringVar(&cfg.Content.Pattern, "pattern", cfg.Content.Pattern, "Glob pattern selecting post files")
	fs.StringVar(&cfg.Generator.OutputDir, "out", cfg.Generator.OutputDir, "Directory receiving generated documents")
	fs.IntVar(&cfg.Generator.Workers, "workers", cfg.Generator.Workers, "Concurrent document workers (0 uses every CPU)")
	fs.StringVar(&cfg.Cache.Path, "cache", cfg.Cache.Path, "Path of the SQLite image cache")
	noCache := fs.Bool("no-cache", false, "Keep resolved images in memory only")
	fs.StringVar(&cfg.Markdown.Theme, "theme", cfg.Markdown.Theme, "Chroma style used for code blocks")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&cfg.Logging.Format, "log-format", cfg.Logging.Format, "Log format (console, json, pretty)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *noCache {
		cfg.Cache.Enabled = false
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("command is required")
	}

	var opts []contentlayer.Option
	if rest[0] != "build" {
		opts = append(opts, contentlayer.WithoutImageCredentials())
	}

	module, err := moduleBuilder(ctx, cfg, opts...)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer module.Close()

	switch rest[0] {
	case "build":
		return runBuild(ctx, module, rest[1:], stdout)
	case "cache":
		return runCache(ctx, module, rest[1:], stdout)
	case "preview":
		return runPreview(ctx, module, rest[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q", rest[0])
	}
}

func runBuild(ctx context.Context, module *contentlayer.Module, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "Process every document without writing output")
	buildID := fs.String("build-id", "", "Build identifier recorded in the manifest")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var report *contentlayer.Report
	handler := module.BuildHandler(func(r *contentlayer.Report) { report = r })
	if err := handler.Execute(ctx, contentlayer.BuildCommand{DryRun: *dryRun, BuildID: *buildID}); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "build %s: %d documents in %s\n", report.BuildID, report.Documents, report.Duration)
	fmt.Fprintf(stdout, "image cache: %d hits, %d misses, %d writes\n", report.Cache.Hits, report.Cache.Misses, report.Cache.Sets)
	for _, warning := range report.WarningStrings() {
		fmt.Fprintf(stdout, "warning: %s\n", warning)
	}
	if report.DryRun {
		fmt.Fprintln(stdout, "dry run: no files written")
	} else {
		fmt.Fprintf(stdout, "wrote %d files\n", len(report.Files))
	}
	return nil
}

func runCache(ctx context.Context, module *contentlayer.Module, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errors.New("cache: expected list or clear")
	}
	switch args[0] {
	case "list":
		keys, err := module.CacheKeys(ctx)
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintln(stdout, key)
		}
		return nil
	case "clear":
		fs := flag.NewFlagSet("cache clear", flag.ContinueOnError)
		all := fs.Bool("all", false, "Remove every cached reference")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		cmd := contentlayer.CacheClearCommand{All: *all, Key: strings.Join(fs.Args(), " ")}
		if err := module.CacheClearHandler().Execute(ctx, cmd); err != nil {
			return err
		}
		if cmd.All {
			fmt.Fprintln(stdout, "cache cleared")
		} else {
			fmt.Fprintf(stdout, "removed %s\n", cmd.Key)
		}
		return nil
	default:
		return fmt.Errorf("cache: unknown subcommand %q", args[0])
	}
}

func runPreview(ctx context.Context, module *contentlayer.Module, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	file := fs.String("file", "", "Document to preview, relative to the content directory")
	plain := fs.Bool("plain", false, "Print the plain-text extraction instead of HTML")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("preview: -file is required")
	}

	doc, body, err := module.Preview(ctx, *file)
	if err != nil {
		return err
	}

	frontmatter, err := json.MarshalIndent(doc.Frontmatter, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Path: %s\nChecksum: %x\n\nFrontmatter:\n%s\n\n", doc.FilePath, doc.Checksum, frontmatter)
	if *plain {
		fmt.Fprintf(stdout, "Plain text:\n%s\n", body.Plain)
	} else {
		fmt.Fprintf(stdout, "Rendered HTML:\n%s\n", body.HTML)
	}
	return nil
}
