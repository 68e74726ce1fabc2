package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Austrian-Baroque-Corpus/abc-data/core/errors"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/config"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/corpus"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/fetch"
	"github.com/Austrian-Baroque-Corpus/abc-data/internal/redirect"
)

// RedirectsGroup contains redirect-table operations.
type RedirectsGroup struct {
	Generate GenerateCmd `cmd:"" help:"Generate the old-to-new URL redirect table"`
}

// GenerateCmd generates a redirect table for the whole collection.
type GenerateCmd struct {
	PathToDocs string `name:"path-to-docs" help:"Edition documents directory or snapshot archive" type:"path"`
	Glob       string `help:"File name pattern for edition documents"`
	OutputMode string `name:"output-mode" help:"Table flavor (concOutput|ruleOutput)"`
	BaseURLOld string `name:"base-url-old" help:"URL prefix of the legacy site"`
	BaseURLNew string `name:"base-url-new" help:"URL prefix of the relaunched site"`
	Debug      bool   `help:"Append diagnostic columns to concOutput rows"`
	TocDir     string `name:"toc-dir" help:"Directory of per-work table-of-contents documents" type:"path"`
	Out        string `help:"Output file (default stdout)" type:"path"`
}

func (c *GenerateCmd) Run(cfg *config.Config) error {
	mode, err := redirect.ParseMode(orConfig(c.OutputMode, cfg.Redirect.OutputMode))
	if err != nil {
		return err
	}
	baseOld := orConfig(c.BaseURLOld, cfg.Redirect.BaseURLOld)
	baseNew := orConfig(c.BaseURLNew, cfg.Redirect.BaseURLNew)
	if baseOld == "" {
		return errors.NewValidation("base-url-old", "required (flag or config file)")
	}
	if baseNew == "" {
		return errors.NewValidation("base-url-new", "required (flag or config file)")
	}

	col, err := corpus.Load(
		orConfig(c.PathToDocs, cfg.Corpus.PathToDocs),
		orConfig(c.Glob, cfg.Corpus.Glob),
	)
	if err != nil {
		return err
	}

	opts := redirect.Options{
		Mode:       mode,
		BaseURLOld: baseOld,
		BaseURLNew: baseNew,
		Debug:      c.Debug || cfg.Redirect.Debug,
		TocDir:     orConfig(c.TocDir, cfg.Corpus.TocDir),
	}
	if opts.Debug && mode == redirect.ModeConc {
		opts.Fetcher = fetch.New(fetch.Options{
			Timeout:         time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
			RequestInterval: time.Duration(cfg.Fetch.RateLimitMillis) * time.Millisecond,
			CacheTTL:        time.Duration(cfg.Fetch.CacheTTLSeconds) * time.Second,
			UserAgent:       cfg.Fetch.UserAgent,
		})
	}

	gen := redirect.NewGenerator(opts)
	if c.Out == "" {
		return gen.Write(os.Stdout, col)
	}

	f, err := os.Create(c.Out)
	if err != nil {
		return errors.NewIO("create", c.Out, err)
	}
	if err := gen.Write(f, col); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.NewIO("close", c.Out, err)
	}

	fmt.Printf("Created: %s\n", c.Out)
	fmt.Printf("  Editions: %d\n", len(col.Editions))
	fmt.Printf("  Anchors:  %d\n", col.Anchors())
	return nil
}
