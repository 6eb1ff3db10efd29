package main

import (
	"context"
	"encoding/json"
	"fmt"
)

// artifactJSON is the --json output of the generate command.
type artifactJSON struct {
	Date     string `json:"date"`
	File     string `json:"file"`
	Path     string `json:"path"`
	Document string `json:"document"`
	URL      string `json:"url"`
}

// runGenerateCmd runs the pipeline once for a submission given as flags.
func runGenerateCmd(args []string, env *Environment) error {
	f, err := parseGenerateFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(f.common, f.runtime, "")
	if err != nil {
		return err
	}

	// The CLI reports on stdout; the log file still records the run.
	if !f.common.verbose {
		f.common.quiet = true
	}
	log, closeLog, err := newLogger(cfg.Log, f.common, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	svc := newService(cfg, log, env.now)
	defer func() { _ = svc.Close() }()

	ctx, stop := env.notify(context.Background())
	defer stop()

	art, err := svc.Generate(ctx, f.submission.submission())
	if err != nil {
		return withHint(err, cfg)
	}

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(artifactJSON{
			Date:     art.Date,
			File:     art.FileName,
			Path:     art.Path,
			Document: art.DocumentPath,
			URL:      art.URL,
		})
	}
	fmt.Fprintf(env.Stdout, "%s\n", art.Path)
	fmt.Fprintf(env.Stdout, "url: %s\n", art.URL)
	return nil
}
