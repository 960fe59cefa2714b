// internal/app/app.go
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"seqfetch/internal/cli"
	"seqfetch/internal/config"
	"seqfetch/internal/httpcall"
	"seqfetch/internal/pipeline"
	"seqfetch/internal/source"
	"seqfetch/internal/version"
	"seqfetch/internal/writers"
)

// RunContext parses argv and runs one retrieval pipeline per requested source.
// Exit codes: 0 success, --no-hits-exit-code (default 1) on zero hits, 2 for
// usage/precondition/config errors, 3 for runtime failures, 130 on cancel.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	fs := cli.NewFlagSet("seqfetch")
	fs.SetOutput(io.Discard)

	opts, set, err := cli.ParseArgs(fs, argv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(stdout)
			fs.Usage()
			return 0
		}
		_, _ = fmt.Fprintln(stderr, err)
		fs.SetOutput(stderr)
		fs.Usage()
		return 2
	}
	if opts.Version {
		_, _ = fmt.Fprintf(stdout, "seqfetch version %s\n", version.Version)
		return 0
	}

	level := zerolog.InfoLevel
	if opts.Quiet {
		level = zerolog.WarnLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}).
		Level(level).With().Timestamp().Logger()

	var etiq config.File
	if opts.Config != "" {
		etiq, err = config.Load(opts.Config)
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}
	}
	// Config file supplies tuning defaults; explicit flags win.
	retries := opts.Retries
	if etiq.RetryAttempts != nil && !set["retries"] {
		retries = *etiq.RetryAttempts
	}
	pause := time.Duration(opts.Pause * float64(time.Second))
	if etiq.PauseSeconds != nil && !set["pause"] {
		pause = time.Duration(*etiq.PauseSeconds * float64(time.Second))
	}

	names := []string{opts.Source}
	if opts.Source == "all" {
		names = source.Names()
	}

	for _, name := range names {
		src, err := source.New(name, source.Config{
			Client: httpcall.New(retries, log),
			Tool:   etiq.Tool,
			Email:  etiq.Email,
			APIKey: etiq.APIKey,
		})
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 2
		}

		sink := sinkFor(opts.Out, name, len(names) > 1)
		// Precondition: refuse before any network activity.
		if writers.Exists(sink) {
			_, _ = fmt.Fprintf(stderr, "output %s already exists; refusing to overwrite\n", sink)
			return 2
		}

		seqs, err := pipeline.FetchDomain(parent, src, source.Query{
			Domain:     opts.Domain,
			OrganismID: opts.Organism,
			MaxResults: opts.Max,
		}, pipeline.Config{
			MaxResults: opts.Max,
			Pause:      pause,
			Log:        log,
			Progress: func(done, total int) {
				log.Info().Str("source", name).Int("done", done).Int("total", total).Msg("fetch progress")
			},
		})
		if err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			var nh *source.NoHitsError
			switch {
			case errors.As(err, &nh):
				return opts.NoHitsExitCode
			case errors.Is(err, context.Canceled):
				return 130
			default:
				return 3
			}
		}

		if err := writers.WriteFile(sink, seqs); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 3
		}
		log.Info().Str("source", name).Str("sink", sink).Int("records", len(seqs)).Msg("wrote sink")
	}
	return 0
}

// sinkFor derives a per-source sink name when running multiple sources:
// kinases.fasta → kinases_uniprot.fasta.
func sinkFor(out, name string, multi bool) string {
	if !multi {
		return out
	}
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "_" + name + ext
}

// Run is the background-context convenience wrapper.
func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
