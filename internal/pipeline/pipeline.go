// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"seqfetch/internal/httpcall"
	"seqfetch/internal/source"
)

// ProgressFunc reports per-accession fetch progress: (done, total).
type ProgressFunc func(done, total int)

// Config controls one batch retrieval run.
type Config struct {
	MaxResults int           // cap on fetched accessions; 0 = unbounded
	Pause      time.Duration // flat delay between successive fetches
	Progress   ProgressFunc  // optional observer
	Log        zerolog.Logger

	Sleep func(context.Context, time.Duration) error // nil = real clock
}

// Sequence is one fetched, cleaned FASTA block. Entry-level sources may pack
// several chain records into a single block.
type Sequence struct {
	Accession string
	FASTA     string
}

// FetchDomain drives a source adapter: search once, then fetch each accession
// in discovery order with a flat pause between fetches (never before the
// first). Any single fetch failure aborts the whole batch; there is no
// skip-and-continue mode.
func FetchDomain(ctx context.Context, src source.Source, q source.Query, cfg Config) ([]Sequence, error) {
	accs, err := src.SearchAccessions(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(accs) == 0 {
		return nil, &source.NoHitsError{Source: src.Name(), Stage: "search", Domain: q.Domain, OrganismID: q.OrganismID}
	}
	if cfg.MaxResults > 0 && len(accs) > cfg.MaxResults {
		accs = accs[:cfg.MaxResults]
	}
	cfg.Log.Info().
		Str("source", src.Name()).
		Str("domain", q.Domain).
		Int("accessions", len(accs)).
		Msg("search complete")

	sleep := cfg.Sleep
	if sleep == nil {
		sleep = httpcall.Sleep
	}

	out := make([]Sequence, 0, len(accs))
	for i, acc := range accs {
		if i > 0 && cfg.Pause > 0 {
			if err := sleep(ctx, cfg.Pause); err != nil {
				return nil, err
			}
		}
		txt, err := src.FetchFASTA(ctx, acc)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", acc, err)
		}
		out = append(out, Sequence{Accession: acc, FASTA: txt})
		cfg.Log.Debug().Str("accession", acc).Int("done", i+1).Int("total", len(accs)).Msg("fetched")
		if cfg.Progress != nil {
			cfg.Progress(i+1, len(accs))
		}
	}
	return out, nil
}
