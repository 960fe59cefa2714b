// internal/source/source.go
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"seqfetch/internal/httpcall"
)

// Query names one domain/family search.
type Query struct {
	Domain     string // source-specific family code, e.g. PF00017 or cd00184
	OrganismID int    // NCBI taxonomy ID; 0 = no organism filter
	MaxResults int    // cap on collected accessions; 0 = unbounded
}

// Source is the capability contract every database adapter implements. The
// orchestrator and entry point depend only on this interface.
type Source interface {
	Name() string
	// SearchAccessions follows the source's native pagination/mapping protocol
	// until it runs out of pages or MaxResults accessions are collected. Zero
	// accessions after an error-free search is a *NoHitsError.
	SearchAccessions(ctx context.Context, q Query) ([]string, error)
	// FetchFASTA resolves one accession to cleaned FASTA text.
	FetchFASTA(ctx context.Context, accession string) (string, error)
}

// Config is the per-run wiring shared by all adapters. The tool/email/api_key
// etiquette metadata raises the allowed request rate on sources that honor it;
// it never changes query semantics.
type Config struct {
	Client *httpcall.Client
	Tool   string
	Email  string
	APIKey string
}

// Constructor builds a Source bound to a run's configuration.
type Constructor func(Config) Source

var registry = map[string]Constructor{
	"uniprot": NewUniProt,
	"ncbi":    NewNCBI,
	"pdb":     NewPDB,
}

// ErrUnknownSource classifies a source name with no registered constructor.
var ErrUnknownSource = errors.New("unknown source")

// Register adds a named constructor; built-ins are registered at init.
func Register(name string, fn Constructor) { registry[name] = fn }

// New resolves name to an adapter instance. There is no fallback adapter.
func New(name string, cfg Config) (Source, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownSource, name, strings.Join(Names(), ", "))
	}
	return fn(cfg), nil
}

// Names lists registered source names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
