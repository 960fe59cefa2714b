// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"seqfetch/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Query
	Source   string
	Domain   string
	Organism int

	// Tuning
	Max     int
	Retries int
	Pause   float64 // seconds between fetches
	Config  string

	// Output
	Out            string
	NoHitsExitCode int

	// Misc
	Quiet   bool
	Version bool
}

// Flags the user set explicitly; used so a config file can supply defaults
// without shadowing an explicit flag.
type SetFlags map[string]bool

// NewFlagSet returns a configured FlagSet with sectioned usage text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() { usage(fs.Output(), name, fs) }
	return fs
}

func usage(out io.Writer, name string, fs *flag.FlagSet) {
	def := func(flagName string) string {
		if f := fs.Lookup(flagName); f != nil {
			return f.DefValue
		}
		return ""
	}
	fmt.Fprintf(out, "%s – bulk protein FASTA retrieval\n\n", name)
	fmt.Fprintf(out, "Version: %s\n\n", version.Version)
	fmt.Fprintf(out, "Usage:\n  %s -s uniprot -d PF00017 --organism 9606 -o src_kinases.fasta -n 50\n", name)

	fmt.Fprintln(out, "\nQuery:")
	fmt.Fprintln(out, "  -s, --source string         database: uniprot | ncbi | pdb | all [*]")
	fmt.Fprintln(out, "  -d, --domain string         domain/family code, e.g. PF00017 or cd00184 [*]")
	fmt.Fprintln(out, "      --organism int          NCBI taxonomy ID filter (0 = none)")

	fmt.Fprintln(out, "\nTuning:")
	fmt.Fprintf(out, "  -n, --max int               max records to retrieve (0 = unbounded) [%s]\n", def("max"))
	fmt.Fprintf(out, "      --retries int           backoff attempt cap on rate limiting [%s]\n", def("retries"))
	fmt.Fprintf(out, "      --pause float           seconds between successive fetches [%s]\n", def("pause"))
	fmt.Fprintln(out, "      --config file           YAML etiquette file (tool/email/api_key, tuning defaults)")

	fmt.Fprintln(out, "\nOutput:")
	fmt.Fprintln(out, "  -o, --out file              output FASTA file; must not already exist [*]")
	fmt.Fprintf(out, "      --no-hits-exit-code int exit code when a search yields zero hits [%s]\n", def("no-hits-exit-code"))

	fmt.Fprintln(out, "\nMiscellaneous:")
	fmt.Fprintln(out, "  -q, --quiet                 suppress non-essential logging")
	fmt.Fprintln(out, "  -v, --version               print version and exit")
	fmt.Fprintln(out, "  -h, --help                  show this help and exit")
}

// ParseArgs registers and parses all flags, returning Options plus the set of
// explicitly provided flag names.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, SetFlags, error) {
	var opt Options
	var help bool

	fs.StringVar(&opt.Source, "source", "", "database: uniprot | ncbi | pdb | all [*]")
	fs.StringVar(&opt.Source, "s", "", "alias of --source")
	fs.StringVar(&opt.Domain, "domain", "", "domain/family code [*]")
	fs.StringVar(&opt.Domain, "d", "", "alias of --domain")
	fs.IntVar(&opt.Organism, "organism", 0, "NCBI taxonomy ID filter (0 = none) [0]")

	fs.IntVar(&opt.Max, "max", 0, "max records to retrieve (0 = unbounded) [0]")
	fs.IntVar(&opt.Max, "n", 0, "alias of --max")
	fs.IntVar(&opt.Retries, "retries", 4, "backoff attempt cap on rate limiting [4]")
	fs.Float64Var(&opt.Pause, "pause", 0.4, "seconds between successive fetches [0.4]")
	fs.StringVar(&opt.Config, "config", "", "YAML etiquette file")

	fs.StringVar(&opt.Out, "out", "", "output FASTA file; must not already exist [*]")
	fs.StringVar(&opt.Out, "o", "", "alias of --out")
	fs.IntVar(&opt.NoHitsExitCode, "no-hits-exit-code", 1, "exit code when a search yields zero hits [1]")

	fs.BoolVar(&opt.Quiet, "quiet", false, "suppress non-essential logging [false]")
	fs.BoolVar(&opt.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	if err := fs.Parse(argv); err != nil {
		return opt, nil, err
	}
	if help {
		fs.Usage()
		return opt, nil, flag.ErrHelp
	}
	set := SetFlags{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if opt.Version {
		return opt, set, nil
	}

	// Validation
	if opt.Source == "" {
		return opt, set, errors.New("--source is required")
	}
	if opt.Domain == "" {
		return opt, set, errors.New("--domain is required")
	}
	if opt.Out == "" {
		return opt, set, errors.New("--out is required")
	}
	if opt.Organism < 0 {
		return opt, set, errors.New("--organism must be ≥ 0")
	}
	if opt.Max < 0 {
		return opt, set, errors.New("--max must be ≥ 0")
	}
	if opt.Retries < 0 {
		return opt, set, errors.New("--retries must be ≥ 0")
	}
	if opt.Pause < 0 {
		return opt, set, errors.New("--pause must be ≥ 0")
	}
	if opt.NoHitsExitCode < 0 || opt.NoHitsExitCode > 255 {
		return opt, set, errors.New("--no-hits-exit-code must be between 0 and 255")
	}
	return opt, set, nil
}
