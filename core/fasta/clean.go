// core/fasta/clean.go
package fasta

import (
	"fmt"
	"strings"
)

// Record is one FASTA record with its sequence lines already joined.
type Record struct {
	Header string // header text without the leading '>', verbatim
	Seq    string // contiguous residues, alignment gaps removed
}

// Parse splits raw FASTA text into records. Sequence lines are joined and '-'
// gap characters dropped; header text is kept verbatim. It fails on text that
// does not decompose into header+sequence (no header, or a header with no
// sequence lines) rather than guessing.
func Parse(raw string) ([]Record, error) {
	var (
		recs []Record
		cur  *Record
		seq  strings.Builder
	)
	flush := func() error {
		if cur == nil {
			return nil
		}
		if seq.Len() == 0 {
			return fmt.Errorf("fasta: record %q has no sequence lines", cur.Header)
		}
		cur.Seq = seq.String()
		recs = append(recs, *cur)
		cur = nil
		seq.Reset()
		return nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			cur = &Record{Header: line[1:]}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("fasta: sequence data before any header: %q", truncate(line, 40))
		}
		seq.WriteString(strings.ReplaceAll(strings.TrimSpace(line), "-", ""))
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("fasta: no records found")
	}
	return recs, nil
}

// Clean normalizes raw FASTA text: each record becomes one header line plus one
// unwrapped sequence line with gap characters removed. Idempotent.
func Clean(raw string) (string, error) {
	recs, err := Parse(raw)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, r := range recs {
		b.WriteByte('>')
		b.WriteString(r.Header)
		b.WriteByte('\n')
		b.WriteString(r.Seq)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
