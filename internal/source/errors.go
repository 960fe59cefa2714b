// internal/source/errors.go
package source

import "fmt"

// NoHitsError reports a search/mapping pipeline that completed without
// transport failure but yielded zero identifiers at some stage. Distinct from
// a transport error so callers can tell data sparsity from a client bug.
type NoHitsError struct {
	Source     string
	Stage      string // which stage came up empty, e.g. "search" or "link"
	Domain     string
	OrganismID int
}

func (e *NoHitsError) Error() string {
	msg := fmt.Sprintf("%s: no hits at %s stage for domain %q", e.Source, e.Stage, e.Domain)
	if e.OrganismID > 0 {
		msg += fmt.Sprintf(" (organism %d)", e.OrganismID)
	}
	return msg
}
