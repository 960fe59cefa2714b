// core/accession/entry.go
package accession

import "strings"

// EntryID reduces a polymer-entity identifier like "1ABC_2" to its entry-level
// identifier "1ABC". Identifiers without an entity suffix pass through.
func EntryID(entity string) string {
	if i := strings.IndexByte(entity, '_'); i >= 0 {
		return entity[:i]
	}
	return entity
}

// CollapseEntities maps entity-level identifiers down to unique entry-level
// identifiers, preserving first-seen order.
func CollapseEntities(entities []string) []string {
	seen := make(map[string]struct{}, len(entities))
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		id := EntryID(e)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
