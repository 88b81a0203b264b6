package vogprep

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// A Lookup resolves a raw sequence identifier to a description in some
// external sequence database. Implementations may be backed by a local
// index or by a network service; retries and timeouts belong to the
// implementation, not to Fill.
type Lookup interface {
	Lookup(rawID string) (desc string, ok bool, err error)
}

// LookupFunc adapts a plain function to the Lookup interface.
type LookupFunc func(rawID string) (string, bool, error)

func (f LookupFunc) Lookup(rawID string) (string, bool, error) {
	return f(rawID)
}

// A TableLookup is a Lookup backed by an "accession<TAB>defline" index of
// a large external sequence database.
type TableLookup struct {
	descs map[string]string
}

// ReadTableLookup loads an accession-to-defline index. Lines with no tab
// are malformed and rejected; the index is expected to be
// machine-generated.
func ReadTableLookup(r io.Reader) (*TableLookup, error) {
	tbl := &TableLookup{descs: make(map[string]string, 10000)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) == 0 {
			continue
		}
		i := strings.IndexByte(line, '\t')
		if i < 0 {
			return nil, fmt.Errorf(
				"Malformed lookup index line %d: no tab separator.", lineno)
		}
		tbl.descs[line[:i]] = strings.TrimSpace(line[i+1:])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("Error reading lookup index: %s", err)
	}
	return tbl, nil
}

func (tbl *TableLookup) Lookup(rawID string) (string, bool, error) {
	desc, ok := tbl.descs[rawID]
	return desc, ok, nil
}

// A FillResult reports the outcome of one gap-filling pass.
type FillResult struct {
	// Descriptions maps each recovered identifier to the description
	// found in the external database.
	Descriptions map[string]string

	// Unresolved lists, in ascending order, the identifiers that remain
	// permanently unresolved after the external lookup.
	Unresolved []string

	// Failures counts lookups that errored. A failed lookup is treated
	// the same as a miss for that identifier.
	Failures int
}

// Fill queries the external lookup for every identifier the primary
// tagging pass could not map to any group. A hit records the description;
// a miss leaves the identifier permanently unresolved, logged to diag
// rather than silently forgotten. Gap filling never invents group
// membership: it only recovers a description for otherwise-orphaned
// sequences that downstream tooling may still want to report on.
//
// Identifiers are deduplicated and queried in ascending order, so a rerun
// over the same inputs produces the same result and the same diagnostics.
func Fill(ns Namespace, unresolved []string, lookup Lookup, diag *Diagnostics) (FillResult, error) {
	ids := make([]string, 0, len(unresolved))
	seen := make(map[string]bool, len(unresolved))
	for _, id := range unresolved {
		if len(id) == 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	sort.Strings(ids)

	res := FillResult{Descriptions: make(map[string]string, len(ids))}
	for _, id := range ids {
		desc, ok, err := lookup.Lookup(id)
		if err != nil {
			res.Failures++
			diag.LookupFailed(ns, id, err)
			ok = false
		}
		if !ok {
			res.Unresolved = append(res.Unresolved, id)
			diag.Unresolved(ns, id)
			continue
		}
		res.Descriptions[id] = desc
		diag.Filled(ns, id, desc)
	}
	return res, nil
}
