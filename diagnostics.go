package vogprep

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Diagnostics is the operator-visible event stream for one run. Every
// dropped record, malformed record, merge conflict, and unresolved
// identifier is written as one tab-separated row as it happens, so no
// fault is ever silently swallowed. The stream is also how the gap-filler
// finds the identifiers a tagging run could not place.
type Diagnostics struct {
	w *bufio.Writer

	DroppedCount    int
	MalformedCount  int
	ConflictCount   int
	UnresolvedCount int
	FilledCount     int
	FailedCount     int
}

// NewDiagnostics wraps w as a diagnostics stream. A nil writer discards
// events but still counts them.
func NewDiagnostics(w io.Writer) *Diagnostics {
	if w == nil {
		w = io.Discard
	}
	return &Diagnostics{w: bufio.NewWriter(w)}
}

func (d *Diagnostics) row(fields ...string) {
	fmt.Fprintln(d.w, strings.Join(fields, "\t"))
}

// Dropped records a sequence or profile excluded from the tagged output
// because it resolves to no group.
func (d *Diagnostics) Dropped(ns Namespace, rawID string) {
	d.DroppedCount++
	d.row("DROPPED", ns.String(), rawID)
}

// Malformed records a record that could not be parsed and was skipped.
func (d *Diagnostics) Malformed(ns Namespace, detail string) {
	d.MalformedCount++
	d.row("MALFORMED", ns.String(), detail)
}

// Conflict records a group that retained divergent profile variants
// during consolidation.
func (d *Diagnostics) Conflict(ns Namespace, group string, variants int) {
	d.ConflictCount++
	d.row("CONFLICT", ns.String(), group, fmt.Sprintf("%d variants", variants))
}

// Unresolved records an identifier that remains without a description
// after the external lookup.
func (d *Diagnostics) Unresolved(ns Namespace, rawID string) {
	d.UnresolvedCount++
	d.row("UNRESOLVED", ns.String(), rawID)
}

// Filled records a description recovered from the external database.
func (d *Diagnostics) Filled(ns Namespace, rawID, desc string) {
	d.FilledCount++
	d.row("FILLED", ns.String(), rawID, desc)
}

// LookupFailed records an external lookup error. The identifier is
// treated as a miss; the failure itself is still surfaced here.
func (d *Diagnostics) LookupFailed(ns Namespace, rawID string, err error) {
	d.FailedCount++
	d.row("LOOKUP-FAILED", ns.String(), rawID, err.Error())
}

// Flush forces buffered rows out to the underlying writer.
func (d *Diagnostics) Flush() error {
	return d.w.Flush()
}

// ReadDroppedIDs scans a diagnostics stream written by a previous tagging
// run and returns the raw identifiers of its DROPPED rows for the given
// namespace, in file order. This is the input set for gap filling.
func ReadDroppedIDs(r io.Reader, ns Namespace) ([]string, error) {
	var ids []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	for scanner.Scan() {
		fields := strings.Split(strings.TrimRight(scanner.Text(), "\r"), "\t")
		if len(fields) < 3 || fields[0] != "DROPPED" {
			continue
		}
		if fields[1] != ns.String() {
			continue
		}
		ids = append(ids, fields[2])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("Error reading diagnostics: %s", err)
	}
	return ids, nil
}
