package vogprep

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// An AnnotationTable maps each group identifier in one namespace to its
// curated description. It is populated once per run from the
// group-annotation reference file and read-only afterward.
type AnnotationTable struct {
	NS    Namespace
	descs map[string]string
}

// ReadAnnotations parses a group-annotation table. The first tab-separated
// field of each line is the group identifier and the last field is the
// description; any columns in between (protein counts, species counts,
// functional category) are ignored. This is the layout of the published
// vog.annotations.tsv file. Comment lines starting with '#' and the
// "#GroupName..." header line are skipped.
func ReadAnnotations(r io.Reader, ns Namespace) (*AnnotationTable, error) {
	tbl := &AnnotationTable{
		NS:    ns,
		descs: make(map[string]string, 1000),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf(
				"Malformed annotation table line %d: expected at least 2 "+
					"tab-separated fields, found %d.", lineno, len(fields))
		}
		group := strings.TrimSpace(fields[0])
		if len(group) == 0 {
			return nil, fmt.Errorf(
				"Malformed annotation table line %d: empty group "+
					"identifier.", lineno)
		}
		tbl.descs[group] = strings.TrimSpace(fields[len(fields)-1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("Error reading annotation table: %s", err)
	}
	return tbl, nil
}

// Description returns the curated description for a group, or the empty
// string when the group has no annotation. A group id from the wrong
// namespace returns a NamespaceError.
func (tbl *AnnotationTable) Description(g GroupID) (string, error) {
	if g.NS != tbl.NS {
		return "", &NamespaceError{Table: tbl.NS, Asked: g.NS, ID: g.ID}
	}
	return tbl.descs[g.ID], nil
}

// Has reports whether the table carries an annotation for the given group
// identifier string.
func (tbl *AnnotationTable) Has(id string) bool {
	_, ok := tbl.descs[id]
	return ok
}

// Len returns the number of annotated groups.
func (tbl *AnnotationTable) Len() int {
	return len(tbl.descs)
}
