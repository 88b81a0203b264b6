package vogprep

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// A MembershipTable maps each raw sequence or profile identifier to the
// set of group identifiers it belongs to, within one namespace. A table
// is built once per run from the cross-reference source file and is
// read-only afterward, so lookups are deterministic for the lifetime of
// the run.
type MembershipTable struct {
	NS       Namespace
	groups   map[string]map[string]bool
	groupSet map[string]bool
}

// ReadMembers parses a cross-reference table. The first tab-separated
// field of each line is the group identifier and the last field is a
// comma-separated list of raw member identifiers; columns in between are
// ignored. This is the layout of the published vog.members.tsv file, and
// a plain two-column "group<TAB>member,member,..." file parses the same
// way. Duplicate associations are unioned, so reprocessing a source file
// never inflates group membership.
func ReadMembers(r io.Reader, ns Namespace) (*MembershipTable, error) {
	tbl := &MembershipTable{
		NS:       ns,
		groups:   make(map[string]map[string]bool, 10000),
		groupSet: make(map[string]bool, 10000),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<24)
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
				"Malformed cross-reference line %d: expected at least 2 "+
					"tab-separated fields, found %d.", lineno, len(fields))
		}
		group := strings.TrimSpace(fields[0])
		if len(group) == 0 {
			return nil, fmt.Errorf(
				"Malformed cross-reference line %d: empty group "+
					"identifier.", lineno)
		}
		for _, member := range strings.Split(fields[len(fields)-1], ",") {
			member = strings.TrimSpace(member)
			if len(member) == 0 {
				continue
			}
			tbl.add(member, group)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("Error reading cross-reference table: %s", err)
	}
	return tbl, nil
}

func (tbl *MembershipTable) add(rawID, group string) {
	set, ok := tbl.groups[rawID]
	if !ok {
		set = make(map[string]bool, 1)
		tbl.groups[rawID] = set
	}
	set[group] = true
	tbl.groupSet[group] = true
}

// Resolve returns the groups rawID belongs to, in ascending order by
// group identifier. The match is exact and case-sensitive; no
// normalization is applied. An identifier absent from the table yields an
// empty set, never an error; the caller decides what to do with an
// unmapped record.
func (tbl *MembershipTable) Resolve(rawID string) []GroupID {
	set := tbl.groups[rawID]
	if len(set) == 0 {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make([]GroupID, len(ids))
	for i, id := range ids {
		groups[i] = GroupID{NS: tbl.NS, ID: id}
	}
	return groups
}

// ResolveIn resolves rawID after checking that the caller's namespace
// matches the table's. A mismatch returns a NamespaceError, which must
// abort the run.
func (tbl *MembershipTable) ResolveIn(ns Namespace, rawID string) ([]GroupID, error) {
	if ns != tbl.NS {
		return nil, &NamespaceError{Table: tbl.NS, Asked: ns, ID: rawID}
	}
	return tbl.Resolve(rawID), nil
}

// HasGroup reports whether any member of the table belongs to the given
// group identifier string.
func (tbl *MembershipTable) HasGroup(id string) bool {
	return tbl.groupSet[id]
}

// Len returns the number of raw identifiers in the table.
func (tbl *MembershipTable) Len() int {
	return len(tbl.groups)
}
