package vogprep

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDropped is returned by Tag for a record that resolves to no group
// membership. It is an expected outcome, not a failure: roughly a fifth
// of the raw VOG sequences carry identifiers absent from the
// cross-reference table. Callers count and log dropped records and
// exclude them from the tagged output.
var ErrDropped = errors.New("record has no group membership")

// A TaggedRecord is the output of one Tag call: the input record, its
// resolved group set, and the composed header that replaces the original
// one. Tagged records are written immediately and not retained.
type TaggedRecord struct {
	Record SequenceRecord
	Groups []GroupID
	Header string
}

// TagStats counts the outcome of every record seen by one tagging run.
// Tagged + Dropped + Malformed always equals the number of input records.
type TagStats struct {
	Tagged    int
	Dropped   int
	Malformed int
}

// Total returns the number of records seen.
func (st TagStats) Total() int {
	return st.Tagged + st.Dropped + st.Malformed
}

// A Tagger rewrites sequence headers to embed resolved group membership.
// It performs no I/O: it is handed a record plus the run's membership and
// annotation context, and returns a result. Both tables must be fully
// built before the first Tag call and are never mutated afterward.
//
// For VOG, the composed header carries the curated group description from
// the annotation table, superseding the raw header text. For pVOG no
// group-level annotation exists, so the record's original description is
// preserved instead; the annotation table is nil.
type Tagger struct {
	NS      Namespace
	Members *MembershipTable
	Annots  *AnnotationTable
}

// NewTagger builds a tagger for one namespace. The membership table (and
// the annotation table, when given) must belong to the same namespace;
// anything else is a configuration fault.
func NewTagger(ns Namespace, members *MembershipTable, annots *AnnotationTable) (*Tagger, error) {
	if members.NS != ns {
		return nil, &NamespaceError{Table: members.NS, Asked: ns, ID: "<membership table>"}
	}
	if annots != nil && annots.NS != ns {
		return nil, &NamespaceError{Table: annots.NS, Asked: ns, ID: "<annotation table>"}
	}
	if ns == VOG && annots == nil {
		return nil, fmt.Errorf(
			"Tagging VOG sequences requires the group-annotation table.")
	}
	return &Tagger{NS: ns, Members: members, Annots: annots}, nil
}

// Tag resolves a record's membership and composes its new header:
//
//	rawID|GROUP1|GROUP2| description
//
// Group identifiers appear in ascending order, so repeated runs are byte
// identical. A record with no membership returns ErrDropped. Tagging is
// idempotent: tagging a record built from an already-tagged header yields
// the same header again.
func (t *Tagger) Tag(rec SequenceRecord) (TaggedRecord, error) {
	groups, err := t.Members.ResolveIn(rec.NS, rec.RawID)
	if err != nil {
		return TaggedRecord{}, err
	}
	if len(groups) == 0 {
		return TaggedRecord{}, ErrDropped
	}

	desc := rec.Desc
	if t.Annots != nil {
		desc, err = t.groupDescription(groups)
		if err != nil {
			return TaggedRecord{}, err
		}
	}

	var b strings.Builder
	b.WriteString(rec.RawID)
	for _, g := range groups {
		b.WriteByte('|')
		b.WriteString(g.ID)
	}
	b.WriteByte('|')
	if len(desc) > 0 {
		b.WriteByte(' ')
		b.WriteString(desc)
	}

	return TaggedRecord{
		Record: rec,
		Groups: groups,
		Header: b.String(),
	}, nil
}

// groupDescription joins the curated descriptions of the resolved groups
// in group order, skipping duplicates and unannotated groups.
func (t *Tagger) groupDescription(groups []GroupID) (string, error) {
	descs := make([]string, 0, len(groups))
	seen := make(map[string]bool, len(groups))
	for _, g := range groups {
		d, err := t.Annots.Description(g)
		if err != nil {
			return "", err
		}
		if len(d) == 0 || seen[d] {
			continue
		}
		seen[d] = true
		descs = append(descs, d)
	}
	return strings.Join(descs, "; "), nil
}
