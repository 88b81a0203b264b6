package vogprep

import (
	"strings"

	"github.com/TuftsBCB/seq"
)

// A SequenceRecord is one FASTA sequence together with its parsed header
// metadata and the namespace it was read for. Records are immutable once
// read; tagging produces a new header rather than mutating the record.
type SequenceRecord struct {
	NS    Namespace
	RawID string
	Desc  string
	Seq   seq.Sequence
}

// NewSequenceRecord builds a record from a raw FASTA sequence. The header
// is split into the raw identifier and the free-text description; headers
// already carrying group tags are stripped back to their identifier and
// description so that re-tagging a tagged file reproduces it byte for
// byte.
func NewSequenceRecord(ns Namespace, s seq.Sequence) SequenceRecord {
	rawID, desc := splitHeader(s.Name)
	return SequenceRecord{
		NS:    ns,
		RawID: rawID,
		Desc:  desc,
		Seq:   s,
	}
}

// splitHeader splits a FASTA header into its raw identifier and
// description. Untagged headers are "id description..."; tagged headers
// are "id|GROUP|GROUP| description". Inputs are expected to use
// accession-first deflines; the '|' character is reserved for group tags.
func splitHeader(header string) (rawID, desc string) {
	header = strings.TrimSpace(header)
	if strings.ContainsRune(header, '|') {
		fields := strings.Split(header, "|")
		rawID = strings.TrimSpace(fields[0])
		desc = strings.TrimSpace(fields[len(fields)-1])
		return rawID, desc
	}
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		return header[:i], strings.TrimSpace(header[i+1:])
	}
	return header, ""
}
