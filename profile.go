package vogprep

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// A ProfileRecord is one HMMER3 plain-text profile. The body is kept as
// an opaque blob, byte for byte as it appeared in the source file, so
// that consolidation can compare and rewrite profiles without ever
// reinterpreting them. Group carries the group identifier the profile
// belongs to; per-group profile files name their group on the NAME line,
// so Group defaults to the NAME value.
type ProfileRecord struct {
	RawID string // the NAME line
	Acc   string // the ACC line, empty when absent
	Group string
	Body  []byte // the full block, including the terminating "//" line
}

// A MalformedProfileError describes one profile block that could not be
// parsed. It is fatal for that block only: the reader skips it and
// continues with the next one.
type MalformedProfileError struct {
	Line   int // line number where the block starts
	Reason string
}

func (e *MalformedProfileError) Error() string {
	return fmt.Sprintf(
		"Malformed profile block starting at line %d: %s.", e.Line, e.Reason)
}

// ReadProfiles reads every profile block from an HMMER3 plain-text
// profile file. Blocks are delimited by a terminating '//' line. Blocks
// with no NAME line, and a trailing block cut off before its '//'
// terminator, are returned as MalformedProfileErrors alongside the
// well-formed records; a read error on the underlying stream aborts the
// whole file.
func ReadProfiles(r io.Reader) ([]ProfileRecord, []*MalformedProfileError, error) {
	var (
		records   []ProfileRecord
		malformed []*MalformedProfileError
		body      bytes.Buffer
		name, acc string
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	lineno, blockStart := 0, 1

	flush := func(terminated bool) {
		defer func() {
			body.Reset()
			name, acc = "", ""
			blockStart = lineno + 1
		}()
		if len(bytes.TrimSpace(body.Bytes())) == 0 {
			return
		}
		if !terminated {
			malformed = append(malformed, &MalformedProfileError{
				Line:   blockStart,
				Reason: "truncated before its '//' terminator",
			})
			return
		}
		if len(name) == 0 {
			malformed = append(malformed, &MalformedProfileError{
				Line:   blockStart,
				Reason: "no NAME line",
			})
			return
		}
		records = append(records, ProfileRecord{
			RawID: name,
			Acc:   acc,
			Group: name,
			Body:  append([]byte(nil), body.Bytes()...),
		})
	}

	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r")
		body.WriteString(line)
		body.WriteByte('\n')

		switch {
		case strings.HasPrefix(line, "NAME"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "NAME"))
		case strings.HasPrefix(line, "ACC"):
			acc = strings.TrimSpace(strings.TrimPrefix(line, "ACC"))
		case strings.HasPrefix(line, "//"):
			flush(true)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("Error reading profile file: %s", err)
	}
	flush(false)

	return records, malformed, nil
}

// WriteProfiles writes profile records to w, bodies verbatim, so that a
// consolidated file is byte-stable across runs.
func WriteProfiles(w io.Writer, records []ProfileRecord) error {
	buf := bufio.NewWriter(w)
	for _, p := range records {
		if _, err := buf.Write(p.Body); err != nil {
			return fmt.Errorf(
				"Error writing profile '%s': %s", p.RawID, err)
		}
	}
	return buf.Flush()
}
