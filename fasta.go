package vogprep

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/TuftsBCB/io/fasta"
)

// ReadSequenceRecord is the value sent over the channel returned by
// ReadSequenceRecords when a new sequence is read from a FASTA file.
type ReadSequenceRecord struct {
	Record SequenceRecord
	Err    error
}

// ReadSequenceRecords reads a FASTA formatted file and returns a channel
// that each new sequence record is sent to. Files ending in '.gz' are
// decompressed transparently. The channel is closed when the file is
// exhausted or when a read error occurs; the error is delivered on the
// channel before it closes.
func ReadSequenceRecords(fileName string, ns Namespace) (chan ReadSequenceRecord, error) {
	var r io.Reader
	var gz *gzip.Reader

	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	r = f
	if strings.HasSuffix(fileName, ".gz") {
		gz, err = gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		r = gz
	}

	reader := fasta.NewReader(r)
	recChan := make(chan ReadSequenceRecord, 200)
	go func() {
		defer f.Close()
		for {
			sequence, err := reader.Read()
			if err == io.EOF {
				// Closing the gzip reader surfaces a corrupt stream
				// that only shows up at the end of the file.
				if gz != nil {
					if err := gz.Close(); err != nil {
						recChan <- ReadSequenceRecord{Err: err}
					}
				}
				close(recChan)
				break
			}
			if err != nil {
				if gz != nil {
					gz.Close()
				}
				recChan <- ReadSequenceRecord{Err: err}
				close(recChan)
				break
			}
			recChan <- ReadSequenceRecord{
				Record: NewSequenceRecord(ns, sequence),
			}
		}
	}()
	return recChan, nil
}

// TagStream streams records through the tagger and writes each kept
// record to w with its rewritten header. Dropped and malformed records
// are reported to diag and excluded from the output. Namespace faults and
// write errors abort the stream; everything else is record-level and
// processing continues with the next record.
func TagStream(
	recs <-chan ReadSequenceRecord,
	tagger *Tagger,
	w io.Writer,
	diag *Diagnostics,
) (TagStats, error) {
	var stats TagStats

	buf := bufio.NewWriter(w)
	for rec := range recs {
		if rec.Err != nil {
			return stats, fmt.Errorf("Error reading sequences: %s", rec.Err)
		}
		if len(rec.Record.RawID) == 0 {
			stats.Malformed++
			diag.Malformed(tagger.NS, "sequence record with empty header")
			continue
		}

		tagged, err := tagger.Tag(rec.Record)
		if err == ErrDropped {
			stats.Dropped++
			diag.Dropped(rec.Record.NS, rec.Record.RawID)
			continue
		}
		if err != nil {
			// Namespace faults land here; they always abort the run.
			return stats, err
		}

		_, err = fmt.Fprintf(buf, "> %s\n%s\n",
			tagged.Header, string(tagged.Record.Seq.Bytes()))
		if err != nil {
			return stats, fmt.Errorf("Error writing tagged sequence: %s", err)
		}
		stats.Tagged++
	}
	if err := buf.Flush(); err != nil {
		return stats, fmt.Errorf("Error writing tagged sequences: %s", err)
	}
	return stats, nil
}
