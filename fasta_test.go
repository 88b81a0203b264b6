package vogprep

import (
	"bytes"
	"compress/gzip"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFasta(t *testing.T, contents string) string {
	t.Helper()
	p := path.Join(t.TempDir(), "in.fasta")
	require.NoError(t, os.WriteFile(p, []byte(contents), 0666))
	return p
}

func TestReadSequenceRecords(t *testing.T) {
	p := writeTempFasta(t,
		"> YP_1.1 portal protein\nMKV\n> YP_2.1\nMAVL\n")

	recs, err := ReadSequenceRecords(p, VOG)
	require.NoError(t, err)

	var got []SequenceRecord
	for rec := range recs {
		require.NoError(t, rec.Err)
		got = append(got, rec.Record)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "YP_1.1", got[0].RawID)
	assert.Equal(t, "portal protein", got[0].Desc)
	assert.Equal(t, "MKV", string(got[0].Seq.Bytes()))
	assert.Equal(t, "YP_2.1", got[1].RawID)
	assert.Empty(t, got[1].Desc)
}

// The five-sequence scenario: four map to group X1, one is unmapped.
// Tagging keeps four records headed with X1 and the curated description,
// and reports one drop in diagnostics.
func TestTagStreamScenario(t *testing.T) {
	p := writeTempFasta(t, strings.Join([]string{
		"> S1 raw one", "MKV",
		"> S2 raw two", "MAV",
		"> S3 raw three", "MLV",
		"> S4 raw four", "MIV",
		"> S5 raw five", "MVV",
	}, "\n")+"\n")

	tagger := vogTagger(t,
		"X1\tS1,S2,S3,S4\n",
		"X1\t4\t1\tXr\tmajor capsid protein\n")

	recs, err := ReadSequenceRecords(p, VOG)
	require.NoError(t, err)

	out := new(bytes.Buffer)
	diagBuf := new(bytes.Buffer)
	diag := NewDiagnostics(diagBuf)
	stats, err := TagStream(recs, tagger, out, diag)
	require.NoError(t, err)
	require.NoError(t, diag.Flush())

	assert.Equal(t, 4, stats.Tagged)
	assert.Equal(t, 1, stats.Dropped)
	assert.Equal(t, 0, stats.Malformed)
	// Conservation: every input record is accounted for.
	assert.Equal(t, 5, stats.Total())

	for _, id := range []string{"S1", "S2", "S3", "S4"} {
		assert.Contains(t, out.String(),
			"> "+id+"|X1| major capsid protein\n")
	}
	assert.NotContains(t, out.String(), "S5")
	assert.Contains(t, diagBuf.String(), "DROPPED\tVOG\tS5")
	assert.Equal(t, 1, diag.DroppedCount)
}

// A record with an empty header cannot be resolved; it is counted as
// malformed, reported in diagnostics, and excluded from the output
// without aborting the stream.
func TestTagStreamMalformedRecord(t *testing.T) {
	tagger := vogTagger(t, "X1\tS1\n", "X1\t1\t1\tXr\tcapsid\n")

	recs := make(chan ReadSequenceRecord, 2)
	recs <- ReadSequenceRecord{Record: record(VOG, "", "MKV")}
	recs <- ReadSequenceRecord{Record: record(VOG, "S1 raw one", "MAV")}
	close(recs)

	out := new(bytes.Buffer)
	diagBuf := new(bytes.Buffer)
	diag := NewDiagnostics(diagBuf)
	stats, err := TagStream(recs, tagger, out, diag)
	require.NoError(t, err)
	require.NoError(t, diag.Flush())

	assert.Equal(t, 1, stats.Malformed)
	assert.Equal(t, 1, stats.Tagged)
	assert.Equal(t, 0, stats.Dropped)
	assert.Equal(t, 2, stats.Total())
	assert.Contains(t, diagBuf.String(), "MALFORMED\tVOG")
	assert.Equal(t, 1, diag.MalformedCount)
	assert.Contains(t, out.String(), "> S1|X1| capsid\nMAV\n")
	assert.NotContains(t, out.String(), "MKV")
}

func TestReadSequenceRecordsGzip(t *testing.T) {
	p := path.Join(t.TempDir(), "in.fasta.gz")
	buf := new(bytes.Buffer)
	gz := gzip.NewWriter(buf)
	_, err := gz.Write([]byte("> YP_1.1 portal protein\nMKV\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(p, buf.Bytes(), 0666))

	recs, err := ReadSequenceRecords(p, VOG)
	require.NoError(t, err)

	var got []SequenceRecord
	for rec := range recs {
		require.NoError(t, rec.Err)
		got = append(got, rec.Record)
	}
	require.Len(t, got, 1)
	assert.Equal(t, "YP_1.1", got[0].RawID)
	assert.Equal(t, "portal protein", got[0].Desc)
}

// Tagging an already-tagged file again produces byte-identical output.
func TestTagStreamIdempotentAcrossRuns(t *testing.T) {
	p := writeTempFasta(t, "> S1 raw one\nMKV\n> S5 unmapped\nMVV\n")
	tagger := vogTagger(t, "X1\tS1\n", "X1\t1\t1\tXr\tcapsid\n")

	recs, err := ReadSequenceRecords(p, VOG)
	require.NoError(t, err)
	first := new(bytes.Buffer)
	_, err = TagStream(recs, tagger, first, NewDiagnostics(nil))
	require.NoError(t, err)

	// Re-run over the first run's output.
	p2 := writeTempFasta(t, first.String())
	recs2, err := ReadSequenceRecords(p2, VOG)
	require.NoError(t, err)
	second := new(bytes.Buffer)
	stats, err := TagStream(recs2, tagger, second, NewDiagnostics(nil))
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Tagged)
	assert.Equal(t, first.String(), second.String())
}
