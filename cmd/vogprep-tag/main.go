package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/linsalrob/vogprep"
)

// vogprep-tag cross-references raw FASTA sequence files against a
// cross-reference membership table, rewrites each mapped header to embed
// its group identifiers and description, and drops unmapped records.
// Tagged sequences are written into the database directory; every dropped
// or malformed record lands in the diagnostics stream.

var (
	// A default configuration.
	dbConf = *vogprep.DefaultDBConf

	flagMembers     = ""
	flagAnnotations = ""
	flagDatasets    = ""
	flagAppend      = false
	flagQuiet       = false
)

func init() {
	flag.StringVar(&dbConf.Namespace, "namespace", dbConf.Namespace,
		"The identifier namespace to tag for: 'vog' or 'pvog'.")
	flag.StringVar(&flagMembers, "members", flagMembers,
		"The cross-reference table mapping group identifiers to their\n"+
			"\tmember sequence identifiers (e.g. vog.members.tsv).")
	flag.StringVar(&flagAnnotations, "annotations", flagAnnotations,
		"The group-annotation table (e.g. vog.annotations.tsv).\n"+
			"\tRequired for 'vog'; ignored for 'pvog', whose records keep\n"+
			"\ttheir original descriptions.")
	flag.StringVar(&flagDatasets, "datasets", flagDatasets,
		"A comma-separated list of dataset names to process. Input files\n"+
			"\twhose basename (without extension) is not listed are skipped.\n"+
			"\tAn empty list processes everything.")
	flag.IntVar(&dbConf.HeartbeatSeconds, "heartbeat",
		dbConf.HeartbeatSeconds,
		"The interval, in seconds, of the keep-alive progress line printed\n"+
			"\tduring long steps. Zero disables it.")
	flag.BoolVar(&flagAppend, "append", flagAppend,
		"When set, append to an existing database instead of refusing to\n"+
			"\toverwrite it.")
	flag.BoolVar(&flagQuiet, "quiet", flagQuiet,
		"When set, the only outputs will be errors echoed to stderr.")

	flag.Usage = usage
	flag.Parse()
}

func main() {
	if flag.NArg() < 2 {
		flag.Usage()
	}
	if !flagQuiet {
		vogprep.Verbose = true
	}
	if len(flagMembers) == 0 {
		fatalf("The '--members' cross-reference table is required.\n")
	}
	if len(flagDatasets) > 0 {
		dbConf.Datasets = strings.Split(flagDatasets, ",")
	}

	db, err := vogprep.NewWriteDB(&dbConf, flag.Arg(0), flagAppend)
	handleFatalError("Could not open database", err)
	defer db.WriteClose()

	hb := vogprep.StartHeartbeat(
		time.Duration(db.HeartbeatSeconds)*time.Second,
		func(elapsed time.Duration) {
			vogprep.Vprintf("...still tagging (%s elapsed)\n", elapsed)
		})
	defer hb.Stop()

	tagger, err := buildTagger(db)
	handleFatalError("Could not build tagging tables", err)

	var total vogprep.TagStats
	for _, inputFile := range flag.Args()[1:] {
		name := datasetName(inputFile)
		if !db.DatasetEnabled(name) {
			vogprep.Vprintf("Skipping dataset %s (not selected).\n", name)
			continue
		}

		vogprep.Vprintf("Tagging %s...\n", inputFile)
		timer := time.Now()

		recs, err := vogprep.ReadSequenceRecords(inputFile, db.NS)
		handleFatalError("Could not read input fasta file", err)

		stats, err := vogprep.TagStream(recs, tagger, db.TaggedFile(), db.Diag)
		handleFatalError("Error tagging sequences", err)

		vogprep.Vprintf("Done tagging %s (%s): %d tagged, %d dropped, "+
			"%d malformed.\n", inputFile, time.Since(timer),
			stats.Tagged, stats.Dropped, stats.Malformed)
		total.Tagged += stats.Tagged
		total.Dropped += stats.Dropped
		total.Malformed += stats.Malformed
	}

	handleFatalError("Could not save database", db.Save())
	vogprep.Vprintf("%d records seen: %d tagged, %d dropped, %d malformed.\n",
		total.Total(), total.Tagged, total.Dropped, total.Malformed)
}

// buildTagger loads the membership and annotation tables before any
// tagging begins. Tagging never observes a partially built table.
func buildTagger(db *vogprep.DB) (*vogprep.Tagger, error) {
	timer := time.Now()

	mf, err := os.Open(flagMembers)
	if err != nil {
		return nil, err
	}
	defer mf.Close()
	members, err := vogprep.ReadMembers(mf, db.NS)
	if err != nil {
		return nil, err
	}
	vogprep.Vprintf("Read %d member identifiers (%s).\n",
		members.Len(), time.Since(timer))

	var annots *vogprep.AnnotationTable
	if db.NS == vogprep.VOG {
		if len(flagAnnotations) == 0 {
			return nil, fmt.Errorf(
				"The '--annotations' table is required for the vog namespace.")
		}
		af, err := os.Open(flagAnnotations)
		if err != nil {
			return nil, err
		}
		defer af.Close()
		if annots, err = vogprep.ReadAnnotations(af, db.NS); err != nil {
			return nil, err
		}
		vogprep.Vprintf("Read %d group annotations.\n", annots.Len())
	}

	return vogprep.NewTagger(db.NS, members, annots)
}

// datasetName maps an input path to the dataset name checked against the
// pre-selected dataset list.
func datasetName(p string) string {
	base := path.Base(p)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, path.Ext(base))
}

func fatalf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
	os.Exit(1)
}

func handleFatalError(msg string, err error) {
	if err != nil {
		fatalf(msg+": %s\n", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"\nUsage: %s [flags] database-directory fasta-file [fasta-file ...]\n",
		path.Base(os.Args[0]))
	vogprep.PrintFlagDefaults()
	os.Exit(1)
}
