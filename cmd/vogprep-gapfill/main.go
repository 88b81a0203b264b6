package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path"
	"sort"
	"time"

	"github.com/linsalrob/vogprep"
)

// vogprep-gapfill takes the identifiers a tagging run dropped and looks
// each one up in an index of a larger external sequence database. Hits
// recover a description for the orphaned sequence; misses are recorded as
// permanently unresolved. Gap filling never invents group membership.

var (
	flagLookup = ""
	flagQuiet  = false
)

func init() {
	flag.StringVar(&flagLookup, "lookup", flagLookup,
		"An 'accession<TAB>defline' index of the external sequence\n"+
			"\tdatabase to consult for dropped identifiers.")
	flag.BoolVar(&flagQuiet, "quiet", flagQuiet,
		"When set, the only outputs will be errors echoed to stderr.")

	flag.Usage = usage
	flag.Parse()
}

func main() {
	if flag.NArg() != 1 {
		flag.Usage()
	}
	if !flagQuiet {
		vogprep.Verbose = true
	}
	if len(flagLookup) == 0 {
		fatalf("The '--lookup' index is required.\n")
	}

	db, err := vogprep.NewReadDB(flag.Arg(0))
	handleFatalError("Could not open database", err)

	// The dropped set must be read in full before the diagnostics stream
	// is reopened for appending.
	df, err := db.OpenDiagnostics()
	handleFatalError("Could not open diagnostics", err)
	unresolved, err := vogprep.ReadDroppedIDs(df, db.NS)
	df.Close()
	handleFatalError("Could not read diagnostics", err)
	vogprep.Vprintf("%d dropped identifiers to look up.\n", len(unresolved))

	lf, err := os.Open(flagLookup)
	handleFatalError("Could not open lookup index", err)
	timer := time.Now()
	lookup, err := vogprep.ReadTableLookup(lf)
	lf.Close()
	handleFatalError("Could not read lookup index", err)
	vogprep.Vprintf("Read lookup index (%s).\n", time.Since(timer))

	diag, err := db.AppendDiagnostics()
	handleFatalError("Could not append to diagnostics", err)
	defer diag.Flush()

	res, err := vogprep.Fill(db.NS, unresolved, lookup, diag)
	handleFatalError("Error filling descriptions", err)

	out, err := db.CreateGapFill()
	handleFatalError("Could not create gap-fill output", err)
	defer out.Close()
	handleFatalError("Could not write gap-fill output",
		writeDescriptions(out, res.Descriptions))

	vogprep.Vprintf("%d descriptions recovered, %d permanently unresolved, "+
		"%d lookup failures.\n",
		len(res.Descriptions), len(res.Unresolved), res.Failures)
}

func writeDescriptions(f *os.File, descs map[string]string) error {
	ids := make([]string, 0, len(descs))
	for id := range descs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	buf := bufio.NewWriter(f)
	for _, id := range ids {
		if _, err := fmt.Fprintf(buf, "%s\t%s\n", id, descs[id]); err != nil {
			return err
		}
	}
	return buf.Flush()
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
		"\nUsage: %s [flags] database-directory\n",
		path.Base(os.Args[0]))
	vogprep.PrintFlagDefaults()
	os.Exit(1)
}
