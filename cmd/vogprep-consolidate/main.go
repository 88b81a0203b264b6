package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/linsalrob/vogprep"
)

// vogprep-consolidate merges per-group HMM profile files into the
// database's one combined profile file. Byte-identical duplicates of a
// group collapse to a single entry; divergent variants are all kept and
// flagged in the diagnostics stream for operator review. When a
// cross-reference table is given, profiles whose group is unknown to it
// are dropped the same way unmapped sequences are.

var (
	// A default configuration.
	dbConf = *vogprep.DefaultDBConf

	flagMembers = ""
	flagAppend  = false
	flagQuiet   = false
)

func init() {
	flag.StringVar(&dbConf.Namespace, "namespace", dbConf.Namespace,
		"The identifier namespace of the profiles: 'vog' or 'pvog'.")
	flag.StringVar(&flagMembers, "members", flagMembers,
		"An optional cross-reference table. When given, profiles naming a\n"+
			"\tgroup absent from it are dropped and reported.")
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

	db, err := vogprep.NewWriteDB(&dbConf, flag.Arg(0), flagAppend)
	handleFatalError("Could not open database", err)
	defer db.WriteClose()

	var members *vogprep.MembershipTable
	if len(flagMembers) > 0 {
		mf, err := os.Open(flagMembers)
		handleFatalError("Could not open cross-reference table", err)
		members, err = vogprep.ReadMembers(mf, db.NS)
		mf.Close()
		handleFatalError("Could not read cross-reference table", err)
	}

	con := vogprep.NewConsolidator()
	read, dropped := 0, 0
	for _, inputFile := range flag.Args()[1:] {
		vogprep.Vprintf("Reading %s...\n", inputFile)
		timer := time.Now()

		f, err := os.Open(inputFile)
		handleFatalError("Could not open profile file", err)
		profiles, malformed, err := vogprep.ReadProfiles(f)
		f.Close()
		handleFatalError("Could not read profile file", err)

		for _, m := range malformed {
			vogprep.Warnf("%s: %s\n", inputFile, m)
			db.Diag.Malformed(db.NS, m.Error())
		}
		for _, p := range profiles {
			read++
			if members != nil && !members.HasGroup(p.Group) {
				dropped++
				db.Diag.Dropped(db.NS, p.RawID)
				continue
			}
			if con.Add(p) == vogprep.AddedConflict {
				vogprep.Warnf("Divergent profile content for group %s.\n",
					p.Group)
			}
		}

		vogprep.Vprintf("Done reading %s (%s).\n", inputFile, time.Since(timer))
	}

	for _, c := range con.Conflicts() {
		db.Diag.Conflict(db.NS, c.Group, c.Variants)
	}

	vogprep.Vprintf("Writing %s...\n", vogprep.FileCombinedHMM)
	handleFatalError("Could not write combined profile file",
		vogprep.WriteProfiles(db.CombinedFile(), con.Profiles()))
	handleFatalError("Could not save database", db.Save())

	vogprep.Vprintf("%d profiles read: %d groups kept, %d dropped, "+
		"%d conflicts.\n", read, con.Len(), dropped, len(con.Conflicts()))
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
		"\nUsage: %s [flags] database-directory hmm-file [hmm-file ...]\n",
		path.Base(os.Args[0]))
	vogprep.PrintFlagDefaults()
	os.Exit(1)
}
