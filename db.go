package vogprep

import (
	"fmt"
	"os"
	"path"
	"strings"
)

const (
	FileParams      = "params"
	FileTaggedVOG   = "vog.tagged.faa"
	FileTaggedPVOG  = "pvog.tagged.faa"
	FileCombinedHMM = "combined.hmm"
	FileDiagnostics = "diagnostics.tsv"
	FileGapFill     = "gapfill.tsv"
)

// A DB represents one annotation-ready database under preparation: a
// directory holding the tagged FASTA output, the consolidated HMM profile
// file, the diagnostics stream, and a params file recording the
// configuration that produced them.
//
// A DB owns all run-scoped state. It is opened either for writing (a
// tagging or consolidation run) or for reading (gap filling, reruns); no
// table or record outlives one invocation.
type DB struct {
	// An embedded configuration.
	*DBConf

	// NS is the namespace parsed from the configuration.
	NS Namespace

	// The path to the directory on disk.
	Path string

	// The name of the database. This corresponds to the basename of the
	// path.
	Name string

	// Diag receives every operator-visible event of the run. Only set
	// when the DB is opened for writing.
	Diag *Diagnostics

	// File pointers.
	tagged, combined, diagnostics, params *os.File
}

// NewWriteDB creates a new database directory and prepares it for a
// tagging or consolidation run. When appnd is set, an existing directory
// is reopened and output files are appended to; reruns are safe because
// tagging is idempotent.
//
// An error is returned if there is a problem accessing any of the files
// in the database.
func NewWriteDB(conf *DBConf, dir string, appnd bool) (*DB, error) {
	Vprintf("Opening database in %s...\n", dir)

	if strings.HasSuffix(dir, ".tar") || strings.HasSuffix(dir, ".gz") {
		return nil, fmt.Errorf("The database path you've provided does not "+
			"appear to be a directory: '%s'.", dir)
	}

	_, err := os.Stat(dir)
	if err == nil && !appnd {
		return nil, fmt.Errorf("The directory '%s' already exists. A new "+
			"database cannot be created in the same directory as an "+
			"existing database. If you want to append to an existing "+
			"database, use the '--append' flag.", dir)
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("An error occurred when checking if '%s' "+
			"exists: %s.", dir, err)
	}
	if os.IsNotExist(err) {
		if err = os.Mkdir(dir, 0777); err != nil {
			return nil, fmt.Errorf(
				"Could not create directory '%s': %s.", dir, err)
		}
	}

	if appnd {
		if conf, err = mergeStoredConf(conf, dir); err != nil {
			return nil, err
		}
	}
	ns, err := ParseNamespace(conf.Namespace)
	if err != nil {
		return nil, err
	}

	db := &DB{
		DBConf: conf,
		NS:     ns,
		Name:   path.Base(dir),
		Path:   dir,
	}

	if db.params, err = db.openParamsFile(appnd); err != nil {
		return nil, err
	}
	if db.tagged, err = db.openWriteFile(appnd, db.taggedFileName()); err != nil {
		return nil, err
	}
	if db.combined, err = db.openWriteFile(appnd, FileCombinedHMM); err != nil {
		return nil, err
	}
	if db.diagnostics, err = db.openWriteFile(appnd, FileDiagnostics); err != nil {
		return nil, err
	}
	db.Diag = NewDiagnostics(db.diagnostics)

	Vprintf("Done opening database in %s.\n", dir)
	return db, nil
}

// NewReadDB opens an existing database for reading. The configuration,
// including the namespace the database was tagged for, is loaded from the
// params file.
func NewReadDB(dir string) (*DB, error) {
	Vprintf("Opening database in %s...\n", dir)

	db := &DB{
		Name: path.Base(dir),
		Path: dir,
	}

	params, err := os.Open(db.filePath(FileParams))
	if err != nil {
		return nil, fmt.Errorf("Could not open '%s' for reading "+
			"because: %s.", dir, err)
	}
	defer params.Close()

	if db.DBConf, err = LoadDBConf(params); err != nil {
		return nil, err
	}
	if db.NS, err = ParseNamespace(db.DBConf.Namespace); err != nil {
		return nil, err
	}

	Vprintf("Done opening database in %s.\n", dir)
	return db, nil
}

// mergeStoredConf loads the params file of an existing database and
// merges it with the configuration given on the command line. Flags win
// for the fields that may change between runs; the namespace may not.
func mergeStoredConf(conf *DBConf, dir string) (*DBConf, error) {
	f, err := os.Open(path.Join(dir, FileParams))
	if os.IsNotExist(err) {
		return conf, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Could not open '%s' for reading "+
			"because: %s.", path.Join(dir, FileParams), err)
	}
	defer f.Close()

	fileConf, err := LoadDBConf(f)
	if err != nil {
		return nil, err
	}
	return conf.FlagMerge(fileConf)
}

func (db *DB) taggedFileName() string {
	if db.NS == PVOG {
		return FileTaggedPVOG
	}
	return FileTaggedVOG
}

func (db *DB) filePath(name string) string {
	return path.Join(db.Path, name)
}

func (db *DB) openWriteFile(appnd bool, name string) (*os.File, error) {
	if appnd {
		return os.OpenFile(db.filePath(name),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	}
	return os.Create(db.filePath(name))
}

// openParamsFile opens the params file for writing. When appending, the
// file is left intact so that the stored configuration survives a run
// that dies before Save.
func (db *DB) openParamsFile(appnd bool) (*os.File, error) {
	if appnd {
		return os.OpenFile(db.filePath(FileParams),
			os.O_CREATE|os.O_WRONLY, 0666)
	}
	return os.Create(db.filePath(FileParams))
}

// TaggedFile returns the open tagged FASTA output file for this run's
// namespace.
func (db *DB) TaggedFile() *os.File {
	return db.tagged
}

// CombinedFile returns the open consolidated HMM profile output file.
func (db *DB) CombinedFile() *os.File {
	return db.combined
}

// OpenDiagnostics opens the diagnostics stream of an existing database
// for reading. The gap filler uses this to find the identifiers a tagging
// run dropped.
func (db *DB) OpenDiagnostics() (*os.File, error) {
	return os.Open(db.filePath(FileDiagnostics))
}

// AppendDiagnostics opens the diagnostics stream of an existing database
// for appending further events, as the gap filler does after a tagging
// run has closed the database.
func (db *DB) AppendDiagnostics() (*Diagnostics, error) {
	f, err := os.OpenFile(db.filePath(FileDiagnostics),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	db.diagnostics = f
	db.Diag = NewDiagnostics(f)
	return db.Diag, nil
}

// CreateGapFill creates the gap-fill output file, which maps each
// recovered identifier to the description found in the external database.
func (db *DB) CreateGapFill() (*os.File, error) {
	return os.Create(db.filePath(FileGapFill))
}

// Save writes the run's configuration to the params file. It should be
// called once the run's outputs are complete.
func (db *DB) Save() error {
	var err error
	// Make sure the params file is truncated so that we overwrite any
	// previous configuration.
	if err = db.params.Truncate(0); err != nil {
		return err
	}
	if _, err = db.params.Seek(0, 0); err != nil {
		return err
	}
	if err = db.DBConf.Write(db.params); err != nil {
		return err
	}
	return db.Diag.Flush()
}

// WriteClose closes all appropriate files after writing to a database.
func (db *DB) WriteClose() {
	if db.Diag != nil {
		db.Diag.Flush()
	}
	for _, f := range []*os.File{db.params, db.tagged, db.combined, db.diagnostics} {
		if f != nil {
			f.Close()
		}
	}
}
