package vogprep

import (
	"flag"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// DBConf is the configuration surface handed to the engine by the
// orchestrator. The original pipeline selected datasets through an
// interactive prompt; here the selection is an explicit list resolved
// before the engine runs, so non-interactive (remote) runs behave
// identically to attended ones.
type DBConf struct {
	// Namespace selects the classification scheme for the run: "vog" or
	// "pvog".
	Namespace string

	// Datasets is the pre-selected list of dataset names to process. An
	// empty list means every dataset offered.
	Datasets []string

	// HeartbeatSeconds is the interval of the progress heartbeat printed
	// by the command line tools during long steps. It never alters engine
	// output.
	HeartbeatSeconds int
}

var DefaultDBConf = &DBConf{
	Namespace:        "vog",
	Datasets:         nil,
	HeartbeatSeconds: 300,
}

func LoadDBConf(r io.Reader) (conf *DBConf, err error) {
	defer func() {
		if perr := recover(); perr != nil {
			err = perr.(error)
		}
	}()
	conf = &DBConf{}
	*conf = *DefaultDBConf

	if _, err := toml.NewDecoder(r).Decode(conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// FlagMerge combines the command line configuration with one loaded from
// an existing database's params file. Options given on the command line
// win; everything else comes from the file. The namespace of an existing
// database can never change, since its tagged output would silently mix
// the two lineages, so an appending run must ask for the namespace the
// database was tagged for.
func (flagConf *DBConf) FlagMerge(fileConf *DBConf) (*DBConf, error) {
	only := make(map[string]bool, 0)
	flag.Visit(func(f *flag.Flag) { only[f.Name] = true })

	if flagConf.Namespace != fileConf.Namespace {
		return flagConf, fmt.Errorf("The namespace cannot be changed for "+
			"an existing database: it was tagged for '%s', but this run "+
			"asked for '%s'.", fileConf.Namespace, flagConf.Namespace)
	}
	if !only["datasets"] {
		flagConf.Datasets = fileConf.Datasets
	}
	if !only["heartbeat"] {
		flagConf.HeartbeatSeconds = fileConf.HeartbeatSeconds
	}
	return flagConf, nil
}

// DatasetEnabled reports whether a dataset is part of the pre-selected
// list. An empty list enables everything.
func (dbConf *DBConf) DatasetEnabled(name string) bool {
	if len(dbConf.Datasets) == 0 {
		return true
	}
	for _, d := range dbConf.Datasets {
		if d == name {
			return true
		}
	}
	return false
}

func (dbConf DBConf) Write(w io.Writer) error {
	encoder := toml.NewEncoder(w)
	if err := encoder.Encode(dbConf); err != nil {
		return err
	}
	return nil
}
