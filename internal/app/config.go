package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PipelinePath string // .json file, or a directory of .json files
	FromStore    string // saved pipeline slug to load instead of a file

	ValidateOnly bool
	ListTools    bool
	Schemas      bool

	StoreBackend string // memory, postgres, or s3
	SaveAs       string
	Name         string
	ListSaved    bool
	Remove       string

	LogFormat string
	LogLevel  string
}

// NewConfig validates the field combination and returns the config.
func NewConfig(cfg Config) (*Config, error) {
	noSource := cfg.PipelinePath == "" && cfg.FromStore == ""
	noStandalone := !cfg.ListTools && !cfg.Schemas && !cfg.ListSaved && cfg.Remove == ""
	if noSource && noStandalone {
		return nil, errors.New("a pipeline source is required: set PipelinePath or FromStore, or use a listing flag")
	}
	if cfg.PipelinePath != "" && cfg.FromStore != "" {
		return nil, errors.New("PipelinePath and FromStore are mutually exclusive; pick one pipeline source")
	}
	if cfg.SaveAs != "" && cfg.PipelinePath == "" {
		return nil, errors.New("SaveAs needs a pipeline file to read from; set PipelinePath")
	}

	return &cfg, nil
}

// needsStore reports whether this invocation touches the pipeline store at
// all. Listing tools or running a local file never dials a backend.
func (c *Config) needsStore() bool {
	return c.FromStore != "" || c.SaveAs != "" || c.ListSaved || c.Remove != ""
}
