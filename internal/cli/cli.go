package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/toolpipe/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("toolpipe", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
ToolPipe - a sequential pipeline runner for typed tools.

Usage:
  toolpipe [options] [PIPELINE_PATH]

Arguments:
  PIPELINE_PATH
    Path to a single .json pipeline file or a directory containing .json files.

Options:
`)
		flagSet.PrintDefaults()
	}

	pipelineFlag := flagSet.String("pipeline", "", "Path to the pipeline file or directory.")
	pFlag := flagSet.String("p", "", "Path to the pipeline file or directory (shorthand).")
	validateFlag := flagSet.Bool("validate", false, "Validate the pipeline structure without executing it.")
	listToolsFlag := flagSet.Bool("list-tools", false, "Print the registered tools as JSON and exit.")
	schemasFlag := flagSet.Bool("schemas", false, "Print the registered tools with their input/output schemas as JSON and exit.")
	storeFlag := flagSet.String("store", "memory", "Pipeline store backend. Options: 'memory', 'postgres' or 's3'.")
	saveAsFlag := flagSet.String("save-as", "", "Save the pipeline into the store under this slug id instead of running it.")
	nameFlag := flagSet.String("name", "", "Display name recorded when saving. Defaults to the slug id.")
	fromStoreFlag := flagSet.String("from-store", "", "Load the pipeline with this slug id from the store.")
	listSavedFlag := flagSet.Bool("list-saved", false, "Print the saved pipelines as JSON and exit.")
	removeFlag := flagSet.String("remove", "", "Remove the pipeline with this slug id from the store.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *pipelineFlag != "" {
		path = *pipelineFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Pipeline path determined.", "path", path)

	standalone := *listToolsFlag || *schemasFlag || *listSavedFlag || *fromStoreFlag != "" || *removeFlag != ""
	if path == "" && !standalone {
		slog.Debug("No pipeline source provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	storeBackend := strings.ToLower(*storeFlag)
	switch storeBackend {
	case "memory", "postgres", "s3":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid store: must be 'memory', 'postgres' or 's3'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		PipelinePath: path,
		FromStore:    *fromStoreFlag,
		ValidateOnly: *validateFlag,
		ListTools:    *listToolsFlag,
		Schemas:      *schemasFlag,
		StoreBackend: storeBackend,
		SaveAs:       *saveAsFlag,
		Name:         *nameFlag,
		ListSaved:    *listSavedFlag,
		Remove:       *removeFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
