package app

import (
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/engine"
	"github.com/specialistvlad/toolpipe/internal/fsutil"
	"github.com/specialistvlad/toolpipe/internal/pipeline"
)

// namedPipeline pairs a decoded definition with where it came from, for
// error messages and logs.
type namedPipeline struct {
	name string
	def  *pipeline.Pipeline
}

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.closeStore != nil {
		defer func() {
			if err := a.closeStore(); err != nil {
				a.logger.Warn("Failed to close pipeline store.", "error", err)
			}
		}()
	}

	// Standalone actions first; they don't load a pipeline for execution.
	switch {
	case cfg.ListTools:
		return a.printJSON(a.registry.List())

	case cfg.Schemas:
		return a.printJSON(a.registry.ListWithSchemas())

	case cfg.ListSaved:
		summaries, err := a.store.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list saved pipelines: %w", err)
		}
		return a.printJSON(summaries)

	case cfg.Remove != "":
		if err := a.store.Remove(ctx, cfg.Remove); err != nil {
			return fmt.Errorf("failed to remove pipeline %q: %w", cfg.Remove, err)
		}
		a.logger.Info("Pipeline removed from store.", "id", cfg.Remove)
		return nil

	case cfg.SaveAs != "":
		return a.savePipeline(ctx, cfg)
	}

	pipelines, err := a.loadPipelines(ctx, cfg)
	if err != nil {
		return err
	}

	for _, np := range pipelines {
		if err := np.def.Validate(); err != nil {
			return fmt.Errorf("pipeline %s is invalid: %w", np.name, err)
		}
	}
	if cfg.ValidateOnly {
		a.logger.Info("✅ All pipelines are valid.", "count", len(pipelines))
		return nil
	}

	eng := engine.New(a.registry)
	for _, np := range pipelines {
		a.logger.Info("🚀 Starting pipeline execution...", "pipeline", np.name, "steps", len(np.def.Steps))

		result, err := eng.Run(ctx, np.def, engine.Options{
			OnProgress: func(p engine.Progress) {
				a.logger.Info(p.Message, "percent", p.Percent)
			},
		})
		if err != nil {
			return fmt.Errorf("execution failed: %w", err)
		}
		a.logger.Info("🏁 Execution finished.", "pipeline", np.name, "total_ms", result.TotalDurationMs)

		if err := a.printJSON(result); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// savePipeline reads exactly one pipeline file and stores it under the
// chosen slug. The pipeline is not executed.
func (a *App) savePipeline(ctx context.Context, cfg *Config) error {
	paths, err := fsutil.PipelineFiles(cfg.PipelinePath)
	if err != nil {
		return err
	}
	if len(paths) != 1 {
		return fmt.Errorf("saving needs exactly one pipeline file, found %d under %s", len(paths), cfg.PipelinePath)
	}

	def, err := readPipelineFile(paths[0])
	if err != nil {
		return err
	}

	name := cfg.Name
	if name == "" {
		name = cfg.SaveAs
	}
	saved, err := a.store.Save(ctx, pipeline.SaveInput{
		ID:       cfg.SaveAs,
		Name:     name,
		Pipeline: *def,
	})
	if err != nil {
		return fmt.Errorf("failed to save pipeline %q: %w", cfg.SaveAs, err)
	}

	a.logger.Info("Pipeline saved.", "id", saved.ID, "name", saved.Name)
	return a.printJSON(saved.Summary())
}

// loadPipelines resolves the configured source into one or more decoded
// pipeline definitions.
func (a *App) loadPipelines(ctx context.Context, cfg *Config) ([]namedPipeline, error) {
	if cfg.FromStore != "" {
		saved, err := a.store.Get(ctx, cfg.FromStore)
		if err != nil {
			return nil, fmt.Errorf("failed to load pipeline %q from store: %w", cfg.FromStore, err)
		}
		return []namedPipeline{{name: saved.ID, def: &saved.Pipeline}}, nil
	}

	paths, err := fsutil.PipelineFiles(cfg.PipelinePath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Pipeline files resolved.", "files", paths)

	out := make([]namedPipeline, 0, len(paths))
	for _, path := range paths {
		def, err := readPipelineFile(path)
		if err != nil {
			return nil, err
		}
		out = append(out, namedPipeline{name: path, def: def})
	}
	return out, nil
}

// readPipelineFile loads and decodes one pipeline definition from disk.
func readPipelineFile(path string) (*pipeline.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file: %w", err)
	}
	def, err := pipeline.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pipeline %s: %w", path, err)
	}
	return def, nil
}

// printJSON renders v to the application's output writer as indented JSON.
func (a *App) printJSON(v any) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(a.outW, string(data))
	return err
}
