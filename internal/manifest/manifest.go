package manifest

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/toolpipe/internal/ctxlog"
	"github.com/specialistvlad/toolpipe/internal/tool"
)

// Decl is the format-agnostic declaration of one tool: identity, display
// metadata, and the input/output shapes the registry validates against.
type Decl struct {
	ID          string
	Name        string
	Description string
	Category    string
	Inputs      tool.Shape
	Outputs     tool.Shape
}

// toolFile is the top-level structure of a tool manifest file.
type toolFile struct {
	Tools []*toolBlock `hcl:"tool,block"`
	Body  hcl.Body     `hcl:",remain"`
}

// toolBlock is one `tool "<id>" { ... }` declaration.
type toolBlock struct {
	ID          string         `hcl:"id,label"`
	Name        string         `hcl:"name,optional"`
	Description string         `hcl:"description,optional"`
	Category    string         `hcl:"category,optional"`
	Inputs      []*inputBlock  `hcl:"input,block"`
	Outputs     []*outputBlock `hcl:"output,block"`
}

// inputBlock declares a single input key for a tool.
type inputBlock struct {
	Key         string         `hcl:"key,label"`
	Type        hcl.Expression `hcl:"type"`
	Required    bool           `hcl:"required,optional"`
	Description string         `hcl:"description,optional"`
}

// outputBlock declares a single output key produced by a tool.
type outputBlock struct {
	Key         string         `hcl:"key,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
}

// Load parses every .hcl file in fsys into tool declarations. Duplicate tool
// ids across files are an error.
func Load(ctx context.Context, fsys fs.FS) ([]Decl, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := listManifestFiles(fsys)
	if err != nil {
		return nil, fmt.Errorf("walk manifests: %w", err)
	}
	if len(paths) == 0 {
		logger.Warn("No .hcl tool manifests found.")
		return nil, nil
	}
	logger.Debug("Found tool manifests to load.", "files", paths)

	parser := hclparse.NewParser()
	var decls []Decl
	seen := make(map[string]string) // tool id -> file that declared it

	for _, path := range paths {
		src, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read manifest %s: %w", path, err)
		}
		file, diags := parser.ParseHCL(src, path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parse manifest %s: %w", path, diags)
		}

		var tf toolFile
		if diags := gohcl.DecodeBody(file.Body, nil, &tf); diags.HasErrors() {
			return nil, fmt.Errorf("decode manifest %s: %w", path, diags)
		}

		for _, block := range tf.Tools {
			if prev, ok := seen[block.ID]; ok {
				return nil, fmt.Errorf("manifest %s: tool %q already declared in %s", path, block.ID, prev)
			}
			seen[block.ID] = path

			decl, err := translateTool(ctx, block)
			if err != nil {
				return nil, fmt.Errorf("manifest %s: %w", path, err)
			}
			decls = append(decls, decl)
		}
	}

	sort.Slice(decls, func(i, j int) bool { return decls[i].ID < decls[j].ID })
	logger.Info("Tool manifests loaded.", "tools", len(decls))
	return decls, nil
}

// translateTool converts one HCL tool block into the agnostic declaration.
func translateTool(ctx context.Context, block *toolBlock) (Decl, error) {
	decl := Decl{
		ID:          block.ID,
		Name:        block.Name,
		Description: block.Description,
		Category:    block.Category,
	}

	for _, in := range block.Inputs {
		typ, err := typeExprToCtyType(ctx, in.Type)
		if err != nil {
			return Decl{}, fmt.Errorf("tool %q, input %q: %w", block.ID, in.Key, err)
		}
		decl.Inputs = append(decl.Inputs, tool.Field{
			Key:         in.Key,
			Type:        typ,
			Required:    in.Required,
			Description: in.Description,
		})
	}

	for _, out := range block.Outputs {
		typ, err := typeExprToCtyType(ctx, out.Type)
		if err != nil {
			return Decl{}, fmt.Errorf("tool %q, output %q: %w", block.ID, out.Key, err)
		}
		decl.Outputs = append(decl.Outputs, tool.Field{
			Key:         out.Key,
			Type:        typ,
			Description: out.Description,
		})
	}

	return decl, nil
}

func listManifestFiles(fsys fs.FS) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".hcl") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
