// Package hcl loads graph declarations from .hcl files into the unified
// config model.
package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/passgraph/internal/config"
	"github.com/vk/passgraph/internal/ctxlog"
)

// Loader is the HCL-specific implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot decodes the top-level blocks of a graph file.
type fileRoot struct {
	Resources []*resourceBlock `hcl:"resource,block"`
	Passes    []*passBlock     `hcl:"pass,block"`
}

type resourceBlock struct {
	Kind      string   `hcl:"kind,label"`
	Name      string   `hcl:"name,label"`
	Aliasable *bool    `hcl:"aliasable,optional"`
	Output    *bool    `hcl:"output,optional"`
	Remain    hcl.Body `hcl:",remain"`
}

type passBlock struct {
	Kind     string   `hcl:"kind,label"`
	Name     string   `hcl:"name,label"`
	Produces []string `hcl:"produces,optional"`
	Consumes []string `hcl:"consumes,optional"`
	Remain   hcl.Body `hcl:",remain"`
}

// Load reads and translates one .hcl graph file.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	if filepath.Ext(path) != ".hcl" {
		return nil, fmt.Errorf("graph file %s: expected a .hcl file", path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading graph file: %w", err)
	}
	return l.LoadBytes(ctx, path, src)
}

// LoadBytes parses and translates graph source held in memory. filename is
// used only for diagnostics.
func (l *Loader) LoadBytes(ctx context.Context, filename string, src []byte) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("decoding %s: %w", filename, diags)
	}

	model := &config.Model{Graph: &config.Graph{}}
	for _, rb := range root.Resources {
		args, err := evaluateArguments(rb.Remain)
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", rb.Name, err)
		}
		model.Graph.Resources = append(model.Graph.Resources, &config.ResourceBlock{
			Kind:      rb.Kind,
			Name:      rb.Name,
			Aliasable: rb.Aliasable,
			Output:    rb.Output != nil && *rb.Output,
			Arguments: args,
		})
	}
	for _, pb := range root.Passes {
		args, err := evaluateArguments(pb.Remain)
		if err != nil {
			return nil, fmt.Errorf("pass %q: %w", pb.Name, err)
		}
		model.Graph.Passes = append(model.Graph.Passes, &config.PassBlock{
			Kind:      pb.Kind,
			Name:      pb.Name,
			Produces:  pb.Produces,
			Consumes:  pb.Consumes,
			Arguments: args,
		})
	}

	logger.Debug("Graph file loaded.", "file", filename, "resources", len(model.Graph.Resources), "passes", len(model.Graph.Passes))
	return model, nil
}

// evaluateArguments turns a block's remaining attributes into literal
// values. Graph files carry plain data, so expressions are evaluated with
// no variables in scope.
func evaluateArguments(body hcl.Body) (map[string]cty.Value, error) {
	if body == nil {
		return nil, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("reading arguments: %w", diags)
	}
	if len(attrs) == 0 {
		return nil, nil
	}
	args := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating argument %q: %w", name, diags)
		}
		args[name] = val
	}
	return args, nil
}
