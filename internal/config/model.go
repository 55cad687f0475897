// Package config defines the format-agnostic declaration model a loader
// produces from graph files, decoupling the application from any one
// declaration syntax.
package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of one loaded graph declaration.
type Model struct {
	Graph *Graph
}

// Graph holds the declared resource and pass blocks in file order.
type Graph struct {
	Resources []*ResourceBlock
	Passes    []*PassBlock
}

// ResourceBlock is the format-agnostic form of a `resource` block.
type ResourceBlock struct {
	Kind string
	Name string
	// Aliasable overrides the default (true) when present.
	Aliasable *bool
	// Output designates the resource as a graph output.
	Output bool
	// Arguments are the block's remaining attributes, evaluated to values.
	Arguments map[string]cty.Value
}

// PassBlock is the format-agnostic form of a `pass` block.
type PassBlock struct {
	Kind      string
	Name      string
	Produces  []string
	Consumes  []string
	Arguments map[string]cty.Value
}

// Loader turns a graph file into the unified model.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}
