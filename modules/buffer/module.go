// Package buffer registers the 'buffer' asset kind: a fixed-size byte
// buffer committed into a per-category memory arena.
package buffer

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/passgraph/internal/builder"
	"github.com/vk/passgraph/internal/registry"
	"github.com/vk/passgraph/internal/simdevice"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a buffer resource block.
type Input struct {
	Size     int    `arg:"size"`
	Category string `arg:"category,optional"`
}

// NewRecipe builds a buffer recipe from a decoded resource block.
func NewRecipe(name string, args map[string]cty.Value) (builder.Recipe, error) {
	input := Input{Category: "default"}
	if err := registry.DecodeArgs(args, &input); err != nil {
		return nil, fmt.Errorf("buffer %q: %w", name, err)
	}
	if input.Size <= 0 {
		return nil, fmt.Errorf("buffer %q: size must be positive, got %d", name, input.Size)
	}
	return &simdevice.BufferRecipe{
		Name:     name,
		Size:     input.Size,
		Category: builder.MemoryCategory(input.Category),
	}, nil
}

// Register registers the asset kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAssetKind("buffer", &registry.RegisteredAsset{NewRecipe: NewRecipe})
}
