// Package registry maps declarable kind names to the Go constructors that
// turn decoded graph blocks into recipes and pass builders. Modules
// register their kinds once at startup; double registration is a
// programming error and panics.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/passgraph/internal/builder"
)

// Module is the interface every built-in kind package implements to be
// registered with an application instance.
type Module interface {
	Register(r *Registry)
}

// RegisteredAsset constructs a resource recipe from a decoded block.
type RegisteredAsset struct {
	// NewRecipe builds the recipe from the block's evaluated arguments.
	NewRecipe func(name string, args map[string]cty.Value) (builder.Recipe, error)
}

// RegisteredPass constructs a pass builder from a decoded block. produces
// and consumes carry the resolved refs of the block's produces/consumes
// lists, in declaration order.
type RegisteredPass struct {
	NewBuilder func(name string, args map[string]cty.Value, produces, consumes []builder.ResourceRef) (builder.PassBuilder, error)
}

// Registry holds the registered kinds for a single application instance.
type Registry struct {
	assetKinds map[string]*RegisteredAsset
	passKinds  map[string]*RegisteredPass
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		assetKinds: make(map[string]*RegisteredAsset),
		passKinds:  make(map[string]*RegisteredPass),
	}
}

// RegisterAssetKind registers a resource kind by name.
func (r *Registry) RegisterAssetKind(kind string, h *RegisteredAsset) {
	if _, exists := r.assetKinds[kind]; exists {
		panic(fmt.Sprintf("asset kind %q already registered", kind))
	}
	slog.Debug("Registering asset kind.", "kind", kind)
	r.assetKinds[kind] = h
}

// RegisterPassKind registers a pass kind by name.
func (r *Registry) RegisterPassKind(kind string, h *RegisteredPass) {
	if _, exists := r.passKinds[kind]; exists {
		panic(fmt.Sprintf("pass kind %q already registered", kind))
	}
	slog.Debug("Registering pass kind.", "kind", kind)
	r.passKinds[kind] = h
}

// AssetKind looks up a registered resource kind.
func (r *Registry) AssetKind(kind string) (*RegisteredAsset, bool) {
	h, ok := r.assetKinds[kind]
	return h, ok
}

// PassKind looks up a registered pass kind.
func (r *Registry) PassKind(kind string) (*RegisteredPass, bool) {
	h, ok := r.passKinds[kind]
	return h, ok
}
