package registry

import (
	"context"
	"fmt"

	"github.com/vk/passgraph/internal/config"
	"github.com/vk/passgraph/internal/ctxlog"
)

// Validate cross-checks a loaded model against the registered kinds before
// any graph building happens, so unknown kinds fail early with one clear
// error instead of halfway through translation.
func (r *Registry) Validate(ctx context.Context, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)

	for _, rb := range model.Graph.Resources {
		if _, ok := r.assetKinds[rb.Kind]; !ok {
			return fmt.Errorf("resource %q: unknown asset kind %q", rb.Name, rb.Kind)
		}
	}
	for _, pb := range model.Graph.Passes {
		if _, ok := r.passKinds[pb.Kind]; !ok {
			return fmt.Errorf("pass %q: unknown pass kind %q", pb.Name, pb.Kind)
		}
	}

	logger.Debug("Registry validation passed.", "resources", len(model.Graph.Resources), "passes", len(model.Graph.Passes))
	return nil
}
