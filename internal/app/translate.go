package app

import (
	"context"
	"fmt"

	"github.com/vk/passgraph/internal/builder"
	"github.com/vk/passgraph/internal/ctxlog"
)

// buildGraph translates the loaded model into builder declarations,
// returning the populated builder and the refs of the resources designated
// as graph outputs.
func (a *App) buildGraph(ctx context.Context) (*builder.Builder, []builder.ResourceRef, error) {
	logger := ctxlog.FromContext(ctx)
	b := builder.New()

	refs := make(map[string]builder.ResourceRef, len(a.model.Graph.Resources))
	var outputs []builder.ResourceRef
	for _, rb := range a.model.Graph.Resources {
		if _, dup := refs[rb.Name]; dup {
			return nil, nil, fmt.Errorf("duplicate resource name %q", rb.Name)
		}
		kind, _ := a.registry.AssetKind(rb.Kind)
		recipe, err := kind.NewRecipe(rb.Name, rb.Arguments)
		if err != nil {
			return nil, nil, err
		}
		var opts []builder.ResourceOption
		if rb.Aliasable != nil && !*rb.Aliasable {
			opts = append(opts, builder.NonAliasable())
		}
		ref := b.DefineResource(recipe, opts...)
		refs[rb.Name] = ref
		if rb.Output {
			outputs = append(outputs, ref)
		}
	}

	resolve := func(pass string, names []string) ([]builder.ResourceRef, error) {
		out := make([]builder.ResourceRef, len(names))
		for i, name := range names {
			ref, ok := refs[name]
			if !ok {
				return nil, fmt.Errorf("pass %q references unknown resource %q", pass, name)
			}
			out[i] = ref
		}
		return out, nil
	}

	for _, pb := range a.model.Graph.Passes {
		produces, err := resolve(pb.Name, pb.Produces)
		if err != nil {
			return nil, nil, err
		}
		consumes, err := resolve(pb.Name, pb.Consumes)
		if err != nil {
			return nil, nil, err
		}
		kind, _ := a.registry.PassKind(pb.Kind)
		passBuilder, err := kind.NewBuilder(pb.Name, pb.Arguments, produces, consumes)
		if err != nil {
			return nil, nil, err
		}

		uses := make([]builder.Use, 0, len(produces)+len(consumes))
		for _, ref := range produces {
			uses = append(uses, builder.Produces(ref))
		}
		for _, ref := range consumes {
			uses = append(uses, builder.Consumes(ref))
		}
		b.DefineTask(builder.Task{
			Name:  fmt.Sprintf("%s.%s", pb.Kind, pb.Name),
			Build: passBuilder,
			Uses:  uses,
		})
	}

	logger.Debug("Graph translated into builder declarations.",
		"resources", len(refs), "passes", len(a.model.Graph.Passes), "outputs", len(outputs))
	return b, outputs, nil
}
