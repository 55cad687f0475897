package executor

import (
	"context"
	"fmt"

	"github.com/vk/passgraph/internal/builder"
	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/scheduler"
)

// passContext exposes read-only asset lookup to pass builders. Resource
// indices are stable across compilation, so declaration-time refs resolve
// directly.
type passContext struct {
	assets []builder.Asset
}

func (pc passContext) Asset(ref builder.ResourceRef) builder.Asset {
	return pc.assets[ref.Index()]
}

// Instantiate binds the plan's recipes and pass builders to concrete
// objects supplied by the device. Any materialization failure aborts
// instantiation and propagates the device's error; no partial cleanup is
// attempted beyond garbage collection.
func Instantiate(ctx context.Context, plan *scheduler.Plan, dev builder.Device) (*Runner, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Instantiate: starting.", "passes", len(plan.Tasks), "resources", len(plan.Resources))

	// Materialize every resource as a shared handle so late-bound passes
	// can reference them without duplication.
	assets := make([]builder.Asset, len(plan.Resources))
	for ri, pr := range plan.Resources {
		asset, err := pr.Recipe.Realize(ctx, dev)
		if err != nil {
			return nil, fmt.Errorf("realizing resource %d: %w", ri, err)
		}
		assets[ri] = asset
	}
	logger.Debug("Instantiate: resources realized.")

	// Group assets by memory category in plan-bind order and commit each
	// distinct category exactly once, so the device can fill committed
	// memory lazily, one pool per category.
	var order []builder.MemoryCategory
	groups := make(map[builder.MemoryCategory][]builder.Asset)
	for _, t := range plan.Tasks {
		for _, ri := range t.Binds {
			cat := plan.Resources[ri].Recipe.MemoryCategory()
			if _, seen := groups[cat]; !seen {
				order = append(order, cat)
			}
			groups[cat] = append(groups[cat], assets[ri])
		}
	}
	for _, cat := range order {
		if err := dev.CommitMemory(ctx, cat, groups[cat]); err != nil {
			return nil, fmt.Errorf("committing memory category %q: %w", cat, err)
		}
	}
	logger.Debug("Instantiate: memory committed.", "categories", len(order))

	pc := passContext{assets: assets}
	passes := make([]runnerPass, len(plan.Tasks))
	for i, t := range plan.Tasks {
		pass, err := t.Build.BuildPass(ctx, pc)
		if err != nil {
			return nil, fmt.Errorf("building pass %q: %w", t.Name, err)
		}
		passes[i] = runnerPass{
			name:   t.Name,
			pass:   pass,
			waits:  t.Waits,
			output: t.Output,
		}
	}
	logger.Debug("Instantiate: passes built.")

	return &Runner{dev: dev, plan: plan, assets: assets, passes: passes}, nil
}
