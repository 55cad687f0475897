package builder

import "context"

// Fence is an opaque synchronization handle. A pass signals its fences on
// completion and a later pass (or an external caller) waits on them. The
// core never inspects a fence; it only routes fences between passes.
type Fence interface{}

// Asset is the concrete backing object a recipe materializes into. Its
// representation belongs entirely to the device; the core only stores and
// hands out shared references.
type Asset interface{}

// MemoryCategory groups assets that must be committed into the same backing
// memory pool. The key is opaque to the core; the device interprets it.
type MemoryCategory string

// Device is the external collaborator that materializes synchronization
// handles and commits asset memory. All methods may block.
type Device interface {
	// NewFence allocates one synchronization handle.
	NewFence(ctx context.Context) (Fence, error)

	// CommitMemory binds the backing memory of every asset in one category.
	// It is invoked at most once per distinct category per instantiation,
	// in plan order of first appearance.
	CommitMemory(ctx context.Context, category MemoryCategory, assets []Asset) error
}

// Recipe describes how to materialize a resource later, without committing
// to a concrete object at declaration time. Recipes may be mutated via
// MutateRecipe up until compilation.
type Recipe interface {
	// MemoryCategory reports which commitment group the realized asset
	// belongs to.
	MemoryCategory() MemoryCategory

	// Realize materializes the concrete asset. The asset's memory is not
	// usable until the device commits its category.
	Realize(ctx context.Context, dev Device) (Asset, error)
}

// PassContext exposes read-only lookup of materialized assets to a pass
// builder. Lookups use the same references the graph was declared with.
type PassContext interface {
	Asset(ref ResourceRef) Asset
}

// PassBuilder constructs the concrete, exclusively-owned pass object once
// all assets exist. It is the pass-side analogue of Recipe.
type PassBuilder interface {
	BuildPass(ctx context.Context, pc PassContext) (Pass, error)
}

// Pass is a concrete unit of work, invoked once per run.
type Pass interface {
	// NumSignalFences reports how many fences this pass will signal on the
	// upcoming run. The count is fixed per pass instance within one run but
	// may vary between runs; it is queried once per BeginRun.
	NumSignalFences() int

	// Encode records this pass's work onto target. waits holds every fence
	// the pass must wait on before its work may begin; signals is the
	// pass's own disjoint sub-range of the run's fence pool. env carries
	// caller-supplied per-run state the core does not interpret.
	Encode(target any, waits, signals []Fence, env any) error
}
