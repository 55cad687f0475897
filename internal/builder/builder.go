package builder

import "fmt"

// Builder accumulates resource and pass declarations until compilation.
// It is not safe for concurrent use; declaration is a single-threaded,
// one-shot phase.
type Builder struct {
	resources []ResourceDecl
	tasks     []Task
}

// New creates an empty Builder.
func New() *Builder {
	return &Builder{}
}

// ResourceOption adjusts a resource declaration.
type ResourceOption func(*ResourceDecl)

// NonAliasable declares that the resource's backing memory may never be
// shared with another resource; its lifetime will span the entire plan.
func NonAliasable() ResourceOption {
	return func(d *ResourceDecl) { d.Aliasable = false }
}

// DefineResource registers a resource recipe and returns a reference valid
// only for this builder. Registration order implies no ordering constraint.
func (b *Builder) DefineResource(recipe Recipe, opts ...ResourceOption) ResourceRef {
	decl := ResourceDecl{Recipe: recipe, Aliasable: true}
	for _, opt := range opts {
		opt(&decl)
	}
	b.resources = append(b.resources, decl)
	return ResourceRef{owner: b, index: len(b.resources) - 1}
}

// DefineTask registers a pass and its resource-use list.
func (b *Builder) DefineTask(t Task) {
	for _, u := range t.Uses {
		b.checkRef(u.Resource)
	}
	b.tasks = append(b.tasks, t)
}

// MutateRecipe returns the recipe stored for ref so it can be adjusted
// before compilation, e.g. filling in a size computed from other state.
// It panics if the stored recipe is not of type R: requesting a recipe
// under the wrong type is a programming error, not a runtime condition.
func MutateRecipe[R Recipe](b *Builder, ref ResourceRef) R {
	b.checkRef(ref)
	recipe, ok := b.resources[ref.index].Recipe.(R)
	if !ok {
		panic(fmt.Sprintf("builder: resource %d holds a %T, not the requested recipe type", ref.index, b.resources[ref.index].Recipe))
	}
	return recipe
}

// Resources exposes the declared resources for compilation.
func (b *Builder) Resources() []ResourceDecl {
	return b.resources
}

// Tasks exposes the declared passes for compilation.
func (b *Builder) Tasks() []Task {
	return b.tasks
}

// CheckRef verifies that ref was issued by this builder, panicking
// otherwise. Compilation uses it to reject foreign output refs.
func (b *Builder) CheckRef(ref ResourceRef) {
	b.checkRef(ref)
}

func (b *Builder) checkRef(ref ResourceRef) {
	if ref.owner != b {
		panic("builder: resource ref was issued by a different builder")
	}
	if ref.index < 0 || ref.index >= len(b.resources) {
		panic(fmt.Sprintf("builder: resource ref index %d out of range", ref.index))
	}
}
