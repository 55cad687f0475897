package builder

// ResourceRef is a typed reference to a resource declared on one specific
// Builder. Refs from one builder are meaningless on another; mixing them is
// a programming error and fails fast.
type ResourceRef struct {
	owner *Builder
	index int
}

// Index returns the stable resource index the ref resolves to. Resource
// indices survive compilation unchanged, so plan consumers may use them to
// address per-resource state.
func (r ResourceRef) Index() int {
	return r.index
}

// Use declares one resource access by a pass.
type Use struct {
	Resource ResourceRef
	// Produce marks this use as the write that brings the resource's
	// contents into existence. Every resource needs exactly one producing
	// use across the whole graph.
	Produce bool
	// NonAliasable forces the resource's backing memory to stay reserved
	// for the entire plan, overriding the resource's own aliasable flag
	// for good.
	NonAliasable bool
}

// Produces is shorthand for a producing Use.
func Produces(ref ResourceRef) Use {
	return Use{Resource: ref, Produce: true}
}

// Consumes is shorthand for a consuming Use.
func Consumes(ref ResourceRef) Use {
	return Use{Resource: ref}
}

// Task declares one pass: a named unit of work with an ordered use-list and
// a builder that will construct the concrete pass object at instantiation.
type Task struct {
	Name  string
	Build PassBuilder
	Uses  []Use
}

// ResourceDecl is the builder-side record of one declared resource.
type ResourceDecl struct {
	Recipe    Recipe
	Aliasable bool
}
