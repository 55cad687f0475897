package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecipe struct {
	category MemoryCategory
	size     int
}

func (r *fakeRecipe) MemoryCategory() MemoryCategory { return r.category }

func (r *fakeRecipe) Realize(ctx context.Context, dev Device) (Asset, error) {
	return r.size, nil
}

type otherRecipe struct{}

func (otherRecipe) MemoryCategory() MemoryCategory { return "other" }

func (otherRecipe) Realize(ctx context.Context, dev Device) (Asset, error) {
	return nil, nil
}

func TestDefineResource(t *testing.T) {
	b := New()
	r1 := b.DefineResource(&fakeRecipe{category: "a"})
	r2 := b.DefineResource(&fakeRecipe{category: "b"}, NonAliasable())

	assert.Equal(t, 0, r1.Index())
	assert.Equal(t, 1, r2.Index())

	decls := b.Resources()
	require.Len(t, decls, 2)
	assert.True(t, decls[0].Aliasable)
	assert.False(t, decls[1].Aliasable)
}

func TestMutateRecipe(t *testing.T) {
	b := New()
	ref := b.DefineResource(&fakeRecipe{category: "a", size: 16})

	recipe := MutateRecipe[*fakeRecipe](b, ref)
	recipe.size = 32

	assert.Equal(t, 32, b.Resources()[0].Recipe.(*fakeRecipe).size)
}

func TestMutateRecipeWrongTypePanics(t *testing.T) {
	b := New()
	ref := b.DefineResource(&fakeRecipe{})

	assert.Panics(t, func() {
		MutateRecipe[otherRecipe](b, ref)
	})
}

func TestForeignRefPanics(t *testing.T) {
	b1 := New()
	b2 := New()
	foreign := b1.DefineResource(&fakeRecipe{})

	assert.Panics(t, func() {
		b2.CheckRef(foreign)
	})

	assert.Panics(t, func() {
		b2.DefineTask(Task{Name: "p", Uses: []Use{Produces(foreign)}})
	})
}

func TestZeroRefPanics(t *testing.T) {
	b := New()
	assert.Panics(t, func() {
		b.CheckRef(ResourceRef{})
	})
}

func TestUseShorthands(t *testing.T) {
	b := New()
	ref := b.DefineResource(&fakeRecipe{})

	p := Produces(ref)
	assert.True(t, p.Produce)
	assert.False(t, p.NonAliasable)

	c := Consumes(ref)
	assert.False(t, c.Produce)
	assert.Equal(t, ref, c.Resource)
}
