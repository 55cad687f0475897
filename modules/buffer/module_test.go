package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/passgraph/internal/builder"
	"github.com/vk/passgraph/internal/simdevice"
)

func TestNewRecipe(t *testing.T) {
	t.Run("explicit category", func(t *testing.T) {
		recipe, err := NewRecipe("front", map[string]cty.Value{
			"size":     cty.NumberIntVal(64),
			"category": cty.StringVal("staging"),
		})
		require.NoError(t, err)

		buf := recipe.(*simdevice.BufferRecipe)
		assert.Equal(t, "front", buf.Name)
		assert.Equal(t, 64, buf.Size)
		assert.Equal(t, builder.MemoryCategory("staging"), recipe.MemoryCategory())
	})

	t.Run("category defaults", func(t *testing.T) {
		recipe, err := NewRecipe("front", map[string]cty.Value{"size": cty.NumberIntVal(8)})
		require.NoError(t, err)
		assert.Equal(t, builder.MemoryCategory("default"), recipe.MemoryCategory())
	})

	t.Run("size is required", func(t *testing.T) {
		_, err := NewRecipe("front", nil)
		require.ErrorContains(t, err, `missing required argument "size"`)
	})

	t.Run("size must be positive", func(t *testing.T) {
		_, err := NewRecipe("front", map[string]cty.Value{"size": cty.NumberIntVal(0)})
		require.ErrorContains(t, err, "size must be positive")
	})
}
