package simdevice

import (
	"context"
	"fmt"

	"github.com/vk/passgraph/internal/builder"
)

// BufferRecipe describes a byte buffer to be materialized later. Its
// fields may be adjusted via builder.MutateRecipe until compilation.
type BufferRecipe struct {
	Name     string
	Size     int
	Category builder.MemoryCategory
}

// MemoryCategory implements builder.Recipe.
func (r *BufferRecipe) MemoryCategory() builder.MemoryCategory {
	return r.Category
}

// Realize implements builder.Recipe. The buffer has no backing bytes until
// its category is committed.
func (r *BufferRecipe) Realize(ctx context.Context, dev builder.Device) (builder.Asset, error) {
	if r.Size <= 0 {
		return nil, fmt.Errorf("buffer %q: size must be positive, got %d", r.Name, r.Size)
	}
	return &Buffer{name: r.Name, size: r.Size}, nil
}

// Buffer is the concrete asset a BufferRecipe materializes into.
type Buffer struct {
	name   string
	size   int
	offset int
	data   []byte
}

func (b *Buffer) bind(data []byte, offset int) {
	b.data = data
	b.offset = offset
}

// Name returns the declared buffer name.
func (b *Buffer) Name() string { return b.name }

// Size returns the declared byte size.
func (b *Buffer) Size() int { return b.size }

// Offset returns the buffer's position within its arena. Only valid after
// commit.
func (b *Buffer) Offset() int { return b.offset }

// Bytes returns the committed backing slice. Touching a buffer before its
// category is committed is a programming error.
func (b *Buffer) Bytes() []byte {
	if b.data == nil {
		panic(fmt.Sprintf("simdevice: buffer %q used before memory commit", b.name))
	}
	return b.data
}
