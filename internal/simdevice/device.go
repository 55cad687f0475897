package simdevice

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/passgraph/internal/builder"
	"github.com/vk/passgraph/internal/ctxlog"
)

// Device implements builder.Device with in-memory arenas and counted
// fences.
type Device struct {
	mu        sync.Mutex
	nextFence int
	arenas    map[builder.MemoryCategory]*Arena
}

// New creates an empty simulated device.
func New() *Device {
	return &Device{arenas: make(map[builder.MemoryCategory]*Arena)}
}

// NewFence allocates a fence with the next sequential ID.
func (d *Device) NewFence(ctx context.Context) (builder.Fence, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f := &Fence{id: d.nextFence}
	d.nextFence++
	return f, nil
}

// CommitMemory allocates one arena sized to the category's buffers and
// sub-allocates each buffer at a distinct offset. The scheduler guarantees
// at most one commit per category per instantiation.
func (d *Device) CommitMemory(ctx context.Context, category builder.MemoryCategory, assets []builder.Asset) error {
	logger := ctxlog.FromContext(ctx)

	total := 0
	buffers := make([]*Buffer, len(assets))
	for i, a := range assets {
		buf, ok := a.(*Buffer)
		if !ok {
			return fmt.Errorf("category %q: unsupported asset type %T", category, a)
		}
		buffers[i] = buf
		total += buf.size
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.arenas[category]; exists {
		return fmt.Errorf("category %q committed twice", category)
	}

	arena := &Arena{Category: category, Size: total, data: make([]byte, total)}
	offset := 0
	for _, buf := range buffers {
		buf.bind(arena.data[offset:offset+buf.size], offset)
		offset += buf.size
	}
	d.arenas[category] = arena

	logger.Debug("Committed memory category.", "category", string(category), "buffers", len(buffers), "bytes", total)
	return nil
}

// Arena is one committed memory pool.
type Arena struct {
	Category builder.MemoryCategory
	Size     int
	data     []byte
}

// Arena returns the committed arena for a category, or nil before commit.
func (d *Device) Arena(category builder.MemoryCategory) *Arena {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.arenas[category]
}
