// Package readback registers the 'readback' pass kind: it consumes one
// buffer and records its bytes on the command list, making it a graph
// output whose completion is externally observable.
package readback

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/passgraph/internal/builder"
	"github.com/vk/passgraph/internal/registry"
	"github.com/vk/passgraph/internal/simdevice"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

type passBuilder struct {
	name string
	in   builder.ResourceRef
}

// BuildPass implements builder.PassBuilder.
func (b *passBuilder) BuildPass(ctx context.Context, pc builder.PassContext) (builder.Pass, error) {
	in, ok := pc.Asset(b.in).(*simdevice.Buffer)
	if !ok {
		return nil, fmt.Errorf("readback %q: input must be a buffer, got %T", b.name, pc.Asset(b.in))
	}
	return &pass{name: b.name, in: in}, nil
}

type pass struct {
	name string
	in   *simdevice.Buffer
}

// NumSignalFences implements builder.Pass.
func (p *pass) NumSignalFences() int { return 1 }

// Encode implements builder.Pass.
func (p *pass) Encode(target any, waits, signals []builder.Fence, env any) error {
	cl, ok := target.(*simdevice.CommandList)
	if !ok {
		return fmt.Errorf("readback %q: unsupported encode target %T", p.name, target)
	}
	cl.RecordReadback(p.name, p.in.Bytes())
	return cl.Record(p.name, waits, signals)
}

// NewBuilder builds a readback pass builder from a decoded pass block.
func NewBuilder(name string, args map[string]cty.Value, produces, consumes []builder.ResourceRef) (builder.PassBuilder, error) {
	if len(produces) != 0 || len(consumes) != 1 {
		return nil, fmt.Errorf("readback %q: expects exactly one consumed resource and none produced", name)
	}
	if err := registry.DecodeArgs(args, &struct{}{}); err != nil {
		return nil, fmt.Errorf("readback %q: %w", name, err)
	}
	return &passBuilder{name: name, in: consumes[0]}, nil
}

// Register registers the pass kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPassKind("readback", &registry.RegisteredPass{NewBuilder: NewBuilder})
}
