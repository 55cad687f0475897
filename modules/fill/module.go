// Package fill registers the 'fill' pass kind: it produces one buffer
// filled with a constant byte value.
package fill

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

// Input defines the arguments of a fill pass block.
type Input struct {
	Value int `arg:"value"`
}

// passBuilder defers asset lookup until instantiation.
type passBuilder struct {
	name  string
	value byte
	out   builder.ResourceRef
}

// BuildPass implements builder.PassBuilder.
func (b *passBuilder) BuildPass(ctx context.Context, pc builder.PassContext) (builder.Pass, error) {
	out, ok := pc.Asset(b.out).(*simdevice.Buffer)
	if !ok {
		return nil, fmt.Errorf("fill %q: output must be a buffer, got %T", b.name, pc.Asset(b.out))
	}
	return &pass{name: b.name, value: b.value, out: out}, nil
}

type pass struct {
	name  string
	value byte
	out   *simdevice.Buffer
}

// NumSignalFences implements builder.Pass.
func (p *pass) NumSignalFences() int { return 1 }

// Encode implements builder.Pass.
func (p *pass) Encode(target any, waits, signals []builder.Fence, env any) error {
	cl, ok := target.(*simdevice.CommandList)
	if !ok {
		return fmt.Errorf("fill %q: unsupported encode target %T", p.name, target)
	}
	data := p.out.Bytes()
	for i := range data {
		data[i] = p.value
	}
	return cl.Record(p.name, waits, signals)
}

// NewBuilder builds a fill pass builder from a decoded pass block.
func NewBuilder(name string, args map[string]cty.Value, produces, consumes []builder.ResourceRef) (builder.PassBuilder, error) {
	if len(produces) != 1 || len(consumes) != 0 {
		return nil, fmt.Errorf("fill %q: expects exactly one produced resource and none consumed", name)
	}
	var input Input
	if err := registry.DecodeArgs(args, &input); err != nil {
		return nil, fmt.Errorf("fill %q: %w", name, err)
	}
	if input.Value < 0 || input.Value > 255 {
		return nil, fmt.Errorf("fill %q: value must fit a byte, got %d", name, input.Value)
	}
	return &passBuilder{name: name, value: byte(input.Value), out: produces[0]}, nil
}

// Register registers the pass kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPassKind("fill", &registry.RegisteredPass{NewBuilder: NewBuilder})
}
