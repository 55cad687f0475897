// Package combine registers the 'combine' pass kind: it folds any number
// of consumed buffers into one produced buffer with a byte-wise operator.
package combine

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

// Input defines the arguments of a combine pass block.
type Input struct {
	Op string `arg:"op,optional"`
}

type passBuilder struct {
	name string
	op   string
	out  builder.ResourceRef
	in   []builder.ResourceRef
}

// BuildPass implements builder.PassBuilder.
func (b *passBuilder) BuildPass(ctx context.Context, pc builder.PassContext) (builder.Pass, error) {
	out, ok := pc.Asset(b.out).(*simdevice.Buffer)
	if !ok {
		return nil, fmt.Errorf("combine %q: output must be a buffer, got %T", b.name, pc.Asset(b.out))
	}
	in := make([]*simdevice.Buffer, len(b.in))
	for i, ref := range b.in {
		buf, ok := pc.Asset(ref).(*simdevice.Buffer)
		if !ok {
			return nil, fmt.Errorf("combine %q: input %d must be a buffer, got %T", b.name, i, pc.Asset(ref))
		}
		if buf.Size() != out.Size() {
			return nil, fmt.Errorf("combine %q: input %q is %d bytes, output %q is %d",
				b.name, buf.Name(), buf.Size(), out.Name(), out.Size())
		}
		in[i] = buf
	}
	return &pass{name: b.name, op: b.op, out: out, in: in}, nil
}

type pass struct {
	name string
	op   string
	out  *simdevice.Buffer
	in   []*simdevice.Buffer
}

// NumSignalFences implements builder.Pass.
func (p *pass) NumSignalFences() int { return 1 }

// Encode implements builder.Pass.
func (p *pass) Encode(target any, waits, signals []builder.Fence, env any) error {
	cl, ok := target.(*simdevice.CommandList)
	if !ok {
		return fmt.Errorf("combine %q: unsupported encode target %T", p.name, target)
	}
	data := p.out.Bytes()
	for i := range data {
		var acc byte
		for _, in := range p.in {
			b := in.Bytes()[i]
			switch p.op {
			case "xor":
				acc ^= b
			case "add":
				acc += b
			}
		}
		data[i] = acc
	}
	return cl.Record(p.name, waits, signals)
}

// NewBuilder builds a combine pass builder from a decoded pass block.
func NewBuilder(name string, args map[string]cty.Value, produces, consumes []builder.ResourceRef) (builder.PassBuilder, error) {
	if len(produces) != 1 || len(consumes) == 0 {
		return nil, fmt.Errorf("combine %q: expects one produced resource and at least one consumed", name)
	}
	input := Input{Op: "xor"}
	if err := registry.DecodeArgs(args, &input); err != nil {
		return nil, fmt.Errorf("combine %q: %w", name, err)
	}
	if input.Op != "xor" && input.Op != "add" {
		return nil, fmt.Errorf("combine %q: op must be 'xor' or 'add', got %q", name, input.Op)
	}
	return &passBuilder{name: name, op: input.Op, out: produces[0], in: consumes}, nil
}

// Register registers the pass kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPassKind("combine", &registry.RegisteredPass{NewBuilder: NewBuilder})
}
