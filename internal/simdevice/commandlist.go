package simdevice

import (
	"fmt"

	"github.com/vk/passgraph/internal/builder"
)

// Command is one recorded pass invocation: the fences it waited on and the
// fences it signaled, by ID.
type Command struct {
	Pass    string
	Waits   []int
	Signals []int
}

// CommandList is the encode target for simulated runs. It records one
// Command per pass and collects the bytes observed by readback passes.
type CommandList struct {
	Commands  []Command
	Readbacks map[string][]byte
}

// NewCommandList creates an empty command list.
func NewCommandList() *CommandList {
	return &CommandList{Readbacks: make(map[string][]byte)}
}

// Record appends one command and signals every signal fence, simulating
// immediate completion of the pass's work.
func (cl *CommandList) Record(pass string, waits, signals []builder.Fence) error {
	cmd := Command{Pass: pass}
	for _, w := range waits {
		f, ok := w.(*Fence)
		if !ok {
			return fmt.Errorf("pass %q: wait fence has unsupported type %T", pass, w)
		}
		cmd.Waits = append(cmd.Waits, f.ID())
	}
	for _, s := range signals {
		f, ok := s.(*Fence)
		if !ok {
			return fmt.Errorf("pass %q: signal fence has unsupported type %T", pass, s)
		}
		f.Signal()
		cmd.Signals = append(cmd.Signals, f.ID())
	}
	cl.Commands = append(cl.Commands, cmd)
	return nil
}

// RecordReadback stores a copy of the bytes a readback pass observed.
func (cl *CommandList) RecordReadback(pass string, data []byte) {
	cl.Readbacks[pass] = append([]byte(nil), data...)
}
