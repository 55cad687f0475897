package simdevice

import "sync/atomic"

// Fence is the simulated synchronization handle. Recording a command that
// signals it flips it to the signaled state immediately; there is no
// asynchronous completion to wait for in the simulation.
type Fence struct {
	id       int
	signaled atomic.Bool
}

// ID returns the fence's sequential allocation number.
func (f *Fence) ID() int { return f.id }

// Signaled reports whether the fence has been signaled since its last
// reset.
func (f *Fence) Signaled() bool { return f.signaled.Load() }

// Signal marks the fence signaled.
func (f *Fence) Signal() { f.signaled.Store(true) }

// Reset clears the signaled state, recycling the fence for another run.
func (f *Fence) Reset() { f.signaled.Store(false) }
