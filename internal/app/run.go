package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/passgraph/internal/builder"
	"github.com/vk/passgraph/internal/ctxlog"
	"github.com/vk/passgraph/internal/executor"
	"github.com/vk/passgraph/internal/scheduler"
	"github.com/vk/passgraph/internal/simdevice"
)

// Run compiles the loaded graph, instantiates it on a fresh simulated
// device, and encodes the configured number of frames, carrying each
// frame's output fences into the next frame's input fences.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	b, outputs, err := a.buildGraph(ctx)
	if err != nil {
		return fmt.Errorf("building pass graph: %w", err)
	}

	plan, err := scheduler.Compile(ctx, b, outputs...)
	if err != nil {
		return fmt.Errorf("compiling pass graph: %w", err)
	}
	a.logger.Info("Pass graph compiled.", "passes", len(plan.Tasks), "resources", len(plan.Resources))
	for i, t := range plan.Tasks {
		a.logger.Debug("Scheduled pass.", "index", i, "pass", t.Name, "waits", t.Waits, "output", t.Output)
	}

	dev := simdevice.New()
	runner, err := executor.Instantiate(ctx, plan, dev)
	if err != nil {
		return fmt.Errorf("instantiating plan: %w", err)
	}
	a.logger.Info("Plan instantiated.")

	var carry []builder.Fence
	for frame := 0; frame < a.cfg.Frames; frame++ {
		run, err := runner.BeginRun(ctx)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}

		cl := simdevice.NewCommandList()
		if err := run.Encode(ctx, cl, carry, dev); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}

		carry = carry[:0]
		for _, fences := range run.OutputFences() {
			carry = append(carry, fences...)
		}

		a.logger.Info("Frame encoded.", "frame", frame, "run_id", run.ID(), "commands", len(cl.Commands))
		a.reportReadbacks(cl, frame)
	}

	return nil
}

// reportReadbacks logs what the readback passes observed, in a stable
// order.
func (a *App) reportReadbacks(cl *simdevice.CommandList, frame int) {
	names := make([]string, 0, len(cl.Readbacks))
	for name := range cl.Readbacks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		data := cl.Readbacks[name]
		var sum int
		for _, v := range data {
			sum += int(v)
		}
		a.logger.Info("Readback complete.", "frame", frame, "pass", name, "bytes", len(data), "sum", sum)
	}
}
