package executor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/passgraph/internal/builder"
	"github.com/vk/passgraph/internal/scheduler"
)

type commitRecord struct {
	category builder.MemoryCategory
	assets   []builder.Asset
}

type fakeDevice struct {
	fenceCount int
	commits    []commitRecord
	failFence  bool
	failCommit bool
}

func (d *fakeDevice) NewFence(ctx context.Context) (builder.Fence, error) {
	if d.failFence {
		return nil, errors.New("fence pool exhausted")
	}
	d.fenceCount++
	return fmt.Sprintf("fence-%d", d.fenceCount), nil
}

func (d *fakeDevice) CommitMemory(ctx context.Context, category builder.MemoryCategory, assets []builder.Asset) error {
	if d.failCommit {
		return errors.New("out of device memory")
	}
	d.commits = append(d.commits, commitRecord{category: category, assets: assets})
	return nil
}

type fakeRecipe struct {
	name     string
	category builder.MemoryCategory
	fail     bool
}

func (r *fakeRecipe) MemoryCategory() builder.MemoryCategory { return r.category }

func (r *fakeRecipe) Realize(ctx context.Context, dev builder.Device) (builder.Asset, error) {
	if r.fail {
		return nil, errors.New("unrealizable")
	}
	return r.name, nil
}

type encodeCall struct {
	name    string
	target  any
	env     any
	waits   []builder.Fence
	signals []builder.Fence
}

type fakePass struct {
	name    string
	signals int
	fail    bool
	log     *[]encodeCall
}

func (p *fakePass) NumSignalFences() int { return p.signals }

func (p *fakePass) Encode(target any, waits, signals []builder.Fence, env any) error {
	if p.fail {
		return errors.New("encode rejected")
	}
	if p.log != nil {
		*p.log = append(*p.log, encodeCall{
			name:    p.name,
			target:  target,
			env:     env,
			waits:   append([]builder.Fence(nil), waits...),
			signals: append([]builder.Fence(nil), signals...),
		})
	}
	return nil
}

type fakePassBuilder struct {
	pass *fakePass
	fail bool
	// seen captures the asset resolved for seenRef at build time.
	seenRef *builder.ResourceRef
	seen    builder.Asset
}

func (pb *fakePassBuilder) BuildPass(ctx context.Context, pc builder.PassContext) (builder.Pass, error) {
	if pb.fail {
		return nil, errors.New("unbuildable")
	}
	if pb.seenRef != nil {
		pb.seen = pc.Asset(*pb.seenRef)
	}
	return pb.pass, nil
}

func resourcePlan(recipes ...*fakeRecipe) []scheduler.PlanResource {
	out := make([]scheduler.PlanResource, len(recipes))
	for i, r := range recipes {
		out[i] = scheduler.PlanResource{
			Recipe:    r,
			Aliasable: true,
			Lifetime:  scheduler.Interval{Start: 0, End: 1},
		}
	}
	return out
}

func TestInstantiateCommitsEachCategoryOnce(t *testing.T) {
	// Three resources across two categories, bound by two passes. Each
	// category must be committed exactly once, in bind order, with its
	// assets grouped.
	plan := &scheduler.Plan{
		Resources: resourcePlan(
			&fakeRecipe{name: "a0", category: "staging"},
			&fakeRecipe{name: "a1", category: "display"},
			&fakeRecipe{name: "a2", category: "staging"},
		),
		Tasks: []scheduler.PlanTask{
			{Name: "p0", Build: &fakePassBuilder{pass: &fakePass{name: "p0"}}, Binds: []int{0, 1}},
			{Name: "p1", Build: &fakePassBuilder{pass: &fakePass{name: "p1"}}, Binds: []int{2}},
		},
	}

	dev := &fakeDevice{}
	_, err := Instantiate(context.Background(), plan, dev)
	require.NoError(t, err)

	require.Len(t, dev.commits, 2)
	assert.Equal(t, builder.MemoryCategory("staging"), dev.commits[0].category)
	assert.Equal(t, []builder.Asset{"a0", "a2"}, dev.commits[0].assets)
	assert.Equal(t, builder.MemoryCategory("display"), dev.commits[1].category)
	assert.Equal(t, []builder.Asset{"a1"}, dev.commits[1].assets)
}

func TestInstantiateResolvesAssetsForPassBuilders(t *testing.T) {
	b := builder.New()
	ref := b.DefineResource(&fakeRecipe{name: "buf"})

	pb := &fakePassBuilder{pass: &fakePass{name: "p0"}, seenRef: &ref}
	plan := &scheduler.Plan{
		Resources: resourcePlan(&fakeRecipe{name: "buf", category: "c"}),
		Tasks: []scheduler.PlanTask{
			{Name: "p0", Build: pb, Binds: []int{0}},
		},
	}

	runner, err := Instantiate(context.Background(), plan, &fakeDevice{})
	require.NoError(t, err)

	assert.Equal(t, "buf", pb.seen)
	assert.Equal(t, "buf", runner.Asset(ref))
	assert.Same(t, plan, runner.Plan())
}

func TestInstantiateErrors(t *testing.T) {
	t.Run("realize failure", func(t *testing.T) {
		plan := &scheduler.Plan{
			Resources: resourcePlan(&fakeRecipe{name: "bad", category: "c", fail: true}),
		}
		_, err := Instantiate(context.Background(), plan, &fakeDevice{})
		require.ErrorContains(t, err, "realizing resource 0")
	})

	t.Run("commit failure", func(t *testing.T) {
		plan := &scheduler.Plan{
			Resources: resourcePlan(&fakeRecipe{name: "a", category: "c"}),
			Tasks: []scheduler.PlanTask{
				{Name: "p0", Build: &fakePassBuilder{pass: &fakePass{}}, Binds: []int{0}},
			},
		}
		_, err := Instantiate(context.Background(), plan, &fakeDevice{failCommit: true})
		require.ErrorContains(t, err, `committing memory category "c"`)
	})

	t.Run("build failure", func(t *testing.T) {
		plan := &scheduler.Plan{
			Tasks: []scheduler.PlanTask{
				{Name: "broken", Build: &fakePassBuilder{fail: true}},
			},
		}
		_, err := Instantiate(context.Background(), plan, &fakeDevice{})
		require.ErrorContains(t, err, `building pass "broken"`)
	})
}

// threePassPlan is A -> B -> C where B signals two fences and is the only
// output pass; C waits on both A and B.
func threePassPlan(log *[]encodeCall) *scheduler.Plan {
	return &scheduler.Plan{
		Tasks: []scheduler.PlanTask{
			{Name: "a", Build: &fakePassBuilder{pass: &fakePass{name: "a", signals: 1, log: log}}},
			{Name: "b", Build: &fakePassBuilder{pass: &fakePass{name: "b", signals: 2, log: log}}, Waits: []int{0}, Output: true},
			{Name: "c", Build: &fakePassBuilder{pass: &fakePass{name: "c", log: log}}, Waits: []int{0, 1}},
		},
	}
}

func TestRunEncodeWaitRouting(t *testing.T) {
	var log []encodeCall
	runner, err := Instantiate(context.Background(), threePassPlan(&log), &fakeDevice{})
	require.NoError(t, err)

	run, err := runner.BeginRun(context.Background())
	require.NoError(t, err)

	target := "target"
	env := "env"
	inputs := []builder.Fence{"carry-1", "carry-2"}
	require.NoError(t, run.Encode(context.Background(), target, inputs, env))

	require.Len(t, log, 3)

	// A pass with no plan-level waits waits on the carried-in fences.
	assert.Equal(t, inputs, log[0].waits)
	// Every other pass waits on its predecessors' signal sub-ranges.
	assert.Equal(t, log[0].signals, log[1].waits)
	assert.Equal(t, append(append([]builder.Fence(nil), log[0].signals...), log[1].signals...), log[2].waits)

	assert.Len(t, log[0].signals, 1)
	assert.Len(t, log[1].signals, 2)
	assert.Empty(t, log[2].signals)

	for _, call := range log {
		assert.Equal(t, target, call.target)
		assert.Equal(t, env, call.env)
	}
}

func TestRunFencePoolRecycled(t *testing.T) {
	var log []encodeCall
	dev := &fakeDevice{}
	runner, err := Instantiate(context.Background(), threePassPlan(&log), dev)
	require.NoError(t, err)

	first, err := runner.BeginRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, dev.fenceCount)

	second, err := runner.BeginRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, dev.fenceCount, "second run must reuse the pool")

	assert.NotEqual(t, first.ID(), second.ID())
}

func TestRunSignalRangesDisjoint(t *testing.T) {
	var log []encodeCall
	runner, err := Instantiate(context.Background(), threePassPlan(&log), &fakeDevice{})
	require.NoError(t, err)

	run, err := runner.BeginRun(context.Background())
	require.NoError(t, err)
	require.NoError(t, run.Encode(context.Background(), nil, nil, nil))

	seen := map[builder.Fence]string{}
	for _, call := range log {
		for _, f := range call.signals {
			owner, dup := seen[f]
			assert.False(t, dup, "fence %v signaled by both %q and %q", f, owner, call.name)
			seen[f] = call.name
		}
	}
	assert.Len(t, seen, 3)
}

func TestRunSingleUse(t *testing.T) {
	var log []encodeCall
	runner, err := Instantiate(context.Background(), threePassPlan(&log), &fakeDevice{})
	require.NoError(t, err)

	run, err := runner.BeginRun(context.Background())
	require.NoError(t, err)

	require.NoError(t, run.Encode(context.Background(), nil, nil, nil))
	err = run.Encode(context.Background(), nil, nil, nil)
	require.ErrorIs(t, err, ErrRunConsumed)
}

func TestRunEncodeAbortsOnFailure(t *testing.T) {
	var log []encodeCall
	plan := &scheduler.Plan{
		Tasks: []scheduler.PlanTask{
			{Name: "ok", Build: &fakePassBuilder{pass: &fakePass{name: "ok", signals: 1, log: &log}}},
			{Name: "bad", Build: &fakePassBuilder{pass: &fakePass{name: "bad", fail: true}}, Waits: []int{0}},
			{Name: "never", Build: &fakePassBuilder{pass: &fakePass{name: "never", log: &log}}, Waits: []int{1}},
		},
	}
	runner, err := Instantiate(context.Background(), plan, &fakeDevice{})
	require.NoError(t, err)

	run, err := runner.BeginRun(context.Background())
	require.NoError(t, err)

	err = run.Encode(context.Background(), nil, nil, nil)
	require.ErrorContains(t, err, `encoding pass "bad"`)
	require.Len(t, log, 1, "passes after the failure must not encode")
	assert.Equal(t, "ok", log[0].name)
}

func TestRunOutputFences(t *testing.T) {
	var log []encodeCall
	runner, err := Instantiate(context.Background(), threePassPlan(&log), &fakeDevice{})
	require.NoError(t, err)

	run, err := runner.BeginRun(context.Background())
	require.NoError(t, err)
	require.NoError(t, run.Encode(context.Background(), nil, nil, nil))

	out := run.OutputFences()
	require.Len(t, out, 1)
	require.Len(t, out[0], 2)
	assert.Equal(t, log[1].signals, out[0])

	// The view aliases the pool, so an overwritten entry is visible to
	// later reads.
	out[0][0] = "external"
	assert.Equal(t, builder.Fence("external"), run.OutputFences()[0][0])
}

func TestRunOutputFenceCarryOver(t *testing.T) {
	var log []encodeCall
	runner, err := Instantiate(context.Background(), threePassPlan(&log), &fakeDevice{})
	require.NoError(t, err)

	first, err := runner.BeginRun(context.Background())
	require.NoError(t, err)
	require.NoError(t, first.Encode(context.Background(), nil, nil, nil))

	var carry []builder.Fence
	for _, fences := range first.OutputFences() {
		carry = append(carry, fences...)
	}
	require.Len(t, carry, 2)

	log = log[:0]
	second, err := runner.BeginRun(context.Background())
	require.NoError(t, err)
	require.NoError(t, second.Encode(context.Background(), nil, carry, nil))

	assert.Equal(t, carry, log[0].waits, "first pass of the next run waits on the previous run's outputs")
}

func TestBeginRunFenceAllocationFailure(t *testing.T) {
	var log []encodeCall
	runner, err := Instantiate(context.Background(), threePassPlan(&log), &fakeDevice{failFence: true})
	require.NoError(t, err)

	_, err = runner.BeginRun(context.Background())
	require.ErrorContains(t, err, "allocating fence 0")
}
