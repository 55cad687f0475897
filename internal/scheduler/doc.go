// Package scheduler compiles a declared pass graph into an executable Plan.
//
// Compilation is a single-threaded, one-shot computation in six phases:
//
//  1. Validate the declarations: every resource has exactly one producer.
//  2. Order the passes with a reverse greedy topological sort whose
//     tie-break minimizes the stall between a resource's production and its
//     first consumption. An empty candidate set with passes remaining means
//     the produce/consume relation is cyclic.
//  3. Compute the minimal lifetime interval of every resource.
//  4. Extract each pass's direct predecessors from the producers of its
//     consumed resources, de-duplicating edges with a generation counter.
//  5. Extend lifetimes so that any later pass overlapping a resource's
//     memory is already reachable through dependency edges, trading peak
//     memory for the elimination of explicit aliasing barriers.
//  6. Emit the immutable Plan: chronological pass list with wait-lists and
//     per-pass resource bind/unbind events.
//
// All transient state lives in scratch arrays parallel to the declarations
// and is discarded when Compile returns; the Plan carries only what runners
// need.
package scheduler
