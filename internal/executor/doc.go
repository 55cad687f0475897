// Package executor binds a compiled plan to a concrete device and drives
// repeated, synchronized execution of it.
//
// Instantiate materializes every resource recipe, commits backing memory
// one category at a time in plan order, and builds every concrete pass,
// yielding a Runner. A Runner can begin any number of runs without
// recompiling; each Run is a single-use encoding session that routes
// wait/signal fence sub-ranges between passes according to the plan's
// wait-lists.
package executor
