// Package builder accumulates resource and pass declarations for a single
// pass graph, and defines the contracts the core consumes from its external
// collaborators: the device, resource recipes, pass builders, and the opaque
// fence and asset handles they exchange.
//
// A Builder makes no ordering promises. Declaration order only matters as a
// deterministic tie-break during compilation; the produce/consume use-lists
// are the sole source of ordering constraints.
package builder
