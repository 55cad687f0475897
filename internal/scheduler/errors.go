package scheduler

import "errors"

// ErrCyclicDependency reports that the declared produce/consume relation is
// not a partial order: some set of passes mutually requires each other's
// outputs. Compilation cannot proceed.
var ErrCyclicDependency = errors.New("cyclic dependency between passes")

// ErrNoProducer reports a resource that no pass produces.
var ErrNoProducer = errors.New("resource has no producing pass")

// ErrMultipleProducers reports a resource that more than one pass claims to
// produce.
var ErrMultipleProducers = errors.New("resource has more than one producing pass")
