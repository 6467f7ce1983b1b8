package domain

import "errors"

// ErrStateNotFound is returned when a state name or id is not registered.
var ErrStateNotFound = errors.New("state not found")

// ErrUnknownTransitionState is returned when a transition references an unregistered state.
var ErrUnknownTransitionState = errors.New("transition references unknown state")

// ErrObjectNotFound is returned when a search-region dependency targets a missing object.
var ErrObjectNotFound = errors.New("state object not found")

// ErrCyclicDependency is returned when search-region dependencies form a cycle.
var ErrCyclicDependency = errors.New("cyclic search region dependency")

// ErrNoSearchRegion signals that neither a dependency nor a static region is available.
var ErrNoSearchRegion = errors.New("no search region available")

// ErrSnapshotNotFound is returned when a memory snapshot cannot be found in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")
