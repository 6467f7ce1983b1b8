/*
Package domain holds the core types of the waymark navigation engine.

It has no dependencies on storage or matching backends:

  - State and StateObject describe what can be recognized on screen.
  - Transition and TransitionSet describe how to move between states.
  - Path and Paths are the candidate routes produced by the path finder.
  - Region, Adjustment and SearchRegionOnObject drive declarative search regions.
  - LifecycleHooks expose navigation events to observers.
*/
package domain
