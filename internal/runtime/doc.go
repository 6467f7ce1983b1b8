// Package runtime implements state navigation: path selection, hop-by-hop
// traversal, arrival verification and retry over alternative paths.
package runtime
