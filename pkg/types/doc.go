// Package types defines the canvas entity types (nodes, edges, manifest,
// canvas metadata), geometry primitives, and standard errors shared by the
// Mosaic core packages.
// See docs/ARCHITECTURE.md § Data Model.
package types
