// Package mosaic exposes build-level metadata about the Mosaic module.
package mosaic

// Version is the semantic version of the module, overridable at link time.
var Version = "0.1.0"
