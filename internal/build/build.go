// Package build holds build-time metadata for the pyforge binary.
package build

// Version is the application version, overridden at link time via
// -ldflags "-X go.trai.ch/pyforge/internal/build.Version=...".
var Version = "dev"
