// Package domain contains the core data model for dependency resolution
// and build orchestration.
package domain

import "fmt"

// Requirement is one immediate requirement of an installed package: the
// required package name and the version specifier it was declared with.
type Requirement struct {
	Name string
	Spec string
}

// PackageRecord is a snapshot of one installed package at a point in time.
// Records are created by snapshotting the environment, are immutable once
// built, and are discarded after each resolution pass. The Requires list
// may reference packages absent from the snapshot; such dangling edges are
// tolerated and simply not expanded during closure.
type PackageRecord struct {
	Name     string
	Version  string
	Requires []Requirement
}

// Conflict reports an installed package that does not satisfy a declared or
// transitive version specifier. Depender is set when the violated
// specifier comes from another package's requirement rather than a
// top-level declaration.
type Conflict struct {
	Package      string
	Installed    string
	RequiredSpec string
	Depender     string
}

// String renders the conflict in the user-facing form used by resolution
// error messages.
func (c Conflict) String() string {
	s := fmt.Sprintf("%s: installed %s, required %s", c.Package, c.Installed, c.RequiredSpec)
	if c.Depender != "" {
		s += fmt.Sprintf(" (required by %s)", c.Depender)
	}
	return s
}
