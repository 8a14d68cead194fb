package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.trai.ch/pyforge/internal/core/domain"
	"go.trai.ch/pyforge/internal/core/ports"
)

// StrictChecker is the final gate before a build proceeds: every declared
// dependency must exist and satisfy its specifier in the merged view of
// the project environment and the host environment.
type StrictChecker struct {
	querier ports.PackageQuerier
	logger  ports.Logger
}

// NewStrictChecker creates a StrictChecker.
func NewStrictChecker(querier ports.PackageQuerier, logger ports.Logger) *StrictChecker {
	return &StrictChecker{querier: querier, logger: logger}
}

// Issue is one failed strict-check entry.
type Issue struct {
	Package   string
	Spec      string
	Installed string // "" when the package is missing entirely
}

// Missing reports whether the package is absent rather than mismatched.
func (i Issue) Missing() bool { return i.Installed == "" }

// String renders the issue including the suggested fix.
func (i Issue) String() string {
	if i.Missing() {
		return fmt.Sprintf("%s is not installed, try: pip install %q", i.Package, i.Package+i.Spec)
	}
	return fmt.Sprintf("%s: installed %s does not satisfy %s, try: pip install %q",
		i.Package, i.Installed, i.Spec, i.Package+i.Spec)
}

// Check verifies every declared dependency against the merged installed
// view. It evaluates all dependencies before returning so the caller gets
// a complete diagnostic in one run; the result is true iff every entry
// passed. A project with no declared dependencies passes without querying
// either environment.
func (c *StrictChecker) Check(ctx context.Context, declared map[string]string) (bool, []Issue) {
	if len(declared) == 0 {
		return true, nil
	}

	merged := c.mergedVersions(ctx)

	names := make([]string, 0, len(declared))
	for name := range declared {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []Issue
	for _, name := range names {
		spec := declared[name]
		installed, ok := lookupVersion(merged, name)
		if !ok {
			issues = append(issues, Issue{Package: name, Spec: spec})
			continue
		}
		if spec != "" && !domain.Matches(installed, spec) {
			issues = append(issues, Issue{Package: name, Spec: spec, Installed: installed})
		}
	}

	for _, issue := range issues {
		c.logger.Error("strict dependency check failed", "issue", issue.String())
	}
	return len(issues) == 0, issues
}

// mergedVersions merges host and project-environment views, with the
// project environment taking precedence on name collision.
func (c *StrictChecker) mergedVersions(ctx context.Context) map[string]string {
	merged := map[string]string{}

	host, err := c.querier.HostVersions(ctx)
	if err != nil {
		c.logger.Warn("host package listing failed", "error", err)
	}
	for name, version := range host {
		merged[name] = version
	}

	local, err := c.querier.InstalledVersions(ctx)
	if err != nil {
		c.logger.Warn("environment package listing failed", "error", err)
	}
	for name, version := range local {
		merged[name] = version
	}

	return merged
}

// lookupVersion resolves a declared name against the installed view,
// falling back to the dash-to-underscore normalized form. Package indexes
// are inconsistent about separators, so both spellings count as present.
func lookupVersion(versions map[string]string, name string) (string, bool) {
	if v, ok := versions[name]; ok {
		return v, true
	}
	if v, ok := versions[strings.ReplaceAll(name, "-", "_")]; ok {
		return v, true
	}
	return "", false
}
