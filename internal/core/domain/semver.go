package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the parsed core of a semantic version string.
type Version struct {
	Major int
	Minor int
	Patch int
	// Pre is the prerelease tag, empty for release versions.
	Pre string
}

// ParseVersion splits a version string into its numeric core and optional
// prerelease tag. Parsing is lenient on purpose: missing or non-numeric
// components degrade to zero and no input ever fails to parse. Strict
// checking then surfaces bad versions as reportable mismatches instead of
// fatal errors.
func ParseVersion(v string) Version {
	core, pre, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")

	num := func(i int) int {
		if i >= len(parts) {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return 0
		}
		return n
	}

	return Version{Major: num(0), Minor: num(1), Patch: num(2), Pre: pre}
}

// CompareVersions compares two version strings, returning -1, 0, or 1.
// The numeric cores are compared lexicographically; when they are equal a
// prerelease version sorts before a release. Two prereleases with equal
// cores compare as equal regardless of tag content; tag text carries no
// ordering. That is a known limitation of this scheme, kept deliberately.
func CompareVersions(a, b string) int {
	av, bv := ParseVersion(a), ParseVersion(b)

	if c := compareInts(av.Major, bv.Major); c != 0 {
		return c
	}
	if c := compareInts(av.Minor, bv.Minor); c != 0 {
		return c
	}
	if c := compareInts(av.Patch, bv.Patch); c != 0 {
		return c
	}

	if av.Pre != "" && bv.Pre == "" {
		return -1
	}
	if bv.Pre != "" && av.Pre == "" {
		return 1
	}
	return 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Matches reports whether version satisfies spec. The spec is zero or more
// atoms separated by commas or whitespace, combined with AND; an empty spec
// matches any version. Each atom is a caret range (^x.y.z), a tilde range
// (~x.y.z), an explicit comparison (==, >=, <=, >, <), or a bare version
// meaning exact match.
func Matches(version, spec string) bool {
	for _, atom := range splitSpec(spec) {
		if !matchAtom(version, atom) {
			return false
		}
	}
	return true
}

func splitSpec(spec string) []string {
	fields := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	atoms := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			atoms = append(atoms, f)
		}
	}
	return atoms
}

func matchAtom(version, atom string) bool {
	if base, ok := strings.CutPrefix(atom, "^"); ok {
		v := ParseVersion(base)
		upper := fmt.Sprintf("%d.0.0", v.Major+1)
		return CompareVersions(version, base) >= 0 && CompareVersions(version, upper) < 0
	}
	if base, ok := strings.CutPrefix(atom, "~"); ok {
		// ~= (compatible release) shares the tilde-range upper bound.
		base = strings.TrimPrefix(base, "=")
		v := ParseVersion(base)
		upper := fmt.Sprintf("%d.%d.0", v.Major, v.Minor+1)
		return CompareVersions(version, base) >= 0 && CompareVersions(version, upper) < 0
	}
	if base, ok := strings.CutPrefix(atom, "!="); ok {
		return CompareVersions(version, base) != 0
	}
	// Two-character operators must be tried before their one-character
	// prefixes.
	for _, op := range []string{"==", ">=", "<=", ">", "<"} {
		base, ok := strings.CutPrefix(atom, op)
		if !ok {
			continue
		}
		c := CompareVersions(version, base)
		switch op {
		case "==":
			return c == 0
		case ">=":
			return c >= 0
		case "<=":
			return c <= 0
		case ">":
			return c > 0
		default:
			return c < 0
		}
	}
	// No operator: exact match.
	return CompareVersions(version, atom) == 0
}
