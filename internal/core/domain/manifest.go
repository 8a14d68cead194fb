package domain

// Manifest is the decoded project configuration mapping, as loaded from
// pypackage.toml. Accessors are lenient: missing or mistyped sections read
// as empty rather than failing, so that schema problems surface through
// validation instead of panics.
type Manifest map[string]any

// DefaultBackendName is used when build.backend is not set.
const DefaultBackendName = "python"

func (m Manifest) table(key string) map[string]any {
	t, _ := m[key].(map[string]any)
	return t
}

// ProjectName returns project.name, or "" when absent.
func (m Manifest) ProjectName() string {
	name, _ := m.table("project")["name"].(string)
	return name
}

// ProjectVersion returns project.version, or "" when absent.
func (m Manifest) ProjectVersion() string {
	v, _ := m.table("project")["version"].(string)
	return v
}

// BuildSection returns the build table, or nil when absent.
func (m Manifest) BuildSection() map[string]any {
	return m.table("build")
}

// Dependencies returns the declared dependency namespace as a
// name-to-specifier mapping. The regular and development namespaces are
// independent; dev selects the latter. Non-string specifier values are
// skipped.
func (m Manifest) Dependencies(dev bool) map[string]string {
	key := "dependencies"
	if dev {
		key = "dev-dependencies"
	}
	deps := make(map[string]string)
	for name, v := range m.table(key) {
		if spec, ok := v.(string); ok {
			deps[name] = spec
		}
	}
	return deps
}

// SetDependency records a declared dependency, replacing any existing entry
// with the same name in the chosen namespace (last write wins).
func (m Manifest) SetDependency(name, spec string, dev bool) {
	key := "dependencies"
	if dev {
		key = "dev-dependencies"
	}
	t, ok := m[key].(map[string]any)
	if !ok {
		t = make(map[string]any)
		m[key] = t
	}
	t[name] = spec
}

// RemoveDependency drops a declared dependency from the chosen namespace.
func (m Manifest) RemoveDependency(name string, dev bool) {
	key := "dependencies"
	if dev {
		key = "dev-dependencies"
	}
	delete(m.table(key), name)
}

// BackendNames returns the selected backend names: the primary
// build.backend (defaulting to DefaultBackendName) followed by the
// build.backends extras, with duplicates removed in first-seen order.
func (m Manifest) BackendNames() []string {
	bc := m.BuildSection()

	primary := DefaultBackendName
	if name, ok := bc["backend"].(string); ok && name != "" {
		primary = name
	}

	names := []string{primary}
	seen := map[string]bool{primary: true}

	extras, _ := bc["backends"].([]any)
	for _, e := range extras {
		name, ok := e.(string)
		if !ok || name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
