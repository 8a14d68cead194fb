package domain

// LockedDependency records the installed version of one declared dependency
// together with the specifier that requested it.
type LockedDependency struct {
	Version   string `json:"version"`
	Requested string `json:"requested"`
}

// Lockfile is the serialized dependency lock, written as JSON to
// pypackage.lock after mutating dependency operations.
type Lockfile struct {
	Metadata        LockMetadata                `json:"metadata"`
	Dependencies    map[string]LockedDependency `json:"dependencies"`
	DevDependencies map[string]LockedDependency `json:"dev-dependencies"`
}

// LockMetadata captures the environment the lock was generated against.
type LockMetadata struct {
	PythonVersion string `json:"python_version"`
	Platform      string `json:"platform"`
}
