package ports

// BuildCache persists one cache key per backend name, used to short-circuit
// unchanged builds. Keys for different backend names never collide; writes
// for the same name are serialized by the implementation.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type BuildCache interface {
	// Get returns the stored key for a backend name, or "" when absent.
	Get(backendName string) (string, error)

	// Put stores the key for a backend name, overwriting any prior entry.
	Put(backendName, key string) error
}
