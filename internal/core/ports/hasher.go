package ports

// Hasher computes content hashes of artifact trees.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// TreeHash computes a deterministic hash over every regular file under
	// root.
	TreeHash(root string) (string, error)
}
