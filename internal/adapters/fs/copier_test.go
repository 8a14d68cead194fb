package fs_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pyforge/internal/adapters/fs"
	"go.trai.ch/pyforge/internal/adapters/logger"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCopyTree_PreserveRoot(t *testing.T) {
	src := filepath.Join(t.TempDir(), "mypkg")
	writeFile(t, filepath.Join(src, "__init__.py"), "")
	writeFile(t, filepath.Join(src, "sub", "mod.py"), "x = 1\n")

	dst := t.TempDir()
	copier := fs.NewCopier(logger.NewWithWriter(io.Discard))
	require.NoError(t, copier.CopyTree(src, dst, nil, true))

	assert.FileExists(t, filepath.Join(dst, "mypkg", "__init__.py"))
	data, err := os.ReadFile(filepath.Join(dst, "mypkg", "sub", "mod.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))
}

func TestCopyTree_ContentsOnly(t *testing.T) {
	src := filepath.Join(t.TempDir(), "mypkg")
	writeFile(t, filepath.Join(src, "mod.py"), "")

	dst := t.TempDir()
	copier := fs.NewCopier(logger.NewWithWriter(io.Discard))
	require.NoError(t, copier.CopyTree(src, dst, nil, false))

	assert.FileExists(t, filepath.Join(dst, "mod.py"))
	assert.NoDirExists(t, filepath.Join(dst, "mypkg"))
}

func TestCopyTree_Excludes(t *testing.T) {
	src := filepath.Join(t.TempDir(), "mypkg")
	writeFile(t, filepath.Join(src, "mod.py"), "")
	writeFile(t, filepath.Join(src, "mod.pyc"), "")
	writeFile(t, filepath.Join(src, "tests", "test_mod.py"), "")
	writeFile(t, filepath.Join(src, "__pycache__", "mod.cpython-312.pyc"), "")

	dst := t.TempDir()
	copier := fs.NewCopier(logger.NewWithWriter(io.Discard))
	excludes := []string{"**/*.pyc", "tests/**", "**/__pycache__/**"}
	require.NoError(t, copier.CopyTree(src, dst, excludes, false))

	assert.FileExists(t, filepath.Join(dst, "mod.py"))
	assert.NoFileExists(t, filepath.Join(dst, "mod.pyc"))
	assert.NoDirExists(t, filepath.Join(dst, "tests"))
	assert.NoDirExists(t, filepath.Join(dst, "__pycache__"))
}

func TestCopyTree_MissingSource(t *testing.T) {
	copier := fs.NewCopier(logger.NewWithWriter(io.Discard))
	err := copier.CopyTree(filepath.Join(t.TempDir(), "absent"), t.TempDir(), nil, true)
	assert.Error(t, err)
}

func TestTreeHash_DeterministicAndSensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.py"), "a")
	writeFile(t, filepath.Join(root, "sub", "b.py"), "b")

	hasher := fs.NewHasher()
	first, err := hasher.TreeHash(root)
	require.NoError(t, err)
	second, err := hasher.TreeHash(root)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	writeFile(t, filepath.Join(root, "sub", "b.py"), "changed")
	third, err := hasher.TreeHash(root)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}
