package git

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFileSystem struct {
	files   map[string][]byte
	statErr error
	readErr error
}

func newMockFileSystem() *mockFileSystem {
	return &mockFileSystem{files: make(map[string][]byte)}
}

type fakeInfo struct{ name string }

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() os.FileMode  { return 0o644 }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() any           { return nil }

func (m *mockFileSystem) Stat(path string) (os.FileInfo, error) {
	if m.statErr != nil {
		return nil, m.statErr
	}
	if _, ok := m.files[path]; ok {
		return fakeInfo{name: path}, nil
	}
	return nil, os.ErrNotExist
}

func (m *mockFileSystem) ReadFile(path string) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

const root = "/template"

func TestNewIgnoreMatcher_Patterns(t *testing.T) {
	fs := newMockFileSystem()
	fs.files["/template/.gitignore"] = []byte("# build output\n__pycache__/\n*.pyc\n\n.venv/\n")

	m, err := NewIgnoreMatcher(root, fs)
	require.NoError(t, err)

	assert.True(t, m.ShouldIgnore("__pycache__", true))
	assert.True(t, m.ShouldIgnore("pkg/__pycache__", true))
	assert.False(t, m.ShouldIgnore("__pycache__", false), "directory pattern does not match files")
	assert.True(t, m.ShouldIgnore("pkg/calculator.cpython-312.pyc", false))
	assert.True(t, m.ShouldIgnore(".venv", true))
	assert.False(t, m.ShouldIgnore("main.py", false))
	assert.False(t, m.ShouldIgnore("# build output", false))
}

func TestNewIgnoreMatcher_Missing(t *testing.T) {
	m, err := NewIgnoreMatcher(root, newMockFileSystem())
	require.NoError(t, err)
	assert.False(t, m.ShouldIgnore("anything.log", false))
}

func TestNewIgnoreMatcher_Errors(t *testing.T) {
	fs := newMockFileSystem()
	fs.files["/template/.gitignore"] = []byte("*.log")
	fs.readErr = errors.New("disk failure")

	_, err := NewIgnoreMatcher(root, fs)
	var gitErr *GitignoreReadError
	require.ErrorAs(t, err, &gitErr)
	assert.Equal(t, "/template/.gitignore", gitErr.Path)

	fs = newMockFileSystem()
	fs.statErr = os.ErrPermission
	_, err = NewIgnoreMatcher(root, fs)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestShouldIgnore_LineEndingsAndPaths(t *testing.T) {
	fs := newMockFileSystem()
	fs.files["/template/.gitignore"] = []byte("*.log\r\nnode_modules\r\n")

	m, err := NewIgnoreMatcher(root, fs)
	require.NoError(t, err)

	assert.True(t, m.ShouldIgnore("app.log", false))
	assert.True(t, m.ShouldIgnore("node_modules", true))
	assert.True(t, m.ShouldIgnore("foo//bar.log", false))
	assert.True(t, m.ShouldIgnore("./baz.log", false))
	assert.False(t, m.ShouldIgnore(".", true))
}
