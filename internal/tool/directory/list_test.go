package directory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cyclone1070/boxagent/internal/tool"
	"github.com/Cyclone1070/boxagent/internal/tool/service/fs"
	"github.com/Cyclone1070/boxagent/internal/tool/service/path"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScope(t *testing.T) (tool.Scope, string) {
	t.Helper()
	r, err := path.NewResolver(t.TempDir())
	require.NoError(t, err)
	return tool.NewScope(r), r.Root()
}

func run(t *testing.T, lt *ListDirectoryTool, scope tool.Scope, dir string) string {
	t.Helper()
	res, err := lt.Execute(context.Background(), scope, &ListDirectoryRequest{Directory: dir})
	require.NoError(t, err)
	return res.LLMContent()
}

func TestList_ImmediateChildren(t *testing.T) {
	scope, root := newScope(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte("print(1)\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg", "deep"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "deep", "hidden.py"), []byte("x"), 0o644))

	lt := NewListDirectoryTool(fs.NewOSFileSystem())
	entries, err := lt.List(scope, ".")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Name: "main.py", Size: 9, IsDir: false}, entries[0])
	assert.Equal(t, "pkg", entries[1].Name)
	assert.True(t, entries[1].IsDir)
	assert.GreaterOrEqual(t, entries[1].Size, int64(0))

	pkgInfo, err := os.Stat(filepath.Join(root, "pkg"))
	require.NoError(t, err)
	assert.Equal(t, pkgInfo.Size(), entries[1].Size, "directory size is the inode size, not a recursive sum")
}

func TestExecute_Format(t *testing.T) {
	scope, root := newScope(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("abc"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("hello"), 0o644))

	lt := NewListDirectoryTool(fs.NewOSFileSystem())

	out := run(t, lt, scope, "")
	lines := strings.Split(out, "\n")
	assert.Equal(t, "Results for current directory:", lines[0])
	assert.Equal(t, "- a.txt: file_size=3 bytes, is_dir=false", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "- sub: file_size="))
	assert.True(t, strings.HasSuffix(lines[2], "is_dir=true"))

	out = run(t, lt, scope, "sub")
	assert.Equal(t, "Results for \"sub\" directory:\n- b.txt: file_size=5 bytes, is_dir=false", out)
}

func TestExecute_EmptyDirectory(t *testing.T) {
	scope, _ := newScope(t)
	out := run(t, NewListDirectoryTool(fs.NewOSFileSystem()), scope, ".")
	assert.Equal(t, "Results for current directory:\n(empty)", out)
}

func TestExecute_Errors(t *testing.T) {
	scope, root := newScope(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), []byte("x"), 0o644))
	lt := NewListDirectoryTool(fs.NewOSFileSystem())

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"outside via dots", "../", `Error: Cannot list "../" as it is outside the permitted working directory`},
		{"absolute outside", "/bin", `Error: Cannot list "/bin" as it is outside the permitted working directory`},
		{"missing", "nope", `Error: "nope" does not exist`},
		{"file not dir", "file.txt", `Error: "file.txt" is not a directory`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(t, lt, scope, tt.dir))
		})
	}
}

func TestList_ErrorKinds(t *testing.T) {
	scope, root := newScope(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "file.txt"), []byte("x"), 0o644))
	lt := NewListDirectoryTool(fs.NewOSFileSystem())

	_, err := lt.List(scope, "missing")
	assert.True(t, tool.IsNotFound(err))

	_, err = lt.List(scope, "file.txt")
	assert.True(t, tool.IsWrongKind(err))

	_, err = lt.List(scope, "..")
	assert.True(t, tool.IsOutOfBounds(err))
}

func TestExecute_Cancelled(t *testing.T) {
	scope, _ := newScope(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewListDirectoryTool(fs.NewOSFileSystem()).Execute(ctx, scope, &ListDirectoryRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeclaration(t *testing.T) {
	decl := NewListDirectoryTool(fs.NewOSFileSystem()).Declaration()
	assert.Equal(t, "list_directory", decl.Name)
	assert.Empty(t, decl.Parameters.Required)
	assert.Contains(t, decl.Parameters.Properties, "directory")
}
