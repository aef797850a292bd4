package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMarkdownRenderer struct {
	renderFunc func(string, int) (string, error)
}

func (m *mockMarkdownRenderer) Render(content string, width int) (string, error) {
	return m.renderFunc(content, width)
}

func TestFormatToolDescription(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"list root", "list_directory", map[string]any{}, "ListDirectory ."},
		{"list sub", "list_directory", map[string]any{"directory": "pkg"}, "ListDirectory pkg"},
		{"read", "read_file", map[string]any{"file_path": "main.py"}, "ReadFile main.py"},
		{"write", "write_file", map[string]any{"file_path": "out.txt", "content": "x"}, "WriteFile out.txt"},
		{"run with args", "run_program", map[string]any{"file_path": "main.py", "args": []any{"2 + 3"}}, "RunProgram main.py '2 + 3'"},
		{"run bare", "run_program", map[string]any{"file_path": "main.py"}, "RunProgram main.py"},
		{"missing args", "read_file", map[string]any{}, "read_file"},
		{"wrong arg type", "write_file", map[string]any{"file_path": 12345}, "write_file"},
		{"unknown tool", "MysteryTool", map[string]any{}, "MysteryTool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatToolDescription(tt.tool, tt.args))
		})
	}
}

func TestRenderMarkdown_NilRenderer(t *testing.T) {
	out, err := RenderMarkdown("**hi**", 80, nil)
	require.NoError(t, err)
	assert.Equal(t, "**hi**", out)
}

func TestRenderMarkdown_PassesWidth(t *testing.T) {
	var gotWidth int
	r := &mockMarkdownRenderer{renderFunc: func(s string, w int) (string, error) {
		gotWidth = w
		return "rendered", nil
	}}

	out, err := RenderMarkdown("x", 42, r)
	require.NoError(t, err)
	assert.Equal(t, "rendered", out)
	assert.Equal(t, 42, gotWidth)

	r.renderFunc = func(string, int) (string, error) { return "", errors.New("boom") }
	_, err = RenderMarkdown("x", 42, r)
	assert.Error(t, err)
}

func TestGlamourRenderer_Render(t *testing.T) {
	out, err := NewGlamourRendererWithStyle("notty").Render("# Result\n\nThe answer is **14**.", 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Result")
	assert.Contains(t, out, "14")
}
