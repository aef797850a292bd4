package approval

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Cyclone1070/boxagent/internal/tool"
)

// maxPreviewLines caps the request detail shown in the prompt.
const maxPreviewLines = 20

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(0, 1)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	previewStyle = lipgloss.NewStyle().Faint(true)
)

// promptModel is the bubbletea model asking for one decision.
type promptModel struct {
	req      tool.ApprovalRequest
	keys     keyMap
	help     help.Model
	decision Decision
}

func newPromptModel(req tool.ApprovalRequest) promptModel {
	return promptModel{
		req:      req,
		keys:     defaultKeyMap(),
		help:     help.New(),
		decision: DecisionDeny,
	}
}

func (m promptModel) Init() tea.Cmd {
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Allow):
		m.decision = DecisionAllow
	case key.Matches(keyMsg, m.keys.Always):
		m.decision = DecisionAllowAlways
	case key.Matches(keyMsg, m.keys.Deny):
		m.decision = DecisionDeny
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m promptModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Approve " + m.req.Tool + "?"))
	sb.WriteString("\n")
	sb.WriteString(m.req.Summary)
	if preview := previewLines(m.req.Detail, maxPreviewLines); preview != "" {
		sb.WriteString("\n\n")
		sb.WriteString(previewStyle.Render(preview))
	}
	sb.WriteString("\n\n")
	sb.WriteString(m.help.View(m.keys))
	return boxStyle.Render(sb.String()) + "\n"
}

func previewLines(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n") + "\n..."
}
