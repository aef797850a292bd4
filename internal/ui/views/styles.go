package views

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary = lipgloss.Color("63")
	ColorSuccess = lipgloss.Color("42")
	ColorError   = lipgloss.Color("196")
	ColorWarning = lipgloss.Color("214")
	ColorDim     = lipgloss.Color("241")

	AgentLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	ToolCallStyle   = lipgloss.NewStyle().Foreground(ColorPrimary)
	ToolOutputStyle = lipgloss.NewStyle().Foreground(ColorDim).PaddingLeft(3)
	ToolErrorStyle  = lipgloss.NewStyle().Foreground(ColorError).PaddingLeft(3)
	ThoughtStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
	UsageStyle      = lipgloss.NewStyle().Foreground(ColorDim)
	DoneStyle       = lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess)
	ExhaustedStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
)
