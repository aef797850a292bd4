package approval

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Allow  key.Binding
	Always key.Binding
	Deny   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Allow: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "allow"),
		),
		Always: key.NewBinding(
			key.WithKeys("a", "A"),
			key.WithHelp("a", "allow all"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc", "ctrl+c"),
			key.WithHelp("n", "deny"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Allow, k.Always, k.Deny}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
