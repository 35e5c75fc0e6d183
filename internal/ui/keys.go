package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap — клавиши produtor-chat.
type KeyMap struct {
	Quit       key.Binding
	Send       key.Binding
	Back       key.Binding
	Help       key.Binding
	Logout     key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

// ShortHelp реализует help.KeyMap интерфейс.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Send, km.Back, km.Help, km.Logout, km.Quit}
}

// FullHelp реализует help.KeyMap интерфейс.
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Send, km.Back, km.Help},
		{km.Up, km.Down, km.Left, km.Right},
		{km.ScrollUp, km.ScrollDown, km.Logout, km.Quit},
	}
}

// DefaultKeyMap возвращает дефолтный KeyMap.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "sair do app"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "enviar"),
		),
		Back: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("Ctrl+B", "voltar"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "ctrl+h"),
			key.WithHelp("F1", "ajuda"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("Ctrl+X", "sair da conta"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "acima"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "abaixo"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "opção anterior"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "tab"),
			key.WithHelp("→", "próxima opção"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "rolar acima"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "rolar abaixo"),
		),
	}
}
