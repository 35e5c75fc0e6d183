// Красота

package ui

import "github.com/charmbracelet/lipgloss"

// ColorScheme — цвета экранов (ui.color_scheme в config.yaml).
type ColorScheme struct {
	HeaderBackground lipgloss.Color
	HeaderForeground lipgloss.Color
	Assistant        lipgloss.Color // Реплики ассистента
	User             lipgloss.Color // Реплики продавца
	Option           lipgloss.Color // Кнопки SIM / NÃO
	Active           lipgloss.Color // Выбранная кнопка, курсор чеклиста
	Muted            lipgloss.Color // Подписи, отключённые кнопки
	Success          lipgloss.Color // "Recebido com sucesso"
	Error            lipgloss.Color
	Border           lipgloss.Color
}

var colorSchemes = map[string]ColorScheme{
	// Зелёный портала производителя
	"default": {
		HeaderBackground: lipgloss.Color("#2E7D32"),
		HeaderForeground: lipgloss.Color("#FFFFFF"),
		Assistant:        lipgloss.Color("252"),
		User:             lipgloss.Color("#A5D6A7"),
		Option:           lipgloss.Color("#66BB6A"),
		Active:           lipgloss.Color("#FFB300"),
		Muted:            lipgloss.Color("242"),
		Success:          lipgloss.Color("#04B575"),
		Error:            lipgloss.Color("196"),
		Border:           lipgloss.Color("240"),
	},
	"dark": {
		HeaderBackground: lipgloss.Color("0"),
		HeaderForeground: lipgloss.Color("15"),
		Assistant:        lipgloss.Color("15"),
		User:             lipgloss.Color("11"),
		Option:           lipgloss.Color("10"),
		Active:           lipgloss.Color("14"),
		Muted:            lipgloss.Color("8"),
		Success:          lipgloss.Color("10"),
		Error:            lipgloss.Color("9"),
		Border:           lipgloss.Color("4"),
	},
	"light": {
		HeaderBackground: lipgloss.Color("255"),
		HeaderForeground: lipgloss.Color("22"),
		Assistant:        lipgloss.Color("0"),
		User:             lipgloss.Color("28"),
		Option:           lipgloss.Color("28"),
		Active:           lipgloss.Color("130"),
		Muted:            lipgloss.Color("8"),
		Success:          lipgloss.Color("28"),
		Error:            lipgloss.Color("1"),
		Border:           lipgloss.Color("8"),
	},
}

// schemeByName возвращает схему по имени, неизвестное имя — default.
func schemeByName(name string) ColorScheme {
	if s, ok := colorSchemes[name]; ok {
		return s
	}
	return colorSchemes["default"]
}

type styles struct {
	header       lipgloss.Style
	assistant    lipgloss.Style
	user         lipgloss.Style
	typing       lipgloss.Style
	option       lipgloss.Style
	optionActive lipgloss.Style
	title        lipgloss.Style
	muted        lipgloss.Style
	success      lipgloss.Style
	errorText    lipgloss.Style
	border       lipgloss.Style
	bold         lipgloss.Style
}

func newStyles(c ColorScheme) styles {
	button := lipgloss.NewStyle().Padding(0, 2).Border(lipgloss.RoundedBorder())

	return styles{
		header: lipgloss.NewStyle().
			Foreground(c.HeaderForeground).
			Background(c.HeaderBackground).
			Padding(0, 1).
			Bold(true),
		assistant: lipgloss.NewStyle().
			Foreground(c.Assistant).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.Border).
			Padding(0, 1),
		user: lipgloss.NewStyle().
			Foreground(c.User).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c.User).
			Padding(0, 1),
		typing:       lipgloss.NewStyle().Foreground(c.Muted).Italic(true),
		option:       button.BorderForeground(c.Option).Foreground(c.Option),
		optionActive: button.BorderForeground(c.Active).Foreground(c.Active).Bold(true),
		title:        lipgloss.NewStyle().Foreground(c.Option).Bold(true),
		muted:        lipgloss.NewStyle().Foreground(c.Muted),
		success:      lipgloss.NewStyle().Foreground(c.Success),
		errorText:    lipgloss.NewStyle().Foreground(c.Error).Bold(true),
		border:       lipgloss.NewStyle().Foreground(c.Border),
		bold:         lipgloss.NewStyle().Bold(true),
	}
}
