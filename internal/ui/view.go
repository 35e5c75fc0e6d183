// Рендер
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ilkoid/produtor-chat/pkg/chat"
	"github.com/ilkoid/produtor-chat/pkg/checklist"
	"github.com/ilkoid/produtor-chat/pkg/flow"
)

const (
	headerHeight = 1
	pickerHeight = 10 // 8 строк списка + заголовок + отступ
	minWidth     = 20
)

func (m *Model) View() string {
	if !m.ready {
		return "Carregando..."
	}

	var body string
	switch m.route {
	case flow.RouteDocuments:
		body = m.viewChecklist()
	case flow.RouteProduction:
		body = m.viewProduction()
	default:
		body = m.viewChat()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
		m.viewFooter(),
	)
}

func (m *Model) viewHeader() string {
	status := " " + m.title
	switch m.route {
	case flow.RouteLogin:
		status += " | Entrar"
	case flow.RouteDocumentChat:
		status += " | " + m.doc.DocumentName()
	case flow.RouteDocuments, flow.RouteProduction:
		if m.userName != "" {
			status += " | " + m.userName
		}
		if m.prod != nil {
			status += " | Adicionar Safra"
		}
	}
	return m.st.header.Width(max(m.width, minWidth)).Render(status)
}

func (m *Model) viewFooter() string {
	var lines []string
	if m.notice != "" {
		lines = append(lines, m.st.errorText.Render(m.notice))
	}
	if m.helpLoading {
		lines = append(lines, m.spinner.View()+m.st.muted.Render(" Buscando ajuda..."))
	}
	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func (m *Model) viewChat() string {
	divider := m.st.border.Render(strings.Repeat("─", max(m.width, minWidth)))
	parts := []string{m.viewport.View(), divider}

	switch {
	case m.chatInput():
		parts = append(parts, m.input.View())
	case m.pickerOpen:
		parts = append(parts,
			m.st.title.Render("Escolha o arquivo (PDF ou foto):")+" "+m.st.muted.Render(m.picker.CurrentDirectory),
			m.picker.View())
	}
	return strings.Join(parts, "\n")
}

// layout пересчитывает размеры viewport после resize или открытия выбора файла.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	width := max(m.width, minWidth)

	footer := 2 // разделитель + подсказка клавиш
	switch {
	case m.chatInput():
		footer++
	case m.pickerOpen:
		footer += pickerHeight
	}

	m.viewport.Width = width
	m.viewport.Height = max(1, m.height-headerHeight-footer)
	m.input.Width = width - 4
	m.help.Width = width
	m.refreshViewport(false)
}

// refreshViewport перерисовывает журнал. Прокрутка вниз, если продавец
// был внизу или если force.
func (m *Model) refreshViewport(force bool) {
	wasAtBottom := m.viewport.YOffset+m.viewport.Height >= m.viewport.TotalLineCount()
	m.viewport.SetContent(m.renderLog(max(m.viewport.Width, minWidth)))
	if force || wasAtBottom {
		m.viewport.GotoBottom()
	}
}

// renderLog рисует журнал пузырями: ассистент слева, продавец справа.
func (m *Model) renderLog(width int) string {
	bubbleWidth := width * 3 / 4
	if bubbleWidth < minWidth {
		bubbleWidth = minWidth
	}
	textWidth := bubbleWidth - 4 // рамка + padding

	var blocks []string
	for _, msg := range m.log.Messages() {
		switch msg.Kind {
		case chat.KindAssistantText:
			text := renderBold(wrapText(msg.Text, textWidth), m.st.bold)
			blocks = append(blocks, m.st.assistant.Render(text))

		case chat.KindUserText:
			bubble := m.st.user.Render(wrapText(msg.Text, textWidth))
			blocks = append(blocks, lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble))

		case chat.KindOptionPrompt:
			blocks = append(blocks, m.renderOptions(msg.Options))

		case chat.KindTypingIndicator:
			blocks = append(blocks, m.spinner.View()+m.st.typing.Render(" digitando..."))
		}
	}
	return strings.Join(blocks, "\n")
}

func (m *Model) renderOptions(opts []chat.Option) string {
	buttons := make([]string, len(opts))
	for i, o := range opts {
		style := m.st.option
		if i == m.optionCursor && !m.pending {
			style = m.st.optionActive
		}
		buttons[i] = style.Render(o.Label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

func (m *Model) viewChecklist() string {
	width := max(m.width, minWidth)
	var b strings.Builder

	b.WriteString(m.st.title.Render(checklist.Title))
	b.WriteString("\n")
	b.WriteString(m.st.muted.Render(wrapText(checklist.Description, width-2)))
	b.WriteString("\n\n")

	done, total := m.list.Progress()
	b.WriteString(m.st.muted.Render(fmt.Sprintf("%d de %d enviados", done, total)))
	b.WriteString("\n\n")

	for i, item := range m.list.Items {
		cursor := "  "
		if i == m.cursor {
			cursor = m.st.optionActive.UnsetBorderStyle().UnsetPadding().Render("▸ ")
		}

		mark, subtitle := "○", m.st.muted.Render(item.Subtitle())
		if item.Status == checklist.StatusSubmitted {
			mark, subtitle = m.st.success.Render("✓"), m.st.success.Render(item.Subtitle())
		}
		fmt.Fprintf(&b, "%s%s %s\n    %s\n", cursor, mark, item.Name, subtitle)
	}
	b.WriteString("\n")

	proceed := m.st.option
	if !m.list.CanProceed() {
		proceed = proceed.BorderForeground(m.st.muted.GetForeground()).Foreground(m.st.muted.GetForeground())
	}
	if m.cursor == m.proceedIndex() {
		proceed = m.st.optionActive
	}
	logout := m.st.option
	if m.cursor == m.logoutIndex() {
		logout = m.st.optionActive
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		proceed.Render(checklist.ProceedText),
		logout.Render("Sair"),
	))
	if !m.list.CanProceed() {
		b.WriteString("\n")
		b.WriteString(m.st.muted.Render(checklist.ProceedHint))
	}

	return b.String()
}

// Тексты экрана производства.
const (
	productionTitle    = "🌱 Minhas Safras"
	productionSubtitle = "Acompanhe sua produção cadastrada e capacidade declarada."
	productionEmpty    = "Você ainda não cadastrou safras."
	productionAdd      = "Adicionar Safra"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

func (m *Model) viewProduction() string {
	if m.prod != nil {
		return m.viewChat()
	}
	width := max(m.width, minWidth)

	lines := []string{
		m.st.title.Render(productionTitle),
		m.st.muted.Render(wrapText(productionSubtitle, width-2)),
		"",
	}
	switch {
	case m.lotsLoading:
		lines = append(lines, m.spinner.View()+m.st.muted.Render(" Carregando suas safras..."))
	case m.lotsErr != "":
		lines = append(lines, m.st.errorText.Render("⚠ "+m.lotsErr))
	case len(m.lots) == 0:
		lines = append(lines, productionEmpty)
	default:
		for _, lot := range m.lots {
			lines = append(lines, m.renderLot(lot))
		}
	}

	lines = append(lines, "",
		m.st.optionActive.Render(productionAdd),
		m.st.muted.Render("Enter adiciona uma safra. Ctrl+B volta para os documentos."),
	)
	return strings.Join(lines, "\n")
}

// renderLot — строка safra: продукт, объём, год, цена и статус.
func (m *Model) renderLot(lot flow.ProductionLot) string {
	name := lot.Product
	if name == "" {
		name = "Produto sem nome"
	}
	harvest := lot.Harvest
	if harvest == "" {
		harvest = "--"
	}

	parts := []string{m.st.bold.Render(name)}
	if lot.Quantity > 0 {
		parts = append(parts, strings.TrimSpace(brPrinter.Sprintf("%v %s", lot.Quantity, lot.Unit)))
	} else {
		parts = append(parts, "-")
	}
	parts = append(parts, "Safra "+harvest)
	if lot.BasePrice != nil {
		parts = append(parts, brPrinter.Sprintf("R$ %.2f", *lot.BasePrice))
	}

	status := m.st.muted.Render("✕ Inativo")
	if lot.Active {
		status = m.st.success.Render("✓ Ativo")
	}
	return "• " + strings.Join(parts, " · ") + "  " + status
}

// wrapText переносит по словам, длинные слова (ссылки) режутся.
func wrapText(s string, width int) string {
	if width < 1 {
		return s
	}
	return wrap.String(wordwrap.String(s, width), width)
}

// renderBold выделяет фрагменты **...** (номера шагов инструкции).
func renderBold(s string, bold lipgloss.Style) string {
	parts := strings.Split(s, "**")
	if len(parts) < 3 {
		return s
	}
	var b strings.Builder
	for i, p := range parts {
		if i%2 == 1 && i < len(parts)-1 {
			b.WriteString(bold.Render(p))
			continue
		}
		if i%2 == 1 {
			b.WriteString("**")
		}
		b.WriteString(p)
	}
	return b.String()
}
