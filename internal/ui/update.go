// Логика - обрабатывает нажатия клавиш и результаты продолжений.

package ui

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/produtor-chat/internal/app"
	"github.com/ilkoid/produtor-chat/pkg/assist"
	"github.com/ilkoid/produtor-chat/pkg/chat"
	"github.com/ilkoid/produtor-chat/pkg/checklist"
	"github.com/ilkoid/produtor-chat/pkg/flow"
	"github.com/ilkoid/produtor-chat/pkg/utils"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// 1. Изменение размера окна терминала
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	// 2. Клавиши
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	// 3. Результаты продолжений (прилетают асинхронно)
	case continueMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m, m.runContinuation(msg.gen, msg.cont)

	case replyMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		return m, m.exec(msg.reply)

	case fileReadMsg:
		if msg.gen != m.gen || m.doc == nil {
			return m, nil
		}
		if msg.err != nil {
			utils.Error("ui: read document file", "error", msg.err)
			m.notice = "Não foi possível ler o arquivo."
			return m, nil
		}
		r, err := m.doc.SubmitFile(m.ctx, msg.file)
		if err != nil {
			return m, nil
		}
		return m, m.exec(r)

	case productionLoadedMsg:
		if msg.gen != m.gen || m.route != flow.RouteProduction {
			return m, nil
		}
		m.lotsLoading = false
		if msg.err != nil {
			utils.Error("ui: load production", "error", msg.err)
			m.lotsErr = productionLoadError(msg.err)
			return m, nil
		}
		m.lots = msg.lots
		return m, nil

	case app.CommandResultMsg:
		return m, m.handleCommandResult(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.log.Count(chat.KindTypingIndicator) > 0 {
			m.refreshViewport(false)
		}
		return m, cmd
	}

	// Остальное (чтение директории, мигание курсора) — компонентам
	var cmds []tea.Cmd
	if m.pickerOpen {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		// Пока идёт вызов, журнал меняет только продолжение.
		if m.pending {
			return nil
		}
		return m.runCommand(app.CommandHelp)

	case key.Matches(msg, m.keys.Logout):
		if m.route == flow.RouteLogin {
			return nil
		}
		return m.runCommand(app.CommandLogout)

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.SetYOffset(m.viewport.YOffset - max(1, m.viewport.Height/2))
		return nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.SetYOffset(m.viewport.YOffset + max(1, m.viewport.Height/2))
		return nil
	}

	switch m.route {
	case flow.RouteLogin:
		return m.handleLoginKey(msg)
	case flow.RouteDocuments:
		return m.handleChecklistKey(msg)
	case flow.RouteDocumentChat:
		return m.handleDocumentKey(msg)
	case flow.RouteProduction:
		return m.handleProductionKey(msg)
	}
	return nil
}

func (m *Model) handleProductionKey(msg tea.KeyMsg) tea.Cmd {
	if m.prod == nil {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m.navigate(flow.RouteDocuments)
		case key.Matches(msg, m.keys.Send):
			if m.lotsLoading {
				return nil
			}
			return m.openProductionChat()
		}
		return nil
	}

	if m.pending {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		// Назад из чата — к списку safras.
		return m.navigate(flow.RouteProduction)

	case key.Matches(msg, m.keys.Send):
		input := m.input.Value()
		if strings.TrimSpace(input) == "" {
			return nil
		}
		if _, ok := m.comps.Commands.Lookup(input); ok {
			m.input.Reset()
			return m.runCommand(strings.Fields(input)[0])
		}

		r, err := m.prod.Submit(m.ctx, input)
		if errors.Is(err, flow.ErrInputNotAccepted) {
			return nil
		}
		m.input.Reset()
		return m.exec(r)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func productionLoadError(err error) string {
	if errors.Is(err, flow.ErrInvalidCredentials) {
		return "Sessão expirada. Entre novamente."
	}
	return "Não foi possível carregar as safras."
}

func (m *Model) handleLoginKey(msg tea.KeyMsg) tea.Cmd {
	if m.pending {
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		if !m.login.CanGoBack() {
			return nil
		}
		r, err := m.login.Back()
		if err != nil {
			return nil
		}
		return m.exec(r)

	case key.Matches(msg, m.keys.Send):
		input := m.input.Value()
		if strings.TrimSpace(input) == "" {
			return nil
		}
		if _, ok := m.comps.Commands.Lookup(input); ok {
			m.input.Reset()
			return m.runCommand(strings.Fields(input)[0])
		}

		r, err := m.login.Submit(m.ctx, input)
		if errors.Is(err, flow.ErrInputNotAccepted) {
			return nil
		}
		m.input.Reset()
		return m.exec(r)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// Позиции курсора чеклиста: документы, затем две кнопки.
func (m *Model) proceedIndex() int { return len(m.list.Items) }
func (m *Model) logoutIndex() int  { return len(m.list.Items) + 1 }

func (m *Model) handleChecklistKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.logoutIndex() {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Send):
		return m.activateChecklistItem()
	}
	return nil
}

func (m *Model) activateChecklistItem() tea.Cmd {
	switch {
	case m.cursor < m.proceedIndex():
		item := m.list.Items[m.cursor]
		if !item.Selectable() {
			return nil
		}
		return m.openDocumentChat(item.Name)

	case m.cursor == m.proceedIndex():
		if !m.list.CanProceed() {
			m.notice = checklist.ProceedHint
			return nil
		}
		return m.navigate(flow.RouteProduction)

	default:
		return m.runCommand(app.CommandLogout)
	}
}

func (m *Model) handleDocumentKey(msg tea.KeyMsg) tea.Cmd {
	if m.pending {
		return nil
	}
	if key.Matches(msg, m.keys.Back) {
		return m.navigate(flow.RouteDocuments)
	}

	if opts := m.log.PendingOptions(); len(opts) > 0 {
		switch {
		case key.Matches(msg, m.keys.Left):
			if m.optionCursor > 0 {
				m.optionCursor--
			}
			m.refreshViewport(false)
		case key.Matches(msg, m.keys.Right):
			if m.optionCursor < len(opts)-1 {
				m.optionCursor++
			}
			m.refreshViewport(false)
		case key.Matches(msg, m.keys.Send):
			r, err := m.doc.Choose(opts[m.optionCursor].Value)
			if err != nil {
				return nil
			}
			return m.exec(r)
		}
		return nil
	}

	if m.pickerOpen {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			return tea.Batch(cmd, readDocumentFile(m.gen, path))
		}
		if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
			m.notice = fmt.Sprintf("%s não é PDF nem imagem.", filepath.Base(path))
		}
		return cmd
	}
	return nil
}

// runCommand выполняет команду чата из реестра.
func (m *Model) runCommand(name string) tea.Cmd {
	name = strings.ToLower(name)
	handler, ok := m.comps.Commands.Lookup(name)
	if !ok {
		return nil
	}
	if name == app.CommandHelp {
		m.helpLoading = true
	}
	return handler(m.comps, m.helpTopic())
}

func (m *Model) helpTopic() assist.Topic {
	switch m.route {
	case flow.RouteLogin:
		return assist.Topic{Screen: assist.ScreenLogin, Step: m.login.Step().String()}
	case flow.RouteProduction:
		topic := assist.Topic{Screen: assist.ScreenProduction, Category: m.list.Category}
		if m.prod != nil {
			topic.Step = m.prod.Step().String()
		}
		return topic
	case flow.RouteDocumentChat:
		return assist.Topic{
			Screen:       assist.ScreenDocumentChat,
			Step:         m.doc.Step().String(),
			DocumentName: m.doc.DocumentName(),
			Category:     m.list.Category,
		}
	}
	return assist.Topic{Screen: assist.ScreenDocuments, Category: m.list.Category}
}

func (m *Model) handleCommandResult(msg app.CommandResultMsg) tea.Cmd {
	m.helpLoading = false

	if msg.Err != nil {
		m.notice = msg.Err.Error()
		return nil
	}
	if msg.Redirect != flow.RouteNone {
		return m.navigate(msg.Redirect)
	}
	if msg.Output == "" {
		return nil
	}

	if !m.chatInput() && m.route != flow.RouteDocumentChat {
		m.notice = msg.Output
		return nil
	}
	// Ответ помощи не должен встать между StartTyping и StopTyping.
	if m.pending {
		m.queuedHelp = msg.Output
		return nil
	}
	m.sayHelp(msg.Output)
	return nil
}

// flushQueuedHelp выводит отложенный ответ помощи после продолжения.
func (m *Model) flushQueuedHelp() {
	if m.queuedHelp == "" {
		return
	}
	text := m.queuedHelp
	m.queuedHelp = ""
	m.sayHelp(text)
}

func (m *Model) sayHelp(text string) {
	if err := m.log.Apply(chat.Say(text)); err != nil {
		utils.Error("ui: show help", "error", err)
		m.notice = text
		return
	}
	m.refreshViewport(true)
}

// readDocumentFile читает выбранный файл в tea.Cmd.
func readDocumentFile(gen int, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return fileReadMsg{gen: gen, err: err}
		}
		contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		return fileReadMsg{gen: gen, file: flow.DocumentFile{
			FileName:    filepath.Base(path),
			ContentType: contentType,
			Data:        data,
		}}
	}
}
