// Package ui реализует Bubble Tea TUI портала продавца.
//
// Экраны повторяют страницы портала: чат входа (/login), чеклист
// документов (/documentos-produtor), чат документа (/enviar-documento)
// и safras продавца (/producao). Журнал чата принадлежит модели:
// машины состояний возвращают flow.Reply, а модель применяет команды
// и запускает продолжения через tea.Cmd.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/produtor-chat/internal/app"
	"github.com/ilkoid/produtor-chat/pkg/chat"
	"github.com/ilkoid/produtor-chat/pkg/checklist"
	"github.com/ilkoid/produtor-chat/pkg/config"
	"github.com/ilkoid/produtor-chat/pkg/flow"
)

// replyMsg — результат продолжения, выполненного в tea.Cmd.
type replyMsg struct {
	gen   int
	reply flow.Reply
}

// continueMsg — пауза продолжения истекла, пора его выполнить.
type continueMsg struct {
	gen  int
	cont *flow.Continuation
}

// fileReadMsg — файл документа прочитан с диска.
type fileReadMsg struct {
	gen  int
	file flow.DocumentFile
	err  error
}

// productionLoadedMsg — список safras загружен.
type productionLoadedMsg struct {
	gen  int
	lots []flow.ProductionLot
	err  error
}

// Model — главная модель UI.
//
// Поле gen растёт при каждой смене экрана. Ответы продолжений
// с чужим gen отбрасываются: экран, который их запросил, уже закрыт.
type Model struct {
	ctx   context.Context
	comps *app.Components
	keys  KeyMap
	st    styles
	title string

	route flow.Route
	gen   int

	// Чаты (login, документ и новая safra)
	log          *chat.Log
	login        *flow.LoginFlow
	doc          *flow.DocumentFlow
	prod         *flow.ProductionFlow
	pending      bool
	optionCursor int
	pickerOpen   bool

	// Чеклист
	list     checklist.Checklist
	cursor   int
	userName string
	notice   string

	// Производство
	lots        []flow.ProductionLot
	lotsLoading bool
	lotsErr     string

	helpLoading bool
	// queuedHelp — ответ помощи, пришедший во время продолжения.
	queuedHelp string

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	picker   filepicker.Model
	help     help.Model

	width  int
	height int
	ready  bool
}

// New создаёт модель. Первый экран выбирается в Init по состоянию сессии.
func New(ctx context.Context, comps *app.Components, cfg config.UIConfig) *Model {
	ti := textinput.New()
	ti.Placeholder = "Digite sua resposta..."
	ti.Prompt = "┃ "
	ti.CharLimit = 200
	ti.EchoCharacter = '•'

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf", ".jpg", ".jpeg", ".png"}
	fp.AutoHeight = false
	fp.Height = 8
	fp.ShowPermissions = false
	if comps.Config != nil && comps.Config.Documents.StartDir != "" {
		fp.CurrentDirectory = comps.Config.Documents.StartDir
	}

	title := cfg.Title
	if title == "" {
		title = "Portal do Produtor"
	}

	st := newStyles(schemeByName(cfg.ColorScheme))
	sp.Style = st.muted

	return &Model{
		ctx:      ctx,
		comps:    comps,
		keys:     DefaultKeyMap(),
		st:       st,
		title:    title,
		log:      chat.NewLog(),
		viewport: viewport.New(0, 0),
		input:    ti,
		spinner:  sp,
		picker:   fp,
		help:     help.New(),
	}
}

// Init запускает мигание курсора, спиннер и открывает первый экран.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		m.navigate(flow.RouteHome),
	)
}

// Route возвращает текущий экран.
func (m *Model) Route() flow.Route {
	return m.route
}

// navigate переходит на экран с учётом guards роутера.
func (m *Model) navigate(to flow.Route) tea.Cmd {
	resolved := m.comps.Router.Resolve(m.ctx, to)
	m.gen++
	m.pending = false
	m.notice = ""
	m.pickerOpen = false
	m.doc = nil
	m.prod = nil
	m.queuedHelp = ""

	switch resolved {
	case flow.RouteDocuments:
		return m.openDocuments()
	case flow.RouteDocumentChat:
		// Чат документа открывается только из чеклиста (openDocumentChat).
		return m.openDocuments()
	case flow.RouteProduction:
		return m.openProduction()
	default:
		return m.openLogin()
	}
}

func (m *Model) openLogin() tea.Cmd {
	m.route = flow.RouteLogin
	m.login = m.comps.LoginFlow()
	m.log = chat.NewLog(m.login.InitialMessages()...)
	m.input.Reset()
	m.input.EchoMode = textinput.EchoNormal
	m.refreshViewport(true)
	return m.input.Focus()
}

func (m *Model) openDocuments() tea.Cmd {
	m.route = flow.RouteDocuments
	m.input.Blur()
	m.login = nil

	list, err := m.comps.Checklist(m.ctx)
	if err != nil {
		// Сессия пропала между guard и чтением: обратно на вход.
		return m.openLogin()
	}
	m.list = list
	if m.cursor > len(list.Items)+1 {
		m.cursor = 0
	}
	if s, err := m.comps.Sessions.Current(m.ctx); err == nil {
		m.userName = s.Name
	}
	return nil
}

func (m *Model) openProduction() tea.Cmd {
	m.route = flow.RouteProduction
	m.input.Blur()
	m.login = nil
	m.lots = nil
	m.lotsErr = ""
	m.lotsLoading = true
	if s, err := m.comps.Sessions.Current(m.ctx); err == nil {
		m.userName = s.Name
	}
	m.layout()

	ctx, comps, gen := m.ctx, m.comps, m.gen
	return func() tea.Msg {
		lots, err := comps.ProductionLots(ctx)
		return productionLoadedMsg{gen: gen, lots: lots, err: err}
	}
}

// openProductionChat открывает чат новой safra поверх экрана производства.
func (m *Model) openProductionChat() tea.Cmd {
	pf, err := m.comps.ProductionFlow(m.ctx)
	if err != nil {
		return m.navigate(flow.RouteLogin)
	}

	m.gen++
	m.prod = pf
	m.pending = false
	m.notice = ""
	m.log = chat.NewLog(pf.InitialMessages()...)
	m.input.Reset()
	m.input.EchoMode = textinput.EchoNormal
	m.layout()
	m.refreshViewport(true)
	return m.input.Focus()
}

func (m *Model) openDocumentChat(name string) tea.Cmd {
	if m.comps.Router.Resolve(m.ctx, flow.RouteDocumentChat) != flow.RouteDocumentChat {
		return m.navigate(flow.RouteLogin)
	}
	df, err := m.comps.DocumentFlow(m.ctx, name)
	if err != nil {
		return m.navigate(flow.RouteLogin)
	}

	m.gen++
	m.route = flow.RouteDocumentChat
	m.doc = df
	m.pending = false
	m.optionCursor = 0
	m.pickerOpen = false
	m.log = chat.NewLog(df.InitialMessages()...)
	m.input.Blur()
	m.refreshViewport(true)
	return nil
}

// exec применяет Reply к журналу и планирует продолжение.
func (m *Model) exec(r flow.Reply) tea.Cmd {
	if err := m.log.Apply(r.Commands...); err != nil {
		m.notice = err.Error()
	}
	m.refreshViewport(false)

	if r.Redirect != flow.RouteNone {
		return m.navigate(r.Redirect)
	}

	if r.Then == nil {
		m.pending = false
		m.flushQueuedHelp()
		return m.afterReply()
	}

	// Пока продолжение не выполнено, ввод закрыт.
	m.pending = true
	m.input.Blur()

	gen, cont := m.gen, r.Then
	if cont.Delay > 0 {
		return tea.Tick(cont.Delay, func(time.Time) tea.Msg {
			return continueMsg{gen: gen, cont: cont}
		})
	}
	return m.runContinuation(gen, cont)
}

// chatInput сообщает, что на экране чат со свободным вводом.
func (m *Model) chatInput() bool {
	return m.route == flow.RouteLogin || (m.route == flow.RouteProduction && m.prod != nil)
}

func (m *Model) runContinuation(gen int, cont *flow.Continuation) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return replyMsg{gen: gen, reply: cont.Run(ctx)}
	}
}

// afterReply возвращает фокус вводу и открывает выбор файла, когда он нужен.
func (m *Model) afterReply() tea.Cmd {
	switch m.route {
	case flow.RouteLogin:
		if m.login.Secret() {
			m.input.EchoMode = textinput.EchoPassword
		} else {
			m.input.EchoMode = textinput.EchoNormal
		}
		if m.login.Step() == flow.StepDone {
			m.input.Blur()
			return nil
		}
		return m.input.Focus()

	case flow.RouteProduction:
		if m.prod == nil {
			return nil
		}
		if m.prod.Step() == flow.StepDone {
			m.input.Blur()
			return nil
		}
		return m.input.Focus()

	case flow.RouteDocumentChat:
		m.optionCursor = 0
		if m.doc.ShowUpload() && !m.pickerOpen {
			m.pickerOpen = true
			m.layout()
			return m.picker.Init()
		}
		if !m.doc.ShowUpload() && m.pickerOpen {
			m.pickerOpen = false
			m.layout()
		}
	}
	return nil
}
