package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/produtor-chat/pkg/assist"
	"github.com/ilkoid/produtor-chat/pkg/flow"
)

// CommandResultMsg — результат команды чата, прилетает в Update асинхронно.
type CommandResultMsg struct {
	Output   string     // Реплика ассистента
	Redirect flow.Route // Переход после команды
	Err      error
}

// CommandHandler — обработчик команды чата ("/ajuda", "/sair").
//
// Возвращает tea.Cmd для асинхронного выполнения в Bubble Tea.
type CommandHandler func(c *Components, topic assist.Topic) tea.Cmd

// CommandRegistry — реестр команд чата.
//
// Thread-safe: одновременные вызовы безопасны.
type CommandRegistry struct {
	mu       sync.RWMutex
	commands map[string]CommandHandler
}

// NewCommandRegistry создает пустой реестр команд.
func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{commands: make(map[string]CommandHandler)}
}

// Register регистрирует команду. Существующая команда перезаписывается.
func (r *CommandRegistry) Register(name string, handler CommandHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[name] = handler
}

// Lookup ищет команду по первому слову ввода.
func (r *CommandRegistry) Lookup(input string) (CommandHandler, bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 || !strings.HasPrefix(parts[0], "/") {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.commands[strings.ToLower(parts[0])]
	return h, ok
}

// GetCommands возвращает отсортированные имена команд.
func (r *CommandRegistry) GetCommands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]string, 0, len(r.commands))
	for name := range r.commands {
		cmds = append(cmds, name)
	}
	sort.Strings(cmds)
	return cmds
}

// Команды чата.
const (
	CommandHelp   = "/ajuda"
	CommandLogout = "/sair"
)

// SetupChatCommands регистрирует /ajuda и /sair.
func SetupChatCommands(registry *CommandRegistry) {
	registry.Register(CommandHelp, func(c *Components, topic assist.Topic) tea.Cmd {
		return func() tea.Msg {
			return CommandResultMsg{Output: assist.WithFallback(context.Background(), c.Assistant, topic)}
		}
	})

	registry.Register(CommandLogout, func(c *Components, _ assist.Topic) tea.Cmd {
		return func() tea.Msg {
			if err := c.Logout(context.Background()); err != nil {
				return CommandResultMsg{Err: fmt.Errorf("não foi possível sair: %w", err)}
			}
			return CommandResultMsg{Redirect: flow.RouteLogin}
		}
	})
}
