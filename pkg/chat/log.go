package chat

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrImmutableKind возвращается при попытке удалить запись,
// которая после добавления неизменяема (реплики ассистента и продавца).
var ErrImmutableKind = errors.New("message kind cannot be removed")

// Log — журнал сообщений одной сессии чата.
//
// Thread-safe: TUI читает журнал при рендере, пока команды
// применяются из обработчика результата.
type Log struct {
	mu       sync.RWMutex
	messages []Message
	revision uint64
}

// NewLog создаёт журнал с начальными сообщениями.
func NewLog(initial ...Message) *Log {
	l := &Log{}
	for _, m := range initial {
		l.append(m)
	}
	return l
}

// Apply применяет команды по порядку.
//
// При недопустимой команде останавливается и возвращает ошибку;
// уже применённые команды остаются в журнале.
func (l *Log) Apply(cmds ...Command) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, cmd := range cmds {
		switch c := cmd.(type) {
		case Append:
			l.append(c.Message)
		case RemoveKind:
			if !c.Kind.Removable() {
				return fmt.Errorf("command %d: %w: %s", i, ErrImmutableKind, c.Kind)
			}
			l.removeKind(c.Kind)
		default:
			return fmt.Errorf("command %d: unknown command %T", i, cmd)
		}
	}
	return nil
}

// append вызывается под мьютексом.
func (l *Log) append(m Message) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Options != nil {
		m.Options = append([]Option(nil), m.Options...)
	}
	l.messages = append(l.messages, m)
	l.revision++
}

// removeKind вызывается под мьютексом. Порядок остальных записей сохраняется.
func (l *Log) removeKind(k Kind) {
	kept := l.messages[:0]
	removed := false
	for _, m := range l.messages {
		if m.Kind == k {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	l.messages = kept
	if removed {
		l.revision++
	}
}

// Messages возвращает копию журнала.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	dst := make([]Message, len(l.messages))
	copy(dst, l.messages)
	for i := range dst {
		if dst[i].Options != nil {
			dst[i].Options = append([]Option(nil), dst[i].Options...)
		}
	}
	return dst
}

// Len возвращает количество записей.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Count возвращает количество записей указанного типа.
func (l *Log) Count(k Kind) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, m := range l.messages {
		if m.Kind == k {
			n++
		}
	}
	return n
}

// Last возвращает последнюю запись.
func (l *Log) Last() (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.messages) == 0 {
		return Message{}, false
	}
	return l.messages[len(l.messages)-1], true
}

// PendingOptions возвращает варианты из последнего блока кнопок, если он есть.
func (l *Log) PendingOptions() []Option {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := len(l.messages) - 1; i >= 0; i-- {
		if l.messages[i].Kind == KindOptionPrompt {
			return append([]Option(nil), l.messages[i].Options...)
		}
	}
	return nil
}

// Revision увеличивается при каждом изменении журнала.
//
// TUI использует её, чтобы не перерисовывать viewport без необходимости.
func (l *Log) Revision() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.revision
}
