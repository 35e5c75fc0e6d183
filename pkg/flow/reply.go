// Package flow реализует пошаговые диалоги портала продавца.
//
// LoginFlow ведёт вход и регистрацию по CPF, DocumentFlow ведёт отправку
// одного документа, ProductionFlow добавляет safra. Машины состояний не трогают журнал чата: каждый
// вызов возвращает Reply с командами журнала, а вызовы внешних сервисов
// откладываются в Continuation. Исполняет Reply единственный владелец
// журнала: TUI (через tea.Cmd) или Drive.
package flow

import (
	"context"
	"sync"
	"time"

	"github.com/ilkoid/produtor-chat/pkg/chat"
)

// Route — экран, на который нужно перейти.
type Route string

const (
	RouteNone         Route = ""
	RouteHome         Route = "/"
	RouteLogin        Route = "/login"
	RouteDocuments    Route = "/documentos-produtor"
	RouteDocumentChat Route = "/enviar-documento"
	RouteProduction   Route = "/producao"
)

// Reply — результат шага.
//
// Порядок исполнения: применить Commands, затем (если задан) перейти
// на Redirect, иначе (если задан) через Then.Delay выполнить Then.Run.
type Reply struct {
	Commands []chat.Command
	Then     *Continuation
	Redirect Route
}

// Continuation — отложенная часть шага (вызов адаптера или пауза перед переходом).
type Continuation struct {
	Delay time.Duration
	Run   func(ctx context.Context) Reply
}

// Timing — таймауты и паузы диалога.
type Timing struct {
	CallTimeout    time.Duration // Таймаут одного вызова адаптера, 0 — без таймаута
	RedirectDelay  time.Duration // Пауза перед переходом на другой экран
	AutoLoginDelay time.Duration // Пауза между регистрацией и автологином
}

// DefaultTiming — значения по умолчанию (как в исходном портале).
func DefaultTiming() Timing {
	return Timing{
		CallTimeout:    30 * time.Second,
		RedirectDelay:  2 * time.Second,
		AutoLoginDelay: 2 * time.Second,
	}
}

func (t Timing) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, t.CallTimeout)
}

// Sleeper ждёт d или отмены ctx.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext — Sleeper на таймере.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Drive синхронно исполняет Reply вместе со всеми продолжениями.
//
// Возвращает маршрут перехода (RouteNone, если шаг закончился без
// перехода). Используется в тестах и в headless режиме.
func Drive(ctx context.Context, log *chat.Log, r Reply, sleep Sleeper) (Route, error) {
	if sleep == nil {
		sleep = SleepContext
	}
	for {
		if err := log.Apply(r.Commands...); err != nil {
			return RouteNone, err
		}
		if r.Redirect != RouteNone {
			return r.Redirect, nil
		}
		if r.Then == nil {
			return RouteNone, nil
		}
		if err := sleep(ctx, r.Then.Delay); err != nil {
			return RouteNone, err
		}
		r = r.Then.Run(ctx)
	}
}

// gate — общий для машин состояний мьютекс и признак незавершённого продолжения.
//
// Пока pending, новый ввод отклоняется: в полёте не больше одного вызова адаптера.
type gate struct {
	mu      sync.Mutex
	pending bool
}

// continueWith создаёт продолжение и помечает машину занятой.
// Вызывается под g.mu; run сам берёт g.mu, когда меняет состояние.
func (g *gate) continueWith(delay time.Duration, run func(ctx context.Context) Reply) *Continuation {
	g.pending = true
	return &Continuation{
		Delay: delay,
		Run: func(ctx context.Context) Reply {
			r := run(ctx)
			g.mu.Lock()
			g.pending = r.Then != nil
			g.mu.Unlock()
			return r
		},
	}
}

// Pending сообщает, что продолжение ещё не завершено.
func (g *gate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// redirectAfter — продолжение, которое только переходит на экран.
func (g *gate) redirectAfter(delay time.Duration, route Route) *Continuation {
	return g.continueWith(delay, func(context.Context) Reply {
		return Reply{Redirect: route}
	})
}
