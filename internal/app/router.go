package app

import (
	"context"

	"github.com/ilkoid/produtor-chat/pkg/flow"
	"github.com/ilkoid/produtor-chat/pkg/utils"
)

// Router применяет guards к переходам между экранами.
//
// Экраны документов и производства доступны только с активной сессией,
// без неё переход уходит на /login. Главная ведёт на экран,
// соответствующий состоянию сессии.
type Router struct {
	sessions sessionChecker
}

type sessionChecker interface {
	Active(ctx context.Context) bool
}

// NewRouter создаёт роутер поверх менеджера сессии.
func NewRouter(sessions sessionChecker) *Router {
	return &Router{sessions: sessions}
}

// Resolve возвращает экран, который реально нужно показать вместо to.
func (r *Router) Resolve(ctx context.Context, to flow.Route) flow.Route {
	active := r.sessions.Active(ctx)

	var resolved flow.Route
	switch to {
	case flow.RouteHome, flow.RouteNone:
		resolved = flow.RouteLogin
		if active {
			resolved = flow.RouteDocuments
		}
	case flow.RouteLogin:
		resolved = flow.RouteLogin
		if active {
			resolved = flow.RouteDocuments
		}
	case flow.RouteDocuments, flow.RouteDocumentChat, flow.RouteProduction:
		resolved = to
		if !active {
			resolved = flow.RouteLogin
		}
	default:
		return r.Resolve(ctx, flow.RouteHome)
	}

	if resolved != to {
		utils.Debug("route guarded", "from", string(to), "to", string(resolved))
	}
	return resolved
}
