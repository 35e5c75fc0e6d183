// Package app собирает зависимости produtor-chat из конфигурации.
//
// Пакет следует правилам проекта:
//   - Работает через порты flow.IdentityService, flow.DocumentSubmitter
//     и flow.ProductionService (Правило 4)
//   - Все ошибки возвращаются, никаких panic (Правило 7)
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ilkoid/produtor-chat/pkg/assist"
	"github.com/ilkoid/produtor-chat/pkg/checklist"
	"github.com/ilkoid/produtor-chat/pkg/config"
	"github.com/ilkoid/produtor-chat/pkg/flow"
	"github.com/ilkoid/produtor-chat/pkg/geo"
	"github.com/ilkoid/produtor-chat/pkg/portal"
	"github.com/ilkoid/produtor-chat/pkg/s3storage"
	"github.com/ilkoid/produtor-chat/pkg/session"
	"github.com/ilkoid/produtor-chat/pkg/utils"
)

// Components содержит все компоненты приложения.
//
// Используется TUI и headless режимом, чтобы не дублировать
// код инициализации.
type Components struct {
	Config *config.AppConfig

	Store    session.Store
	Sessions *session.Manager

	Identity   flow.IdentityService
	Submitter  flow.DocumentSubmitter // nil — только локальная отметка
	Production flow.ProductionService
	Geo        geo.Provider
	Assistant  assist.Helper

	Timing   flow.Timing
	Router   *Router
	Commands *CommandRegistry
}

// Initialize создаёт компоненты по конфигурации.
//
// Открывает хранилище сессии, REST клиент портала, хранилище файлов
// и ассистента. При ошибке уже открытые ресурсы закрываются.
func Initialize(ctx context.Context, cfg *config.AppConfig) (*Components, error) {
	store, err := openStore(ctx, cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	c, err := initializeWithStore(cfg, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return c, nil
}

func initializeWithStore(cfg *config.AppConfig, store session.Store) (*Components, error) {
	portalClient, err := portal.New(cfg.Portal)
	if err != nil {
		return nil, fmt.Errorf("portal client: %w", err)
	}

	timeout, err := cfg.Portal.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	submitter, err := buildSubmitter(cfg, portalClient)
	if err != nil {
		return nil, err
	}

	provider, err := buildGeo(cfg.Geo)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(store)
	c := &Components{
		Config:     cfg,
		Store:      store,
		Sessions:   sessions,
		Identity:   portalClient,
		Submitter:  submitter,
		Production: portalClient,
		Geo:        provider,
		Assistant:  buildAssistant(cfg.Assistant),
		Timing: flow.Timing{
			CallTimeout:    timeout,
			RedirectDelay:  cfg.Flow.RedirectDelay,
			AutoLoginDelay: cfg.Flow.AutoLoginDelay,
		},
		Router:   NewRouter(sessions),
		Commands: NewCommandRegistry(),
	}
	SetupChatCommands(c.Commands)

	utils.Info("components initialized",
		"session_backend", cfg.Session.Backend,
		"upload", cfg.Documents.Upload,
		"geo", cfg.Geo.Provider,
		"assistant", cfg.Assistant.Enabled,
		"portal", portalClient.BaseURL())
	return c, nil
}

// Close закрывает хранилище сессии.
func (c *Components) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// LoginFlow создаёт новый диалог входа.
func (c *Components) LoginFlow() *flow.LoginFlow {
	return flow.NewLoginFlow(flow.LoginConfig{
		Identity: c.Identity,
		Geo:      c.Geo,
		Sessions: c.Sessions,
		Timing:   c.Timing,
	})
}

// DocumentFlow создаёт чат отправки документа для продавца текущей сессии.
func (c *Components) DocumentFlow(ctx context.Context, documentName string) (*flow.DocumentFlow, error) {
	s, err := c.Sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	return flow.NewDocumentFlow(flow.DocumentConfig{
		DocumentName: documentName,
		Category:     s.Subtype,
		Sessions:     c.Sessions,
		Submitter:    c.Submitter,
		MaxFileSize:  c.Config.Documents.MaxFileSize,
		Timing:       c.Timing,
	}), nil
}

// Checklist строит экран документов для текущей сессии.
func (c *Components) Checklist(ctx context.Context) (checklist.Checklist, error) {
	s, err := c.Sessions.Current(ctx)
	if err != nil {
		return checklist.Checklist{}, err
	}
	submitted, err := c.Sessions.Submitted(ctx)
	if err != nil {
		return checklist.Checklist{}, fmt.Errorf("submitted documents: %w", err)
	}
	return checklist.Build(s.Subtype, submitted), nil
}

// ProductionFlow создаёт чат добавления safra.
func (c *Components) ProductionFlow(ctx context.Context) (*flow.ProductionFlow, error) {
	if _, err := c.Sessions.Current(ctx); err != nil {
		return nil, err
	}
	return flow.NewProductionFlow(flow.ProductionConfig{
		Service:  c.Production,
		Sessions: c.Sessions,
		Timing:   c.Timing,
	}), nil
}

// ProductionLots загружает safras продавца текущей сессии.
func (c *Components) ProductionLots(ctx context.Context) ([]flow.ProductionLot, error) {
	s, err := c.Sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if c.Timing.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timing.CallTimeout)
		defer cancel()
	}

	lots, err := c.Production.ListProduction(ctx, s.AccessToken, s.UserID)
	if err != nil {
		return nil, fmt.Errorf("production lots: %w", err)
	}
	return lots, nil
}

// Logout завершает сессию (кнопка "Sair").
func (c *Components) Logout(ctx context.Context) error {
	if err := c.Sessions.End(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	utils.Info("session ended")
	return nil
}

func openStore(ctx context.Context, cfg config.SessionConfig) (session.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return session.NewMemoryStore(), nil
	case "sqlite":
		return session.OpenSQLite(cfg.Path)
	case "redis":
		return session.OpenRedis(ctx, session.RedisOptions{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: cfg.Prefix,
		})
	}
	return nil, fmt.Errorf("unknown session backend '%s'", cfg.Backend)
}

func buildSubmitter(cfg *config.AppConfig, portalClient *portal.Client) (flow.DocumentSubmitter, error) {
	var next flow.DocumentSubmitter
	switch cfg.Documents.Upload {
	case "", "none":
		return nil, nil
	case "portal":
		next = portalClient
	case "s3":
		s3, err := s3storage.New(cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		next = s3
	default:
		return nil, fmt.Errorf("unknown documents.upload '%s'", cfg.Documents.Upload)
	}

	if cfg.ImageProcessing.MaxWidth > 0 {
		return NewImageSubmitter(next, cfg.ImageProcessing), nil
	}
	return next, nil
}

func buildGeo(cfg config.GeoConfig) (geo.Provider, error) {
	switch cfg.Provider {
	case "", "none":
		return geo.None{}, nil
	case "static":
		c := geo.Coordinates{Latitude: cfg.Latitude, Longitude: cfg.Longitude}
		if !c.Valid() {
			return nil, errors.New("geo: static coordinates out of range")
		}
		return geo.Static{Coordinates: c}, nil
	case "denied":
		return geo.Denied{}, nil
	}
	return nil, fmt.Errorf("unknown geo.provider '%s'", cfg.Provider)
}

func buildAssistant(cfg config.AssistantConfig) assist.Helper {
	if !cfg.Enabled {
		return assist.Static{}
	}
	return assist.NewClient(cfg)
}
