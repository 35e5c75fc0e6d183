package flow

import (
	"context"
	"sync"
	"time"

	"github.com/ilkoid/produtor-chat/pkg/session"
)

// fakeIdentity — управляемая реализация IdentityService.
type fakeIdentity struct {
	mu sync.Mutex

	lookup    IdentityLookup
	lookupErr error
	authSess  session.Session
	authErr   error
	regErr    error

	lookups  []string
	auths    [][2]string
	register []RegistrationRequest
}

func (f *fakeIdentity) LookupIdentity(_ context.Context, id string) (IdentityLookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, id)
	return f.lookup, f.lookupErr
}

func (f *fakeIdentity) Authenticate(_ context.Context, identifier, secret string) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auths = append(f.auths, [2]string{identifier, secret})
	return f.authSess, f.authErr
}

func (f *fakeIdentity) Register(_ context.Context, req RegistrationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.register = append(f.register, req)
	return f.regErr
}

type fakeSubmitter struct {
	files []DocumentFile
	err   error
}

func (f *fakeSubmitter) SubmitDocument(_ context.Context, file DocumentFile) error {
	f.files = append(f.files, file)
	return f.err
}

// noSleep записывает паузы вместо ожидания.
type noSleep struct {
	delays []time.Duration
}

func (n *noSleep) sleep(_ context.Context, d time.Duration) error {
	n.delays = append(n.delays, d)
	return nil
}

type fakeProduction struct {
	mu sync.Mutex

	lots   []ProductionLot
	addErr error

	added []ProductionEntry
}

func (f *fakeProduction) ListProduction(context.Context, string, string) ([]ProductionLot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ProductionLot(nil), f.lots...), nil
}

func (f *fakeProduction) AddProduction(_ context.Context, e ProductionEntry) (ProductionLot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, e)
	if f.addErr != nil {
		return ProductionLot{}, f.addErr
	}
	return ProductionLot{ID: len(f.added), Product: e.Product, Unit: e.Unit, Quantity: e.Quantity, Harvest: e.Harvest, Active: true}, nil
}
