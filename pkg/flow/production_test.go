package flow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/produtor-chat/pkg/chat"
	"github.com/ilkoid/produtor-chat/pkg/session"
)

type productionHarness struct {
	flow    *ProductionFlow
	log     *chat.Log
	service *fakeProduction
	sleeper *noSleep
}

func newProductionHarness(t *testing.T, service *fakeProduction) *productionHarness {
	t.Helper()
	sessions := session.NewManager(session.NewMemoryStore())
	require.NoError(t, sessions.Begin(context.Background(), session.Session{AccessToken: "tok", UserID: "7"}))

	f := NewProductionFlow(ProductionConfig{
		Service:  service,
		Sessions: sessions,
		Timing:   DefaultTiming(),
		Now:      func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) },
	})
	return &productionHarness{
		flow:    f,
		log:     chat.NewLog(f.InitialMessages()...),
		service: service,
		sleeper: &noSleep{},
	}
}

func (h *productionHarness) send(t *testing.T, input string) Route {
	t.Helper()
	r, err := h.flow.Submit(context.Background(), input)
	require.NoError(t, err, "input %q at %s", input, h.flow.Step())
	route, err := Drive(context.Background(), h.log, r, h.sleeper.sleep)
	require.NoError(t, err)
	return route
}

func TestProduction_AddsLotAndReturnsToList(t *testing.T) {
	h := newProductionHarness(t, &fakeProduction{})
	assert.Equal(t, MsgAskProduct, h.log.Messages()[0].Text)

	h.send(t, " Tomate cereja ")
	h.send(t, "kg")
	h.send(t, "12,5")
	assert.Equal(t, StepHarvestYear, h.flow.Step())
	last, _ := h.log.Last()
	assert.Contains(t, last.Text, "2026")

	route := h.send(t, "2025")

	assert.Equal(t, RouteProduction, route)
	require.Len(t, h.service.added, 1)
	assert.Equal(t, ProductionEntry{
		Product: "Tomate cereja", Unit: "kg", Quantity: 12.5, Harvest: "2025",
		ProducerID: "7", AccessToken: "tok",
	}, h.service.added[0])
	assert.Equal(t, StepDone, h.flow.Step())
	assert.Contains(t, h.sleeper.delays, 2*time.Second)
	assert.Zero(t, h.log.Count(chat.KindTypingIndicator))
	last, _ = h.log.Last()
	assert.Equal(t, MsgProductionAdded, last.Text)
}

func TestProduction_CurrentYearShortcut(t *testing.T) {
	h := newProductionHarness(t, &fakeProduction{})
	h.send(t, "Alface")
	h.send(t, "maço")
	h.send(t, "40")
	h.send(t, "OK")

	require.Len(t, h.service.added, 1)
	assert.Equal(t, "2026", h.service.added[0].Harvest)
}

func TestProduction_InvalidAnswersStay(t *testing.T) {
	h := newProductionHarness(t, &fakeProduction{})
	h.send(t, "Alface")
	h.send(t, "maço")

	for _, q := range []string{"muito", "0", "-3"} {
		h.send(t, q)
		assert.Equal(t, StepProductQuantity, h.flow.Step(), q)
	}
	h.send(t, "3")

	for _, y := range []string{"25", "ano", "0999"} {
		h.send(t, y)
		assert.Equal(t, StepHarvestYear, h.flow.Step(), y)
	}
	last, _ := h.log.Last()
	assert.Equal(t, MsgInvalidHarvest, last.Text)
	assert.Empty(t, h.service.added)
}

func TestProduction_FailureKeepsHarvestStep(t *testing.T) {
	h := newProductionHarness(t, &fakeProduction{addErr: ErrTransport})
	h.send(t, "Alface")
	h.send(t, "maço")
	h.send(t, "3")

	route := h.send(t, "2026")
	assert.Equal(t, RouteNone, route)
	assert.Equal(t, StepHarvestYear, h.flow.Step())
	last, _ := h.log.Last()
	assert.Equal(t, MsgProductionFailed, last.Text)
	assert.False(t, h.flow.Pending())

	h.service.addErr = &ValidationError{StatusCode: 400, Messages: []string{"Safra deve ser um ano valido."}}
	h.send(t, "2026")
	last, _ = h.log.Last()
	assert.Equal(t, "Safra deve ser um ano valido.", last.Text)
	assert.Len(t, h.service.added, 2)
}

func TestProduction_RejectsInputWhilePending(t *testing.T) {
	h := newProductionHarness(t, &fakeProduction{})
	h.send(t, "Alface")
	h.send(t, "maço")
	h.send(t, "3")

	r, err := h.flow.Submit(context.Background(), "2026")
	require.NoError(t, err)
	require.NotNil(t, r.Then)
	assert.True(t, h.flow.Pending())

	_, err = h.flow.Submit(context.Background(), "2027")
	assert.ErrorIs(t, err, ErrInputNotAccepted)

	_, err = h.flow.Submit(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInputNotAccepted)
}

func TestParseQuantity(t *testing.T) {
	q, ok := ParseQuantity("1.5")
	assert.True(t, ok)
	assert.InDelta(t, 1.5, q, 1e-9)

	q, ok = ParseQuantity(" 12,25 ")
	assert.True(t, ok)
	assert.InDelta(t, 12.25, q, 1e-9)

	for _, bad := range []string{"abc", "NaN", "Inf"} {
		_, ok = ParseQuantity(bad)
		assert.False(t, ok, bad)
	}
}
