package flow

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ilkoid/produtor-chat/pkg/chat"
	"github.com/ilkoid/produtor-chat/pkg/session"
	"github.com/ilkoid/produtor-chat/pkg/utils"
)

// ProductionConfig — зависимости ProductionFlow.
type ProductionConfig struct {
	Service  ProductionService
	Sessions *session.Manager
	Timing   Timing
	Now      func() time.Time // nil — time.Now
}

// ProductionFlow — чат добавления safra.
//
//	product_name → product_unit → product_quantity → harvest_year ─ok→ (/producao)
//	                                                              └ошибка→ harvest_year
type ProductionFlow struct {
	gate

	cfg   ProductionConfig
	step  Step
	entry ProductionEntry
}

// NewProductionFlow создаёт чат в шаге product_name.
func NewProductionFlow(cfg ProductionConfig) *ProductionFlow {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ProductionFlow{cfg: cfg, step: StepProductName}
}

// InitialMessages — вопрос о продукте.
func (f *ProductionFlow) InitialMessages() []chat.Message {
	return []chat.Message{chat.Assistant(MsgAskProduct)}
}

// Step возвращает активный шаг.
func (f *ProductionFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Entry возвращает копию собранных полей.
func (f *ProductionFlow) Entry() ProductionEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entry
}

// Submit обрабатывает ответ продавца на текущий вопрос.
func (f *ProductionFlow) Submit(ctx context.Context, input string) (Reply, error) {
	input = strings.TrimSpace(input)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending || input == "" {
		return Reply{}, ErrInputNotAccepted
	}
	echo := chat.Echo(input)

	switch f.step {
	case StepProductName:
		f.entry.Product = input
		f.step = StepProductUnit
		return Reply{Commands: []chat.Command{echo, chat.Say(MsgAskUnit)}}, nil

	case StepProductUnit:
		f.entry.Unit = input
		f.step = StepProductQuantity
		return Reply{Commands: []chat.Command{echo, chat.Say(MsgAskQuantity)}}, nil

	case StepProductQuantity:
		q, ok := ParseQuantity(input)
		if !ok {
			return Reply{Commands: []chat.Command{echo, chat.Say(MsgInvalidQuantity)}}, nil
		}
		f.entry.Quantity = q
		f.step = StepHarvestYear
		return Reply{Commands: []chat.Command{echo, chat.Say(msgAskHarvest(f.cfg.Now().Year()))}}, nil

	case StepHarvestYear:
		year, ok := f.parseHarvest(input)
		if !ok {
			return Reply{Commands: []chat.Command{echo, chat.Say(MsgInvalidHarvest)}}, nil
		}
		entry := f.entry
		entry.Harvest = year
		return Reply{
			Commands: []chat.Command{echo, chat.StartTyping()},
			Then: f.continueWith(0, func(ctx context.Context) Reply {
				return f.add(ctx, entry)
			}),
		}, nil
	}

	return Reply{}, ErrInputNotAccepted
}

// ParseQuantity разбирает положительное число; допускается десятичная запятая.
func ParseQuantity(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	q, err := strconv.ParseFloat(s, 64)
	if err != nil || q <= 0 || math.IsInf(q, 0) || math.IsNaN(q) {
		return 0, false
	}
	return q, true
}

// parseHarvest принимает год из четырёх цифр или слово "ok" (текущий год).
func (f *ProductionFlow) parseHarvest(s string) (string, bool) {
	if strings.EqualFold(s, HarvestCurrentYearWord) {
		return strconv.Itoa(f.cfg.Now().Year()), true
	}
	if len(s) != 4 {
		return "", false
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1900 {
		return "", false
	}
	return s, true
}

func (f *ProductionFlow) add(ctx context.Context, entry ProductionEntry) Reply {
	if f.cfg.Sessions != nil {
		if s, err := f.cfg.Sessions.Current(ctx); err == nil {
			entry.ProducerID = s.UserID
			entry.AccessToken = s.AccessToken
		}
	}

	callCtx, cancel := f.cfg.Timing.callContext(ctx)
	lot, err := f.cfg.Service.AddProduction(callCtx, entry)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	cmds := []chat.Command{chat.StopTyping()}
	if err != nil {
		utils.Error("production: add failed", "product", entry.Product, "harvest", entry.Harvest, "error", err)
		var ve *ValidationError
		if errors.As(err, &ve) && ve.Message() != "" {
			return Reply{Commands: append(cmds, chat.Say(ve.Message()))}
		}
		return Reply{Commands: append(cmds, chat.Say(MsgProductionFailed))}
	}

	utils.Info("production: lot added", "id", lot.ID, "product", entry.Product, "harvest", entry.Harvest)
	f.entry = ProductionEntry{}
	f.step = StepDone
	return Reply{
		Commands: append(cmds, chat.Say(MsgProductionAdded)),
		Then:     f.redirectAfter(f.cfg.Timing.RedirectDelay, RouteProduction),
	}
}
