package flow

import (
	"context"
	"errors"
	"strings"

	"github.com/ilkoid/produtor-chat/pkg/chat"
	"github.com/ilkoid/produtor-chat/pkg/geo"
	"github.com/ilkoid/produtor-chat/pkg/identity"
	"github.com/ilkoid/produtor-chat/pkg/session"
	"github.com/ilkoid/produtor-chat/pkg/utils"
)

// LoginConfig — зависимости LoginFlow.
type LoginConfig struct {
	Identity IdentityService
	Geo      geo.Provider // nil — геолокация не запрашивается
	Sessions *session.Manager
	Timing   Timing
}

// LoginFlow — вход по CPF и регистрация нового продавца.
//
// Переходы:
//
//	identity_document ─lookup→ password_entry ─authenticate→ (документы)
//	                  └──────→ register_email → register_name → register_password
//	                           → register_category ─register→ автологин → (документы)
//
// Ошибки валидации и адаптеров не выходят наружу: они превращаются
// в реплики ассистента, шаг остаётся прежним.
type LoginFlow struct {
	gate

	cfg  LoginConfig
	step Step
	acc  Accumulator
}

// NewLoginFlow создаёт диалог в начальном шаге identity_document.
func NewLoginFlow(cfg LoginConfig) *LoginFlow {
	return &LoginFlow{cfg: cfg, step: StepIdentityDocument}
}

// InitialMessages — приветствие и запрос CPF.
func (f *LoginFlow) InitialMessages() []chat.Message {
	return []chat.Message{
		chat.Assistant(MsgGreeting),
		chat.Assistant(MsgAskIdentity),
	}
}

// Step возвращает активный шаг.
func (f *LoginFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Accumulator возвращает копию собранных полей.
func (f *LoginFlow) Accumulator() Accumulator {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.acc.clone()
}

// Secret сообщает, что поле ввода нужно маскировать.
func (f *LoginFlow) Secret() bool {
	return f.Step().Secret()
}

// CanGoBack сообщает, что Back сейчас доступен.
func (f *LoginFlow) CanGoBack() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := previousStep(f.step)
	return ok && !f.pending
}

// Submit обрабатывает текст, введённый продавцом.
//
// ErrInputNotAccepted возвращается для пустого ввода, после терминального
// действия и пока не завершилось предыдущее продолжение.
func (f *LoginFlow) Submit(ctx context.Context, input string) (Reply, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == BackCommand {
		return f.Back()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending || trimmed == "" {
		return Reply{}, ErrInputNotAccepted
	}
	// Пароль уходит как набран: пробелы по краям — часть секрета.
	if !f.step.Secret() {
		input = trimmed
	}

	echo := chat.Echo(input)
	if f.step.Secret() {
		echo = chat.Echo(mask(input))
	}

	switch f.step {
	case StepIdentityDocument:
		return f.onIdentityDocument(echo, input), nil

	case StepPasswordEntry:
		email := f.acc.Email
		return Reply{
			Commands: []chat.Command{echo, chat.StartTyping()},
			Then: f.continueWith(0, func(ctx context.Context) Reply {
				return f.authenticate(ctx, email, input)
			}),
		}, nil

	case StepRegisterEmail:
		f.acc.Email = input
		f.step = StepRegisterName
		return Reply{Commands: []chat.Command{echo, chat.Say(MsgAskName)}}, nil

	case StepRegisterName:
		f.acc.FullName = input
		f.step = StepRegisterPassword
		return Reply{Commands: []chat.Command{echo, chat.Say(MsgAskNewPassword)}}, nil

	case StepRegisterPassword:
		f.acc.Password = input
		f.step = StepRegisterCategory
		return Reply{Commands: []chat.Command{echo, chat.Say(MsgAskCategory)}}, nil

	case StepRegisterCategory:
		return f.onCategory(echo, input), nil

	case StepAwaitingConfirmation, StepAwaitingFile, StepDone:
		return Reply{}, ErrInputNotAccepted
	}

	return Reply{}, ErrInputNotAccepted
}

// Back возвращает на предыдущий шаг регистрации и повторяет его вопрос.
//
// Уже введённые значения остаются и перезаписываются при повторном ответе.
func (f *LoginFlow) Back() (Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending {
		return Reply{}, ErrInputNotAccepted
	}
	prev, ok := previousStep(f.step)
	if !ok {
		return Reply{}, ErrInputNotAccepted
	}

	utils.Debug("login: step back", "from", f.step.String(), "to", prev.String())
	f.step = prev
	return Reply{Commands: []chat.Command{chat.Say(prompt(prev))}}, nil
}

func previousStep(s Step) (Step, bool) {
	switch s {
	case StepRegisterName:
		return StepRegisterEmail, true
	case StepRegisterPassword:
		return StepRegisterName, true
	case StepRegisterCategory:
		return StepRegisterPassword, true
	}
	return s, false
}

// prompt — вопрос, которым открывается шаг.
func prompt(s Step) string {
	switch s {
	case StepIdentityDocument:
		return MsgAskIdentity
	case StepPasswordEntry:
		return MsgAskPassword
	case StepRegisterEmail:
		return MsgAskEmail
	case StepRegisterName:
		return MsgAskName
	case StepRegisterPassword:
		return MsgAskNewPassword
	case StepRegisterCategory:
		return MsgAskCategory
	}
	return ""
}

// onIdentityDocument вызывается под f.mu.
func (f *LoginFlow) onIdentityDocument(echo chat.Command, input string) Reply {
	formatted, err := identity.Format(input)
	if err != nil {
		utils.Debug("login: invalid identity document", "digits", len(identity.Digits(input)))
		return Reply{Commands: []chat.Command{echo, chat.Say(MsgInvalidCPF)}}
	}
	f.acc.IdentityDocument = formatted

	return Reply{
		Commands: []chat.Command{echo, chat.StartTyping()},
		Then: f.continueWith(0, func(ctx context.Context) Reply {
			return f.lookup(ctx, formatted)
		}),
	}
}

func (f *LoginFlow) lookup(ctx context.Context, formatted string) Reply {
	callCtx, cancel := f.cfg.Timing.callContext(ctx)
	res, err := f.cfg.Identity.LookupIdentity(callCtx, formatted)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	cmds := []chat.Command{chat.StopTyping()}
	if err != nil {
		utils.Error("login: lookup identity failed", "error", err)
		return Reply{Commands: append(cmds, chat.Say(MsgGenericError))}
	}

	if res.AlreadyRegistered {
		f.acc.Email = res.AccountIdentifier
		f.step = StepPasswordEntry
		utils.Info("login: identity registered", "email", res.AccountIdentifier)
		return Reply{Commands: append(cmds, chat.Say(MsgAskPassword))}
	}

	f.step = StepRegisterEmail
	utils.Info("login: identity not registered, starting registration")
	return Reply{Commands: append(cmds, chat.Say(MsgAskEmail))}
}

// onCategory вызывается под f.mu.
func (f *LoginFlow) onCategory(echo chat.Command, input string) Reply {
	category, ok := parseCategoryChoice(input)
	if !ok {
		return Reply{Commands: []chat.Command{echo, chat.Say(MsgInvalidOption)}}
	}
	f.acc.Category = category

	return Reply{
		Commands: []chat.Command{echo, chat.StartTyping()},
		Then:     f.continueWith(0, f.register),
	}
}

func parseCategoryChoice(input string) (session.Category, bool) {
	switch input {
	case "1":
		return session.CategoryIndividualSupplier, true
	case "2":
		return session.CategoryInformalGroup, true
	case "3":
		return session.CategoryFormalGroup, true
	}
	return "", false
}

func (f *LoginFlow) register(ctx context.Context) Reply {
	var loc *geo.Coordinates
	if f.cfg.Geo != nil {
		geoCtx, cancel := f.cfg.Timing.callContext(ctx)
		c, err := geo.Lookup(geoCtx, f.cfg.Geo)
		cancel()
		if err != nil {
			utils.Warn("login: geolocation skipped", "error", err)
		}
		loc = c
	}

	f.mu.Lock()
	f.acc.Location = loc
	req := f.acc.registration()
	f.mu.Unlock()

	callCtx, cancel := f.cfg.Timing.callContext(ctx)
	err := f.cfg.Identity.Register(callCtx, req)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	cmds := []chat.Command{chat.StopTyping()}
	if err != nil {
		utils.Error("login: register failed", "category", string(req.Category), "error", err)
		var ve *ValidationError
		if errors.As(err, &ve) && ve.Message() != "" {
			return Reply{Commands: append(cmds, chat.Say(ve.Message()))}
		}
		return Reply{Commands: append(cmds, chat.Say(MsgGenericError))}
	}

	utils.Info("login: registered", "email", req.Email, "category", string(req.Category))

	// Автологин ведёт себя как шаг password_entry: при отказе продавец
	// вводит пароль вручную.
	f.step = StepPasswordEntry
	email, password := req.Email, req.Password
	return Reply{
		Commands: append(cmds, chat.Say(MsgRegistered)),
		Then: f.continueWith(f.cfg.Timing.AutoLoginDelay, func(context.Context) Reply {
			f.mu.Lock()
			defer f.mu.Unlock()
			return Reply{
				Commands: []chat.Command{chat.StartTyping()},
				Then: f.continueWith(0, func(ctx context.Context) Reply {
					return f.authenticate(ctx, email, password)
				}),
			}
		}),
	}
}

func (f *LoginFlow) authenticate(ctx context.Context, email, password string) Reply {
	callCtx, cancel := f.cfg.Timing.callContext(ctx)
	sess, err := f.cfg.Identity.Authenticate(callCtx, email, password)
	cancel()

	if err == nil && f.cfg.Sessions != nil {
		if err = f.cfg.Sessions.Begin(ctx, sess); err != nil {
			err = errors.Join(ErrTransport, err)
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cmds := []chat.Command{chat.StopTyping()}
	switch {
	case err == nil:
		utils.Info("login: authenticated", "email", email, "user_id", sess.UserID)
		f.step = StepDone
		f.acc = Accumulator{}
		return Reply{
			Commands: append(cmds, chat.Say(msgWelcome(sess.Name))),
			Then:     f.redirectAfter(f.cfg.Timing.RedirectDelay, RouteDocuments),
		}

	case errors.Is(err, ErrInvalidCredentials):
		utils.Warn("login: invalid credentials", "email", email)
		f.step = StepPasswordEntry
		return Reply{Commands: append(cmds, chat.Say(MsgWrongPassword))}

	default:
		utils.Error("login: authenticate failed", "email", email, "error", err)
		f.step = StepPasswordEntry
		return Reply{Commands: append(cmds, chat.Say(MsgGenericError))}
	}
}
