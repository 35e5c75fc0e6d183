package flow

import (
	"context"
	"path/filepath"

	"github.com/ilkoid/produtor-chat/pkg/chat"
	"github.com/ilkoid/produtor-chat/pkg/guide"
	"github.com/ilkoid/produtor-chat/pkg/session"
	"github.com/ilkoid/produtor-chat/pkg/utils"
)

// DocumentConfig — зависимости DocumentFlow.
type DocumentConfig struct {
	DocumentName string
	Category     session.Category
	Sessions     *session.Manager

	// Submitter — куда уходит файл. nil: только локальная отметка
	// об отправке, без сетевого вызова.
	Submitter   DocumentSubmitter
	MaxFileSize int64 // 0 — без ограничения
	Timing      Timing
}

// DocumentFlow — чат отправки одного документа.
//
//	awaiting_confirmation ─sim→ awaiting_file ─файл→ (чеклист)
//	                      └nao→ done
type DocumentFlow struct {
	gate

	cfg        DocumentConfig
	step       Step
	showUpload bool
}

// NewDocumentFlow создаёт чат в шаге awaiting_confirmation.
func NewDocumentFlow(cfg DocumentConfig) *DocumentFlow {
	return &DocumentFlow{cfg: cfg, step: StepAwaitingConfirmation}
}

// DocumentName возвращает имя документа чата.
func (f *DocumentFlow) DocumentName() string {
	return f.cfg.DocumentName
}

// InitialMessages — инструкция, вопрос и кнопки SIM / NÃO.
//
// Для документа без инструкции сообщение с шагами не добавляется.
func (f *DocumentFlow) InitialMessages() []chat.Message {
	msgs := make([]chat.Message, 0, 3)
	if g := guide.Resolve(f.cfg.DocumentName, f.cfg.Category); !g.Empty() {
		msgs = append(msgs, chat.Assistant(g.Render()))
	}
	return append(msgs,
		chat.Assistant(MsgDocumentQuestion),
		chat.Options(DocumentOptions()...),
	)
}

// Step возвращает активный шаг.
func (f *DocumentFlow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// ShowUpload сообщает, что нужно показать выбор файла.
func (f *DocumentFlow) ShowUpload() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showUpload
}

// AcceptsText — свободный текст в этом чате не принимается.
func (f *DocumentFlow) AcceptsText() bool { return false }

// Submit отклоняет свободный текст: на шаге подтверждения доступны только кнопки.
func (f *DocumentFlow) Submit(context.Context, string) (Reply, error) {
	return Reply{}, ErrInputNotAccepted
}

// Choose обрабатывает нажатие кнопки SIM / NÃO.
func (f *DocumentFlow) Choose(value string) (Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending || f.step != StepAwaitingConfirmation {
		return Reply{}, ErrInputNotAccepted
	}

	switch value {
	case OptionYes:
		f.step = StepAwaitingFile
		f.showUpload = true
		return Reply{Commands: []chat.Command{
			chat.DropOptions(),
			chat.Echo("SIM"),
			chat.Say(MsgAskFile),
		}}, nil

	case OptionNo:
		f.step = StepDone
		f.showUpload = false
		return Reply{Commands: []chat.Command{
			chat.DropOptions(),
			chat.Echo("NÃO"),
			chat.Say(MsgSeekCityHall),
		}}, nil
	}

	return Reply{}, ErrInputNotAccepted
}

// SubmitFile обрабатывает выбранный и отправленный файл.
func (f *DocumentFlow) SubmitFile(ctx context.Context, file DocumentFile) (Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pending || f.step != StepAwaitingFile {
		return Reply{}, ErrInputNotAccepted
	}

	file.DocumentName = f.cfg.DocumentName
	file.FileName = filepath.Base(file.FileName)
	echo := chat.Echo("📎 " + file.FileName)

	if len(file.Data) == 0 {
		return Reply{Commands: []chat.Command{echo, chat.Say(MsgEmptyFile)}}, nil
	}
	if f.cfg.MaxFileSize > 0 && int64(len(file.Data)) > f.cfg.MaxFileSize {
		return Reply{Commands: []chat.Command{echo, chat.Say(msgFileTooLarge(f.cfg.MaxFileSize))}}, nil
	}

	if f.cfg.Submitter == nil {
		return f.complete(ctx, []chat.Command{echo}), nil
	}

	return Reply{
		Commands: []chat.Command{echo, chat.StartTyping()},
		Then: f.continueWith(0, func(ctx context.Context) Reply {
			return f.upload(ctx, file)
		}),
	}, nil
}

func (f *DocumentFlow) upload(ctx context.Context, file DocumentFile) Reply {
	if f.cfg.Sessions != nil {
		if s, err := f.cfg.Sessions.Current(ctx); err == nil {
			file.UserID = s.UserID
			file.AccessToken = s.AccessToken
		}
	}

	callCtx, cancel := f.cfg.Timing.callContext(ctx)
	err := f.cfg.Submitter.SubmitDocument(callCtx, file)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()

	cmds := []chat.Command{chat.StopTyping()}
	if err != nil {
		utils.Error("document: upload failed", "document", file.DocumentName, "file", file.FileName, "error", err)
		return Reply{Commands: append(cmds, chat.Say(MsgUploadFailed))}
	}
	utils.Info("document: uploaded", "document", file.DocumentName, "file", file.FileName, "size", len(file.Data))
	return f.complete(ctx, cmds)
}

// complete записывает отметку об отправке. Вызывается под f.mu.
func (f *DocumentFlow) complete(ctx context.Context, cmds []chat.Command) Reply {
	if f.cfg.Sessions != nil {
		if err := f.cfg.Sessions.MarkSubmitted(ctx, f.cfg.DocumentName); err != nil {
			utils.Error("document: mark submitted failed", "document", f.cfg.DocumentName, "error", err)
			return Reply{Commands: append(cmds, chat.Say(MsgGenericError))}
		}
	}

	f.step = StepDone
	f.showUpload = false
	return Reply{
		Commands: append(cmds, chat.Say(MsgDocumentReceived)),
		Then:     f.redirectAfter(f.cfg.Timing.RedirectDelay, RouteDocuments),
	}
}
