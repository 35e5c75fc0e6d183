package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/produtor-chat/pkg/chat"
	"github.com/ilkoid/produtor-chat/pkg/checklist"
	"github.com/ilkoid/produtor-chat/pkg/guide"
	"github.com/ilkoid/produtor-chat/pkg/session"
)

func newDocumentFlow(t *testing.T, name string, submitter DocumentSubmitter) (*DocumentFlow, *chat.Log, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(session.NewMemoryStore())
	require.NoError(t, sessions.Begin(context.Background(), session.Session{
		AccessToken: "tok", UserID: "7", Subtype: session.CategoryIndividualSupplier,
	}))

	cfg := DocumentConfig{
		DocumentName: name,
		Category:     session.CategoryIndividualSupplier,
		Sessions:     sessions,
		MaxFileSize:  1 << 20,
		Timing:       DefaultTiming(),
	}
	if submitter != nil {
		cfg.Submitter = submitter
	}
	f := NewDocumentFlow(cfg)
	return f, chat.NewLog(f.InitialMessages()...), sessions
}

func TestDocument_InitialMessages(t *testing.T) {
	f, log, _ := newDocumentFlow(t, guide.DocRegularidadeFederal, nil)

	msgs := log.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, guide.Resolve(guide.DocRegularidadeFederal, session.CategoryIndividualSupplier).Render(), msgs[0].Text)
	assert.Contains(t, msgs[0].Text, "**1.** Acesse o link da Receita Federal")
	assert.Equal(t, MsgDocumentQuestion, msgs[1].Text)
	assert.Equal(t, chat.KindOptionPrompt, msgs[2].Kind)
	assert.Equal(t, DocumentOptions(), msgs[2].Options)

	assert.Equal(t, StepAwaitingConfirmation, f.Step())
	assert.False(t, f.ShowUpload())
	assert.False(t, f.AcceptsText())
}

func TestDocument_InitialMessagesWithoutGuide(t *testing.T) {
	_, log, _ := newDocumentFlow(t, guide.DocControleLimites, nil)

	msgs := log.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, MsgDocumentQuestion, msgs[0].Text)
}

// Сценарий D: ветка "nao".
func TestDocument_NoBranch(t *testing.T) {
	f, log, _ := newDocumentFlow(t, guide.DocRegularidadeMunicipal, nil)
	before := log.Messages()

	r, err := f.Choose(OptionNo)
	require.NoError(t, err)
	require.NoError(t, log.Apply(r.Commands...))

	msgs := log.Messages()
	assert.Zero(t, log.Count(chat.KindOptionPrompt))
	require.Len(t, msgs, len(before)-1+2)
	assert.Equal(t, chat.User("NÃO").Text, msgs[len(msgs)-2].Text)
	assert.Equal(t, chat.KindUserText, msgs[len(msgs)-2].Kind)
	assert.Equal(t, MsgSeekCityHall, msgs[len(msgs)-1].Text)
	assert.False(t, f.ShowUpload())
	assert.Equal(t, StepDone, f.Step())
	assert.Nil(t, r.Then)

	_, err = f.SubmitFile(context.Background(), DocumentFile{FileName: "a.pdf", Data: []byte("x")})
	assert.ErrorIs(t, err, ErrInputNotAccepted)
}

func TestDocument_YesBranch(t *testing.T) {
	f, log, _ := newDocumentFlow(t, guide.DocRegularidadeMunicipal, nil)

	r, err := f.Choose(OptionYes)
	require.NoError(t, err)
	require.NoError(t, log.Apply(r.Commands...))

	msgs := log.Messages()
	assert.Zero(t, log.Count(chat.KindOptionPrompt))
	assert.Equal(t, "SIM", msgs[len(msgs)-2].Text)
	assert.Equal(t, MsgAskFile, msgs[len(msgs)-1].Text)
	assert.True(t, f.ShowUpload())
	assert.Equal(t, StepAwaitingFile, f.Step())

	_, err = f.Choose(OptionNo)
	assert.ErrorIs(t, err, ErrInputNotAccepted)
}

func TestDocument_RejectsOtherInput(t *testing.T) {
	f, log, _ := newDocumentFlow(t, guide.DocFGTS, nil)
	n := log.Len()

	_, err := f.Choose("talvez")
	assert.ErrorIs(t, err, ErrInputNotAccepted)

	_, err = f.Submit(context.Background(), "sim")
	assert.ErrorIs(t, err, ErrInputNotAccepted)

	_, err = f.SubmitFile(context.Background(), DocumentFile{FileName: "a.pdf", Data: []byte("x")})
	assert.ErrorIs(t, err, ErrInputNotAccepted)

	assert.Equal(t, n, log.Len())
	assert.Equal(t, StepAwaitingConfirmation, f.Step())
}

// Отправка без загрузчика отмечает документ и возвращает к чеклисту.
func TestDocument_MinimalSubmitRoundTripsToChecklist(t *testing.T) {
	f, log, sessions := newDocumentFlow(t, guide.DocRegularidadeTrabalhista, nil)
	ctx := context.Background()

	r, err := f.Choose(OptionYes)
	require.NoError(t, err)
	require.NoError(t, log.Apply(r.Commands...))

	r, err = f.SubmitFile(ctx, DocumentFile{FileName: "/tmp/certidao.pdf", Data: []byte("%PDF-1.4")})
	require.NoError(t, err)

	sleeper := &noSleep{}
	route, err := Drive(ctx, log, r, sleeper.sleep)
	require.NoError(t, err)
	assert.Equal(t, RouteDocuments, route)
	assert.Equal(t, []time.Duration{2 * time.Second}, sleeper.delays)

	msgs := log.Messages()
	assert.Equal(t, "📎 certidao.pdf", msgs[len(msgs)-2].Text)
	assert.Equal(t, MsgDocumentReceived, msgs[len(msgs)-1].Text)
	assert.False(t, f.ShowUpload())

	submitted, err := sessions.Submitted(ctx)
	require.NoError(t, err)
	item, ok := checklist.Build(session.CategoryIndividualSupplier, submitted).Find(guide.DocRegularidadeTrabalhista)
	require.True(t, ok)
	assert.Equal(t, checklist.StatusSubmitted, item.Status)
}

func TestDocument_UploadWithSubmitter(t *testing.T) {
	sub := &fakeSubmitter{}
	f, log, sessions := newDocumentFlow(t, guide.DocDeclaracaoAptidao, sub)
	ctx := context.Background()

	r, _ := f.Choose(OptionYes)
	require.NoError(t, log.Apply(r.Commands...))

	r, err := f.SubmitFile(ctx, DocumentFile{FileName: "dap.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	require.NoError(t, log.Apply(r.Commands...))
	last, _ := log.Last()
	assert.Equal(t, chat.KindTypingIndicator, last.Kind)
	assert.True(t, f.Pending())

	route, err := Drive(ctx, log, r.Then.Run(ctx), (&noSleep{}).sleep)
	require.NoError(t, err)
	assert.Equal(t, RouteDocuments, route)

	require.Len(t, sub.files, 1)
	assert.Equal(t, guide.DocDeclaracaoAptidao, sub.files[0].DocumentName)
	assert.Equal(t, "7", sub.files[0].UserID)
	assert.Equal(t, "tok", sub.files[0].AccessToken)
	assert.Zero(t, log.Count(chat.KindTypingIndicator))

	submitted, _ := sessions.Submitted(ctx)
	assert.True(t, submitted[guide.DocDeclaracaoAptidao])
}

func TestDocument_UploadFailureStaysAwaitingFile(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("connection refused")}
	f, log, sessions := newDocumentFlow(t, guide.DocDeclaracaoAptidao, sub)
	ctx := context.Background()

	r, _ := f.Choose(OptionYes)
	require.NoError(t, log.Apply(r.Commands...))
	r, err := f.SubmitFile(ctx, DocumentFile{FileName: "dap.pdf", Data: []byte("%PDF")})
	require.NoError(t, err)

	route, err := Drive(ctx, log, r, (&noSleep{}).sleep)
	require.NoError(t, err)
	assert.Equal(t, RouteNone, route)

	last, _ := log.Last()
	assert.Equal(t, MsgUploadFailed, last.Text)
	assert.Equal(t, StepAwaitingFile, f.Step())
	assert.True(t, f.ShowUpload())
	assert.False(t, f.Pending())

	submitted, _ := sessions.Submitted(ctx)
	assert.False(t, submitted[guide.DocDeclaracaoAptidao])
}

func TestDocument_FileChecks(t *testing.T) {
	f, log, _ := newDocumentFlow(t, guide.DocFGTS, nil)
	r, _ := f.Choose(OptionYes)
	require.NoError(t, log.Apply(r.Commands...))

	r, err := f.SubmitFile(context.Background(), DocumentFile{FileName: "vazio.pdf"})
	require.NoError(t, err)
	require.NoError(t, log.Apply(r.Commands...))
	last, _ := log.Last()
	assert.Equal(t, MsgEmptyFile, last.Text)

	r, err = f.SubmitFile(context.Background(), DocumentFile{FileName: "grande.pdf", Data: make([]byte, 2<<20)})
	require.NoError(t, err)
	require.NoError(t, log.Apply(r.Commands...))
	last, _ = log.Last()
	assert.Contains(t, last.Text, "1 MB")

	assert.Equal(t, StepAwaitingFile, f.Step())
}
