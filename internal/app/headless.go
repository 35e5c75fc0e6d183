package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ilkoid/produtor-chat/pkg/assist"
	"github.com/ilkoid/produtor-chat/pkg/chat"
	"github.com/ilkoid/produtor-chat/pkg/checklist"
	"github.com/ilkoid/produtor-chat/pkg/flow"
)

// RunHeadless ведёт диалог входа построчно: реплики в out, ответы из in.
//
// Режим для терминалов без TUI и для скриптов. После входа печатает
// чеклист документов и завершается. Возвращает io.ErrUnexpectedEOF,
// если ввод закончился раньше входа.
func (c *Components) RunHeadless(ctx context.Context, in io.Reader, out io.Writer) error {
	if !c.Sessions.Active(ctx) {
		if err := c.headlessLogin(ctx, in, out); err != nil {
			return err
		}
	}

	list, err := c.Checklist(ctx)
	if err != nil {
		return err
	}
	printChecklist(out, list)
	return nil
}

func (c *Components) headlessLogin(ctx context.Context, in io.Reader, out io.Writer) error {
	login := c.LoginFlow()
	log := chat.NewLog(login.InitialMessages()...)
	printed := printFrom(out, log, 0)
	fmt.Fprintf(out, "(comandos: %s, %s)\n", strings.Join(c.Commands.GetCommands(), ", "), flow.BackCommand)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if handler, ok := c.Commands.Lookup(line); ok {
			topic := assist.Topic{Screen: assist.ScreenLogin, Step: login.Step().String()}
			printCommandResult(out, handler(c, topic)())
			continue
		}

		r, err := login.Submit(ctx, line)
		if errors.Is(err, flow.ErrInputNotAccepted) {
			continue
		}
		if err != nil {
			return err
		}

		route, err := flow.Drive(ctx, log, r, flow.SleepContext)
		if err != nil {
			return err
		}
		printed = printFrom(out, log, printed)

		if route == flow.RouteDocuments {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return io.ErrUnexpectedEOF
}

// printFrom печатает сообщения журнала, начиная с from. Возвращает новую длину.
//
// Индикатор набора к этому моменту уже снят Drive, поэтому журнал
// только растёт.
func printFrom(out io.Writer, log *chat.Log, from int) int {
	msgs := log.Messages()
	for _, m := range msgs[min(from, len(msgs)):] {
		switch m.Kind {
		case chat.KindAssistantText:
			fmt.Fprintf(out, "🤖 %s\n", m.Text)
		case chat.KindUserText:
			fmt.Fprintf(out, "> %s\n", m.Text)
		case chat.KindOptionPrompt:
			labels := make([]string, len(m.Options))
			for i, o := range m.Options {
				labels[i] = "[" + o.Label + "]"
			}
			fmt.Fprintln(out, strings.Join(labels, " "))
		}
	}
	return len(msgs)
}

// printCommandResult печатает результат команды чата. Переходы
// в headless режиме не нужны: до входа он всегда на экране входа.
func printCommandResult(out io.Writer, msg any) {
	res, ok := msg.(CommandResultMsg)
	if !ok {
		return
	}
	switch {
	case res.Err != nil:
		fmt.Fprintf(out, "! %v\n", res.Err)
	case res.Output != "":
		fmt.Fprintf(out, "🤖 %s\n", res.Output)
	}
}

func printChecklist(out io.Writer, list checklist.Checklist) {
	fmt.Fprintf(out, "\n%s\n", checklist.Title)
	for _, item := range list.Items {
		mark := "○"
		if item.Status == checklist.StatusSubmitted {
			mark = "✓"
		}
		fmt.Fprintf(out, "  %s %s (%s)\n", mark, item.Name, item.Subtitle())
	}
	done, total := list.Progress()
	fmt.Fprintf(out, "%d/%d\n", done, total)
}
