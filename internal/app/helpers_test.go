package app

import (
	"context"
	"time"

	"github.com/ilkoid/produtor-chat/pkg/chat"
)

func newLog(initial []chat.Message) *chat.Log {
	return chat.NewLog(initial...)
}

func noSleep(context.Context, time.Duration) error { return nil }
