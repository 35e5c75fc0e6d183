// Package assist отвечает на кнопку "Ajuda" в заголовке чата.
//
// Если ассистент включён в config.yaml, подсказку пишет LLM
// (OpenAI-совместимый API) по контексту экрана и инструкции документа.
// Иначе, и при любой ошибке LLM, показывается статическая подсказка.
package assist

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ilkoid/produtor-chat/pkg/config"
	"github.com/ilkoid/produtor-chat/pkg/guide"
	"github.com/ilkoid/produtor-chat/pkg/session"
	"github.com/ilkoid/produtor-chat/pkg/utils"
)

// Screen — экран, с которого нажата помощь.
type Screen string

const (
	ScreenLogin        Screen = "login"
	ScreenDocuments    Screen = "documentos"
	ScreenDocumentChat Screen = "documento"
	ScreenProduction   Screen = "producao"
)

// Topic — контекст запроса помощи.
type Topic struct {
	Screen       Screen
	Step         string // flow.Step.String()
	DocumentName string
	Category     session.Category
}

// Helper возвращает текст подсказки.
type Helper interface {
	Help(ctx context.Context, topic Topic) (string, error)
}

// Static — подсказки без LLM.
type Static struct{}

func (Static) Help(_ context.Context, topic Topic) (string, error) {
	return StaticHelp(topic), nil
}

// StaticHelp — фиксированная подсказка для экрана.
func StaticHelp(topic Topic) string {
	switch topic.Screen {
	case ScreenLogin:
		switch topic.Step {
		case "password_entry":
			return "Digite a senha que você cadastrou. Se esqueceu, procure o suporte do portal."
		case "register_category":
			return "Escolha 1 se você vende sozinho, 2 se vende com um grupo sem CNPJ e 3 se faz parte de uma cooperativa ou associação."
		case "register_email", "register_name", "register_password":
			return "Estamos criando a sua conta. Digite /voltar para corrigir a resposta anterior."
		}
		return "Digite o seu CPF com 11 números. Pode usar pontos e traço, nós ajustamos."
	case ScreenProduction:
		if topic.Step == "harvest_year" {
			return "Digite o ano da safra com 4 números, por exemplo 2026, ou ok para o ano atual."
		}
		return "Cadastre cada produto que você colhe: nome, unidade, quantidade e o ano da safra."
	case ScreenDocumentChat:
		return fmt.Sprintf("Siga os passos para emitir \"%s\". Se não conseguir, procure a prefeitura da sua cidade.", topic.DocumentName)
	default:
		return "Escolha um documento pendente para ver como emitir e enviar. Quando todos estiverem enviados, avance para a produção."
	}
}

// completer — часть *openai.Client, используемая ассистентом.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client — помощник на LLM.
type Client struct {
	api       completer
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewClient создает клиент из конфигурации ассистента.
func NewClient(cfg config.AssistantConfig) *Client {
	// Поддержка custom BaseURL для OpenAI-совместимых провайдеров
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return newClient(openai.NewClientWithConfig(oc), cfg)
}

func newClient(api completer, cfg config.AssistantConfig) *Client {
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 400
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	return &Client{api: api, model: cfg.ModelName, maxTokens: maxTokens, timeout: timeout}
}

// Help запрашивает подсказку у LLM.
func (c *Client) Help(ctx context.Context, topic Topic) (string, error) {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		Messages:  BuildMessages(topic),
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		utils.Error("assist: llm request failed", "model", c.model, "error", err,
			"duration_ms", time.Since(startTime).Milliseconds())
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty completion")
	}

	utils.Info("assist: help generated", "model", c.model, "screen", string(topic.Screen),
		"duration_ms", time.Since(startTime).Milliseconds())
	return text, nil
}

// WithFallback возвращает подсказку helper, а при ошибке — статическую.
func WithFallback(ctx context.Context, h Helper, topic Topic) string {
	if h == nil {
		return StaticHelp(topic)
	}
	text, err := h.Help(ctx, topic)
	if err != nil || text == "" {
		return StaticHelp(topic)
	}
	return text
}

const systemPrompt = `Você é o assistente do Portal do Produtor, que ajuda agricultores familiares a vender para programas de compras públicas.
Responda sempre em português do Brasil, com frases curtas e linguagem simples.
Nunca peça senha, CPF ou outros dados pessoais.
Use no máximo 5 frases.`

// BuildMessages собирает промпт: системная роль, контекст экрана и инструкция документа.
func BuildMessages(topic Topic) []openai.ChatCompletionMessage {
	var ctxLines []string
	ctxLines = append(ctxLines, "Tela: "+string(topic.Screen))
	if topic.Step != "" {
		ctxLines = append(ctxLines, "Etapa: "+topic.Step)
	}
	if topic.Category.Valid() {
		ctxLines = append(ctxLines, "Categoria do produtor: "+topic.Category.Label())
	}
	if topic.DocumentName != "" {
		ctxLines = append(ctxLines, "Documento: "+topic.DocumentName)
		if g := guide.Resolve(topic.DocumentName, topic.Category); !g.Empty() {
			ctxLines = append(ctxLines, "Instruções oficiais:\n"+g.Render())
		}
	}

	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleSystem, Content: strings.Join(ctxLines, "\n")},
		{Role: openai.ChatMessageRoleUser, Content: "Preciso de ajuda nesta etapa. O que devo fazer?"},
	}
}
