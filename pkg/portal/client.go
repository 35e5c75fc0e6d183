// Package portal — клиент REST API портала продавца.
//
// Реализует порты flow.IdentityService и flow.DocumentSubmitter:
//
//	GET  /produtores/cpf/{cpf}   поиск продавца по CPF
//	POST /token                  OAuth2 password flow (form)
//	POST /register               регистрация (JSON)
//	POST /documentos/upload      файл документа (multipart, bearer)
//
// Клиент ограничивает частоту запросов (golang.org/x/time/rate),
// повторяет запрос при 429 и, для идемпотентных GET, при сетевой ошибке.
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ilkoid/produtor-chat/pkg/config"
	"github.com/ilkoid/produtor-chat/pkg/flow"
	"github.com/ilkoid/produtor-chat/pkg/utils"
)

// HTTPClient интерфейс для выполнения HTTP запросов.
//
// Стандартный *http.Client реализует этот интерфейс.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client — клиент портала.
type Client struct {
	baseURL       string
	httpClient    HTTPClient
	retryAttempts int
	limiter       *rate.Limiter
}

var (
	_ flow.IdentityService   = (*Client)(nil)
	_ flow.DocumentSubmitter = (*Client)(nil)
)

// New создаёт клиент из конфигурации.
//
// Поля с нулевыми значениями получают значения из PortalConfig.GetDefaults().
func New(cfg config.PortalConfig) (*Client, error) {
	cfg = cfg.GetDefaults()

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	return NewWithHTTPClient(cfg, &http.Client{Timeout: timeout}), nil
}

// NewWithHTTPClient создаёт клиент с заданным HTTP клиентом (тесты).
func NewWithHTTPClient(cfg config.PortalConfig, hc HTTPClient) *Client {
	cfg = cfg.GetDefaults()

	// rate_limit в запросах/минуту → rate.Limit в запросах/секунду
	ratePerSec := float64(cfg.RateLimit) / 60.0

	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    hc,
		retryAttempts: cfg.RetryAttempts,
		limiter:       rate.NewLimiter(rate.Limit(ratePerSec), cfg.BurstLimit),
	}
}

// BaseURL возвращает адрес API.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request описывает HTTP запрос. body создаётся заново на каждую попытку.
type request struct {
	method      string
	path        string
	contentType string
	bearer      string
	body        func() (io.Reader, error)
	idempotent  bool
}

// response — тело и статус ответа.
type response struct {
	status int
	body   []byte
}

func (r response) ok() bool {
	return r.status >= 200 && r.status < 300
}

// do выполняет запрос с rate limiting и retry.
//
// Возвращает ответ с любым статусом; ошибка только для транспорта.
func (c *Client) do(ctx context.Context, req request) (response, error) {
	attempts := c.retryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		// Ждём разрешения от лимитера (блокирует горутину, если превысили лимит)
		if err := c.limiter.Wait(ctx); err != nil {
			return response{}, fmt.Errorf("%w: rate limiter wait: %v", ErrTransport, err)
		}

		var body io.Reader
		if req.body != nil {
			b, err := req.body()
			if err != nil {
				return response{}, fmt.Errorf("build request body: %w", err)
			}
			body = b
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
		if err != nil {
			return response{}, fmt.Errorf("build request: %w", err)
		}
		httpReq.Header.Set("Accept", "application/json")
		if req.contentType != "" {
			httpReq.Header.Set("Content-Type", req.contentType)
		}
		if req.bearer != "" {
			httpReq.Header.Set("Authorization", "Bearer "+req.bearer)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			utils.Warn("portal: request failed", "method", req.method, "path", req.path, "attempt", i+1, "error", err)
			if !req.idempotent || ctx.Err() != nil {
				break
			}
			continue // Сетевая ошибка, пробуем еще
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			if !req.idempotent {
				break
			}
			continue
		}

		// Обработка 429 (Too Many Requests)
		if resp.StatusCode == http.StatusTooManyRequests && i < attempts-1 {
			retryAfter := 1 * time.Second // Дефолт
			if s := resp.Header.Get("Retry-After"); s != "" {
				if sec, err := strconv.Atoi(s); err == nil {
					retryAfter = time.Duration(sec) * time.Second
				}
			}
			utils.Warn("portal: rate limited", "path", req.path, "retry_after", retryAfter.String())

			select {
			case <-ctx.Done():
				return response{}, fmt.Errorf("%w: %v", ErrTransport, ctx.Err())
			case <-time.After(retryAfter):
				continue
			}
		}

		utils.Debug("portal: response", "method", req.method, "path", req.path, "status", resp.StatusCode)
		return response{status: resp.StatusCode, body: data}, nil
	}

	errType := ClassifyError(lastErr)
	utils.Error("portal: request gave up", "method", req.method, "path", req.path,
		"attempts", attempts, "error_type", errType.String(), "hint", errType.HumanMessage(), "error", lastErr)
	return response{}, fmt.Errorf("%w: %s %s: %v", ErrTransport, req.method, req.path, lastErr)
}

// decode разбирает успешный ответ или возвращает APIError.
func decode(resp response, dest any) error {
	if !resp.ok() {
		return &APIError{StatusCode: resp.status, Body: string(resp.body)}
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, dest); err != nil {
		return fmt.Errorf("%w: unmarshal response: %v", ErrTransport, err)
	}
	return nil
}
