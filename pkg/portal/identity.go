package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ilkoid/produtor-chat/pkg/flow"
	"github.com/ilkoid/produtor-chat/pkg/identity"
	"github.com/ilkoid/produtor-chat/pkg/session"
)

// lookupResponse — ответ GET /produtores/cpf/{cpf}.
type lookupResponse struct {
	Registered bool   `json:"cadastrado"`
	Email      string `json:"email"`
}

// LookupIdentity ищет продавца по CPF (формат XXX.XXX.XXX-XX).
//
// 404 означает, что продавец не зарегистрирован.
func (c *Client) LookupIdentity(ctx context.Context, formattedID string) (flow.IdentityLookup, error) {
	resp, err := c.do(ctx, request{
		method:     http.MethodGet,
		path:       "/produtores/cpf/" + url.PathEscape(formattedID),
		idempotent: true,
	})
	if err != nil {
		return flow.IdentityLookup{}, err
	}
	if resp.status == http.StatusNotFound {
		return flow.IdentityLookup{AlreadyRegistered: false}, nil
	}

	var out lookupResponse
	if err := decode(resp, &out); err != nil {
		return flow.IdentityLookup{}, fmt.Errorf("lookup identity: %w", err)
	}
	return flow.IdentityLookup{
		AlreadyRegistered: out.Registered,
		AccountIdentifier: out.Email,
	}, nil
}

// tokenResponse — ответ POST /token.
type tokenResponse struct {
	AccessToken    string          `json:"access_token"`
	TokenType      string          `json:"token_type"`
	UserID         json.RawMessage `json:"user_id"` // число или строка
	Role           string          `json:"role"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	TipoUsuario    string          `json:"tipo_usuario"`
	SubtipoUsuario string          `json:"subtipo_usuario"`
}

// Authenticate выполняет вход по e-mail и паролю.
//
// 401 возвращается как ErrInvalidCredentials.
func (c *Client) Authenticate(ctx context.Context, identifier, secret string) (session.Session, error) {
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", identifier)
	form.Set("password", secret)
	encoded := form.Encode()

	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/token",
		contentType: "application/x-www-form-urlencoded",
		body: func() (io.Reader, error) {
			return strings.NewReader(encoded), nil
		},
	})
	if err != nil {
		return session.Session{}, err
	}
	if resp.status == http.StatusUnauthorized {
		return session.Session{}, ErrInvalidCredentials
	}

	var out tokenResponse
	if err := decode(resp, &out); err != nil {
		return session.Session{}, fmt.Errorf("authenticate: %w", err)
	}
	if out.AccessToken == "" {
		return session.Session{}, fmt.Errorf("%w: authenticate: empty access_token", ErrTransport)
	}

	return out.session(), nil
}

func (t tokenResponse) session() session.Session {
	s := session.Session{
		AccessToken: t.AccessToken,
		Role:        t.Role,
		UserID:      strings.Trim(string(t.UserID), `"`),
		Name:        t.Name,
		Email:       t.Email,
		UserType:    t.TipoUsuario,
	}
	if s.UserID == "null" {
		s.UserID = ""
	}
	if s.UserType == "" {
		s.UserType = "produtor"
	}

	// Бэкенд хранит категорию в role (tipo_conta); subtipo_usuario приоритетнее.
	for _, raw := range []string{t.SubtipoUsuario, t.Role} {
		if c, err := session.ParseCategory(raw); err == nil {
			s.Subtype = c
			break
		}
	}
	if exp, err := session.TokenExpiry(t.AccessToken); err == nil {
		s.ExpiresAt = exp
	}
	return s
}

// registerRequest — тело POST /register.
type registerRequest struct {
	TipoConta string   `json:"tipo_conta"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Senha     string   `json:"senha"`
	CPF       string   `json:"cpf,omitempty"`
	CPFs      []string `json:"cpfs,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func newRegisterRequest(req flow.RegistrationRequest) registerRequest {
	cpf := identity.Digits(req.IdentityDocument)
	body := registerRequest{
		TipoConta: req.Category.WireName(),
		Name:      req.FullName,
		Email:     req.Email,
		Senha:     req.Password,
		CPF:       cpf,
	}
	if req.Category == session.CategoryInformalGroup {
		body.CPFs = []string{cpf}
	}
	if req.Location != nil {
		lat, lon := req.Location.Latitude, req.Location.Longitude
		body.Latitude = &lat
		body.Longitude = &lon
	}
	return body
}

// Register регистрирует нового продавца.
//
// Отказ с полем detail возвращается как *ValidationError.
func (c *Client) Register(ctx context.Context, req flow.RegistrationRequest) error {
	raw, err := json.Marshal(newRegisterRequest(req))
	if err != nil {
		return fmt.Errorf("marshal register request: %w", err)
	}

	resp, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/register",
		contentType: "application/json",
		body: func() (io.Reader, error) {
			return bytes.NewReader(raw), nil
		},
	})
	if err != nil {
		return err
	}
	if resp.ok() {
		return nil
	}

	if msgs := parseDetail(resp.body); len(msgs) > 0 {
		return &ValidationError{StatusCode: resp.status, Messages: msgs}
	}
	return fmt.Errorf("register: %w", &APIError{StatusCode: resp.status, Body: string(resp.body)})
}
