package portal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/produtor-chat/pkg/config"
	"github.com/ilkoid/produtor-chat/pkg/flow"
	"github.com/ilkoid/produtor-chat/pkg/geo"
	"github.com/ilkoid/produtor-chat/pkg/session"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(config.PortalConfig{
		BaseURL:       srv.URL,
		RateLimit:     6000,
		BurstLimit:    100,
		RetryAttempts: 3,
	}, srv.Client())
}

func TestLookupIdentity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/produtores/cpf/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/produtores/cpf/123.456.789-09":
			_, _ = w.Write([]byte(`{"cadastrado": true, "email": "maria@sitio.com"}`))
		case "/produtores/cpf/529.982.247-25":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	res, err := c.LookupIdentity(ctx, "123.456.789-09")
	require.NoError(t, err)
	assert.Equal(t, flow.IdentityLookup{AlreadyRegistered: true, AccountIdentifier: "maria@sitio.com"}, res)

	res, err = c.LookupIdentity(ctx, "529.982.247-25")
	require.NoError(t, err)
	assert.False(t, res.AlreadyRegistered)

	_, err = c.LookupIdentity(ctx, "111.111.111-11")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, ErrServer, ClassifyError(err))
}

func TestAuthenticate(t *testing.T) {
	exp := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "a@b.com", "user_id": 42, "exp": exp.Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())

		if r.PostForm.Get("password") != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Email ou senha incorretos"}`))
			return
		}
		assert.Equal(t, "a@b.com", r.PostForm.Get("username"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": token,
			"token_type":   "bearer",
			"user_id":      42,
			"role":         "grupo_informal",
			"name":         "Maria",
			"email":        "a@b.com",
		})
	}))
	ctx := context.Background()

	s, err := c.Authenticate(ctx, "a@b.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, token, s.AccessToken)
	assert.Equal(t, "42", s.UserID)
	assert.Equal(t, "Maria", s.Name)
	assert.Equal(t, "produtor", s.UserType)
	assert.Equal(t, session.CategoryInformalGroup, s.Subtype)
	assert.True(t, s.ExpiresAt.Equal(exp))

	_, err = c.Authenticate(ctx, "a@b.com", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, ErrAuthFailed, ClassifyError(err))
}

func TestAuthenticate_SubtypeWins(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"opaque","user_id":"u-1","role":"produtor","tipo_usuario":"produtor","subtipo_usuario":"grupo_formal"}`))
	}))

	s, err := c.Authenticate(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	assert.Equal(t, "u-1", s.UserID)
	assert.Equal(t, session.CategoryFormalGroup, s.Subtype)
	assert.True(t, s.ExpiresAt.IsZero())
}

func TestRegister(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/register", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	}))

	err := c.Register(context.Background(), flow.RegistrationRequest{
		Category:         session.CategoryInformalGroup,
		FullName:         "Maria",
		Email:            "a@b.com",
		Password:         "secret123",
		IdentityDocument: "123.456.789-09",
		Location:         &geo.Coordinates{Latitude: -15.8, Longitude: -47.9},
	})
	require.NoError(t, err)

	assert.Equal(t, "grupo_informal", got["tipo_conta"])
	assert.Equal(t, "secret123", got["senha"])
	assert.Equal(t, "12345678909", got["cpf"])
	assert.Equal(t, []any{"12345678909"}, got["cpfs"])
	assert.InDelta(t, -15.8, got["latitude"], 1e-9)
}

func TestRegister_OmitsMissingLocation(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))

	require.NoError(t, c.Register(context.Background(), flow.RegistrationRequest{
		Category: session.CategoryIndividualSupplier, IdentityDocument: "123.456.789-09",
	}))
	assert.NotContains(t, got, "latitude")
	assert.NotContains(t, got, "cpfs")
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantMsgs []string
	}{
		{"string detail", 400, `{"detail":"CPF já cadastrado"}`, []string{"CPF já cadastrado"}},
		{"list detail", 422, `{"detail":[{"loc":["body","email"],"msg":"E-mail inválido"},{"msg":"Senha curta"}]}`, []string{"E-mail inválido", "Senha curta"}},
		{"no detail", 500, `Internal Server Error`, nil},
		{"empty detail", 400, `{"detail":""}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))

			err := c.Register(context.Background(), flow.RegistrationRequest{Category: session.CategoryFormalGroup})
			require.Error(t, err)

			var ve *ValidationError
			if tt.wantMsgs == nil {
				assert.False(t, errors.As(err, &ve))
				assert.ErrorIs(t, err, ErrTransport)
				return
			}
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantMsgs, ve.Messages)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

const checklistJSON = `{
	"produtor_id": 3,
	"itens": [
		{"tipo_documento_id": 10, "tipo_documento_codigo": "DAP", "tipo_documento_nome": "Declaração de Aptidão", "status": "pending", "documento_id": null},
		{"tipo_documento_id": 11, "tipo_documento_codigo": "CND_FED", "tipo_documento_nome": "Regularidade Federal", "status": "rejected", "documento_id": 42}
	]
}`

// documentServer воспроизводит контракт загрузки: чеклист, создание записи, upload.
type documentServer struct {
	created []map[string]int
	uploads []string
}

func (s *documentServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/documentos/produtor/7/checklist", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(checklistJSON))
	})
	mux.HandleFunc("/documentos/produtor", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		s.created = append(s.created, body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 55, "status": "pending"}`))
	})
	mux.HandleFunc("/documentos/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "crf.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4", string(data))

		s.uploads = append(s.uploads, r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message": "Arquivo enviado com sucesso", "arquivo_id": 1, "versao": 1}`))
	})
	return mux
}

func TestSubmitDocument_CreatesRecordThenUploads(t *testing.T) {
	srv := &documentServer{}
	c := newTestClient(t, srv.handler(t))

	err := c.SubmitDocument(context.Background(), flow.DocumentFile{
		DocumentName: "declaracao de aptidao", FileName: "crf.pdf", Data: []byte("%PDF-1.4"),
		UserID: "7", AccessToken: "tok",
	})
	require.NoError(t, err)

	assert.Equal(t, []map[string]int{{"produtor_id": 3, "tipo_documento_id": 10}}, srv.created)
	assert.Equal(t, []string{"/documentos/55/upload"}, srv.uploads)
}

func TestSubmitDocument_ReusesExistingRecord(t *testing.T) {
	srv := &documentServer{}
	c := newTestClient(t, srv.handler(t))

	err := c.SubmitDocument(context.Background(), flow.DocumentFile{
		DocumentName: "Regularidade Federal", FileName: "crf.pdf", Data: []byte("%PDF-1.4"),
		UserID: "7", AccessToken: "tok",
	})
	require.NoError(t, err)

	assert.Empty(t, srv.created)
	assert.Equal(t, []string{"/documentos/42/upload"}, srv.uploads)
}

func TestSubmitDocument_Errors(t *testing.T) {
	srv := &documentServer{}
	c := newTestClient(t, srv.handler(t))
	ctx := context.Background()

	err := c.SubmitDocument(ctx, flow.DocumentFile{DocumentName: "FGTS", Data: []byte("x"), UserID: "7"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = c.SubmitDocument(ctx, flow.DocumentFile{DocumentName: "FGTS", Data: []byte("x"), AccessToken: "tok"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = c.SubmitDocument(ctx, flow.DocumentFile{
		DocumentName: "FGTS", FileName: "crf.pdf", Data: []byte("%PDF-1.4"), UserID: "7", AccessToken: "tok",
	})
	assert.ErrorIs(t, err, ErrUnknownDocument)
	assert.Empty(t, srv.created)
	assert.Empty(t, srv.uploads)
}

func TestChecklist_Find(t *testing.T) {
	var cl Checklist
	require.NoError(t, json.Unmarshal([]byte(checklistJSON), &cl))

	it, ok := cl.Find("  DECLARAÇÃO   de aptidão ")
	require.True(t, ok)
	assert.Equal(t, 10, it.TypeID)
	assert.Nil(t, it.DocumentID)

	it, ok = cl.Find("cnd_fed")
	require.True(t, ok)
	require.NotNil(t, it.DocumentID)
	assert.Equal(t, 42, *it.DocumentID)

	_, ok = cl.Find("Projeto de Venda")
	assert.False(t, ok)
}

func TestDo_RetriesOn429(t *testing.T) {
	var calls int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"cadastrado": false}`))
	}))

	res, err := c.LookupIdentity(context.Background(), "123.456.789-09")
	require.NoError(t, err)
	assert.False(t, res.AlreadyRegistered)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

type failingHTTP struct{ calls int }

func (f *failingHTTP) Do(*http.Request) (*http.Response, error) {
	f.calls++
	return nil, errors.New("dial tcp: connection refused")
}

func TestDo_NetworkRetryOnlyForIdempotent(t *testing.T) {
	hc := &failingHTTP{}
	c := NewWithHTTPClient(config.PortalConfig{BaseURL: "http://portal.invalid", RateLimit: 6000, BurstLimit: 10, RetryAttempts: 3}, hc)
	ctx := context.Background()

	_, err := c.LookupIdentity(ctx, "123.456.789-09")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, ErrNetwork, ClassifyError(err))
	assert.Equal(t, 3, hc.calls)

	hc.calls = 0
	err = c.Register(ctx, flow.RegistrationRequest{})
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, 1, hc.calls)
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrUnknown, ClassifyError(nil))
	assert.Equal(t, ErrTimeout, ClassifyError(context.DeadlineExceeded))
	assert.Equal(t, ErrRateLimit, ClassifyError(&APIError{StatusCode: 429}))
	assert.Equal(t, ErrAuthFailed, ClassifyError(&APIError{StatusCode: 403}))
	assert.NotEmpty(t, ErrNetwork.HumanMessage())
	assert.Equal(t, "server_error", ErrServer.String())
}

func TestNew_BadTimeout(t *testing.T) {
	_, err := New(config.PortalConfig{Timeout: "soon"})
	assert.Error(t, err)
}
