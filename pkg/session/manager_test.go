package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "a@b.com", "user_id": 7}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestManager_BeginCurrentEnd(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())

	_, err := m.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)

	in := Session{
		AccessToken: "opaque-token",
		Role:        "grupo_informal",
		UserID:      "7",
		Name:        "Maria",
		Email:       "a@b.com",
		UserType:    "produtor",
		Subtype:     CategoryInformalGroup,
	}
	require.NoError(t, m.Begin(ctx, in))

	got, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, got)
	assert.True(t, m.Active(ctx))

	require.NoError(t, m.End(ctx))
	_, err = m.Current(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_ExpiryFromToken(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(NewMemoryStore()).WithClock(func() time.Time { return now })

	require.NoError(t, m.Begin(ctx, Session{AccessToken: signedToken(t, now.Add(time.Hour))}))
	s, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour).Unix(), s.ExpiresAt.Unix())

	now = now.Add(2 * time.Hour)
	_, err = m.Current(ctx)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, m.Active(ctx))
}

func TestManager_BeginRejectsEmptyToken(t *testing.T) {
	err := NewManager(NewMemoryStore()).Begin(context.Background(), Session{Email: "a@b.com"})
	assert.Error(t, err)
}

func TestManager_SubmittedDocuments(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore())
	require.NoError(t, m.Begin(ctx, Session{AccessToken: "t", UserID: "7"}))

	set, err := m.Submitted(ctx)
	require.NoError(t, err)
	assert.Empty(t, set)

	require.NoError(t, m.MarkSubmitted(ctx, "Regularidade Federal"))
	require.NoError(t, m.MarkSubmitted(ctx, "Declaração de Aptidão"))
	require.NoError(t, m.MarkSubmitted(ctx, "Regularidade Federal"))

	set, err = m.Submitted(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"Regularidade Federal": true, "Declaração de Aptidão": true}, set)

	raw, err := m.Store().Get(ctx, KeySubmittedDocuments+":7")
	require.NoError(t, err)
	assert.JSONEq(t, `["Declaração de Aptidão","Regularidade Federal"]`, raw)

	// Выход не стирает отметки, повторный вход того же продавца их видит.
	require.NoError(t, m.End(ctx))
	require.NoError(t, m.Begin(ctx, Session{AccessToken: "t2", UserID: "7"}))
	set, err = m.Submitted(ctx)
	require.NoError(t, err)
	assert.True(t, set["Regularidade Federal"])

	// Другой продавец начинает с пустого набора.
	require.NoError(t, m.Begin(ctx, Session{AccessToken: "t3", UserID: "8"}))
	set, err = m.Submitted(ctx)
	require.NoError(t, err)
	assert.Empty(t, set)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := TokenExpiry(signedToken(t, exp))
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))

	got, err = TokenExpiry(signedToken(t, time.Time{}))
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = TokenExpiry("not-a-jwt")
	assert.Error(t, err)
}

func TestCategory(t *testing.T) {
	tests := []struct {
		in   string
		want Category
	}{
		{"fornecedor_individual", CategoryIndividualSupplier},
		{"grupo_informal", CategoryInformalGroup},
		{"grupo_formal", CategoryFormalGroup},
		{"informal_group", CategoryInformalGroup},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseCategory("cooperativa")
	assert.Error(t, err)
	assert.Equal(t, "grupo_informal", CategoryInformalGroup.WireName())
	assert.False(t, Category("x").Valid())
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, Session{}.Expired(now))
	assert.True(t, Session{ExpiresAt: now}.Expired(now))
	assert.False(t, Session{ExpiresAt: now.Add(time.Second)}.Expired(now))
}
