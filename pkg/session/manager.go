package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Manager — явный контекст сессии.
//
// Машина состояний входа вызывает Begin, охранники маршрутов и чеклист
// читают Current, выход из приложения вызывает End. Других способов
// писать сессию нет.
type Manager struct {
	store Store
	now   func() time.Time

	// mu сериализует read-modify-write набора отправленных документов
	mu sync.Mutex
}

// NewManager создаёт менеджер поверх хранилища.
func NewManager(store Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// WithClock подменяет часы (тесты).
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Store возвращает нижележащее хранилище.
func (m *Manager) Store() Store {
	return m.store
}

// Begin сохраняет поля сессии после успешной аутентификации.
//
// Если ExpiresAt не задан, срок берётся из claim exp токена (если он есть).
func (m *Manager) Begin(ctx context.Context, s Session) error {
	if s.AccessToken == "" {
		return fmt.Errorf("begin session: empty access token")
	}
	if s.ExpiresAt.IsZero() {
		if exp, err := TokenExpiry(s.AccessToken); err == nil {
			s.ExpiresAt = exp
		}
	}

	values := map[string]string{
		KeyAccessToken: s.AccessToken,
		KeyRole:        s.Role,
		KeyUserID:      s.UserID,
		KeyName:        s.Name,
		KeyEmail:       s.Email,
		KeyUserType:    s.UserType,
		KeySubtype:     string(s.Subtype),
	}
	if !s.ExpiresAt.IsZero() {
		values[KeyExpiresAt] = s.ExpiresAt.UTC().Format(time.RFC3339)
	}

	for _, key := range sessionKeys {
		v, ok := values[key]
		if !ok {
			if err := m.store.Delete(ctx, key); err != nil {
				return fmt.Errorf("begin session: %w", err)
			}
			continue
		}
		if err := m.store.Set(ctx, key, v); err != nil {
			return fmt.Errorf("begin session: %w", err)
		}
	}
	return nil
}

// Current читает активную сессию.
//
// Возвращает ErrNoSession если токена нет и ErrSessionExpired
// если его срок истёк.
func (m *Manager) Current(ctx context.Context) (Session, error) {
	token, err := m.store.Get(ctx, KeyAccessToken)
	if errors.Is(err, ErrKeyNotFound) || (err == nil && token == "") {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}

	s := Session{AccessToken: token}
	fields := []struct {
		key string
		dst *string
	}{
		{KeyRole, &s.Role},
		{KeyUserID, &s.UserID},
		{KeyName, &s.Name},
		{KeyEmail, &s.Email},
		{KeyUserType, &s.UserType},
	}
	for _, f := range fields {
		v, err := m.optional(ctx, f.key)
		if err != nil {
			return Session{}, err
		}
		*f.dst = v
	}

	subtype, err := m.optional(ctx, KeySubtype)
	if err != nil {
		return Session{}, err
	}
	s.Subtype = Category(subtype)

	exp, err := m.optional(ctx, KeyExpiresAt)
	if err != nil {
		return Session{}, err
	}
	if exp != "" {
		t, err := time.Parse(time.RFC3339, exp)
		if err != nil {
			return Session{}, fmt.Errorf("read session: bad %s: %w", KeyExpiresAt, err)
		}
		s.ExpiresAt = t
	}

	if s.Expired(m.now()) {
		return s, ErrSessionExpired
	}
	return s, nil
}

// Active сообщает, есть ли действующая сессия.
func (m *Manager) Active(ctx context.Context) bool {
	_, err := m.Current(ctx)
	return err == nil
}

// End удаляет поля сессии (выход).
//
// Набор отправленных документов привязан к user_id и остаётся.
func (m *Manager) End(ctx context.Context) error {
	var errs []error
	for _, key := range sessionKeys {
		if err := m.store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// MarkSubmitted добавляет документ в набор отправленных.
func (m *Manager) MarkSubmitted(ctx context.Context, documentName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, err := m.submittedKey(ctx)
	if err != nil {
		return err
	}
	set, err := m.readSubmitted(ctx, key)
	if err != nil {
		return err
	}
	if set[documentName] {
		return nil
	}
	set[documentName] = true

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	raw, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encode submitted documents: %w", err)
	}
	return m.store.Set(ctx, key, string(raw))
}

// Submitted возвращает набор отправленных документов (имя → true).
func (m *Manager) Submitted(ctx context.Context) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key, err := m.submittedKey(ctx)
	if err != nil {
		return nil, err
	}
	return m.readSubmitted(ctx, key)
}

func (m *Manager) readSubmitted(ctx context.Context, key string) (map[string]bool, error) {
	set := make(map[string]bool)

	raw, err := m.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return set, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read submitted documents: %w", err)
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("decode submitted documents: %w", err)
	}
	for _, name := range names {
		set[name] = true
	}
	return set, nil
}

// submittedKey — documentos_enviados:<user_id>, без сессии — общий ключ.
func (m *Manager) submittedKey(ctx context.Context) (string, error) {
	userID, err := m.optional(ctx, KeyUserID)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return KeySubmittedDocuments, nil
	}
	return KeySubmittedDocuments + ":" + userID, nil
}

func (m *Manager) optional(ctx context.Context, key string) (string, error) {
	v, err := m.store.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session %s: %w", key, err)
	}
	return v, nil
}
