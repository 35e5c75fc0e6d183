package session

import "time"

// Ключи хранилища. Совпадают с ключами localStorage исходного портала.
const (
	KeyAccessToken = "access_token"
	KeyRole        = "role"
	KeyUserID      = "user_id"
	KeyName        = "name"
	KeyEmail       = "email"
	KeyUserType    = "tipo_usuario"
	KeySubtype     = "subtipo_usuario"
	KeyExpiresAt   = "expires_at"

	// KeySubmittedDocuments — префикс ключа набора отправленных документов.
	// Полный ключ: documentos_enviados:<user_id>.
	KeySubmittedDocuments = "documentos_enviados"
)

// sessionKeys — ключи, которые удаляются при выходе.
var sessionKeys = []string{
	KeyAccessToken, KeyRole, KeyUserID, KeyName,
	KeyEmail, KeyUserType, KeySubtype, KeyExpiresAt,
}

// Session — данные продавца после успешной аутентификации.
type Session struct {
	AccessToken string
	Role        string
	UserID      string
	Name        string
	Email       string
	UserType    string
	Subtype     Category
	ExpiresAt   time.Time // Нулевое значение — срок неизвестен
}

// Expired сообщает, что срок токена истёк к моменту now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
