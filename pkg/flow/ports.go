package flow

import (
	"context"

	"github.com/ilkoid/produtor-chat/pkg/geo"
	"github.com/ilkoid/produtor-chat/pkg/session"
)

// IdentityLookup — результат поиска CPF в реестре продавцов.
type IdentityLookup struct {
	AlreadyRegistered bool
	// AccountIdentifier — e-mail аккаунта, используется как логин.
	AccountIdentifier string
}

// RegistrationRequest — данные, собранные за шаги регистрации.
type RegistrationRequest struct {
	Category         session.Category
	FullName         string
	Email            string
	Password         string
	IdentityDocument string           // XXX.XXX.XXX-XX
	Location         *geo.Coordinates // nil если геолокация недоступна
}

// IdentityService — аутентификация и реестр продавцов.
//
// Ошибки: ErrInvalidCredentials (Authenticate), *ValidationError (Register),
// всё остальное трактуется как ErrTransport.
type IdentityService interface {
	LookupIdentity(ctx context.Context, formattedID string) (IdentityLookup, error)
	Authenticate(ctx context.Context, identifier, secret string) (session.Session, error)
	Register(ctx context.Context, req RegistrationRequest) error
}

// DocumentFile — файл, выбранный в чате документа.
type DocumentFile struct {
	DocumentName string // "Regularidade Federal"
	FileName     string // Имя файла без пути
	ContentType  string
	Data         []byte

	// Заполняются из сессии перед отправкой.
	UserID      string
	AccessToken string
}

// DocumentSubmitter отправляет файл документа.
type DocumentSubmitter interface {
	SubmitDocument(ctx context.Context, file DocumentFile) error
}

// ProductionLot — safra продавца: продукт, объём и год.
type ProductionLot struct {
	ID        int
	Product   string
	Unit      string
	Quantity  float64
	Harvest   string   // год, "2026"
	BasePrice *float64 // nil — цена не указана
	Active    bool
}

// ProductionEntry — новая safra, собранная в чате.
type ProductionEntry struct {
	Product  string
	Unit     string
	Quantity float64
	Harvest  string

	// Заполняются из сессии перед отправкой.
	ProducerID  string
	AccessToken string
}

// ProductionService — учёт производства продавца.
//
// Отказ с полем detail возвращается как *ValidationError.
type ProductionService interface {
	ListProduction(ctx context.Context, accessToken, producerID string) ([]ProductionLot, error)
	AddProduction(ctx context.Context, entry ProductionEntry) (ProductionLot, error)
}
