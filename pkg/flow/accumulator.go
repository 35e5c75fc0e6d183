package flow

import (
	"github.com/ilkoid/produtor-chat/pkg/geo"
	"github.com/ilkoid/produtor-chat/pkg/session"
)

// Accumulator — поля, собранные за время одного входа/регистрации.
//
// Каждое поле пишет только обработчик своего шага. Сбрасывается после
// успешной аутентификации.
type Accumulator struct {
	IdentityDocument string // identity_document, формат XXX.XXX.XXX-XX
	Email            string // identity_document (из реестра) или register_email
	FullName         string // register_name
	Password         string // register_password
	Category         session.Category
	Location         *geo.Coordinates // register_category, best-effort
}

func (a Accumulator) registration() RegistrationRequest {
	return RegistrationRequest{
		Category:         a.Category,
		FullName:         a.FullName,
		Email:            a.Email,
		Password:         a.Password,
		IdentityDocument: a.IdentityDocument,
		Location:         a.Location,
	}
}

func (a Accumulator) clone() Accumulator {
	if a.Location != nil {
		loc := *a.Location
		a.Location = &loc
	}
	return a
}
