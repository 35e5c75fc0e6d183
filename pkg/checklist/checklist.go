// Package checklist строит экран "Verificação de documentos".
//
// Статус каждого документа выводится из обязательного списка категории
// и набора отправленных документов. Собственного состояния нет.
package checklist

import (
	"github.com/ilkoid/produtor-chat/pkg/guide"
	"github.com/ilkoid/produtor-chat/pkg/session"
)

// Status — статус документа.
type Status string

const (
	StatusPending   Status = "pendente"
	StatusSubmitted Status = "enviado"
)

// Тексты экрана.
const (
	Title       = "Verificação de documentos"
	Description = "Para que você apareça nas oportunidades, precisamos confirmar alguns dados. É rapidinho!"
	ProceedText = "Avançar para Produção"
	ProceedHint = "Complete os envios para continuar"
)

// Item — строка чеклиста.
type Item struct {
	Name   string
	Status Status
}

// Subtitle — подпись под названием документа.
func (i Item) Subtitle() string {
	if i.Status == StatusSubmitted {
		return "Recebido com sucesso"
	}
	return "Toque para enviar"
}

// Selectable сообщает, что по документу можно открыть чат отправки.
func (i Item) Selectable() bool {
	return i.Status == StatusPending
}

// Checklist — модель экрана документов.
type Checklist struct {
	Category session.Category
	Items    []Item
}

// Build объединяет обязательные документы категории с набором отправленных.
func Build(c session.Category, submitted map[string]bool) Checklist {
	names := guide.RequiredDocuments(c)
	items := make([]Item, len(names))
	for i, name := range names {
		status := StatusPending
		if submitted[name] {
			status = StatusSubmitted
		}
		items[i] = Item{Name: name, Status: status}
	}
	return Checklist{Category: c, Items: items}
}

// CanProceed — кнопка "Avançar para Produção" активна только когда отправлено всё.
func (c Checklist) CanProceed() bool {
	if len(c.Items) == 0 {
		return false
	}
	for _, it := range c.Items {
		if it.Status != StatusSubmitted {
			return false
		}
	}
	return true
}

// Progress возвращает (отправлено, всего).
func (c Checklist) Progress() (done, total int) {
	for _, it := range c.Items {
		if it.Status == StatusSubmitted {
			done++
		}
	}
	return done, len(c.Items)
}

// Find возвращает строку по имени документа.
func (c Checklist) Find(name string) (Item, bool) {
	for _, it := range c.Items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}
