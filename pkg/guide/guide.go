// Package guide отвечает на вопрос "как получить документ".
//
// Resolve — чистая функция над статическими таблицами: для имени документа
// и категории продавца возвращает пошаговую инструкцию или, для
// "Projeto de Venda", структурированный текст шаблона.
package guide

import (
	"fmt"
	"strings"

	"github.com/ilkoid/produtor-chat/pkg/session"
)

// Guide — инструкция по документу.
//
// Заполнено либо Steps, либо Text. Пустой Guide означает, что
// инструкции нет (неизвестный документ или Controle de Limites).
type Guide struct {
	Steps []string
	Text  string
}

// Empty сообщает, что инструкции нет.
func (g Guide) Empty() bool {
	return len(g.Steps) == 0 && g.Text == ""
}

// Render возвращает текст для сообщения ассистента.
//
// Шаги нумеруются как "**1.** шаг" и разделяются пустой строкой.
func (g Guide) Render() string {
	if g.Text != "" {
		return g.Text
	}
	parts := make([]string, len(g.Steps))
	for i, step := range g.Steps {
		parts[i] = fmt.Sprintf("**%d.** %s", i+1, step)
	}
	return strings.Join(parts, "\n\n")
}

// byCategory — три варианта инструкции.
type byCategory struct {
	individual, informal, formal []string
}

func (b byCategory) pick(c session.Category) []string {
	switch c {
	case session.CategoryInformalGroup:
		return b.informal
	case session.CategoryFormalGroup:
		return b.formal
	default:
		return b.individual
	}
}

var stepTables = map[string]byCategory{
	DocDeclaracaoAptidao:       {declaracaoAptidaoPF, declaracaoAptidaoPFGroup, declaracaoAptidaoPJ},
	DocRegularidadeFederal:     {regularidadeFederalPF, regularidadeFederalPFGroup, regularidadeFederalPJ},
	DocRegularidadeMunicipal:   {regularidadeMunicipalPF, regularidadeMunicipalPFGroup, regularidadeMunicipalPJ},
	DocRegularidadeTrabalhista: {regularidadeTrabalhistaPF, regularidadeTrabalhistaPFGroup, regularidadeTrabalhistaPJ},
	DocFGTS:                    {fgts, fgts, fgts},
	DocEstatutoAta:             {estatutoAta, estatutoAta, estatutoAta},
	DocControleLimites:         {},
}

// Resolve возвращает инструкцию для документа и категории.
//
// Категория, не распознанная как группа, считается fornecedor individual.
// Возвращаемый срез — копия, таблицы изменить нельзя.
func Resolve(documentName string, c session.Category) Guide {
	if documentName == DocProjetoVenda {
		return Guide{Text: projetoVenda(c)}
	}

	table, ok := stepTables[documentName]
	if !ok {
		return Guide{}
	}
	steps := table.pick(c)
	if len(steps) == 0 {
		return Guide{}
	}
	return Guide{Steps: append([]string(nil), steps...)}
}

func projetoVenda(c session.Category) string {
	switch c {
	case session.CategoryInformalGroup:
		return projetoVendaInformal
	case session.CategoryFormalGroup:
		return projetoVendaFormal
	default:
		return projetoVendaIndividual
	}
}

// Known сообщает, что документ есть в таблицах.
func Known(documentName string) bool {
	if documentName == DocProjetoVenda {
		return true
	}
	_, ok := stepTables[documentName]
	return ok
}
