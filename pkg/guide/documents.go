package guide

import "github.com/ilkoid/produtor-chat/pkg/session"

// Имена документов чеклиста.
const (
	DocDeclaracaoAptidao       = "Declaração de Aptidão"
	DocRegularidadeFederal     = "Regularidade Federal"
	DocRegularidadeMunicipal   = "Regularidade Municipal"
	DocRegularidadeTrabalhista = "Regularidade Trabalhista"
	DocFGTS                    = "FGTS"
	DocEstatutoAta             = "Estatuto/Ata"
	DocControleLimites         = "Controle de Limites"
	DocProjetoVenda            = "Projeto de Venda"
)

var individualDocs = []string{
	DocDeclaracaoAptidao,
	DocRegularidadeFederal,
	DocRegularidadeMunicipal,
	DocRegularidadeTrabalhista,
	DocProjetoVenda,
}

var informalGroupDocs = []string{
	DocDeclaracaoAptidao,
	DocRegularidadeFederal,
	DocRegularidadeMunicipal,
	DocRegularidadeTrabalhista,
	DocProjetoVenda,
}

var formalGroupDocs = []string{
	DocDeclaracaoAptidao,
	DocRegularidadeFederal,
	DocRegularidadeMunicipal,
	DocRegularidadeTrabalhista,
	DocFGTS,
	DocEstatutoAta,
	DocControleLimites,
	DocProjetoVenda,
}

// RequiredDocuments возвращает обязательные документы категории в порядке чеклиста.
//
// Неизвестная категория получает список fornecedor individual.
func RequiredDocuments(c session.Category) []string {
	var src []string
	switch c {
	case session.CategoryInformalGroup:
		src = informalGroupDocs
	case session.CategoryFormalGroup:
		src = formalGroupDocs
	default:
		src = individualDocs
	}
	return append([]string(nil), src...)
}
