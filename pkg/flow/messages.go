package flow

import (
	"fmt"
	"strings"

	"github.com/ilkoid/produtor-chat/pkg/chat"
)

// Реплики ассистента входа.
const (
	MsgGreeting       = "Olá! Sou o assistente do Portal do Produtor. Vou te ajudar a entrar ou criar sua conta."
	MsgAskIdentity    = "Para começar, digite o seu CPF (somente números)."
	MsgInvalidCPF     = "CPF inválido. O CPF precisa ter 11 números. Tente novamente."
	MsgAskPassword    = "Encontramos o seu cadastro! Digite a sua senha para entrar."
	MsgAskEmail       = "Você ainda não tem cadastro. Vamos criar a sua conta! Qual é o seu e-mail?"
	MsgAskName        = "Qual é o seu nome completo?"
	MsgAskNewPassword = "Crie uma senha para acessar o portal."
	MsgInvalidOption  = "Opção inválida. Digite 1, 2 ou 3."
	MsgWrongPassword  = "Senha incorreta. Tente novamente."
	MsgGenericError   = "Ocorreu um erro. Tente novamente em alguns instantes."
	MsgRegistered     = "Cadastro realizado com sucesso! Estamos entrando na sua conta..."
)

// MsgAskCategory — меню категорий, ответ цифрой.
var MsgAskCategory = strings.Join([]string{
	"Como você vai vender os seus produtos?",
	"",
	"1 - Fornecedor individual",
	"2 - Grupo informal",
	"3 - Grupo formal (cooperativa ou associação)",
	"",
	"Digite o número da opção.",
}, "\n")

// Реплики чата документа.
const (
	MsgDocumentQuestion = "Você conseguiu emitir o documento?"
	MsgAskFile          = "Ótimo! Por favor, envie o arquivo do documento."
	MsgSeekCityHall     = "Procure a prefeitura da sua cidade para obter ajuda."
	MsgDocumentReceived = "Documento recebido com sucesso! Aguarde a análise."
	MsgUploadFailed     = "Não conseguimos enviar o arquivo. Tente novamente."
	MsgEmptyFile        = "O arquivo está vazio. Escolha outro arquivo."
)

// Реплики добавления safra.
const (
	MsgAskProduct          = "Vamos adicionar uma safra. Qual é o produto? (ex.: Tomate cereja orgânico)"
	MsgAskUnit             = "Em qual unidade você mede a produção? (ex.: kg, caixa, maço)"
	MsgAskQuantity         = "Qual é a quantidade disponível?"
	MsgInvalidQuantity     = "Quantidade inválida. Digite um número maior que zero, por exemplo 120 ou 12,5."
	MsgInvalidHarvest      = "Safra deve ser um ano válido, por exemplo 2026."
	MsgProductionAdded     = "Safra adicionada com sucesso!"
	MsgProductionFailed    = "Erro ao adicionar safra. Tente novamente."
	HarvestCurrentYearWord = "ok"
)

// Варианты ответа на вопрос о документе.
const (
	OptionYes = "sim"
	OptionNo  = "nao"
)

// DocumentOptions — кнопки SIM / NÃO.
func DocumentOptions() []chat.Option {
	return []chat.Option{
		{Label: "SIM", Value: OptionYes},
		{Label: "NÃO", Value: OptionNo},
	}
}

// BackCommand — команда чата для шага назад в регистрации.
const BackCommand = "/voltar"

func msgWelcome(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return "Bem-vindo(a)! Vamos verificar os seus documentos."
	}
	return fmt.Sprintf("Bem-vindo(a), %s! Vamos verificar os seus documentos.", name)
}

func msgFileTooLarge(limit int64) string {
	if limit < 1<<20 {
		return fmt.Sprintf("O arquivo é muito grande. O tamanho máximo é %d KB.", limit>>10)
	}
	return fmt.Sprintf("O arquivo é muito grande. O tamanho máximo é %d MB.", limit>>20)
}

func msgAskHarvest(year int) string {
	return fmt.Sprintf("De qual safra (ano)? Digite o ano ou %q para %d.", HarvestCurrentYearWord, year)
}

func mask(input string) string {
	return strings.Repeat("•", len([]rune(input)))
}
