package guide

// Пошаговые инструкции. PF — fornecedor individual, PFGroup — grupo informal,
// PJ — grupo formal (cooperativa).

const repeatForEachMember = "Repita o processo para cada membro do grupo"

var declaracaoAptidaoPF = []string{
	"Acesse o site da SEAD: https://dap.mda.gov.br/",
	"Clique em 'EXTRATO DAP'",
	"Clique em Pessoa Física",
	"Informe seu CPF e caracteres da imagem",
	"Clique em 'Pesquisar'",
	"Salve o arquivo PDF gerado no seu dispositivo",
	"Caso não possua DAP, procure o sindicato rural do seu município para se cadastrar",
}

var declaracaoAptidaoPFGroup = append(clone(declaracaoAptidaoPF), repeatForEachMember)

var declaracaoAptidaoPJ = []string{
	"Acesse o site da SEAD: https://dap.mda.gov.br/",
	"Clique em 'EXTRATO DAP'",
	"Clique em Pessoa Jurídica",
	"Informe seu CNPJ e caracteres da imagem",
	"Clique em 'Pesquisar'",
	"Salve o arquivo PDF gerado no seu dispositivo",
	"Caso não possua DAP, procure o sindicato rural do seu município para se cadastrar",
}

var regularidadeFederalPF = []string{
	"Acesse o link da Receita Federal: https://servicos.receitafederal.gov.br/servico/certidoes/#/home",
	"Clique em 'Pessoa Física'",
	"Informe seu CPF e Data de Nascimento",
	"Clique em 'Emitir Certidão'",
	"Salve o arquivo PDF gerado no seu dispositivo",
}

var regularidadeFederalPFGroup = append(clone(regularidadeFederalPF), repeatForEachMember)

var regularidadeFederalPJ = []string{
	"Acesse o link da Receita Federal: https://servicos.receitafederal.gov.br/servico/certidoes/#/home",
	"Clique em 'Pessoa Jurídica'",
	"Informe o CNPJ da sua cooperativa",
	"Clique em 'Emitir Certidão'",
	"Salve o arquivo PDF gerado no seu dispositivo",
}

const municipalSearch = "Acesse o Google e pesquise por certidão negativa de débitos municipais + nome da sua cidade. Exemplo: certidão negativa de débitos municipais São Paulo"

const municipalHelp = "Tem dúvidas? Procure a prefeitura da sua cidade para mais informações"

var regularidadeMunicipalPF = []string{
	municipalSearch,
	"Acesse o site oficial da prefeitura",
	"Preencha as informações solicitadas (geralmente apenas CPF)",
	"Baixe a certidão negativa gerada",
	municipalHelp,
}

// Шаг повтора стоит перед подсказкой про prefeitura.
var regularidadeMunicipalPFGroup = []string{
	municipalSearch,
	"Acesse o site oficial da prefeitura",
	"Preencha as informações solicitadas (geralmente apenas CPF)",
	"Baixe a certidão negativa gerada",
	repeatForEachMember,
	municipalHelp,
}

var regularidadeMunicipalPJ = []string{
	municipalSearch,
	"Acesse o site oficial da prefeitura",
	"Preencha as informações solicitadas (geralmente apenas CNPJ)",
	"Baixe a certidão negativa gerada",
	municipalHelp,
}

var regularidadeTrabalhistaPF = []string{
	"Acesse o site do Tribunal Superior do Trabalho: https://cndt-certidao.tst.jus.br/inicio.faces",
	"Clique em 'Emitir Certidão'",
	"Informe o CPF e os caracteres da imagem",
	"Clique em 'Emitir Certidão'",
	"Salve o arquivo PDF gerado no seu dispositivo",
}

var regularidadeTrabalhistaPFGroup = append(clone(regularidadeTrabalhistaPF), repeatForEachMember)

var regularidadeTrabalhistaPJ = []string{
	"Acesse o site do Tribunal Superior do Trabalho: https://cndt-certidao.tst.jus.br/inicio.faces",
	"Clique em 'Emitir Certidão'",
	"Informe o CNPJ e os caracteres da imagem",
	"Clique em 'Emitir Certidão'",
	"Salve o arquivo PDF gerado no seu dispositivo",
}

var estatutoAta = []string{
	"Reúna cópias do estatuto e ata de posse da atual diretoria da sua entidade, que deve estar registrada no órgão",
}

var fgts = []string{
	"Acesse o site da Caixa Econômica Federal: https://consulta-crf.caixa.gov.br/consultacrf/pages/consultaEmpregador.jsf",
	"Informe o CNPJ da sua cooperativa e o Estado (UF) na qual ela está registrada",
	"Clique em 'Consultar'",
	"Clique em 'Obtenha o Certificado de Regularidade do FGTS - CRF'",
	"Clique em 'Visualizar'",
	"Clique em Imprimir",
	"Salve o arquivo PDF gerado no seu dispositivo",
}

func clone(s []string) []string {
	return append(make([]string, 0, len(s)+1), s...)
}
