package guide

// Шаблоны "Projeto de Venda" по категориям. Перечисляют поля формы
// проекта продажи, которые продавец должен заполнить.

const projetoVendaIndividual = `PROJETO DE VENDA - FORNECEDOR INDIVIDUAL

Preencha o modelo de Projeto de Venda da entidade compradora com as informações abaixo.

I - IDENTIFICAÇÃO DO FORNECEDOR
• Nome completo
• CPF
• Endereço e município
• CEP
• Número da DAP ou CAF
• Telefone e e-mail
• Banco, agência e conta corrente

II - IDENTIFICAÇÃO DA ENTIDADE EXECUTORA
• Nome da entidade
• CNPJ
• Município e endereço
• Nome e CPF do representante

III - RELAÇÃO DE PRODUTOS
• Produto
• Unidade (kg, maço, dúzia)
• Quantidade
• Preço unitário
• Valor total por produto
• Cronograma de entrega

IV - TOTALIZAÇÃO
• Valor total do projeto

Ao final, date e assine o documento, digitalize e envie o arquivo.`

const projetoVendaInformal = `PROJETO DE VENDA - GRUPO INFORMAL

Preencha o modelo de Projeto de Venda da entidade compradora com as informações abaixo.

I - IDENTIFICAÇÃO DO GRUPO
• Nome do grupo
• Nome, CPF e número da DAP ou CAF de cada membro
• Endereço e município de cada membro
• Banco, agência e conta corrente de cada membro
• Nome e contato da entidade articuladora (se houver)

II - IDENTIFICAÇÃO DA ENTIDADE EXECUTORA
• Nome da entidade
• CNPJ
• Município e endereço
• Nome e CPF do representante

III - RELAÇÃO DE FORNECEDORES E PRODUTOS
• Nome do membro
• Produto
• Unidade (kg, maço, dúzia)
• Quantidade
• Preço unitário
• Valor total por membro

IV - TOTALIZAÇÃO POR PRODUTO
• Produto
• Quantidade total
• Valor total
• Cronograma de entrega

Todos os membros devem assinar o projeto. Digitalize e envie o arquivo.`

const projetoVendaFormal = `PROJETO DE VENDA - GRUPO FORMAL

Preencha o modelo de Projeto de Venda da entidade compradora com as informações abaixo.

I - IDENTIFICAÇÃO DA COOPERATIVA OU ASSOCIAÇÃO
• Razão social
• CNPJ
• Endereço, município e CEP
• Número da DAP ou CAF jurídica
• Banco, agência e conta corrente
• Número de associados e número de associados com DAP ou CAF física
• Nome, CPF e contato do representante legal

II - IDENTIFICAÇÃO DA ENTIDADE EXECUTORA
• Nome da entidade
• CNPJ
• Município e endereço
• Nome e CPF do representante

III - RELAÇÃO DE PRODUTOS
• Produto
• Unidade (kg, maço, dúzia)
• Quantidade
• Preço unitário
• Valor total por produto
• Cronograma de entrega

IV - TOTALIZAÇÃO
• Valor total do projeto

O representante legal deve assinar o projeto. Digitalize e envie o arquivo.`
