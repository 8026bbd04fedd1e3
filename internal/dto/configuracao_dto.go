package dto

type ConfiguracaoEmpresaRequest struct {
	NomeEmpresa      string  `json:"nome_empresa"      validate:"required,min=2,max=200"`
	CNPJ             *string `json:"cnpj"              validate:"omitempty,max=20"`
	EnderecoCompleto string  `json:"endereco_completo" validate:"max=500"`
	ContatoEmail     *string `json:"contato_email"     validate:"omitempty,email"`
	ContatoTelefone  string  `json:"contato_telefone"  validate:"max=50"`
	Site             *string `json:"site"              validate:"omitempty,url"`
}

type ConfiguracaoEmpresaResponse struct {
	NomeEmpresa      string  `json:"nome_empresa"`
	CNPJ             *string `json:"cnpj"`
	EnderecoCompleto string  `json:"endereco_completo"`
	ContatoEmail     *string `json:"contato_email"`
	ContatoTelefone  string  `json:"contato_telefone"`
	Site             *string `json:"site"`
	// Configurada is false while the fallback profile (EMPRESA_NOME) is in use
	Configurada bool `json:"configurada"`
}
