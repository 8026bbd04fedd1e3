package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type EnderecoRequest struct {
	Descricao   string  `json:"descricao"   validate:"omitempty,max=50"`
	Logradouro  string  `json:"logradouro"  validate:"required,max=255"`
	Numero      string  `json:"numero"      validate:"required,max=20"`
	Complemento *string `json:"complemento" validate:"omitempty,max=100"`
	Bairro      string  `json:"bairro"      validate:"required,max=100"`
	Cidade      string  `json:"cidade"      validate:"required,max=100"`
	Estado      string  `json:"estado"      validate:"omitempty,len=2"`
	CEP         string  `json:"cep"         validate:"required,max=10"`
	Referencia  *string `json:"referencia"  validate:"omitempty,max=255"`
}

type ContatoRequest struct {
	Nome            string `json:"nome"             validate:"required,max=100"`
	CargoParentesco string `json:"cargo_parentesco" validate:"required,max=50"`
	Telefone        string `json:"telefone"         validate:"required,max=20"`
}

type CriarClienteRequest struct {
	Tipo                 string            `json:"tipo"                   validate:"required,oneof=PF PJ"`
	Nome                 string            `json:"nome"                   validate:"required,min=2,max=200"`
	NomeFantasia         *string           `json:"nome_fantasia"          validate:"omitempty,max=200"`
	CPFCNPJ              string            `json:"cpf_cnpj"               validate:"required,min=11,max=20"`
	RGIE                 *string           `json:"rg_ie"                  validate:"omitempty,max=20"`
	Telefone             string            `json:"telefone"               validate:"required,max=20"`
	Email                *string           `json:"email"                  validate:"omitempty,email"`
	TecnicoResponsavelID *string           `json:"tecnico_responsavel_id" validate:"omitempty,uuid"`
	Observacoes          string            `json:"observacoes"`
	Enderecos            []EnderecoRequest `json:"enderecos"              validate:"omitempty,dive"`
	Contatos             []ContatoRequest  `json:"contatos"               validate:"omitempty,dive"`
}

// AtualizarClienteRequest: nil fields are left untouched; a non-nil Enderecos or
// Contatos slice replaces the whole collection.
type AtualizarClienteRequest struct {
	Nome                 *string            `json:"nome"                   validate:"omitempty,min=2,max=200"`
	NomeFantasia         *string            `json:"nome_fantasia"          validate:"omitempty,max=200"`
	RGIE                 *string            `json:"rg_ie"                  validate:"omitempty,max=20"`
	Telefone             *string            `json:"telefone"               validate:"omitempty,max=20"`
	Email                *string            `json:"email"                  validate:"omitempty,email"`
	TecnicoResponsavelID *string            `json:"tecnico_responsavel_id" validate:"omitempty,uuid"`
	Observacoes          *string            `json:"observacoes"`
	Enderecos            *[]EnderecoRequest `json:"enderecos"              validate:"omitempty,dive"`
	Contatos             *[]ContatoRequest  `json:"contatos"               validate:"omitempty,dive"`
}

type ClienteFilter struct {
	Busca string `form:"busca"` // nome, nome fantasia ou documento
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EnderecoResponse struct {
	ID          string  `json:"id"`
	Descricao   string  `json:"descricao"`
	Logradouro  string  `json:"logradouro"`
	Numero      string  `json:"numero"`
	Complemento *string `json:"complemento"`
	Bairro      string  `json:"bairro"`
	Cidade      string  `json:"cidade"`
	Estado      string  `json:"estado"`
	CEP         string  `json:"cep"`
	Referencia  *string `json:"referencia"`
}

type ContatoResponse struct {
	ID              string `json:"id"`
	Nome            string `json:"nome"`
	CargoParentesco string `json:"cargo_parentesco"`
	Telefone        string `json:"telefone"`
}

type ClienteResponse struct {
	ID                   string             `json:"id"`
	Tipo                 string             `json:"tipo"`
	Nome                 string             `json:"nome"`
	NomeFantasia         *string            `json:"nome_fantasia"`
	CPFCNPJ              string             `json:"cpf_cnpj"`
	RGIE                 *string            `json:"rg_ie"`
	Telefone             string             `json:"telefone"`
	Email                *string            `json:"email"`
	TecnicoResponsavelID *string            `json:"tecnico_responsavel_id"`
	Observacoes          string             `json:"observacoes"`
	Enderecos            []EnderecoResponse `json:"enderecos"`
	Contatos             []ContatoResponse  `json:"contatos"`
	CreatedAt            string             `json:"created_at"`
}

// ClienteResumo is the client snapshot embedded in quotes and service orders.
type ClienteResumo struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
	CPFCNPJ  string `json:"cpf_cnpj"`
}

type ClienteListResponse struct {
	Data       []ClienteResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
