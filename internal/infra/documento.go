package infra

import "time"

// DadosEmpresa is the company header printed on every document.
type DadosEmpresa struct {
	Nome     string
	CNPJ     string
	Endereco string
	Email    string
	Telefone string
	Site     string
}

// LinhaGarantia is one warranted product on a warranty term.
type LinhaGarantia struct {
	Produto       string
	Quantidade    int
	GarantiaMeses int
	ValidaAte     time.Time
}
