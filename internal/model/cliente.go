package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PessoaFisica   = "PF"
	PessoaJuridica = "PJ"
)

// Cliente is a customer, either a person (PF) or a company (PJ).
type Cliente struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo         string    `gorm:"type:varchar(2);not null;default:'PF'"`
	Nome         string    `gorm:"index;not null"`
	NomeFantasia *string
	CPFCNPJ      string `gorm:"column:cpf_cnpj;type:varchar(20);uniqueIndex;not null"`
	RGIE         *string `gorm:"column:rg_ie;type:varchar(20)"`
	Telefone     string  `gorm:"type:varchar(20);not null"`
	Email        *string
	// TecnicoResponsavelID must point to a user with the tecnico role when set
	TecnicoResponsavelID *uuid.UUID `gorm:"type:uuid;index"`
	Observacoes          string     `gorm:"type:text;not null;default:''"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	TecnicoResponsavel  *Usuario            `gorm:"foreignKey:TecnicoResponsavelID"`
	Enderecos           []Endereco          `gorm:"foreignKey:ClienteID;constraint:OnDelete:CASCADE"`
	ContatosSecundarios []ContatoSecundario `gorm:"foreignKey:ClienteID;constraint:OnDelete:CASCADE"`
}

// Endereco is one of possibly many addresses of a client (casa, escritório, loja…).
type Endereco struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Descricao   string    `gorm:"type:varchar(50);not null;default:'Principal'"`
	Logradouro  string    `gorm:"not null"`
	Numero      string    `gorm:"type:varchar(20);not null"`
	Complemento *string
	Bairro      string `gorm:"not null"`
	Cidade      string `gorm:"not null"`
	Estado      string `gorm:"type:varchar(2);not null;default:'BA'"`
	CEP         string `gorm:"column:cep;type:varchar(10);not null"`
	Referencia  *string
}

// ContatoSecundario stores a relative or staff member who can be reached for the client.
type ContatoSecundario struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Nome            string    `gorm:"not null"`
	CargoParentesco string    `gorm:"type:varchar(50);not null"`
	Telefone        string    `gorm:"type:varchar(20);not null"`
}

func (ContatoSecundario) TableName() string { return "contatos_secundarios" }
