package model

import (
	"time"

	"github.com/google/uuid"
)

// ConfiguracaoEmpresa is the company profile printed on every document.
// Only one row may exist: Singleton is unique and checked to be true (see infra/database.go).
type ConfiguracaoEmpresa struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Singleton        bool      `gorm:"not null;default:true;uniqueIndex"`
	NomeEmpresa      string    `gorm:"not null"`
	CNPJ             *string   `gorm:"column:cnpj;type:varchar(20)"`
	EnderecoCompleto string    `gorm:"not null;default:''"`
	ContatoEmail     *string
	ContatoTelefone  string `gorm:"not null;default:''"`
	Site             *string
	UpdatedAt        time.Time
}

func (ConfiguracaoEmpresa) TableName() string { return "configuracao_empresa" }
