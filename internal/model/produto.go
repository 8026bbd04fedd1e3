package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TipoProduto = "produto" // physical product, carries warranty and stock
	TipoServico = "servico" // labour
)

// Produto is one catalog entry: a physical product or a service.
// Prices here are the current list prices; quote lines copy PrecoVenda at creation.
type Produto struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo                 string          `gorm:"type:varchar(10);not null;default:'produto'"`
	CategoriaID          *uuid.UUID      `gorm:"type:uuid;index"`
	Nome                 string          `gorm:"index;not null"`
	PrecoCusto           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	PrecoVenda           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Quantidade           int             `gorm:"not null;default:0"`
	EstoqueMinimo        int             `gorm:"not null;default:5"`
	CodigoBarras         *string         `gorm:"uniqueIndex"`
	ReferenciaFabricante *string
	LocalFisico          *string
	// GarantiaMeses only applies to TipoProduto
	GarantiaMeses     int        `gorm:"not null;default:3"`
	ControlarNumSerie bool       `gorm:"not null;default:false"`
	Validade          *time.Time `gorm:"type:date"`
	Ativo             bool       `gorm:"not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

// EhServico reports whether the entry is labour rather than a physical item.
func (p *Produto) EhServico() bool { return p.Tipo == TipoServico }

// EstoqueBaixo is meaningless for services and always false for them.
func (p *Produto) EstoqueBaixo() bool {
	return !p.EhServico() && p.Quantidade <= p.EstoqueMinimo
}

// AlertaPromocao flags physical products that have sat in the catalog for two years or more.
func (p *Produto) AlertaPromocao(agora time.Time) bool {
	if p.EhServico() || p.CreatedAt.IsZero() {
		return false
	}
	return !p.CreatedAt.AddDate(2, 0, 0).After(agora)
}
