package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status do orçamento.
const (
	OrcamentoRascunho   = "rascunho"
	OrcamentoEnviado    = "enviado"
	OrcamentoAprovado   = "aprovado"
	OrcamentoRejeitado  = "rejeitado"
	OrcamentoConvertido = "convertido"
)

// Orcamento is a commercial proposal. ValorBruto is always the sum of the item
// subtotals and ValorTotal = ValorBruto - Desconto; both are written by the service
// layer before every save.
type Orcamento struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero      int64           `gorm:"autoIncrement;uniqueIndex;not null"`
	ClienteID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Validade    time.Time       `gorm:"type:date;not null"`
	Status      string          `gorm:"type:varchar(20);not null;default:'rascunho';index"`
	ValorBruto  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Desconto    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ValorTotal  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Observacoes string          `gorm:"type:text;not null;default:''"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Cliente *Cliente        `gorm:"foreignKey:ClienteID"`
	Itens   []ItemOrcamento `gorm:"foreignKey:OrcamentoID;constraint:OnDelete:CASCADE"`
}

// ItemOrcamento is one quantity × unit-price line of a quote.
// PrecoUnitario is frozen at creation so later catalog price changes do not move old quotes.
type ItemOrcamento struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrcamentoID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantidade    int             `gorm:"not null;default:1"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (ItemOrcamento) TableName() string { return "itens_orcamento" }
