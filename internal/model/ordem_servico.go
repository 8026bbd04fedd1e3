package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status da ordem de serviço.
const (
	OSPendente       = "pendente"
	OSEmAndamento    = "em_andamento"
	OSAguardandoPeca = "aguardando_peca"
	OSFinalizada     = "finalizado"
	OSCancelada      = "cancelado"
)

// OrdemServico is a work order, either generated from an approved quote or opened
// directly. At most one order may point at a given quote (unique partial index
// idx_os_orcamento_origem).
type OrdemServico struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero            int64      `gorm:"autoIncrement;uniqueIndex;not null"`
	OrcamentoOrigemID *uuid.UUID `gorm:"type:uuid"`
	ClienteID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	TecnicoID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status            string     `gorm:"type:varchar(20);not null;default:'pendente';index"`
	// Financeiro: same arithmetic contract as Orcamento
	ValorBruto        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Desconto          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	ValorTotal        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	DescricaoProblema string          `gorm:"type:text;not null"`
	LaudoTecnico      string          `gorm:"type:text;not null;default:''"`
	// Sincronizado is bookkeeping for the mobile app; the backend never flips it
	Sincronizado    bool      `gorm:"not null;default:true"`
	DataAbertura    time.Time `gorm:"autoCreateTime"`
	DataFinalizacao *time.Time
	UpdatedAt       time.Time

	OrcamentoOrigem *Orcamento `gorm:"foreignKey:OrcamentoOrigemID;constraint:OnDelete:SET NULL"`
	Cliente         *Cliente   `gorm:"foreignKey:ClienteID"`
	Tecnico         *Usuario   `gorm:"foreignKey:TecnicoID"`
}

func (OrdemServico) TableName() string { return "ordens_servico" }

// Terminal reports whether the order can no longer be edited.
func (o *OrdemServico) Terminal() bool {
	return o.Status == OSFinalizada || o.Status == OSCancelada
}
