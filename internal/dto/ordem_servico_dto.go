package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CriarOrdemServicoRequest opens a standalone order (no origin quote).
type CriarOrdemServicoRequest struct {
	ClienteID         string          `json:"cliente_id"         validate:"required,uuid"`
	TecnicoID         string          `json:"tecnico_id"         validate:"required,uuid"`
	DescricaoProblema string          `json:"descricao_problema" validate:"required,min=3"`
	ValorBruto        decimal.Decimal `json:"valor_bruto"`
	Desconto          decimal.Decimal `json:"desconto"`
}

type AtualizarOrdemServicoRequest struct {
	TecnicoID         *string          `json:"tecnico_id"         validate:"omitempty,uuid"`
	DescricaoProblema *string          `json:"descricao_problema" validate:"omitempty,min=3"`
	LaudoTecnico      *string          `json:"laudo_tecnico"`
	ValorBruto        *decimal.Decimal `json:"valor_bruto"`
	Desconto          *decimal.Decimal `json:"desconto"`
}

type AlterarStatusOSRequest struct {
	Status string `json:"status" validate:"required,oneof=pendente em_andamento aguardando_peca finalizado cancelado"`
}

type OrdemServicoFilter struct {
	Status    string `form:"status"     validate:"omitempty,oneof=pendente em_andamento aguardando_peca finalizado cancelado"`
	Cliente   string `form:"cliente"`
	TecnicoID string `form:"tecnico_id" validate:"omitempty,uuid"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrdemServicoResponse struct {
	ID                string          `json:"id"`
	Numero            int64           `json:"numero"`
	OrcamentoOrigemID *string         `json:"orcamento_origem_id"`
	Cliente           ClienteResumo   `json:"cliente"`
	TecnicoID         string          `json:"tecnico_id"`
	TecnicoNome       string          `json:"tecnico_nome"`
	Status            string          `json:"status"`
	ValorBruto        decimal.Decimal `json:"valor_bruto"`
	Desconto          decimal.Decimal `json:"desconto"`
	ValorTotal        decimal.Decimal `json:"valor_total"`
	DescricaoProblema string          `json:"descricao_problema"`
	LaudoTecnico      string          `json:"laudo_tecnico"`
	Sincronizado      bool            `json:"sincronizado"`
	DataAbertura      string          `json:"data_abertura"`
	DataFinalizacao   *string         `json:"data_finalizacao"`
	// Itens come from the origin quote; empty for standalone orders
	Itens []ItemOrcamentoResponse `json:"itens"`
}

type OrdemServicoListResponse struct {
	Data       []OrdemServicoResponse `json:"data"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
}
