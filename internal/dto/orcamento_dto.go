package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemOrcamentoRequest adds a line. PrecoUnitario is optional: when nil the
// product's current sale price is captured.
type ItemOrcamentoRequest struct {
	ProdutoID     string           `json:"produto_id"     validate:"required,uuid"`
	Quantidade    int              `json:"quantidade"     validate:"required,min=1"`
	PrecoUnitario *decimal.Decimal `json:"preco_unitario"`
}

type AtualizarItemRequest struct {
	Quantidade    *int             `json:"quantidade"     validate:"omitempty,min=1"`
	PrecoUnitario *decimal.Decimal `json:"preco_unitario"`
}

type CriarOrcamentoRequest struct {
	ClienteID   string                 `json:"cliente_id"  validate:"required,uuid"`
	Validade    string                 `json:"validade"    validate:"required,datetime=2006-01-02"`
	Desconto    decimal.Decimal        `json:"desconto"`
	Observacoes string                 `json:"observacoes"`
	Itens       []ItemOrcamentoRequest `json:"itens"       validate:"omitempty,dive"`
}

type AtualizarOrcamentoRequest struct {
	Validade    *string          `json:"validade"    validate:"omitempty,datetime=2006-01-02"`
	Desconto    *decimal.Decimal `json:"desconto"`
	Observacoes *string          `json:"observacoes"`
}

type OrcamentoFilter struct {
	Status  string `form:"status"  validate:"omitempty,oneof=rascunho enviado aprovado rejeitado convertido"`
	Cliente string `form:"cliente"` // parte do nome do cliente
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// LoteOrcamentosRequest selects quotes for a batch action (aprovar / gerar OS).
type LoteOrcamentosRequest struct {
	OrcamentoIDs []string `json:"orcamento_ids" validate:"required,min=1,dive,uuid"`
}

type GerarOrdensServicoRequest struct {
	OrcamentoIDs []string `json:"orcamento_ids" validate:"required,min=1,dive,uuid"`
	// TecnicoID defaults to the authenticated user when omitted
	TecnicoID *string `json:"tecnico_id" validate:"omitempty,uuid"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemOrcamentoResponse struct {
	ID            string          `json:"id"`
	Produto       ProdutoResumo   `json:"produto"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type OrcamentoResponse struct {
	ID          string                  `json:"id"`
	Numero      int64                   `json:"numero"`
	Cliente     ClienteResumo           `json:"cliente"`
	Validade    string                  `json:"validade"`
	Status      string                  `json:"status"`
	ValorBruto  decimal.Decimal         `json:"valor_bruto"`
	Desconto    decimal.Decimal         `json:"desconto"`
	ValorTotal  decimal.Decimal         `json:"valor_total"`
	Observacoes string                  `json:"observacoes"`
	Itens       []ItemOrcamentoResponse `json:"itens"`
	CreatedAt   string                  `json:"created_at"`
}

type OrcamentoListResponse struct {
	Data       []OrcamentoResponse `json:"data"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

// ResultadoLote is the per-quote outcome of a batch action. Batches never abort:
// every requested id gets exactly one entry, in request order.
type ResultadoLote struct {
	OrcamentoID     string  `json:"orcamento_id"`
	Resultado       string  `json:"resultado"`
	Nivel           string  `json:"nivel"` // info | warning | error
	Mensagem        string  `json:"mensagem"`
	StatusOrcamento string  `json:"status_orcamento,omitempty"`
	OrdemServicoID  *string `json:"ordem_servico_id,omitempty"`
}

type ResultadoLoteResponse struct {
	Resultados  []ResultadoLote `json:"resultados"`
	Processados int             `json:"processados"`
	Sucesso     int             `json:"sucesso"`
}
