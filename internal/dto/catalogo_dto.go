package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Categorias ────────────────────────────────────────────────────────────────

type CriarCategoriaRequest struct {
	Nome string `json:"nome" validate:"required,min=2,max=100"`
}

type AtualizarCategoriaRequest struct {
	Nome  *string `json:"nome"  validate:"omitempty,min=2,max=100"`
	Ativo *bool   `json:"ativo"`
}

type CategoriaResponse struct {
	ID    uuid.UUID `json:"id"`
	Nome  string    `json:"nome"`
	Ativo bool      `json:"ativo"`
}

// ── Produtos e serviços ───────────────────────────────────────────────────────

type CriarProdutoRequest struct {
	Tipo                 string          `json:"tipo"                  validate:"required,oneof=produto servico"`
	CategoriaID          *string         `json:"categoria_id"          validate:"omitempty,uuid"`
	Nome                 string          `json:"nome"                  validate:"required,min=2,max=200"`
	PrecoCusto           decimal.Decimal `json:"preco_custo"           validate:"min=0"`
	PrecoVenda           decimal.Decimal `json:"preco_venda"           validate:"min=0"`
	Quantidade           int             `json:"quantidade"            validate:"min=0"`
	EstoqueMinimo        *int            `json:"estoque_minimo"        validate:"omitempty,min=0"`
	CodigoBarras         *string         `json:"codigo_barras"         validate:"omitempty,max=50"`
	ReferenciaFabricante *string         `json:"referencia_fabricante" validate:"omitempty,max=50"`
	LocalFisico          *string         `json:"local_fisico"          validate:"omitempty,max=50"`
	GarantiaMeses        *int            `json:"garantia_meses"        validate:"omitempty,min=0"`
	ControlarNumSerie    bool            `json:"controlar_num_serie"`
	Validade             *string         `json:"validade"              validate:"omitempty,datetime=2006-01-02"`
}

type AtualizarProdutoRequest struct {
	CategoriaID          *string          `json:"categoria_id"          validate:"omitempty,uuid"`
	Nome                 *string          `json:"nome"                  validate:"omitempty,min=2,max=200"`
	PrecoCusto           *decimal.Decimal `json:"preco_custo"`
	PrecoVenda           *decimal.Decimal `json:"preco_venda"`
	Quantidade           *int             `json:"quantidade"            validate:"omitempty,min=0"`
	EstoqueMinimo        *int             `json:"estoque_minimo"        validate:"omitempty,min=0"`
	CodigoBarras         *string          `json:"codigo_barras"         validate:"omitempty,max=50"`
	ReferenciaFabricante *string          `json:"referencia_fabricante" validate:"omitempty,max=50"`
	LocalFisico          *string          `json:"local_fisico"          validate:"omitempty,max=50"`
	GarantiaMeses        *int             `json:"garantia_meses"        validate:"omitempty,min=0"`
	ControlarNumSerie    *bool            `json:"controlar_num_serie"`
	Validade             *string          `json:"validade"              validate:"omitempty,datetime=2006-01-02"`
}

type ProdutoFilter struct {
	Nome        string `form:"nome"`
	Tipo        string `form:"tipo"         validate:"omitempty,oneof=produto servico"`
	CategoriaID string `form:"categoria_id" validate:"omitempty,uuid"`
	Ativo       string `form:"ativo"` // "false" = inativos, "all" = todos, default = ativos
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type ProdutoResponse struct {
	ID                   string          `json:"id"`
	Tipo                 string          `json:"tipo"`
	CategoriaID          *string         `json:"categoria_id"`
	Categoria            *string         `json:"categoria"`
	Nome                 string          `json:"nome"`
	PrecoCusto           decimal.Decimal `json:"preco_custo"`
	PrecoVenda           decimal.Decimal `json:"preco_venda"`
	Quantidade           int             `json:"quantidade"`
	EstoqueMinimo        int             `json:"estoque_minimo"`
	StatusEstoque        string          `json:"status_estoque"` // baixo | ok | - (serviços)
	AlertaPromocao       bool            `json:"alerta_promocao"`
	CodigoBarras         *string         `json:"codigo_barras"`
	ReferenciaFabricante *string         `json:"referencia_fabricante"`
	LocalFisico          *string         `json:"local_fisico"`
	GarantiaMeses        int             `json:"garantia_meses"`
	ControlarNumSerie    bool            `json:"controlar_num_serie"`
	Validade             *string         `json:"validade"`
	Ativo                bool            `json:"ativo"`
	CreatedAt            string          `json:"created_at"`
}

type ProdutoListResponse struct {
	Data       []ProdutoResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ProdutoResumo is the product snapshot embedded in quote and service-order lines.
type ProdutoResumo struct {
	ID         string          `json:"id"`
	Nome       string          `json:"nome"`
	Tipo       string          `json:"tipo"`
	PrecoVenda decimal.Decimal `json:"preco_venda"`
}
