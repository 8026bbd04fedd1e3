package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/model"
	"github.com/acavalcante04/erp-security/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dataISO = "2006-01-02"

type ProdutoService interface {
	Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
	Reativar(ctx context.Context, id uuid.UUID) error
}

type produtoService struct {
	repo       repository.ProdutoRepository
	categorias repository.CategoriaRepository
	agora      func() time.Time
}

func NewProdutoService(repo repository.ProdutoRepository, categorias repository.CategoriaRepository) ProdutoService {
	return &produtoService{repo: repo, categorias: categorias, agora: time.Now}
}

func mapProduto(p *model.Produto, agora time.Time) dto.ProdutoResponse {
	resp := dto.ProdutoResponse{
		ID:                   p.ID.String(),
		Tipo:                 p.Tipo,
		Nome:                 p.Nome,
		PrecoCusto:           p.PrecoCusto,
		PrecoVenda:           p.PrecoVenda,
		Quantidade:           p.Quantidade,
		EstoqueMinimo:        p.EstoqueMinimo,
		StatusEstoque:        "ok",
		AlertaPromocao:       p.AlertaPromocao(agora),
		CodigoBarras:         p.CodigoBarras,
		ReferenciaFabricante: p.ReferenciaFabricante,
		LocalFisico:          p.LocalFisico,
		GarantiaMeses:        p.GarantiaMeses,
		ControlarNumSerie:    p.ControlarNumSerie,
		Ativo:                p.Ativo,
		CreatedAt:            p.CreatedAt.Format(time.RFC3339),
	}
	switch {
	case p.EhServico():
		resp.StatusEstoque = "-"
	case p.EstoqueBaixo():
		resp.StatusEstoque = "baixo"
	}
	if p.CategoriaID != nil {
		id := p.CategoriaID.String()
		resp.CategoriaID = &id
	}
	if p.Categoria != nil {
		nome := p.Categoria.Nome
		resp.Categoria = &nome
	}
	if p.Validade != nil {
		v := p.Validade.Format(dataISO)
		resp.Validade = &v
	}
	return resp
}

func (s *produtoService) resolverCategoria(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, validacao("categoria_id inválido")
	}
	if _, err := s.categorias.ObterPorID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencia("categoria %s não encontrada", id)
		}
		return nil, err
	}
	return &id, nil
}

func parseData(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dataISO, *raw)
	if err != nil {
		return nil, validacao("data inválida: %s", *raw)
	}
	return &t, nil
}

func (s *produtoService) Criar(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	if req.PrecoVenda.IsNegative() || req.PrecoCusto.IsNegative() {
		return nil, validacao("preços não podem ser negativos")
	}
	categoriaID, err := s.resolverCategoria(ctx, req.CategoriaID)
	if err != nil {
		return nil, err
	}
	validade, err := parseData(req.Validade)
	if err != nil {
		return nil, err
	}

	p := &model.Produto{
		Tipo:                 req.Tipo,
		CategoriaID:          categoriaID,
		Nome:                 req.Nome,
		PrecoCusto:           normalizarValor(req.PrecoCusto),
		PrecoVenda:           normalizarValor(req.PrecoVenda),
		Quantidade:           req.Quantidade,
		EstoqueMinimo:        5,
		CodigoBarras:         req.CodigoBarras,
		ReferenciaFabricante: req.ReferenciaFabricante,
		LocalFisico:          req.LocalFisico,
		GarantiaMeses:        3,
		ControlarNumSerie:    req.ControlarNumSerie,
		Validade:             validade,
		Ativo:                true,
	}
	if req.EstoqueMinimo != nil {
		p.EstoqueMinimo = *req.EstoqueMinimo
	}
	if req.GarantiaMeses != nil {
		p.GarantiaMeses = *req.GarantiaMeses
	}
	if p.EhServico() {
		// stock and warranty only make sense for physical products
		p.Quantidade = 0
		p.GarantiaMeses = 0
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := mapProduto(p, s.agora())
	return &resp, nil
}

func (s *produtoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencia("produto não encontrado")
		}
		return nil, err
	}
	resp := mapProduto(p, s.agora())
	return &resp, nil
}

func (s *produtoService) Listar(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	agora := s.agora()
	data := make([]dto.ProdutoResponse, len(list))
	for i := range list {
		data[i] = mapProduto(&list[i], agora)
	}
	return &dto.ProdutoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPaginas(total, filter.Limit),
	}, nil
}

func (s *produtoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencia("produto não encontrado")
		}
		return nil, err
	}

	if req.CategoriaID != nil {
		if p.CategoriaID, err = s.resolverCategoria(ctx, req.CategoriaID); err != nil {
			return nil, err
		}
		p.Categoria = nil
	}
	if req.Nome != nil {
		p.Nome = *req.Nome
	}
	if req.PrecoCusto != nil {
		if req.PrecoCusto.IsNegative() {
			return nil, validacao("preço de custo não pode ser negativo")
		}
		p.PrecoCusto = normalizarValor(*req.PrecoCusto)
	}
	if req.PrecoVenda != nil {
		if req.PrecoVenda.IsNegative() {
			return nil, validacao("preço de venda não pode ser negativo")
		}
		p.PrecoVenda = normalizarValor(*req.PrecoVenda)
	}
	if req.Quantidade != nil && !p.EhServico() {
		p.Quantidade = *req.Quantidade
	}
	if req.EstoqueMinimo != nil {
		p.EstoqueMinimo = *req.EstoqueMinimo
	}
	if req.CodigoBarras != nil {
		p.CodigoBarras = req.CodigoBarras
	}
	if req.ReferenciaFabricante != nil {
		p.ReferenciaFabricante = req.ReferenciaFabricante
	}
	if req.LocalFisico != nil {
		p.LocalFisico = req.LocalFisico
	}
	if req.GarantiaMeses != nil && !p.EhServico() {
		p.GarantiaMeses = *req.GarantiaMeses
	}
	if req.ControlarNumSerie != nil {
		p.ControlarNumSerie = *req.ControlarNumSerie
	}
	if req.Validade != nil {
		if p.Validade, err = parseData(req.Validade); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := mapProduto(p, s.agora())
	return &resp, nil
}

func (s *produtoService) Desativar(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *produtoService) Reativar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reativar(ctx, id)
}

func totalPaginas(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
