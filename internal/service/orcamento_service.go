package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/infra"
	"github.com/acavalcante04/erp-security/internal/model"
	"github.com/acavalcante04/erp-security/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Batch outcome codes shared by AprovarLote and the conversion pipeline.
const (
	ResultadoAprovado             = "aprovado"
	ResultadoIgnorado             = "ignorado"
	ResultadoConvertido           = "convertido"
	ResultadoIgnoradoNaoAprovado  = "ignorado_nao_aprovado"
	ResultadoIgnoradoJaConvertido = "ignorado_ja_convertido"
	ResultadoFalha                = "falha"

	NivelInfo  = "info"
	NivelAviso = "warning"
	NivelErro  = "error"
)

// FilaEmail queues outgoing mail. *worker.Dispatcher satisfies it.
type FilaEmail interface {
	EnqueueEmail(ctx context.Context, msg infra.Email) error
}

type OrcamentoService interface {
	Criar(ctx context.Context, req dto.CriarOrcamentoRequest) (*dto.OrcamentoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.OrcamentoResponse, error)
	Listar(ctx context.Context, filter dto.OrcamentoFilter) (*dto.OrcamentoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarOrcamentoRequest) (*dto.OrcamentoResponse, error)
	Excluir(ctx context.Context, id uuid.UUID) error

	AdicionarItem(ctx context.Context, id uuid.UUID, req dto.ItemOrcamentoRequest) (*dto.OrcamentoResponse, error)
	AtualizarItem(ctx context.Context, id, itemID uuid.UUID, req dto.AtualizarItemRequest) (*dto.OrcamentoResponse, error)
	RemoverItem(ctx context.Context, id, itemID uuid.UUID) (*dto.OrcamentoResponse, error)

	Enviar(ctx context.Context, id uuid.UUID) (*dto.OrcamentoResponse, error)
	Aprovar(ctx context.Context, id uuid.UUID) (*dto.OrcamentoResponse, error)
	Rejeitar(ctx context.Context, id uuid.UUID) (*dto.OrcamentoResponse, error)
	AprovarLote(ctx context.Context, ids []uuid.UUID) []dto.ResultadoLote
}

type orcamentoService struct {
	repo     repository.OrcamentoRepository
	produtos repository.ProdutoRepository
	clientes repository.ClienteRepository
	docs     DocumentoService
	fila     FilaEmail
}

// NewOrcamentoService wires the quote service. docs and fila may be nil; Enviar then
// only changes the status.
func NewOrcamentoService(
	repo repository.OrcamentoRepository,
	produtos repository.ProdutoRepository,
	clientes repository.ClienteRepository,
	docs DocumentoService,
	fila FilaEmail,
) OrcamentoService {
	return &orcamentoService{repo: repo, produtos: produtos, clientes: clientes, docs: docs, fila: fila}
}

// runTx executes fn inside a DB transaction.
// When db is nil (unit-test mode with stub repos), fn is called with a nil tx.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func mapItem(it *model.ItemOrcamento) dto.ItemOrcamentoResponse {
	resp := dto.ItemOrcamentoResponse{
		ID:            it.ID.String(),
		Produto:       dto.ProdutoResumo{ID: it.ProdutoID.String()},
		Quantidade:    it.Quantidade,
		PrecoUnitario: it.PrecoUnitario,
		Subtotal:      it.Subtotal,
	}
	if it.Produto != nil {
		resp.Produto.Nome = it.Produto.Nome
		resp.Produto.Tipo = it.Produto.Tipo
		resp.Produto.PrecoVenda = it.Produto.PrecoVenda
	}
	return resp
}

func mapOrcamento(o *model.Orcamento) dto.OrcamentoResponse {
	resp := dto.OrcamentoResponse{
		ID:          o.ID.String(),
		Numero:      o.Numero,
		Cliente:     resumoCliente(o.Cliente),
		Validade:    o.Validade.Format(dataISO),
		Status:      o.Status,
		ValorBruto:  o.ValorBruto,
		Desconto:    o.Desconto,
		ValorTotal:  o.ValorTotal,
		Observacoes: o.Observacoes,
		Itens:       make([]dto.ItemOrcamentoResponse, 0, len(o.Itens)),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
	}
	if o.Cliente == nil {
		resp.Cliente.ID = o.ClienteID.String()
	}
	for i := range o.Itens {
		resp.Itens = append(resp.Itens, mapItem(&o.Itens[i]))
	}
	return resp
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *orcamentoService) carregar(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Orcamento, error) {
	o, err := s.repo.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencia("orçamento não encontrado")
		}
		return nil, err
	}
	return o, nil
}

func (s *orcamentoService) carregarEditavel(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Orcamento, error) {
	o, err := s.carregar(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !orcamentoEditavel(o.Status) {
		return nil, conflito("orçamento #%d está %s e não pode ser alterado", o.Numero, o.Status)
	}
	return o, nil
}

// precoItem returns the explicit price when given, else the product's current sale price.
func (s *orcamentoService) precoItem(ctx context.Context, produtoID uuid.UUID, explicito *decimal.Decimal) (decimal.Decimal, error) {
	p, err := s.produtos.FindByID(ctx, produtoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, referencia("produto %s não encontrado", produtoID)
		}
		return decimal.Zero, err
	}
	if !p.Ativo {
		return decimal.Zero, validacao("produto %q está inativo", p.Nome)
	}
	if explicito == nil {
		return p.PrecoVenda, nil
	}
	preco := normalizarValor(*explicito)
	if preco.IsNegative() {
		return decimal.Zero, validacao("preço unitário não pode ser negativo")
	}
	return preco, nil
}

func (s *orcamentoService) novoItem(ctx context.Context, req dto.ItemOrcamentoRequest) (*model.ItemOrcamento, error) {
	produtoID, err := uuid.Parse(req.ProdutoID)
	if err != nil {
		return nil, validacao("produto_id inválido")
	}
	if err := validarQuantidade(req.Quantidade); err != nil {
		return nil, err
	}
	preco, err := s.precoItem(ctx, produtoID, req.PrecoUnitario)
	if err != nil {
		return nil, err
	}
	return &model.ItemOrcamento{
		ProdutoID:     produtoID,
		Quantidade:    req.Quantidade,
		PrecoUnitario: preco,
		Subtotal:      CalcularSubtotal(req.Quantidade, preco),
	}, nil
}

// recalcular reloads Σ subtotal from storage, validates the discount and saves the header.
// Must run inside the transaction that changed the lines.
func (s *orcamentoService) recalcular(ctx context.Context, tx *gorm.DB, o *model.Orcamento) error {
	bruto, err := s.repo.SumSubtotais(ctx, tx, o.ID)
	if err != nil {
		return err
	}
	if err := ValidarDesconto(bruto, o.Desconto); err != nil {
		return err
	}
	o.ValorBruto = bruto
	o.ValorTotal = CalcularTotal(bruto, o.Desconto)
	return s.repo.Update(ctx, tx, o)
}

// ── CRUD ─────────────────────────────────────────────────────────────────────

func (s *orcamentoService) Criar(ctx context.Context, req dto.CriarOrcamentoRequest) (*dto.OrcamentoResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, validacao("cliente_id inválido")
	}
	if _, err := s.clientes.FindByID(ctx, clienteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencia("cliente não encontrado")
		}
		return nil, err
	}
	validade, err := time.Parse(dataISO, req.Validade)
	if err != nil {
		return nil, validacao("validade inválida, use AAAA-MM-DD")
	}

	itens := make([]model.ItemOrcamento, 0, len(req.Itens))
	for _, ir := range req.Itens {
		it, err := s.novoItem(ctx, ir)
		if err != nil {
			return nil, err
		}
		itens = append(itens, *it)
	}

	bruto := SomarSubtotais(itens)
	desconto := normalizarValor(req.Desconto)
	if err := ValidarDesconto(bruto, desconto); err != nil {
		return nil, err
	}

	o := &model.Orcamento{
		ClienteID:   clienteID,
		Validade:    validade,
		Status:      model.OrcamentoRascunho,
		ValorBruto:  bruto,
		Desconto:    desconto,
		ValorTotal:  CalcularTotal(bruto, desconto),
		Observacoes: req.Observacoes,
		Itens:       itens,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, o.ID)
}

func (s *orcamentoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.OrcamentoResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencia("orçamento não encontrado")
		}
		return nil, err
	}
	resp := mapOrcamento(o)
	return &resp, nil
}

func (s *orcamentoService) Listar(ctx context.Context, filter dto.OrcamentoFilter) (*dto.OrcamentoListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrcamentoResponse, len(list))
	for i := range list {
		data[i] = mapOrcamento(&list[i])
	}
	return &dto.OrcamentoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPaginas(total, filter.Limit),
	}, nil
}

func (s *orcamentoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarOrcamentoRequest) (*dto.OrcamentoResponse, error) {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		o, err := s.carregarEditavel(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.Validade != nil {
			v, err := time.Parse(dataISO, *req.Validade)
			if err != nil {
				return validacao("validade inválida, use AAAA-MM-DD")
			}
			o.Validade = v
		}
		if req.Observacoes != nil {
			o.Observacoes = *req.Observacoes
		}
		if req.Desconto != nil {
			o.Desconto = normalizarValor(*req.Desconto)
		}
		return s.recalcular(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, id)
}

// Excluir removes a quote that never became commercially binding.
func (s *orcamentoService) Excluir(ctx context.Context, id uuid.UUID) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		o, err := s.carregar(ctx, tx, id)
		if err != nil {
			return err
		}
		if o.Status == model.OrcamentoAprovado || o.Status == model.OrcamentoConvertido {
			return conflito("orçamento #%d está %s e não pode ser excluído", o.Numero, o.Status)
		}
		return s.repo.Delete(ctx, tx, o.ID)
	})
}

// ── Itens ────────────────────────────────────────────────────────────────────
// Every line change runs in one transaction: lock quote → write line → recompute
// header from the stored subtotals → save.

func (s *orcamentoService) AdicionarItem(ctx context.Context, id uuid.UUID, req dto.ItemOrcamentoRequest) (*dto.OrcamentoResponse, error) {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		o, err := s.carregarEditavel(ctx, tx, id)
		if err != nil {
			return err
		}
		it, err := s.novoItem(ctx, req)
		if err != nil {
			return err
		}
		it.OrcamentoID = o.ID
		if err := s.repo.CreateItem(ctx, tx, it); err != nil {
			return err
		}
		return s.recalcular(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, id)
}

func (s *orcamentoService) AtualizarItem(ctx context.Context, id, itemID uuid.UUID, req dto.AtualizarItemRequest) (*dto.OrcamentoResponse, error) {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		o, err := s.carregarEditavel(ctx, tx, id)
		if err != nil {
			return err
		}
		it, err := s.repo.FindItem(ctx, tx, o.ID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return referencia("item não encontrado neste orçamento")
			}
			return err
		}
		if req.Quantidade != nil {
			if err := validarQuantidade(*req.Quantidade); err != nil {
				return err
			}
			it.Quantidade = *req.Quantidade
		}
		if req.PrecoUnitario != nil {
			preco := normalizarValor(*req.PrecoUnitario)
			if preco.IsNegative() {
				return validacao("preço unitário não pode ser negativo")
			}
			it.PrecoUnitario = preco
		}
		it.Subtotal = CalcularSubtotal(it.Quantidade, it.PrecoUnitario)
		if err := s.repo.UpdateItem(ctx, tx, it); err != nil {
			return err
		}
		return s.recalcular(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, id)
}

func (s *orcamentoService) RemoverItem(ctx context.Context, id, itemID uuid.UUID) (*dto.OrcamentoResponse, error) {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		o, err := s.carregarEditavel(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := s.repo.FindItem(ctx, tx, o.ID, itemID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return referencia("item não encontrado neste orçamento")
			}
			return err
		}
		if err := s.repo.DeleteItem(ctx, tx, itemID); err != nil {
			return err
		}
		// a smaller gross amount may no longer cover the discount; the tx rolls back then
		return s.recalcular(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, id)
}

// ── Status ───────────────────────────────────────────────────────────────────

func (s *orcamentoService) transicionar(ctx context.Context, id uuid.UUID, para string) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		o, err := s.carregar(ctx, tx, id)
		if err != nil {
			return err
		}
		if !podeTransicionarOrcamento(o.Status, para) {
			return conflito("orçamento #%d está %s e não pode passar para %s", o.Numero, o.Status, para)
		}
		o.Status = para
		return s.repo.Update(ctx, tx, o)
	})
}

func (s *orcamentoService) Enviar(ctx context.Context, id uuid.UUID) (*dto.OrcamentoResponse, error) {
	if err := s.transicionar(ctx, id, model.OrcamentoEnviado); err != nil {
		return nil, err
	}
	s.enfileirarEmail(ctx, id)
	return s.ObterPorID(ctx, id)
}

// enfileirarEmail queues the quote PDF to the client. The status change already
// committed, so failures here are only logged.
func (s *orcamentoService) enfileirarEmail(ctx context.Context, id uuid.UUID) {
	if s.fila == nil || s.docs == nil {
		return
	}
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("orcamento_id", id.String()).Msg("email do orçamento: falha ao recarregar")
		return
	}
	if o.Cliente == nil || o.Cliente.Email == nil || *o.Cliente.Email == "" {
		return
	}
	nome, pdf, err := s.docs.PDFOrcamento(ctx, id)
	if err != nil {
		log.Warn().Err(err).Str("orcamento_id", id.String()).Msg("email do orçamento: falha ao gerar PDF")
		return
	}
	msg := infra.Email{
		Para:    *o.Cliente.Email,
		Assunto: fmt.Sprintf("Orçamento #%d", o.Numero),
		Corpo: fmt.Sprintf("Olá %s,\n\nSegue em anexo o orçamento #%d, válido até %s.\n",
			o.Cliente.Nome, o.Numero, o.Validade.Format("02/01/2006")),
		Anexos: []infra.Anexo{{Nome: nome, ContentType: "application/pdf", Conteudo: pdf}},
	}
	if err := s.fila.EnqueueEmail(ctx, msg); err != nil {
		log.Warn().Err(err).Str("orcamento_id", id.String()).Msg("email do orçamento: falha ao enfileirar")
	}
}

func (s *orcamentoService) Aprovar(ctx context.Context, id uuid.UUID) (*dto.OrcamentoResponse, error) {
	if err := s.transicionar(ctx, id, model.OrcamentoAprovado); err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, id)
}

func (s *orcamentoService) Rejeitar(ctx context.Context, id uuid.UUID) (*dto.OrcamentoResponse, error) {
	if err := s.transicionar(ctx, id, model.OrcamentoRejeitado); err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, id)
}

// AprovarLote approves each quote independently; one failure never stops the batch.
func (s *orcamentoService) AprovarLote(ctx context.Context, ids []uuid.UUID) []dto.ResultadoLote {
	out := make([]dto.ResultadoLote, 0, len(ids))
	for _, id := range ids {
		r := dto.ResultadoLote{OrcamentoID: id.String()}
		err := s.transicionar(ctx, id, model.OrcamentoAprovado)
		switch {
		case err == nil:
			r.Resultado, r.Nivel, r.Mensagem = ResultadoAprovado, NivelInfo, "orçamento aprovado"
			r.StatusOrcamento = model.OrcamentoAprovado
		case errors.Is(err, ErrConflito):
			r.Resultado, r.Nivel, r.Mensagem = ResultadoIgnorado, NivelAviso, err.Error()
		default:
			r.Resultado, r.Nivel, r.Mensagem = ResultadoFalha, NivelErro, err.Error()
		}
		logResultado(r, "aprovação em lote")
		out = append(out, r)
	}
	return out
}

func logResultado(r dto.ResultadoLote, acao string) {
	ev := log.Info()
	switch r.Nivel {
	case NivelAviso:
		ev = log.Warn()
	case NivelErro:
		ev = log.Error()
	}
	ev.Str("orcamento_id", r.OrcamentoID).
		Str("resultado", r.Resultado).
		Msgf("%s: %s", acao, r.Mensagem)
}
