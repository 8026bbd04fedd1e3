package handler

import (
	"net/http"

	"github.com/acavalcante04/erp-security/internal/apierror"
	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/middleware"
	"github.com/acavalcante04/erp-security/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrcamentosHandler struct {
	svc       service.OrcamentoService
	conversao service.ConversaoService
	docs      service.DocumentoService
}

func NewOrcamentosHandler(svc service.OrcamentoService, conversao service.ConversaoService, docs service.DocumentoService) *OrcamentosHandler {
	return &OrcamentosHandler{svc: svc, conversao: conversao, docs: docs}
}

// Criar godoc
// @Summary Criar orçamento
// @Description Cria o orçamento em rascunho. Itens sem preco_unitario usam o preço de venda atual do produto.
// @Tags orcamentos
// @Accept json
// @Produce json
// @Param body body dto.CriarOrcamentoRequest true "Orçamento"
// @Success 201 {object} dto.OrcamentoResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/orcamentos [post]
func (h *OrcamentosHandler) Criar(c *gin.Context) {
	var req dto.CriarOrcamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Listar orçamentos
// @Tags orcamentos
// @Produce json
// @Param status query string false "Status"
// @Param cliente query string false "Parte do nome do cliente"
// @Success 200 {object} dto.OrcamentoListResponse
// @Router /v1/orcamentos [get]
func (h *OrcamentosHandler) Listar(c *gin.Context) {
	var filter dto.OrcamentoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrcamentosHandler) ObterPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObterPorID(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrcamentosHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarOrcamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Atualizar(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrcamentosHandler) Excluir(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Excluir(c.Request.Context(), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Itens ────────────────────────────────────────────────────────────────────

// AdicionarItem POST /v1/orcamentos/:id/itens
func (h *OrcamentosHandler) AdicionarItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ItemOrcamentoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdicionarItem(c.Request.Context(), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AtualizarItem PUT /v1/orcamentos/:id/itens/:item_id
func (h *OrcamentosHandler) AtualizarItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	var req dto.AtualizarItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarItem(c.Request.Context(), id, itemID, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoverItem DELETE /v1/orcamentos/:id/itens/:item_id
func (h *OrcamentosHandler) RemoverItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseID(c, "item_id")
	if !ok {
		return
	}
	resp, err := h.svc.RemoverItem(c.Request.Context(), id, itemID)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Status ───────────────────────────────────────────────────────────────────

func (h *OrcamentosHandler) transicao(fn func(*gin.Context, uuid.UUID) (*dto.OrcamentoResponse, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		resp, err := fn(c, id)
		if err != nil {
			responderErro(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Enviar POST /v1/orcamentos/:id/enviar
func (h *OrcamentosHandler) Enviar(c *gin.Context) {
	h.transicao(func(c *gin.Context, id uuid.UUID) (*dto.OrcamentoResponse, error) {
		return h.svc.Enviar(c.Request.Context(), id)
	})(c)
}

// Aprovar POST /v1/orcamentos/:id/aprovar
func (h *OrcamentosHandler) Aprovar(c *gin.Context) {
	h.transicao(func(c *gin.Context, id uuid.UUID) (*dto.OrcamentoResponse, error) {
		return h.svc.Aprovar(c.Request.Context(), id)
	})(c)
}

// Rejeitar POST /v1/orcamentos/:id/rejeitar
func (h *OrcamentosHandler) Rejeitar(c *gin.Context) {
	h.transicao(func(c *gin.Context, id uuid.UUID) (*dto.OrcamentoResponse, error) {
		return h.svc.Rejeitar(c.Request.Context(), id)
	})(c)
}

func respostaLote(resultados []dto.ResultadoLote) dto.ResultadoLoteResponse {
	resp := dto.ResultadoLoteResponse{Resultados: resultados, Processados: len(resultados)}
	for _, r := range resultados {
		if r.Resultado == service.ResultadoAprovado || r.Resultado == service.ResultadoConvertido {
			resp.Sucesso++
		}
	}
	return resp
}

// AprovarLote godoc
// @Summary Aprovar orçamentos em lote
// @Tags orcamentos
// @Accept json
// @Produce json
// @Param body body dto.LoteOrcamentosRequest true "IDs"
// @Success 200 {object} dto.ResultadoLoteResponse
// @Router /v1/orcamentos/aprovar-lote [post]
func (h *OrcamentosHandler) AprovarLote(c *gin.Context) {
	var req dto.LoteOrcamentosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ids, err := parseIDs(req.OrcamentoIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.MsgIDInvalido))
		return
	}
	c.JSON(http.StatusOK, respostaLote(h.svc.AprovarLote(c.Request.Context(), ids)))
}

// GerarOrdensServico godoc
// @Summary Gerar ordens de serviço a partir de orçamentos aprovados
// @Description Cada orçamento é processado em sua própria transação; a resposta traz um resultado por orçamento, na ordem do pedido.
// @Tags orcamentos
// @Accept json
// @Produce json
// @Param body body dto.GerarOrdensServicoRequest true "IDs e técnico"
// @Success 200 {object} dto.ResultadoLoteResponse
// @Failure 404 {object} apierror.APIError "técnico inexistente"
// @Failure 422 {object} apierror.APIError "usuário sem perfil técnico"
// @Router /v1/orcamentos/gerar-os [post]
func (h *OrcamentosHandler) GerarOrdensServico(c *gin.Context) {
	var req dto.GerarOrdensServicoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	ator, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, apierror.New(apierror.MsgNaoAutorizado))
		return
	}
	ids, err := parseIDs(req.OrcamentoIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(apierror.MsgIDInvalido))
		return
	}
	pedido := service.PedidoConversao{OrcamentoIDs: ids}
	if req.TecnicoID != nil {
		tid, err := uuid.Parse(*req.TecnicoID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New(apierror.MsgIDInvalido))
			return
		}
		pedido.TecnicoID = &tid
	}

	resultados, err := h.conversao.GerarOrdensServico(c.Request.Context(), ator, pedido)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, respostaLote(resultados))
}

// PDF GET /v1/orcamentos/:id/pdf
func (h *OrcamentosHandler) PDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	nome, data, err := h.docs.PDFOrcamento(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	enviarArquivo(c, nome, "application/pdf", data, true)
}
