package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/service"

	"github.com/gin-gonic/gin"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type OrdensServicoHandler struct {
	svc  service.OrdemServicoService
	docs service.DocumentoService
}

func NewOrdensServicoHandler(svc service.OrdemServicoService, docs service.DocumentoService) *OrdensServicoHandler {
	return &OrdensServicoHandler{svc: svc, docs: docs}
}

// Listar godoc
// @Summary Listar ordens de serviço
// @Tags ordens-servico
// @Produce json
// @Param status query string false "Status"
// @Param cliente query string false "Parte do nome do cliente"
// @Param tecnico_id query string false "Técnico"
// @Success 200 {object} dto.OrdemServicoListResponse
// @Router /v1/ordens-servico [get]
func (h *OrdensServicoHandler) Listar(c *gin.Context) {
	var filter dto.OrdemServicoFilter
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

// ObterPorID godoc
// @Summary Detalhe da ordem de serviço
// @Description Inclui os itens do orçamento de origem, quando houver.
// @Tags ordens-servico
// @Produce json
// @Param id path string true "ID da OS"
// @Success 200 {object} dto.OrdemServicoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/ordens-servico/{id} [get]
func (h *OrdensServicoHandler) ObterPorID(c *gin.Context) {
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

func (h *OrdensServicoHandler) Criar(c *gin.Context) {
	var req dto.CriarOrdemServicoRequest
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

func (h *OrdensServicoHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AtualizarOrdemServicoRequest
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

// AlterarStatus PATCH /v1/ordens-servico/:id/status
func (h *OrdensServicoHandler) AlterarStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AlterarStatusOSRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AlterarStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PDF GET /v1/ordens-servico/:id/pdf
func (h *OrdensServicoHandler) PDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	nome, data, err := h.docs.PDFOrdemServico(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	enviarArquivo(c, nome, "application/pdf", data, true)
}

// TermoGarantia GET /v1/ordens-servico/:id/termo-garantia
func (h *OrdensServicoHandler) TermoGarantia(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	nome, data, err := h.docs.TermoGarantia(c.Request.Context(), id)
	if err != nil {
		responderErro(c, err)
		return
	}
	enviarArquivo(c, nome, "application/pdf", data, true)
}

// Exportar godoc
// @Summary Exportar ordens de serviço (XLSX)
// @Tags ordens-servico
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Status"
// @Param cliente query string false "Parte do nome do cliente"
// @Success 200 {file} file
// @Router /v1/ordens-servico/exportar [get]
func (h *OrdensServicoHandler) Exportar(c *gin.Context) {
	var filter dto.OrdemServicoFilter
	if !bindQuery(c, &filter) {
		return
	}
	data, err := h.svc.Exportar(c.Request.Context(), filter)
	if err != nil {
		responderErro(c, err)
		return
	}
	nome := fmt.Sprintf("ordens_servico_%s.xlsx", time.Now().Format("20060102"))
	enviarArquivo(c, nome, contentTypeXLSX, data, false)
}
