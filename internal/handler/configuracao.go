package handler

import (
	"net/http"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/service"

	"github.com/gin-gonic/gin"
)

type ConfiguracaoHandler struct{ svc service.ConfiguracaoService }

func NewConfiguracaoHandler(svc service.ConfiguracaoService) *ConfiguracaoHandler {
	return &ConfiguracaoHandler{svc: svc}
}

// Obter GET /v1/configuracao
func (h *ConfiguracaoHandler) Obter(c *gin.Context) {
	resp, err := h.svc.Obter(c.Request.Context())
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Salvar PUT /v1/configuracao
func (h *ConfiguracaoHandler) Salvar(c *gin.Context) {
	var req dto.ConfiguracaoEmpresaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Salvar(c.Request.Context(), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
