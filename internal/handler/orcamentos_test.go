package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/middleware"
	"github.com/acavalcante04/erp-security/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Stubs ────────────────────────────────────────────────────────────────────

// stubOrcamentos overrides what the tests call; anything else panics on the nil
// embedded interface.
type stubOrcamentos struct {
	service.OrcamentoService
	lote   []dto.ResultadoLote
	err    error
	criado dto.CriarOrcamentoRequest
}

func (s *stubOrcamentos) Criar(_ context.Context, req dto.CriarOrcamentoRequest) (*dto.OrcamentoResponse, error) {
	s.criado = req
	if s.err != nil {
		return nil, s.err
	}
	return &dto.OrcamentoResponse{ID: uuid.NewString(), Numero: 1, Status: "rascunho"}, nil
}

func (s *stubOrcamentos) Aprovar(_ context.Context, id uuid.UUID) (*dto.OrcamentoResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.OrcamentoResponse{ID: id.String(), Status: "aprovado"}, nil
}

func (s *stubOrcamentos) AprovarLote(_ context.Context, _ []uuid.UUID) []dto.ResultadoLote {
	return s.lote
}

type stubConversao struct {
	ator       uuid.UUID
	pedido     service.PedidoConversao
	resultados []dto.ResultadoLote
	err        error
}

func (s *stubConversao) GerarOrdensServico(_ context.Context, ator uuid.UUID, pedido service.PedidoConversao) ([]dto.ResultadoLote, error) {
	s.ator, s.pedido = ator, pedido
	return s.resultados, s.err
}

type stubDocs struct{}

func (stubDocs) PDFOrcamento(_ context.Context, _ uuid.UUID) (string, []byte, error) {
	return "orcamento_9.pdf", []byte("%PDF-1.3 fake"), nil
}

func (stubDocs) PDFOrdemServico(_ context.Context, _ uuid.UUID) (string, []byte, error) {
	return "ordem_servico_9.pdf", []byte("%PDF-1.3 fake"), nil
}

func (stubDocs) TermoGarantia(_ context.Context, _ uuid.UUID) (string, []byte, error) {
	return "", nil, fmt.Errorf("%w: OS #9 não possui produtos com garantia", service.ErrValidacao)
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// comAtor injects the claims JWTAuth would set.
func comAtor(id string, rol string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &middleware.JWTClaims{UserID: id, Username: "u", Rol: rol})
		c.Next()
	}
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestResponderErro(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: desconto maior que o bruto", service.ErrValidacao), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: já convertido", service.ErrConflito), http.StatusConflict},
		{fmt.Errorf("%w: orçamento não encontrado", service.ErrReferencia), http.StatusNotFound},
		{service.ErrCredenciais, http.StatusUnauthorized},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) { responderErro(c, tc.err) })
		w := doJSON(r, http.MethodGet, "/x", nil)
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
	}

	r := gin.New()
	r.GET("/x", func(c *gin.Context) { responderErro(c, errors.New("pq: senha do banco")) })
	w := doJSON(r, http.MethodGet, "/x", nil)
	assert.NotContains(t, w.Body.String(), "senha do banco", "internal errors never leak")
}

func TestOrcamentos_Criar_ValidaCorpo(t *testing.T) {
	svc := &stubOrcamentos{}
	h := NewOrcamentosHandler(svc, &stubConversao{}, stubDocs{})
	r := gin.New()
	r.POST("/orcamentos", h.Criar)

	w := doJSON(r, http.MethodPost, "/orcamentos", map[string]any{"cliente_id": "x", "validade": "2026-12-31"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(r, http.MethodPost, "/orcamentos", map[string]any{
		"cliente_id": uuid.NewString(),
		"validade":   "2026-12-31",
		"desconto":   "10.50",
		"itens":      []map[string]any{{"produto_id": uuid.NewString(), "quantidade": 2}},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "10.5", svc.criado.Desconto.String())
	require.Len(t, svc.criado.Itens, 1)
	assert.Nil(t, svc.criado.Itens[0].PrecoUnitario)
}

func TestOrcamentos_Aprovar_Conflito(t *testing.T) {
	h := NewOrcamentosHandler(&stubOrcamentos{err: fmt.Errorf("%w: orçamento #3 está convertido", service.ErrConflito)},
		&stubConversao{}, stubDocs{})
	r := gin.New()
	r.POST("/orcamentos/:id/aprovar", h.Aprovar)

	w := doJSON(r, http.MethodPost, "/orcamentos/"+uuid.NewString()+"/aprovar", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/orcamentos/nao-uuid/aprovar", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrcamentos_AprovarLote(t *testing.T) {
	svc := &stubOrcamentos{lote: []dto.ResultadoLote{
		{Resultado: service.ResultadoAprovado, Nivel: service.NivelInfo},
		{Resultado: service.ResultadoIgnorado, Nivel: service.NivelAviso},
		{Resultado: service.ResultadoFalha, Nivel: service.NivelErro},
	}}
	h := NewOrcamentosHandler(svc, &stubConversao{}, stubDocs{})
	r := gin.New()
	r.POST("/orcamentos/aprovar-lote", h.AprovarLote)

	w := doJSON(r, http.MethodPost, "/orcamentos/aprovar-lote",
		dto.LoteOrcamentosRequest{OrcamentoIDs: []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.ResultadoLoteResponse](t, w)
	assert.Equal(t, 3, resp.Processados)
	assert.Equal(t, 1, resp.Sucesso)

	w = doJSON(r, http.MethodPost, "/orcamentos/aprovar-lote", dto.LoteOrcamentosRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestOrcamentos_GerarOrdensServico(t *testing.T) {
	ator := uuid.New()
	osID := uuid.NewString()
	conv := &stubConversao{resultados: []dto.ResultadoLote{
		{Resultado: service.ResultadoConvertido, Nivel: service.NivelInfo, OrdemServicoID: &osID},
		{Resultado: service.ResultadoIgnoradoJaConvertido, Nivel: service.NivelErro},
		{Resultado: service.ResultadoIgnoradoNaoAprovado, Nivel: service.NivelAviso},
	}}
	h := NewOrcamentosHandler(&stubOrcamentos{}, conv, stubDocs{})

	r := gin.New()
	r.POST("/gerar-os", comAtor(ator.String(), "tecnico"), h.GerarOrdensServico)

	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	w := doJSON(r, http.MethodPost, "/gerar-os", dto.GerarOrdensServicoRequest{OrcamentoIDs: ids})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[dto.ResultadoLoteResponse](t, w)
	assert.Equal(t, 3, resp.Processados)
	assert.Equal(t, 1, resp.Sucesso)
	assert.Equal(t, ator, conv.ator)
	assert.Nil(t, conv.pedido.TecnicoID)
	require.Len(t, conv.pedido.OrcamentoIDs, 3)
	assert.Equal(t, ids[0], conv.pedido.OrcamentoIDs[0].String())

	tecnico := uuid.NewString()
	w = doJSON(r, http.MethodPost, "/gerar-os", dto.GerarOrdensServicoRequest{OrcamentoIDs: ids[:1], TecnicoID: &tecnico})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, conv.pedido.TecnicoID)
	assert.Equal(t, tecnico, conv.pedido.TecnicoID.String())
}

func TestOrcamentos_GerarOrdensServico_Erros(t *testing.T) {
	conv := &stubConversao{err: fmt.Errorf("%w: usuário sem perfil técnico", service.ErrValidacao)}
	h := NewOrcamentosHandler(&stubOrcamentos{}, conv, stubDocs{})
	body := dto.GerarOrdensServicoRequest{OrcamentoIDs: []string{uuid.NewString()}}

	semAtor := gin.New()
	semAtor.POST("/gerar-os", h.GerarOrdensServico)
	assert.Equal(t, http.StatusUnauthorized, doJSON(semAtor, http.MethodPost, "/gerar-os", body).Code)

	r := gin.New()
	r.POST("/gerar-os", comAtor(uuid.NewString(), "administrador"), h.GerarOrdensServico)
	assert.Equal(t, http.StatusUnprocessableEntity, doJSON(r, http.MethodPost, "/gerar-os", body).Code)

	vazio := dto.GerarOrdensServicoRequest{OrcamentoIDs: []string{}}
	assert.Equal(t, http.StatusUnprocessableEntity, doJSON(r, http.MethodPost, "/gerar-os", vazio).Code)
}

func TestDocumentosHTTP(t *testing.T) {
	orc := NewOrcamentosHandler(&stubOrcamentos{}, &stubConversao{}, stubDocs{})
	ordens := NewOrdensServicoHandler(nil, stubDocs{})
	r := gin.New()
	r.GET("/orcamentos/:id/pdf", orc.PDF)
	r.GET("/ordens-servico/:id/termo-garantia", ordens.TermoGarantia)

	w := doJSON(r, http.MethodGet, "/orcamentos/"+uuid.NewString()+"/pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="orcamento_9.pdf"`, w.Header().Get("Content-Disposition"))

	w = doJSON(r, http.MethodGet, "/ordens-servico/"+uuid.NewString()+"/termo-garantia", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
