package service

import (
	"context"
	"testing"
	"time"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func novoProdutoSvc(agora time.Time) (*produtoService, *stubProdutoRepo, *stubCategoriaRepo) {
	repo := newStubProdutoRepo()
	categorias := newStubCategoriaRepo()
	return &produtoService{repo: repo, categorias: categorias, agora: func() time.Time { return agora }}, repo, categorias
}

func TestProduto_Criar(t *testing.T) {
	svc, _, categorias := novoProdutoSvc(agoraFixo)
	cat := &model.Categoria{Nome: "Câmeras", Ativo: true}
	require.NoError(t, categorias.Criar(context.Background(), cat))
	catID := cat.ID.String()

	resp, err := svc.Criar(context.Background(), dto.CriarProdutoRequest{
		Tipo:        model.TipoProduto,
		CategoriaID: &catID,
		Nome:        "Câmera Bullet",
		PrecoCusto:  dec("70"),
		PrecoVenda:  dec("119.9"),
		Quantidade:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, "119.90", resp.PrecoVenda.StringFixed(2))
	assert.Equal(t, 3, resp.GarantiaMeses, "default warranty")
	assert.Equal(t, 5, resp.EstoqueMinimo)
	assert.Equal(t, "baixo", resp.StatusEstoque)
	require.NotNil(t, resp.CategoriaID)
	assert.Equal(t, catID, *resp.CategoriaID)
}

func TestProduto_Criar_ServicoSemEstoqueNemGarantia(t *testing.T) {
	svc, _, _ := novoProdutoSvc(agoraFixo)
	resp, err := svc.Criar(context.Background(), dto.CriarProdutoRequest{
		Tipo:          model.TipoServico,
		Nome:          "Manutenção preventiva",
		PrecoVenda:    dec("150"),
		Quantidade:    10,
		GarantiaMeses: intPtr(6),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Quantidade)
	assert.Equal(t, 0, resp.GarantiaMeses)
	assert.Equal(t, "-", resp.StatusEstoque)
	assert.Nil(t, resp.CategoriaID, "category is optional")
}

func TestProduto_Criar_Erros(t *testing.T) {
	svc, _, _ := novoProdutoSvc(agoraFixo)
	ctx := context.Background()

	inexistente := uuid.NewString()
	_, err := svc.Criar(ctx, dto.CriarProdutoRequest{Tipo: model.TipoProduto, Nome: "X", CategoriaID: &inexistente})
	assert.ErrorIs(t, err, ErrReferencia)

	_, err = svc.Criar(ctx, dto.CriarProdutoRequest{Tipo: model.TipoProduto, Nome: "X", PrecoVenda: dec("-1")})
	assert.ErrorIs(t, err, ErrValidacao)

	_, err = svc.Criar(ctx, dto.CriarProdutoRequest{Tipo: model.TipoProduto, Nome: "X", Validade: strPtr("2026-13-01")})
	assert.ErrorIs(t, err, ErrValidacao)
}

func TestProduto_AlertaPromocao(t *testing.T) {
	svc, repo, _ := novoProdutoSvc(agoraFixo)
	antigo := repo.seed("Câmera analógica", model.TipoProduto, "50", 3)
	p := repo.produtos[antigo.ID]
	p.CreatedAt = agoraFixo.AddDate(-2, 0, 0)
	p.Quantidade = 40
	repo.produtos[antigo.ID] = p

	recente := repo.seed("Câmera IP", model.TipoProduto, "200", 12)

	resp, err := svc.ObterPorID(context.Background(), antigo.ID)
	require.NoError(t, err)
	assert.True(t, resp.AlertaPromocao)
	assert.Equal(t, "ok", resp.StatusEstoque)

	resp, err = svc.ObterPorID(context.Background(), recente.ID)
	require.NoError(t, err)
	assert.False(t, resp.AlertaPromocao)
}

func TestProduto_Atualizar(t *testing.T) {
	svc, repo, _ := novoProdutoSvc(agoraFixo)
	servico := repo.seed("Instalação", model.TipoServico, "80", 0)

	resp, err := svc.Atualizar(context.Background(), servico.ID, dto.AtualizarProdutoRequest{
		PrecoVenda:    decPtr("95.5"),
		Quantidade:    intPtr(9),
		GarantiaMeses: intPtr(12),
	})
	require.NoError(t, err)
	assert.Equal(t, "95.50", resp.PrecoVenda.StringFixed(2))
	assert.Equal(t, 0, resp.Quantidade)
	assert.Equal(t, 0, resp.GarantiaMeses)

	_, err = svc.Atualizar(context.Background(), uuid.New(), dto.AtualizarProdutoRequest{})
	assert.ErrorIs(t, err, ErrReferencia)
}

func TestProduto_DesativarReativar(t *testing.T) {
	svc, repo, _ := novoProdutoSvc(agoraFixo)
	p := repo.seed("Sensor", model.TipoProduto, "30", 3)

	require.NoError(t, svc.Desativar(context.Background(), p.ID))
	assert.False(t, repo.produtos[p.ID].Ativo)
	require.NoError(t, svc.Reativar(context.Background(), p.ID))
	assert.True(t, repo.produtos[p.ID].Ativo)
}

func TestCategoria_NomeUnico(t *testing.T) {
	repo := newStubCategoriaRepo()
	svc := NewCategoriaService(repo)
	ctx := context.Background()

	cameras, err := svc.Criar(ctx, dto.CriarCategoriaRequest{Nome: "Câmeras"})
	require.NoError(t, err)
	cabos, err := svc.Criar(ctx, dto.CriarCategoriaRequest{Nome: "Cabos"})
	require.NoError(t, err)

	_, err = svc.Criar(ctx, dto.CriarCategoriaRequest{Nome: "câmeras"})
	assert.ErrorIs(t, err, ErrConflito)

	_, err = svc.Atualizar(ctx, cabos.ID, dto.AtualizarCategoriaRequest{Nome: strPtr("Câmeras")})
	assert.ErrorIs(t, err, ErrConflito)

	resp, err := svc.Atualizar(ctx, cameras.ID, dto.AtualizarCategoriaRequest{Nome: strPtr("Câmeras IP")})
	require.NoError(t, err)
	assert.Equal(t, "Câmeras IP", resp.Nome)

	require.NoError(t, svc.Desativar(ctx, cabos.ID))
	assert.False(t, repo.categorias[cabos.ID].Ativo)
	assert.ErrorIs(t, svc.Desativar(ctx, uuid.New()), ErrReferencia)
}
