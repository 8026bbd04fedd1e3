package service

import (
	"context"
	"testing"

	"github.com/acavalcante04/erp-security/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConversao_GeraOSDeOrcamentoAprovado(t *testing.T) {
	f := newFixture()
	tecnico := f.tecnicos.add(true)
	cliente := f.clientes.seed("Condomínio Solar", nil)
	camera := f.produtos.seed("Câmera", model.TipoProduto, "100.00", 12)
	o := f.orcamentos.seed(cliente.ID, model.OrcamentoAprovado, item(camera, 4))
	stored := f.orcamentos.orcamentos[o.ID]
	stored.Desconto = dec("40")
	stored.ValorTotal = dec("360")
	f.orcamentos.orcamentos[o.ID] = stored

	res, err := f.conversaoSvc().GerarOrdensServico(context.Background(), tecnico,
		PedidoConversao{OrcamentoIDs: []uuid.UUID{o.ID}})
	require.NoError(t, err)
	require.Len(t, res, 1)

	r := res[0]
	assert.Equal(t, ResultadoConvertido, r.Resultado)
	assert.Equal(t, NivelInfo, r.Nivel)
	assert.Equal(t, model.OrcamentoConvertido, r.StatusOrcamento)
	require.NotNil(t, r.OrdemServicoID)

	os := f.ordens.ordens[uuid.MustParse(*r.OrdemServicoID)]
	require.NotNil(t, os.OrcamentoOrigemID)
	assert.Equal(t, o.ID, *os.OrcamentoOrigemID)
	assert.Equal(t, cliente.ID, os.ClienteID)
	assert.Equal(t, tecnico, os.TecnicoID)
	assert.Equal(t, model.OSPendente, os.Status)
	assert.True(t, dec("400").Equal(os.ValorBruto))
	assert.True(t, dec("40").Equal(os.Desconto))
	assert.True(t, dec("360").Equal(os.ValorTotal))
	assert.Contains(t, os.DescricaoProblema, "Orçamento #1")
	assert.Contains(t, os.DescricaoProblema, "Pagamento 50% na aprovação")

	assert.Equal(t, model.OrcamentoConvertido, f.orcamentos.orcamentos[o.ID].Status)
}

func TestConversao_SegundaExecucaoNaoDuplica(t *testing.T) {
	f := newFixture()
	tecnico := f.tecnicos.add(true)
	cliente := f.clientes.seed("Cliente", nil)
	o := f.orcamentos.seed(cliente.ID, model.OrcamentoAprovado)
	svc := f.conversaoSvc()
	pedido := PedidoConversao{OrcamentoIDs: []uuid.UUID{o.ID}}

	_, err := svc.GerarOrdensServico(context.Background(), tecnico, pedido)
	require.NoError(t, err)

	res, err := svc.GerarOrdensServico(context.Background(), tecnico, pedido)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, ResultadoIgnoradoJaConvertido, res[0].Resultado)
	assert.Equal(t, NivelErro, res[0].Nivel)
	assert.Nil(t, res[0].OrdemServicoID)
	assert.Len(t, f.ordens.ordens, 1)
}

func TestConversao_LoteMisto(t *testing.T) {
	f := newFixture()
	tecnico := f.tecnicos.add(true)
	cliente := f.clientes.seed("Cliente", nil)
	aprovado := f.orcamentos.seed(cliente.ID, model.OrcamentoAprovado)
	rascunho := f.orcamentos.seed(cliente.ID, model.OrcamentoRascunho)
	rejeitado := f.orcamentos.seed(cliente.ID, model.OrcamentoRejeitado)
	inexistente := uuid.New()
	outroAprovado := f.orcamentos.seed(cliente.ID, model.OrcamentoAprovado)

	res, err := f.conversaoSvc().GerarOrdensServico(context.Background(), tecnico, PedidoConversao{
		OrcamentoIDs: []uuid.UUID{aprovado.ID, rascunho.ID, rejeitado.ID, inexistente, outroAprovado.ID},
	})
	require.NoError(t, err)
	require.Len(t, res, 5)

	assert.Equal(t, aprovado.ID.String(), res[0].OrcamentoID)
	assert.Equal(t, ResultadoConvertido, res[0].Resultado)

	assert.Equal(t, ResultadoIgnoradoNaoAprovado, res[1].Resultado)
	assert.Equal(t, NivelAviso, res[1].Nivel)
	assert.Equal(t, model.OrcamentoRascunho, res[1].StatusOrcamento)

	assert.Equal(t, ResultadoIgnoradoNaoAprovado, res[2].Resultado)

	assert.Equal(t, ResultadoFalha, res[3].Resultado)
	assert.Equal(t, NivelErro, res[3].Nivel)

	assert.Equal(t, ResultadoConvertido, res[4].Resultado)

	assert.Len(t, f.ordens.ordens, 2)
	assert.Equal(t, model.OrcamentoRascunho, f.orcamentos.orcamentos[rascunho.ID].Status)
}

func TestConversao_TecnicoExplicito(t *testing.T) {
	f := newFixture()
	admin := f.tecnicos.add(false)
	tecnico := f.tecnicos.add(true)
	cliente := f.clientes.seed("Cliente", nil)
	o := f.orcamentos.seed(cliente.ID, model.OrcamentoAprovado)

	res, err := f.conversaoSvc().GerarOrdensServico(context.Background(), admin,
		PedidoConversao{OrcamentoIDs: []uuid.UUID{o.ID}, TecnicoID: &tecnico})
	require.NoError(t, err)
	require.Equal(t, ResultadoConvertido, res[0].Resultado)

	os := f.ordens.ordens[uuid.MustParse(*res[0].OrdemServicoID)]
	assert.Equal(t, tecnico, os.TecnicoID)
}

func TestConversao_RejeitaSemPerfilTecnico(t *testing.T) {
	f := newFixture()
	financeiro := f.tecnicos.add(false)
	cliente := f.clientes.seed("Cliente", nil)
	o := f.orcamentos.seed(cliente.ID, model.OrcamentoAprovado)
	svc := f.conversaoSvc()

	res, err := svc.GerarOrdensServico(context.Background(), financeiro,
		PedidoConversao{OrcamentoIDs: []uuid.UUID{o.ID}})
	assert.ErrorIs(t, err, ErrValidacao)
	assert.Nil(t, res)

	desconhecido := uuid.New()
	_, err = svc.GerarOrdensServico(context.Background(), financeiro,
		PedidoConversao{OrcamentoIDs: []uuid.UUID{o.ID}, TecnicoID: &desconhecido})
	assert.ErrorIs(t, err, ErrReferencia)

	assert.Empty(t, f.ordens.ordens)
	assert.Equal(t, model.OrcamentoAprovado, f.orcamentos.orcamentos[o.ID].Status)
}

func TestConversao_OSJaExistenteParaOrigem(t *testing.T) {
	f := newFixture()
	tecnico := f.tecnicos.add(true)
	cliente := f.clientes.seed("Cliente", nil)
	o := f.orcamentos.seed(cliente.ID, model.OrcamentoAprovado)
	origem := o.ID
	require.NoError(t, f.ordens.Create(context.Background(), nil, &model.OrdemServico{
		OrcamentoOrigemID: &origem, ClienteID: cliente.ID, TecnicoID: tecnico, Status: model.OSPendente,
	}))

	res, err := f.conversaoSvc().GerarOrdensServico(context.Background(), tecnico,
		PedidoConversao{OrcamentoIDs: []uuid.UUID{o.ID}})
	require.NoError(t, err)
	assert.Equal(t, ResultadoIgnoradoJaConvertido, res[0].Resultado)
	assert.Equal(t, model.OrcamentoAprovado, f.orcamentos.orcamentos[o.ID].Status)
	assert.Len(t, f.ordens.ordens, 1)
}

func TestConversao_ChaveDuplicadaViraJaConvertido(t *testing.T) {
	f := newFixture()
	tecnico := f.tecnicos.add(true)
	cliente := f.clientes.seed("Cliente", nil)
	o := f.orcamentos.seed(cliente.ID, model.OrcamentoAprovado)
	f.ordens.failCreate = gorm.ErrDuplicatedKey

	res, err := f.conversaoSvc().GerarOrdensServico(context.Background(), tecnico,
		PedidoConversao{OrcamentoIDs: []uuid.UUID{o.ID}})
	require.NoError(t, err)
	assert.Equal(t, ResultadoIgnoradoJaConvertido, res[0].Resultado)
	assert.Equal(t, NivelErro, res[0].Nivel)
}

func TestConversao_FalhaDeEscritaNaoInterrompeLote(t *testing.T) {
	f := newFixture()
	tecnico := f.tecnicos.add(true)
	cliente := f.clientes.seed("Cliente", nil)
	a := f.orcamentos.seed(cliente.ID, model.OrcamentoAprovado)
	b := f.orcamentos.seed(cliente.ID, model.OrcamentoRascunho)
	f.orcamentos.failUpdate = assert.AnError

	res, err := f.conversaoSvc().GerarOrdensServico(context.Background(), tecnico,
		PedidoConversao{OrcamentoIDs: []uuid.UUID{a.ID, b.ID}})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, ResultadoFalha, res[0].Resultado)
	assert.Contains(t, res[0].Mensagem, assert.AnError.Error())
	assert.Equal(t, ResultadoIgnoradoNaoAprovado, res[1].Resultado)
}
