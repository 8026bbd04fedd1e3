package service

import (
	"context"
	"testing"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientePF(doc string) dto.CriarClienteRequest {
	return dto.CriarClienteRequest{
		Tipo:     model.PessoaFisica,
		Nome:     "Carlos Andrade",
		CPFCNPJ:  doc,
		Telefone: "(71) 98888-7777",
		Enderecos: []dto.EnderecoRequest{{
			Logradouro: "Rua das Flores", Numero: "120", Bairro: "Pituba",
			Cidade: "Salvador", CEP: "41810-000",
		}},
		Contatos: []dto.ContatoRequest{{Nome: "Lúcia", CargoParentesco: "Esposa", Telefone: "(71) 97777-6666"}},
	}
}

func TestCliente_Criar(t *testing.T) {
	repo := newStubClienteRepo()
	svc := NewClienteService(repo, newStubTecnicos())

	resp, err := svc.Criar(context.Background(), clientePF("529.982.247-25"))
	require.NoError(t, err)
	assert.Equal(t, "52998224725", resp.CPFCNPJ)
	require.Len(t, resp.Enderecos, 1)
	assert.Equal(t, "Principal", resp.Enderecos[0].Descricao)
	assert.Equal(t, "BA", resp.Enderecos[0].Estado)
	require.Len(t, resp.Contatos, 1)
	assert.Equal(t, "Esposa", resp.Contatos[0].CargoParentesco)
}

func TestCliente_Criar_Erros(t *testing.T) {
	repo := newStubClienteRepo()
	tecnicos := newStubTecnicos()
	financeiro := tecnicos.add(false)
	svc := NewClienteService(repo, tecnicos)
	ctx := context.Background()

	_, err := svc.Criar(ctx, clientePF("529.982.247"))
	assert.ErrorIs(t, err, ErrValidacao)

	pj := clientePF("52998224725")
	pj.Tipo = model.PessoaJuridica
	_, err = svc.Criar(ctx, pj)
	assert.ErrorIs(t, err, ErrValidacao, "CNPJ needs 14 digits")

	_, err = svc.Criar(ctx, clientePF("52998224725"))
	require.NoError(t, err)
	_, err = svc.Criar(ctx, clientePF("529.982.247-25"))
	assert.ErrorIs(t, err, ErrConflito, "formatted and bare documents collide")

	req := clientePF("11144477735")
	req.TecnicoResponsavelID = strPtr(financeiro.String())
	_, err = svc.Criar(ctx, req)
	assert.ErrorIs(t, err, ErrValidacao)
}

func TestCliente_Atualizar_SubstituiColecoes(t *testing.T) {
	repo := newStubClienteRepo()
	tecnicos := newStubTecnicos()
	tecnico := tecnicos.add(true)
	svc := NewClienteService(repo, tecnicos)
	ctx := context.Background()

	criado, err := svc.Criar(ctx, clientePF("52998224725"))
	require.NoError(t, err)
	id := uuid.MustParse(criado.ID)

	novos := []dto.EnderecoRequest{
		{Descricao: "Loja", Logradouro: "Av. Sete", Numero: "1", Bairro: "Centro", Cidade: "Salvador", Estado: "ba", CEP: "40060-000"},
		{Descricao: "Depósito", Logradouro: "Rua B", Numero: "2", Bairro: "Calçada", Cidade: "Salvador", CEP: "40410-000"},
	}
	resp, err := svc.Atualizar(ctx, id, dto.AtualizarClienteRequest{
		Telefone:             strPtr("(71) 3000-0000"),
		TecnicoResponsavelID: strPtr(tecnico.String()),
		Enderecos:            &novos,
	})
	require.NoError(t, err)
	assert.Equal(t, criado.ID, resp.ID)
	assert.Equal(t, "(71) 3000-0000", resp.Telefone)
	require.NotNil(t, resp.TecnicoResponsavelID)
	require.Len(t, resp.Enderecos, 2)
	assert.Equal(t, "BA", resp.Enderecos[0].Estado)
	assert.Len(t, resp.Contatos, 1, "contacts untouched when omitted")

	assert.Len(t, repo.clientes[id].Enderecos, 2)
}

func TestNormalizarDocumento(t *testing.T) {
	assert.Equal(t, "12345678000190", normalizarDocumento("12.345.678/0001-90"))
	assert.Equal(t, "", normalizarDocumento("abc"))
}
