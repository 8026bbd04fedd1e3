package service

import (
	"testing"

	"github.com/acavalcante04/erp-security/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcularSubtotal(t *testing.T) {
	assert.True(t, dec("359.70").Equal(CalcularSubtotal(3, dec("119.90"))))
	assert.True(t, dec("0").Equal(CalcularSubtotal(4, dec("0"))))
}

func TestSomarSubtotais(t *testing.T) {
	itens := []model.ItemOrcamento{
		{Subtotal: dec("359.70")},
		{Subtotal: dec("150.00")},
		{Subtotal: dec("0.30")},
	}
	assert.True(t, dec("510.00").Equal(SomarSubtotais(itens)))
	assert.True(t, dec("0").Equal(SomarSubtotais(nil)))
}

func TestCalcularTotal(t *testing.T) {
	assert.True(t, dec("450.00").Equal(CalcularTotal(dec("510.00"), dec("60.00"))))
	assert.True(t, dec("0").Equal(CalcularTotal(dec("100"), dec("100"))))
}

func TestValidarDesconto(t *testing.T) {
	cases := []struct {
		nome     string
		bruto    string
		desconto string
		ok       bool
	}{
		{"sem desconto", "100", "0", true},
		{"desconto parcial", "100", "15.50", true},
		{"desconto igual ao bruto", "100", "100", true},
		{"desconto maior que o bruto", "100", "100.01", false},
		{"desconto negativo", "100", "-1", false},
		{"bruto zero sem desconto", "0", "0", true},
	}
	for _, tc := range cases {
		t.Run(tc.nome, func(t *testing.T) {
			err := ValidarDesconto(dec(tc.bruto), dec(tc.desconto))
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidacao)
		})
	}
}

func TestNormalizarValor_ArredondaCentavos(t *testing.T) {
	assert.Equal(t, "10.13", normalizarValor(dec("10.125")).StringFixed(2))
	assert.Equal(t, "10.12", normalizarValor(dec("10.1249")).StringFixed(2))
}

func TestTransicoesOrcamento(t *testing.T) {
	assert.True(t, podeTransicionarOrcamento(model.OrcamentoRascunho, model.OrcamentoEnviado))
	assert.True(t, podeTransicionarOrcamento(model.OrcamentoEnviado, model.OrcamentoAprovado))
	assert.True(t, podeTransicionarOrcamento(model.OrcamentoAprovado, model.OrcamentoRejeitado))
	assert.False(t, podeTransicionarOrcamento(model.OrcamentoAprovado, model.OrcamentoConvertido))
	assert.False(t, podeTransicionarOrcamento(model.OrcamentoConvertido, model.OrcamentoRejeitado))
	assert.False(t, podeTransicionarOrcamento(model.OrcamentoRejeitado, model.OrcamentoAprovado))
	assert.False(t, podeTransicionarOrcamento(model.OrcamentoEnviado, model.OrcamentoEnviado))
}

func TestTransicoesOS(t *testing.T) {
	assert.True(t, podeTransicionarOS(model.OSPendente, model.OSEmAndamento))
	assert.True(t, podeTransicionarOS(model.OSAguardandoPeca, model.OSEmAndamento))
	assert.True(t, podeTransicionarOS(model.OSEmAndamento, model.OSFinalizada))
	assert.False(t, podeTransicionarOS(model.OSFinalizada, model.OSEmAndamento))
	assert.False(t, podeTransicionarOS(model.OSCancelada, model.OSPendente))
	assert.False(t, podeTransicionarOS(model.OSPendente, model.OSPendente))
}
