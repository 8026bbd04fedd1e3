package service

import (
	"github.com/acavalcante04/erp-security/internal/model"

	"github.com/shopspring/decimal"
)

// ── Regras de totais ─────────────────────────────────────────────────────────
// Pure functions shared by quotes and service orders. The service layer calls them
// right before every persistence so stored totals are never stale.

// normalizarValor rounds caller-supplied money to centavos.
func normalizarValor(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// CalcularSubtotal returns quantidade × preço unitário.
func CalcularSubtotal(quantidade int, precoUnitario decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(quantidade)).Mul(precoUnitario)
}

// SomarSubtotais returns the gross amount of a set of lines.
func SomarSubtotais(itens []model.ItemOrcamento) decimal.Decimal {
	bruto := decimal.Zero
	for _, it := range itens {
		bruto = bruto.Add(it.Subtotal)
	}
	return bruto
}

// CalcularTotal returns bruto − desconto. No clamping: range checks live in ValidarDesconto.
func CalcularTotal(bruto, desconto decimal.Decimal) decimal.Decimal {
	return bruto.Sub(desconto)
}

// ValidarDesconto rejects a negative discount or one larger than the gross amount.
func ValidarDesconto(bruto, desconto decimal.Decimal) error {
	if desconto.IsNegative() {
		return validacao("desconto não pode ser negativo")
	}
	if desconto.GreaterThan(bruto) {
		return validacao("desconto (%s) maior que o valor bruto (%s)", desconto.StringFixed(2), bruto.StringFixed(2))
	}
	return nil
}

func validarQuantidade(q int) error {
	if q <= 0 {
		return validacao("quantidade deve ser maior que zero")
	}
	return nil
}
