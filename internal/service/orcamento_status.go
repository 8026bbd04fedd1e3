package service

import "github.com/acavalcante04/erp-security/internal/model"

// transicoesOrcamento lists the public status changes of a quote.
// aprovado → convertido is not listed: only the conversion pipeline sets it.
var transicoesOrcamento = map[string]map[string]bool{
	model.OrcamentoRascunho: {
		model.OrcamentoEnviado:   true,
		model.OrcamentoAprovado:  true,
		model.OrcamentoRejeitado: true,
	},
	model.OrcamentoEnviado: {
		model.OrcamentoAprovado:  true,
		model.OrcamentoRejeitado: true,
	},
	model.OrcamentoAprovado: {
		model.OrcamentoRejeitado: true,
	},
}

func podeTransicionarOrcamento(de, para string) bool {
	return transicoesOrcamento[de][para]
}

// orcamentoEditavel reports whether header fields and lines may still change.
func orcamentoEditavel(status string) bool {
	return status == model.OrcamentoRascunho || status == model.OrcamentoEnviado
}

var transicoesOS = map[string]map[string]bool{
	model.OSPendente: {
		model.OSEmAndamento:    true,
		model.OSAguardandoPeca: true,
		model.OSFinalizada:     true,
		model.OSCancelada:      true,
	},
	model.OSEmAndamento: {
		model.OSAguardandoPeca: true,
		model.OSFinalizada:     true,
		model.OSCancelada:      true,
	},
	model.OSAguardandoPeca: {
		model.OSEmAndamento: true,
		model.OSFinalizada:  true,
		model.OSCancelada:   true,
	},
}

func podeTransicionarOS(de, para string) bool {
	return transicoesOS[de][para]
}
