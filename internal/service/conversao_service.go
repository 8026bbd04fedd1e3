package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/model"
	"github.com/acavalcante04/erp-security/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PedidoConversao selects the approved quotes to turn into service orders.
// TecnicoID nil means the acting user takes the orders.
type PedidoConversao struct {
	OrcamentoIDs []uuid.UUID
	TecnicoID    *uuid.UUID
}

type ConversaoService interface {
	// GerarOrdensServico returns one outcome per requested quote, in request order.
	// The error is non-nil only when the request as a whole is rejected (technician check).
	GerarOrdensServico(ctx context.Context, ator uuid.UUID, pedido PedidoConversao) ([]dto.ResultadoLote, error)
}

type conversaoService struct {
	orcamentos repository.OrcamentoRepository
	ordens     repository.OrdemServicoRepository
	tecnicos   VerificadorTecnico
}

func NewConversaoService(
	orcamentos repository.OrcamentoRepository,
	ordens repository.OrdemServicoRepository,
	tecnicos VerificadorTecnico,
) ConversaoService {
	return &conversaoService{orcamentos: orcamentos, ordens: ordens, tecnicos: tecnicos}
}

func descricaoDerivada(o *model.Orcamento) string {
	return fmt.Sprintf("Serviço derivado do Orçamento #%d.\nCondições: %s", o.Numero, o.Observacoes)
}

func (s *conversaoService) GerarOrdensServico(ctx context.Context, ator uuid.UUID, pedido PedidoConversao) ([]dto.ResultadoLote, error) {
	tecnicoID := ator
	if pedido.TecnicoID != nil {
		tecnicoID = *pedido.TecnicoID
	}
	if err := exigirTecnico(ctx, s.tecnicos, tecnicoID); err != nil {
		return nil, err
	}

	out := make([]dto.ResultadoLote, 0, len(pedido.OrcamentoIDs))
	for _, id := range pedido.OrcamentoIDs {
		r := s.converter(ctx, id, tecnicoID)
		logResultado(r, "geração de OS")
		out = append(out, r)
	}
	return out, nil
}

// converter handles one quote in its own transaction. Skips return nil from the
// transaction body so nothing is written; failures roll back.
func (s *conversaoService) converter(ctx context.Context, id, tecnicoID uuid.UUID) dto.ResultadoLote {
	r := dto.ResultadoLote{OrcamentoID: id.String()}

	err := runTx(ctx, s.orcamentos.DB(), func(tx *gorm.DB) error {
		o, err := s.orcamentos.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		r.StatusOrcamento = o.Status

		if o.Status == model.OrcamentoConvertido {
			r.Resultado, r.Nivel = ResultadoIgnoradoJaConvertido, NivelErro
			r.Mensagem = fmt.Sprintf("orçamento #%d já foi convertido em ordem de serviço", o.Numero)
			return nil
		}
		if o.Status != model.OrcamentoAprovado {
			r.Resultado, r.Nivel = ResultadoIgnoradoNaoAprovado, NivelAviso
			r.Mensagem = fmt.Sprintf("orçamento #%d está %s; apenas aprovados geram OS", o.Numero, o.Status)
			return nil
		}
		existe, err := s.ordens.ExistsByOrcamentoOrigem(ctx, tx, o.ID)
		if err != nil {
			return err
		}
		if existe {
			r.Resultado, r.Nivel = ResultadoIgnoradoJaConvertido, NivelErro
			r.Mensagem = fmt.Sprintf("já existe uma OS para o orçamento #%d", o.Numero)
			return nil
		}

		origem := o.ID
		os := &model.OrdemServico{
			OrcamentoOrigemID: &origem,
			ClienteID:         o.ClienteID,
			TecnicoID:         tecnicoID,
			Status:            model.OSPendente,
			ValorBruto:        o.ValorBruto,
			Desconto:          o.Desconto,
			ValorTotal:        CalcularTotal(o.ValorBruto, o.Desconto),
			DescricaoProblema: descricaoDerivada(o),
			Sincronizado:      true,
		}
		if err := s.ordens.Create(ctx, tx, os); err != nil {
			return err
		}

		o.Status = model.OrcamentoConvertido
		if err := s.orcamentos.Update(ctx, tx, o); err != nil {
			return err
		}

		osID := os.ID.String()
		r.Resultado, r.Nivel = ResultadoConvertido, NivelInfo
		r.Mensagem = fmt.Sprintf("OS #%d gerada a partir do orçamento #%d", os.Numero, o.Numero)
		r.StatusOrcamento = model.OrcamentoConvertido
		r.OrdemServicoID = &osID
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		r = dto.ResultadoLote{OrcamentoID: id.String(), Resultado: ResultadoFalha, Nivel: NivelErro,
			Mensagem: "orçamento não encontrado"}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		// lost the race against a concurrent conversion of the same quote
		r = dto.ResultadoLote{OrcamentoID: id.String(), Resultado: ResultadoIgnoradoJaConvertido, Nivel: NivelErro,
			Mensagem: "já existe uma OS para este orçamento"}
	default:
		r = dto.ResultadoLote{OrcamentoID: id.String(), Resultado: ResultadoFalha, Nivel: NivelErro,
			Mensagem: "falha ao gerar OS: " + err.Error()}
	}
	return r
}
