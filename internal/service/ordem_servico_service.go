package service

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/infra"
	"github.com/acavalcante04/erp-security/internal/model"
	"github.com/acavalcante04/erp-security/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrdemServicoService interface {
	Criar(ctx context.Context, req dto.CriarOrdemServicoRequest) (*dto.OrdemServicoResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.OrdemServicoResponse, error)
	Listar(ctx context.Context, filter dto.OrdemServicoFilter) (*dto.OrdemServicoListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarOrdemServicoRequest) (*dto.OrdemServicoResponse, error)
	AlterarStatus(ctx context.Context, id uuid.UUID, status string) (*dto.OrdemServicoResponse, error)
	// Exportar renders the filtered orders as an XLSX workbook.
	Exportar(ctx context.Context, filter dto.OrdemServicoFilter) ([]byte, error)
}

type ordemServicoService struct {
	repo     repository.OrdemServicoRepository
	clientes repository.ClienteRepository
	tecnicos VerificadorTecnico
	agora    func() time.Time
}

func NewOrdemServicoService(
	repo repository.OrdemServicoRepository,
	clientes repository.ClienteRepository,
	tecnicos VerificadorTecnico,
) OrdemServicoService {
	return &ordemServicoService{repo: repo, clientes: clientes, tecnicos: tecnicos, agora: time.Now}
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func mapOrdemServico(os *model.OrdemServico) dto.OrdemServicoResponse {
	resp := dto.OrdemServicoResponse{
		ID:                os.ID.String(),
		Numero:            os.Numero,
		Cliente:           resumoCliente(os.Cliente),
		TecnicoID:         os.TecnicoID.String(),
		Status:            os.Status,
		ValorBruto:        os.ValorBruto,
		Desconto:          os.Desconto,
		ValorTotal:        os.ValorTotal,
		DescricaoProblema: os.DescricaoProblema,
		LaudoTecnico:      os.LaudoTecnico,
		Sincronizado:      os.Sincronizado,
		DataAbertura:      os.DataAbertura.Format(time.RFC3339),
		Itens:             []dto.ItemOrcamentoResponse{},
	}
	if os.Cliente == nil {
		resp.Cliente.ID = os.ClienteID.String()
	}
	if os.Tecnico != nil {
		resp.TecnicoNome = os.Tecnico.Nome
	}
	if os.OrcamentoOrigemID != nil {
		origem := os.OrcamentoOrigemID.String()
		resp.OrcamentoOrigemID = &origem
	}
	if os.DataFinalizacao != nil {
		f := os.DataFinalizacao.Format(time.RFC3339)
		resp.DataFinalizacao = &f
	}
	if os.OrcamentoOrigem != nil {
		for i := range os.OrcamentoOrigem.Itens {
			resp.Itens = append(resp.Itens, mapItem(&os.OrcamentoOrigem.Itens[i]))
		}
	}
	return resp
}

func (s *ordemServicoService) carregar(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.OrdemServico, error) {
	os, err := s.repo.FindByIDForUpdate(ctx, tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencia("ordem de serviço não encontrada")
		}
		return nil, err
	}
	return os, nil
}

// ── Operations ───────────────────────────────────────────────────────────────

func (s *ordemServicoService) Criar(ctx context.Context, req dto.CriarOrdemServicoRequest) (*dto.OrdemServicoResponse, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, validacao("cliente_id inválido")
	}
	tecnicoID, err := uuid.Parse(req.TecnicoID)
	if err != nil {
		return nil, validacao("tecnico_id inválido")
	}
	if _, err := s.clientes.FindByID(ctx, clienteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencia("cliente não encontrado")
		}
		return nil, err
	}
	if err := exigirTecnico(ctx, s.tecnicos, tecnicoID); err != nil {
		return nil, err
	}

	bruto := normalizarValor(req.ValorBruto)
	desconto := normalizarValor(req.Desconto)
	if bruto.IsNegative() {
		return nil, validacao("valor bruto não pode ser negativo")
	}
	if err := ValidarDesconto(bruto, desconto); err != nil {
		return nil, err
	}

	os := &model.OrdemServico{
		ClienteID:         clienteID,
		TecnicoID:         tecnicoID,
		Status:            model.OSPendente,
		ValorBruto:        bruto,
		Desconto:          desconto,
		ValorTotal:        CalcularTotal(bruto, desconto),
		DescricaoProblema: req.DescricaoProblema,
		Sincronizado:      true,
	}
	if err := s.repo.Create(ctx, nil, os); err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, os.ID)
}

func (s *ordemServicoService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.OrdemServicoResponse, error) {
	os, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencia("ordem de serviço não encontrada")
		}
		return nil, err
	}
	resp := mapOrdemServico(os)
	return &resp, nil
}

func (s *ordemServicoService) Listar(ctx context.Context, filter dto.OrdemServicoFilter) (*dto.OrdemServicoListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrdemServicoResponse, len(list))
	for i := range list {
		data[i] = mapOrdemServico(&list[i])
	}
	return &dto.OrdemServicoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPaginas(total, filter.Limit),
	}, nil
}

// Atualizar edits an open order. Financial fields recompute the total; the technician
// is re-validated only when it changes.
func (s *ordemServicoService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarOrdemServicoRequest) (*dto.OrdemServicoResponse, error) {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		os, err := s.carregar(ctx, tx, id)
		if err != nil {
			return err
		}
		if os.Terminal() {
			return conflito("OS #%d está %s e não pode ser alterada", os.Numero, os.Status)
		}

		if req.TecnicoID != nil {
			tecnicoID, err := uuid.Parse(*req.TecnicoID)
			if err != nil {
				return validacao("tecnico_id inválido")
			}
			if tecnicoID != os.TecnicoID {
				if err := exigirTecnico(ctx, s.tecnicos, tecnicoID); err != nil {
					return err
				}
				os.TecnicoID = tecnicoID
			}
		}
		if req.DescricaoProblema != nil {
			os.DescricaoProblema = *req.DescricaoProblema
		}
		if req.LaudoTecnico != nil {
			os.LaudoTecnico = *req.LaudoTecnico
		}
		if req.ValorBruto != nil {
			os.ValorBruto = normalizarValor(*req.ValorBruto)
			if os.ValorBruto.IsNegative() {
				return validacao("valor bruto não pode ser negativo")
			}
		}
		if req.Desconto != nil {
			os.Desconto = normalizarValor(*req.Desconto)
		}
		if err := ValidarDesconto(os.ValorBruto, os.Desconto); err != nil {
			return err
		}
		os.ValorTotal = CalcularTotal(os.ValorBruto, os.Desconto)
		return s.repo.Update(ctx, tx, os)
	})
	if err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, id)
}

func (s *ordemServicoService) AlterarStatus(ctx context.Context, id uuid.UUID, status string) (*dto.OrdemServicoResponse, error) {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		os, err := s.carregar(ctx, tx, id)
		if err != nil {
			return err
		}
		if !podeTransicionarOS(os.Status, status) {
			return conflito("OS #%d está %s e não pode passar para %s", os.Numero, os.Status, status)
		}
		os.Status = status
		if status == model.OSFinalizada {
			agora := s.agora()
			os.DataFinalizacao = &agora
		}
		return s.repo.Update(ctx, tx, os)
	})
	if err != nil {
		return nil, err
	}
	return s.ObterPorID(ctx, id)
}

func (s *ordemServicoService) Exportar(ctx context.Context, filter dto.OrdemServicoFilter) ([]byte, error) {
	ordens, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := infra.EscreverPlanilhaOrdensServico(&buf, ordens); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
