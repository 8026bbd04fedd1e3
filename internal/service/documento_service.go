package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acavalcante04/erp-security/internal/infra"
	"github.com/acavalcante04/erp-security/internal/model"
	"github.com/acavalcante04/erp-security/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentoService renders the printable documents. Every method returns the
// suggested file name and the PDF bytes.
type DocumentoService interface {
	PDFOrcamento(ctx context.Context, id uuid.UUID) (string, []byte, error)
	PDFOrdemServico(ctx context.Context, id uuid.UUID) (string, []byte, error)
	TermoGarantia(ctx context.Context, id uuid.UUID) (string, []byte, error)
}

type documentoService struct {
	orcamentos repository.OrcamentoRepository
	ordens     repository.OrdemServicoRepository
	empresa    ConfiguracaoService
	agora      func() time.Time
}

func NewDocumentoService(
	orcamentos repository.OrcamentoRepository,
	ordens repository.OrdemServicoRepository,
	empresa ConfiguracaoService,
) DocumentoService {
	return &documentoService{orcamentos: orcamentos, ordens: ordens, empresa: empresa, agora: time.Now}
}

func (s *documentoService) ordem(ctx context.Context, id uuid.UUID) (*model.OrdemServico, error) {
	os, err := s.ordens.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencia("ordem de serviço não encontrada")
		}
		return nil, err
	}
	return os, nil
}

func (s *documentoService) PDFOrcamento(ctx context.Context, id uuid.UUID) (string, []byte, error) {
	o, err := s.orcamentos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, referencia("orçamento não encontrado")
		}
		return "", nil, err
	}
	emp, err := s.empresa.DadosEmpresa(ctx)
	if err != nil {
		return "", nil, err
	}
	var buf bytes.Buffer
	if err := infra.RenderOrcamentoPDF(&buf, emp, o); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("orcamento_%d.pdf", o.Numero), buf.Bytes(), nil
}

func (s *documentoService) PDFOrdemServico(ctx context.Context, id uuid.UUID) (string, []byte, error) {
	os, err := s.ordem(ctx, id)
	if err != nil {
		return "", nil, err
	}
	emp, err := s.empresa.DadosEmpresa(ctx)
	if err != nil {
		return "", nil, err
	}
	var buf bytes.Buffer
	if err := infra.RenderOrdemServicoPDF(&buf, emp, os); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("ordem_servico_%d.pdf", os.Numero), buf.Bytes(), nil
}

// linhasGarantia lists the origin quote's physical products that carry warranty.
// Expiry counts from the closing date, or from base when the order is still open.
func linhasGarantia(os *model.OrdemServico, base time.Time) []infra.LinhaGarantia {
	if os.DataFinalizacao != nil {
		base = *os.DataFinalizacao
	}
	var linhas []infra.LinhaGarantia
	if os.OrcamentoOrigem == nil {
		return linhas
	}
	for _, it := range os.OrcamentoOrigem.Itens {
		p := it.Produto
		if p == nil || p.EhServico() || p.GarantiaMeses <= 0 {
			continue
		}
		linhas = append(linhas, infra.LinhaGarantia{
			Produto:       p.Nome,
			Quantidade:    it.Quantidade,
			GarantiaMeses: p.GarantiaMeses,
			ValidaAte:     base.AddDate(0, p.GarantiaMeses, 0),
		})
	}
	return linhas
}

func (s *documentoService) TermoGarantia(ctx context.Context, id uuid.UUID) (string, []byte, error) {
	os, err := s.ordem(ctx, id)
	if err != nil {
		return "", nil, err
	}
	linhas := linhasGarantia(os, s.agora())
	if len(linhas) == 0 {
		return "", nil, validacao("OS #%d não possui produtos com garantia", os.Numero)
	}
	emp, err := s.empresa.DadosEmpresa(ctx)
	if err != nil {
		return "", nil, err
	}
	var buf bytes.Buffer
	if err := infra.RenderTermoGarantiaPDF(&buf, emp, os, linhas); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("termo_garantia_os_%d.pdf", os.Numero), buf.Bytes(), nil
}
