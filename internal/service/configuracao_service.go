package service

import (
	"context"
	"errors"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/infra"
	"github.com/acavalcante04/erp-security/internal/model"
	"github.com/acavalcante04/erp-security/internal/repository"

	"gorm.io/gorm"
)

type ConfiguracaoService interface {
	Obter(ctx context.Context) (*dto.ConfiguracaoEmpresaResponse, error)
	Salvar(ctx context.Context, req dto.ConfiguracaoEmpresaRequest) (*dto.ConfiguracaoEmpresaResponse, error)
	// DadosEmpresa returns the header printed on documents.
	DadosEmpresa(ctx context.Context) (infra.DadosEmpresa, error)
}

type configuracaoService struct {
	repo       repository.ConfiguracaoRepository
	nomePadrao string
}

// NewConfiguracaoService uses nomePadrao (EMPRESA_NOME) while no profile has been saved.
func NewConfiguracaoService(repo repository.ConfiguracaoRepository, nomePadrao string) ConfiguracaoService {
	return &configuracaoService{repo: repo, nomePadrao: nomePadrao}
}

func mapConfiguracao(c *model.ConfiguracaoEmpresa) dto.ConfiguracaoEmpresaResponse {
	return dto.ConfiguracaoEmpresaResponse{
		NomeEmpresa:      c.NomeEmpresa,
		CNPJ:             c.CNPJ,
		EnderecoCompleto: c.EnderecoCompleto,
		ContatoEmail:     c.ContatoEmail,
		ContatoTelefone:  c.ContatoTelefone,
		Site:             c.Site,
		Configurada:      true,
	}
}

// carregar returns the stored profile, or nil when none exists yet.
func (s *configuracaoService) carregar(ctx context.Context) (*model.ConfiguracaoEmpresa, error) {
	c, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (s *configuracaoService) Obter(ctx context.Context) (*dto.ConfiguracaoEmpresaResponse, error) {
	c, err := s.carregar(ctx)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return &dto.ConfiguracaoEmpresaResponse{NomeEmpresa: s.nomePadrao}, nil
	}
	resp := mapConfiguracao(c)
	return &resp, nil
}

func (s *configuracaoService) Salvar(ctx context.Context, req dto.ConfiguracaoEmpresaRequest) (*dto.ConfiguracaoEmpresaResponse, error) {
	c := &model.ConfiguracaoEmpresa{
		Singleton:        true,
		NomeEmpresa:      req.NomeEmpresa,
		CNPJ:             req.CNPJ,
		EnderecoCompleto: req.EnderecoCompleto,
		ContatoEmail:     req.ContatoEmail,
		ContatoTelefone:  req.ContatoTelefone,
		Site:             req.Site,
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := mapConfiguracao(c)
	return &resp, nil
}

func (s *configuracaoService) DadosEmpresa(ctx context.Context) (infra.DadosEmpresa, error) {
	c, err := s.carregar(ctx)
	if err != nil {
		return infra.DadosEmpresa{}, err
	}
	if c == nil {
		return infra.DadosEmpresa{Nome: s.nomePadrao}, nil
	}
	return infra.DadosEmpresa{
		Nome:     c.NomeEmpresa,
		CNPJ:     deref(c.CNPJ),
		Endereco: c.EnderecoCompleto,
		Email:    deref(c.ContatoEmail),
		Telefone: c.ContatoTelefone,
		Site:     deref(c.Site),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
