package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/model"
	"github.com/acavalcante04/erp-security/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteService interface {
	Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error)
	ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error)
}

type clienteService struct {
	repo     repository.ClienteRepository
	tecnicos VerificadorTecnico
}

func NewClienteService(repo repository.ClienteRepository, tecnicos VerificadorTecnico) ClienteService {
	return &clienteService{repo: repo, tecnicos: tecnicos}
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func mapCliente(c *model.Cliente) dto.ClienteResponse {
	resp := dto.ClienteResponse{
		ID:           c.ID.String(),
		Tipo:         c.Tipo,
		Nome:         c.Nome,
		NomeFantasia: c.NomeFantasia,
		CPFCNPJ:      c.CPFCNPJ,
		RGIE:         c.RGIE,
		Telefone:     c.Telefone,
		Email:        c.Email,
		Observacoes:  c.Observacoes,
		Enderecos:    make([]dto.EnderecoResponse, 0, len(c.Enderecos)),
		Contatos:     make([]dto.ContatoResponse, 0, len(c.ContatosSecundarios)),
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
	if c.TecnicoResponsavelID != nil {
		id := c.TecnicoResponsavelID.String()
		resp.TecnicoResponsavelID = &id
	}
	for _, e := range c.Enderecos {
		resp.Enderecos = append(resp.Enderecos, dto.EnderecoResponse{
			ID: e.ID.String(), Descricao: e.Descricao, Logradouro: e.Logradouro, Numero: e.Numero,
			Complemento: e.Complemento, Bairro: e.Bairro, Cidade: e.Cidade, Estado: e.Estado,
			CEP: e.CEP, Referencia: e.Referencia,
		})
	}
	for _, ct := range c.ContatosSecundarios {
		resp.Contatos = append(resp.Contatos, dto.ContatoResponse{
			ID: ct.ID.String(), Nome: ct.Nome, CargoParentesco: ct.CargoParentesco, Telefone: ct.Telefone,
		})
	}
	return resp
}

func resumoCliente(c *model.Cliente) dto.ClienteResumo {
	if c == nil {
		return dto.ClienteResumo{}
	}
	return dto.ClienteResumo{ID: c.ID.String(), Nome: c.Nome, Telefone: c.Telefone, CPFCNPJ: c.CPFCNPJ}
}

func enderecosFromDTO(in []dto.EnderecoRequest) []model.Endereco {
	out := make([]model.Endereco, len(in))
	for i, e := range in {
		out[i] = model.Endereco{
			Descricao:   e.Descricao,
			Logradouro:  e.Logradouro,
			Numero:      e.Numero,
			Complemento: e.Complemento,
			Bairro:      e.Bairro,
			Cidade:      e.Cidade,
			Estado:      strings.ToUpper(e.Estado),
			CEP:         e.CEP,
			Referencia:  e.Referencia,
		}
		if out[i].Descricao == "" {
			out[i].Descricao = "Principal"
		}
		if out[i].Estado == "" {
			out[i].Estado = "BA"
		}
	}
	return out
}

func contatosFromDTO(in []dto.ContatoRequest) []model.ContatoSecundario {
	out := make([]model.ContatoSecundario, len(in))
	for i, c := range in {
		out[i] = model.ContatoSecundario{Nome: c.Nome, CargoParentesco: c.CargoParentesco, Telefone: c.Telefone}
	}
	return out
}

// normalizarDocumento keeps only digits so "123.456.789-00" and "12345678900" collide.
func normalizarDocumento(doc string) string {
	var b strings.Builder
	for _, r := range doc {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *clienteService) resolverTecnico(ctx context.Context, raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, validacao("tecnico_responsavel_id inválido")
	}
	if err := exigirTecnico(ctx, s.tecnicos, id); err != nil {
		return nil, err
	}
	return &id, nil
}

// ── Operations ───────────────────────────────────────────────────────────────

func (s *clienteService) Criar(ctx context.Context, req dto.CriarClienteRequest) (*dto.ClienteResponse, error) {
	doc := normalizarDocumento(req.CPFCNPJ)
	switch {
	case req.Tipo == model.PessoaFisica && len(doc) != 11:
		return nil, validacao("CPF deve ter 11 dígitos")
	case req.Tipo == model.PessoaJuridica && len(doc) != 14:
		return nil, validacao("CNPJ deve ter 14 dígitos")
	}
	if _, err := s.repo.FindByDocumento(ctx, doc); err == nil {
		return nil, conflito("já existe um cliente com o documento %s", doc)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tecnicoID, err := s.resolverTecnico(ctx, req.TecnicoResponsavelID)
	if err != nil {
		return nil, err
	}

	c := &model.Cliente{
		Tipo:                 req.Tipo,
		Nome:                 req.Nome,
		NomeFantasia:         req.NomeFantasia,
		CPFCNPJ:              doc,
		RGIE:                 req.RGIE,
		Telefone:             req.Telefone,
		Email:                req.Email,
		TecnicoResponsavelID: tecnicoID,
		Observacoes:          req.Observacoes,
		Enderecos:            enderecosFromDTO(req.Enderecos),
		ContatosSecundarios:  contatosFromDTO(req.Contatos),
	}
	if err := s.repo.Create(ctx, nil, c); err != nil {
		return nil, err
	}
	resp := mapCliente(c)
	return &resp, nil
}

func (s *clienteService) ObterPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencia("cliente não encontrado")
		}
		return nil, err
	}
	resp := mapCliente(c)
	return &resp, nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClienteResponse, len(list))
	for i := range list {
		data[i] = mapCliente(&list[i])
	}
	return &dto.ClienteListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPaginas(total, filter.Limit),
	}, nil
}

func (s *clienteService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, referencia("cliente não encontrado")
		}
		return nil, err
	}

	if req.Nome != nil {
		c.Nome = *req.Nome
	}
	if req.NomeFantasia != nil {
		c.NomeFantasia = req.NomeFantasia
	}
	if req.RGIE != nil {
		c.RGIE = req.RGIE
	}
	if req.Telefone != nil {
		c.Telefone = *req.Telefone
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Observacoes != nil {
		c.Observacoes = *req.Observacoes
	}
	if req.TecnicoResponsavelID != nil {
		if c.TecnicoResponsavelID, err = s.resolverTecnico(ctx, req.TecnicoResponsavelID); err != nil {
			return nil, err
		}
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, c); err != nil {
			return err
		}
		if req.Enderecos != nil {
			c.Enderecos = enderecosFromDTO(*req.Enderecos)
			if err := s.repo.ReplaceEnderecos(ctx, tx, c.ID, c.Enderecos); err != nil {
				return err
			}
		}
		if req.Contatos != nil {
			c.ContatosSecundarios = contatosFromDTO(*req.Contatos)
			if err := s.repo.ReplaceContatos(ctx, tx, c.ID, c.ContatosSecundarios); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := mapCliente(c)
	return &resp, nil
}
