package service

import (
	"context"
	"errors"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/model"
	"github.com/acavalcante04/erp-security/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaService defines business operations for catalog categories.
type CategoriaService interface {
	Criar(ctx context.Context, req dto.CriarCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Desativar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{ID: c.ID, Nome: c.Nome, Ativo: c.Ativo}
}

func (s *categoriaService) nomeEmUso(ctx context.Context, nome string, exceto uuid.UUID) error {
	existing, err := s.repo.ObterPorNome(ctx, nome)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != exceto {
		return conflito("já existe uma categoria com esse nome")
	}
	return nil
}

func (s *categoriaService) Criar(ctx context.Context, req dto.CriarCategoriaRequest) (dto.CategoriaResponse, error) {
	if err := s.nomeEmUso(ctx, req.Nome, uuid.Nil); err != nil {
		return dto.CategoriaResponse{}, err
	}
	c := &model.Categoria{Nome: req.Nome, Ativo: true}
	if err := s.repo.Criar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Atualizar(ctx context.Context, id uuid.UUID, req dto.AtualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.ObterPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoriaResponse{}, referencia("categoria não encontrada")
		}
		return dto.CategoriaResponse{}, err
	}
	if req.Nome != nil && *req.Nome != c.Nome {
		if err := s.nomeEmUso(ctx, *req.Nome, c.ID); err != nil {
			return dto.CategoriaResponse{}, err
		}
		c.Nome = *req.Nome
	}
	if req.Ativo != nil {
		c.Ativo = *req.Ativo
	}
	if err := s.repo.Atualizar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Desativar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.ObterPorID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return referencia("categoria não encontrada")
		}
		return err
	}
	return s.repo.Desativar(ctx, id)
}
