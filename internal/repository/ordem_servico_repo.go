package repository

import (
	"context"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdemServicoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, os *model.OrdemServico) error
	// FindByID preloads client, technician and the origin quote with its lines.
	FindByID(ctx context.Context, id uuid.UUID) (*model.OrdemServico, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.OrdemServico, error)
	ExistsByOrcamentoOrigem(ctx context.Context, tx *gorm.DB, orcamentoID uuid.UUID) (bool, error)
	List(ctx context.Context, filter dto.OrdemServicoFilter) ([]model.OrdemServico, int64, error)
	// ListAll is List without pagination, used by the spreadsheet export.
	ListAll(ctx context.Context, filter dto.OrdemServicoFilter) ([]model.OrdemServico, error)
	Update(ctx context.Context, tx *gorm.DB, os *model.OrdemServico) error
	DB() *gorm.DB
}

type ordemServicoRepo struct{ db *gorm.DB }

func NewOrdemServicoRepository(db *gorm.DB) OrdemServicoRepository {
	return &ordemServicoRepo{db: db}
}

func (r *ordemServicoRepo) DB() *gorm.DB { return r.db }

func (r *ordemServicoRepo) Create(ctx context.Context, tx *gorm.DB, os *model.OrdemServico) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Create(os).Error
}

func (r *ordemServicoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.OrdemServico, error) {
	var os model.OrdemServico
	err := r.preloads(r.db.WithContext(ctx)).First(&os, "id = ?", id).Error
	return &os, err
}

func (r *ordemServicoRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.OrdemServico, error) {
	var os model.OrdemServico
	err := conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&os, "id = ?", id).Error
	return &os, err
}

func (r *ordemServicoRepo) ExistsByOrcamentoOrigem(ctx context.Context, tx *gorm.DB, orcamentoID uuid.UUID) (bool, error) {
	var n int64
	err := conn(ctx, r.db, tx).Model(&model.OrdemServico{}).
		Where("orcamento_origem_id = ?", orcamentoID).
		Count(&n).Error
	return n > 0, err
}

func (r *ordemServicoRepo) filtered(ctx context.Context, filter dto.OrdemServicoFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.OrdemServico{})
	if filter.Status != "" {
		q = q.Where("ordens_servico.status = ?", filter.Status)
	}
	if filter.TecnicoID != "" {
		q = q.Where("ordens_servico.tecnico_id = ?", filter.TecnicoID)
	}
	if filter.Cliente != "" {
		q = q.Joins("JOIN clientes ON clientes.id = ordens_servico.cliente_id").
			Where("clientes.nome ILIKE ?", "%"+filter.Cliente+"%")
	}
	return q
}

func (r *ordemServicoRepo) preloads(q *gorm.DB) *gorm.DB {
	return q.Preload("Cliente").
		Preload("Tecnico").
		Preload("OrcamentoOrigem").
		Preload("OrcamentoOrigem.Itens").
		Preload("OrcamentoOrigem.Itens.Produto")
}

func (r *ordemServicoRepo) List(ctx context.Context, filter dto.OrdemServicoFilter) ([]model.OrdemServico, int64, error) {
	var list []model.OrdemServico
	var total int64

	q := r.filtered(ctx, filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(r.preloads(q).Order("ordens_servico.data_abertura DESC"), filter.Page, filter.Limit).
		Find(&list).Error
	return list, total, err
}

func (r *ordemServicoRepo) ListAll(ctx context.Context, filter dto.OrdemServicoFilter) ([]model.OrdemServico, error) {
	var list []model.OrdemServico
	err := r.filtered(ctx, filter).
		Preload("Cliente").Preload("Tecnico").Preload("OrcamentoOrigem").
		Order("ordens_servico.data_abertura DESC").
		Find(&list).Error
	return list, err
}

func (r *ordemServicoRepo) Update(ctx context.Context, tx *gorm.DB, os *model.OrdemServico) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Save(os).Error
}
