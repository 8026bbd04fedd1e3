package repository

import (
	"context"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrcamentoRepository covers quotes and their lines. Methods taking a tx run inside
// the caller's transaction when tx is non-nil.
type OrcamentoRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.Orcamento) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Orcamento, error)
	// FindByIDForUpdate locks the quote row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Orcamento, error)
	List(ctx context.Context, filter dto.OrcamentoFilter) ([]model.Orcamento, int64, error)
	Update(ctx context.Context, tx *gorm.DB, o *model.Orcamento) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	CreateItem(ctx context.Context, tx *gorm.DB, it *model.ItemOrcamento) error
	FindItem(ctx context.Context, tx *gorm.DB, orcamentoID, itemID uuid.UUID) (*model.ItemOrcamento, error)
	UpdateItem(ctx context.Context, tx *gorm.DB, it *model.ItemOrcamento) error
	DeleteItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error
	// SumSubtotais returns Σ subtotal of the quote's lines as stored.
	SumSubtotais(ctx context.Context, tx *gorm.DB, orcamentoID uuid.UUID) (decimal.Decimal, error)

	DB() *gorm.DB
}

type orcamentoRepo struct{ db *gorm.DB }

func NewOrcamentoRepository(db *gorm.DB) OrcamentoRepository { return &orcamentoRepo{db: db} }

func (r *orcamentoRepo) DB() *gorm.DB { return r.db }

func (r *orcamentoRepo) Create(ctx context.Context, tx *gorm.DB, o *model.Orcamento) error {
	return conn(ctx, r.db, tx).Omit("Cliente", "Itens.Produto").Create(o).Error
}

func (r *orcamentoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Orcamento, error) {
	var o model.Orcamento
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Itens", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Itens.Produto").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orcamentoRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Orcamento, error) {
	var o model.Orcamento
	err := conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *orcamentoRepo) List(ctx context.Context, filter dto.OrcamentoFilter) ([]model.Orcamento, int64, error) {
	var list []model.Orcamento
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Orcamento{})
	if filter.Status != "" {
		q = q.Where("orcamentos.status = ?", filter.Status)
	}
	if filter.Cliente != "" {
		q = q.Joins("JOIN clientes ON clientes.id = orcamentos.cliente_id").
			Where("clientes.nome ILIKE ?", "%"+filter.Cliente+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(q.Preload("Cliente").Preload("Itens.Produto").Order("orcamentos.created_at DESC"),
		filter.Page, filter.Limit).Find(&list).Error
	return list, total, err
}

func (r *orcamentoRepo) Update(ctx context.Context, tx *gorm.DB, o *model.Orcamento) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Save(o).Error
}

func (r *orcamentoRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	// itens_orcamento rows go with it (ON DELETE CASCADE)
	return conn(ctx, r.db, tx).Delete(&model.Orcamento{}, "id = ?", id).Error
}

func (r *orcamentoRepo) CreateItem(ctx context.Context, tx *gorm.DB, it *model.ItemOrcamento) error {
	return conn(ctx, r.db, tx).Omit("Produto").Create(it).Error
}

func (r *orcamentoRepo) FindItem(ctx context.Context, tx *gorm.DB, orcamentoID, itemID uuid.UUID) (*model.ItemOrcamento, error) {
	var it model.ItemOrcamento
	err := conn(ctx, r.db, tx).Where("id = ? AND orcamento_id = ?", itemID, orcamentoID).First(&it).Error
	return &it, err
}

func (r *orcamentoRepo) UpdateItem(ctx context.Context, tx *gorm.DB, it *model.ItemOrcamento) error {
	return conn(ctx, r.db, tx).Omit("Produto").Save(it).Error
}

func (r *orcamentoRepo) DeleteItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error {
	return conn(ctx, r.db, tx).Delete(&model.ItemOrcamento{}, "id = ?", itemID).Error
}

func (r *orcamentoRepo) SumSubtotais(ctx context.Context, tx *gorm.DB, orcamentoID uuid.UUID) (decimal.Decimal, error) {
	var soma decimal.Decimal
	err := conn(ctx, r.db, tx).Model(&model.ItemOrcamento{}).
		Select("COALESCE(SUM(subtotal), 0)").
		Where("orcamento_id = ?", orcamentoID).
		Row().Scan(&soma)
	return soma, err
}
