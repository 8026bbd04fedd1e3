package repository

import (
	"context"

	"github.com/acavalcante04/erp-security/internal/dto"
	"github.com/acavalcante04/erp-security/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClienteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	FindByDocumento(ctx context.Context, cpfCnpj string) (*model.Cliente, error)
	List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, int64, error)
	Update(ctx context.Context, tx *gorm.DB, c *model.Cliente) error
	// ReplaceEnderecos / ReplaceContatos swap the whole child collection.
	ReplaceEnderecos(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, enderecos []model.Endereco) error
	ReplaceContatos(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, contatos []model.ContatoSecundario) error
	DB() *gorm.DB
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) DB() *gorm.DB { return r.db }

func (r *clienteRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Cliente) error {
	return conn(ctx, r.db, tx).Omit("TecnicoResponsavel").Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).
		Preload("Enderecos").
		Preload("ContatosSecundarios").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clienteRepo) FindByDocumento(ctx context.Context, cpfCnpj string) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).Where("cpf_cnpj = ?", cpfCnpj).First(&c).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var clientes []model.Cliente
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cliente{})
	if filter.Busca != "" {
		like := "%" + filter.Busca + "%"
		q = q.Where("nome ILIKE ? OR nome_fantasia ILIKE ? OR cpf_cnpj LIKE ?", like, like, like)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(q.Preload("Enderecos").Preload("ContatosSecundarios").Order("nome ASC"),
		filter.Page, filter.Limit).Find(&clientes).Error
	return clientes, total, err
}

func (r *clienteRepo) Update(ctx context.Context, tx *gorm.DB, c *model.Cliente) error {
	return conn(ctx, r.db, tx).Omit(clause.Associations).Save(c).Error
}

func (r *clienteRepo) ReplaceEnderecos(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, enderecos []model.Endereco) error {
	db := conn(ctx, r.db, tx)
	if err := db.Where("cliente_id = ?", clienteID).Delete(&model.Endereco{}).Error; err != nil {
		return err
	}
	if len(enderecos) == 0 {
		return nil
	}
	for i := range enderecos {
		enderecos[i].ClienteID = clienteID
	}
	return db.Create(&enderecos).Error
}

func (r *clienteRepo) ReplaceContatos(ctx context.Context, tx *gorm.DB, clienteID uuid.UUID, contatos []model.ContatoSecundario) error {
	db := conn(ctx, r.db, tx)
	if err := db.Where("cliente_id = ?", clienteID).Delete(&model.ContatoSecundario{}).Error; err != nil {
		return err
	}
	if len(contatos) == 0 {
		return nil
	}
	for i := range contatos {
		contatos[i].ClienteID = clienteID
	}
	return db.Create(&contatos).Error
}
