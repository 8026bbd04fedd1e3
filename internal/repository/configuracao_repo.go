package repository

import (
	"context"

	"github.com/acavalcante04/erp-security/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConfiguracaoRepository reads and writes the single company profile row.
type ConfiguracaoRepository interface {
	// Get returns gorm.ErrRecordNotFound while no profile has been saved.
	Get(ctx context.Context) (*model.ConfiguracaoEmpresa, error)
	Save(ctx context.Context, c *model.ConfiguracaoEmpresa) error
}

type configuracaoRepo struct{ db *gorm.DB }

func NewConfiguracaoRepository(db *gorm.DB) ConfiguracaoRepository {
	return &configuracaoRepo{db: db}
}

func (r *configuracaoRepo) Get(ctx context.Context) (*model.ConfiguracaoEmpresa, error) {
	var c model.ConfiguracaoEmpresa
	err := r.db.WithContext(ctx).Where("singleton = true").First(&c).Error
	return &c, err
}

// Save upserts on the singleton column, so a second profile row can never appear.
func (r *configuracaoRepo) Save(ctx context.Context, c *model.ConfiguracaoEmpresa) error {
	c.Singleton = true
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "singleton"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"nome_empresa", "cnpj", "endereco_completo", "contato_email",
			"contato_telefone", "site", "updated_at",
		}),
	}).Create(c).Error
}
