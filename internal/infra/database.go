package infra

import (
	"fmt"

	"github.com/acavalcante04/erp-security/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the GORM connection and, when autoMigrate is set, brings the
// schema up to date.
func NewDatabase(dsn string, autoMigrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if autoMigrate {
		if err := RunMigrations(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// RunMigrations runs AutoMigrate followed by the schema patches. Integration tests
// call it directly against their container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Categoria{},
		&model.Produto{},
		&model.Cliente{},
		&model.Endereco{},
		&model.ContatoSecundario{},
		&model.Orcamento{},
		&model.ItemOrcamento{},
		&model.OrdemServico{},
		&model.ConfiguracaoEmpresa{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that GORM tags cannot express: partial
// indexes and CHECK constraints. Each statement is guarded so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// one service order per origin quote; standalone orders (NULL origin) are unrestricted
		{"idx_os_orcamento_origem", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_os_orcamento_origem
    ON ordens_servico (orcamento_origem_id)
    WHERE orcamento_origem_id IS NOT NULL`},

		// company profile: the unique singleton column plus this check allow exactly one row
		{"chk_configuracao_singleton", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_configuracao_singleton') THEN
    ALTER TABLE configuracao_empresa
      ADD CONSTRAINT chk_configuracao_singleton CHECK (singleton);
  END IF;
END $$`},

		{"chk_itens_orcamento_quantidade", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_itens_orcamento_quantidade') THEN
    ALTER TABLE itens_orcamento
      ADD CONSTRAINT chk_itens_orcamento_quantidade CHECK (quantidade > 0);
  END IF;
END $$`},

		{"chk_orcamentos_desconto", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_orcamentos_desconto') THEN
    ALTER TABLE orcamentos
      ADD CONSTRAINT chk_orcamentos_desconto CHECK (desconto >= 0);
  END IF;
END $$`},

		{"chk_ordens_servico_desconto", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ordens_servico_desconto') THEN
    ALTER TABLE ordens_servico
      ADD CONSTRAINT chk_ordens_servico_desconto CHECK (desconto >= 0);
  END IF;
END $$`},

		// lines die with their quote even if the FK predates the OnDelete tag
		{"fk_orcamentos_itens cascade", `
DO $$ BEGIN
  IF EXISTS (SELECT 1 FROM pg_constraint
             WHERE conname = 'fk_orcamentos_itens' AND confdeltype <> 'c') THEN
    ALTER TABLE itens_orcamento DROP CONSTRAINT fk_orcamentos_itens;
    ALTER TABLE itens_orcamento
      ADD CONSTRAINT fk_orcamentos_itens
      FOREIGN KEY (orcamento_id) REFERENCES orcamentos(id) ON DELETE CASCADE;
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
