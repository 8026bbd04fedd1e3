// Command seeduser creates or resets a login, typically the first administrator.
//
//	go run ./cmd/seeduser -username admin -password 'troque-me' -rol administrador
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/acavalcante04/erp-security/internal/config"
	"github.com/acavalcante04/erp-security/internal/infra"
	"github.com/acavalcante04/erp-security/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := flag.String("username", "admin", "login")
	password := flag.String("password", "", "senha (mínimo 8 caracteres)")
	nome := flag.String("nome", "Administrador", "nome exibido")
	rol := flag.String("rol", model.RolAdministrador, "administrador | tecnico | financeiro")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal().Msg("-password deve ter ao menos 8 caracteres")
	}
	switch *rol {
	case model.RolAdministrador, model.RolTecnico, model.RolFinanceiro:
	default:
		log.Fatal().Str("rol", *rol).Msg("perfil inválido")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBAutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	u := &model.Usuario{
		Username:     *username,
		Nome:         *nome,
		PasswordHash: string(hash),
		Rol:          *rol,
		Ativo:        true,
	}
	err = db.WithContext(context.Background()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"nome", "password_hash", "rol", "ativo", "updated_at"}),
	}).Create(u).Error
	if err != nil {
		log.Fatal().Err(err).Msg("falha ao gravar usuário")
	}
	log.Info().Str("username", *username).Str("rol", *rol).Msg("usuário criado/atualizado")
}
