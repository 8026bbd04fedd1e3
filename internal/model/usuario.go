package model

import (
	"time"

	"github.com/google/uuid"
)

// Perfis de acesso.
const (
	RolAdministrador = "administrador"
	RolTecnico       = "tecnico"
	RolFinanceiro    = "financeiro"
)

// Usuario stores system users with role-based access.
// Rol: "administrador" | "tecnico" | "financeiro"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nome         string    `gorm:"not null"`
	Email        *string
	Telefone     *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null;default:'tecnico'"`
	Ativo        bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EhTecnico reports whether the user currently holds the technician role.
func (u *Usuario) EhTecnico() bool {
	return u != nil && u.Ativo && u.Rol == RolTecnico
}
