package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria groups catalog entries, e.g. Câmeras, Cabos, Mão de Obra.
type Categoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"uniqueIndex;not null"`
	Ativo     bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
