package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dhruvkatara/threadreel-backend/pkg/enums"
)

// CustomerQuery is a contact-form message left by a visitor.
type CustomerQuery struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string            `gorm:"column:name;not null"`
	Email     string            `gorm:"column:email;not null"`
	Message   string            `gorm:"column:message;not null"`
	Status    enums.QueryStatus `gorm:"column:status;type:query_status;not null;default:'pending'"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
