package models

import (
	"time"

	"github.com/google/uuid"
)

// HomeText holds the editable copy shown on the landing page.
type HomeText struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Heading   string    `gorm:"column:heading;not null"`
	Subtext   string    `gorm:"column:subtext;not null;default:''"`
	BannerURL *string   `gorm:"column:banner_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (HomeText) TableName() string {
	return "home_texts"
}
