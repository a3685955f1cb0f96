package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Note struct {
	Id        uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string                      `gorm:"type:varchar(255);not null"`
	Body      string                      `gorm:"type:text"`
	Tags      datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt time.Time                   `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt              `gorm:"index"`
}

func (Note) TableName() string {
	return "notes"
}
