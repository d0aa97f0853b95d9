// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormRunRecord 通关记录表模型
type GormRunRecord struct {
	gorm.Model
	RoomCode        string      `gorm:"index;not null"`
	Players         []RunPlayer `gorm:"serializer:json"`
	LevelsCleared   int         `gorm:"not null"`
	DurationSeconds int         `gorm:"default:0"`
}
