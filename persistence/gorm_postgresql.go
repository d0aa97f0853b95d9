// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"

	"github.com/wfunc/mazeserver/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GormPostgreSQL 基于 GORM 的存储实现
type GormPostgreSQL struct {
	db *gorm.DB
}

func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// 自动建表
	if err := db.AutoMigrate(&models.GormRunRecord{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveRunRecord 保存一条通关记录
func (p *GormPostgreSQL) SaveRunRecord(record *models.RunRecord) error {
	row := models.GormRunRecord{
		RoomCode:        record.RoomCode,
		Players:         record.Players,
		LevelsCleared:   record.LevelsCleared,
		DurationSeconds: record.DurationSeconds,
	}
	return p.db.Create(&row).Error
}

// GetRunStats 聚合通关统计
func (p *GormPostgreSQL) GetRunStats() (map[string]interface{}, error) {
	var stats struct {
		TotalRuns      int64
		AvgDurationSec float64
	}

	err := p.db.Model(&models.GormRunRecord{}).
		Select("COUNT(*) as total_runs, COALESCE(AVG(duration_seconds), 0) as avg_duration_sec").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_runs":       stats.TotalRuns,
		"avg_duration_sec": stats.AvgDurationSec,
	}, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
