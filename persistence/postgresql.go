// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/mazeserver/models"
)

// PostgreSQL 基于 database/sql 的存储实现, 不依赖 ORM.
type PostgreSQL struct {
	db *sql.DB
}

func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS run_records (
            id SERIAL PRIMARY KEY,
            room_code VARCHAR(6) NOT NULL,
            players JSONB NOT NULL,
            levels_cleared INT NOT NULL,
            duration_seconds INT NOT NULL DEFAULT 0,
            completed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_run_records_room_code ON run_records (room_code)`)
	return err
}

// SaveRunRecord 保存一条通关记录
func (p *PostgreSQL) SaveRunRecord(record *models.RunRecord) error {
	players, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(`
        INSERT INTO run_records (room_code, players, levels_cleared, duration_seconds, completed_at)
        VALUES ($1, $2, $3, $4, $5)`,
		record.RoomCode, players, record.LevelsCleared, record.DurationSeconds, record.CompletedAt)
	return err
}

// GetRunStats 聚合通关统计
func (p *PostgreSQL) GetRunStats() (map[string]interface{}, error) {
	var totalRuns int64
	var avgDuration float64

	err := p.db.QueryRow(`
        SELECT COUNT(*), COALESCE(AVG(duration_seconds), 0)
        FROM run_records`).Scan(&totalRuns, &avgDuration)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"total_runs":       totalRuns,
		"avg_duration_sec": avgDuration,
	}, nil
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
