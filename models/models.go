// models/models.go
package models

import (
	"time"
)

// RunRecord 一局通关记录, 在房间广播 gameComplete 后归档.
// 只写不读: 进程重启不恢复任何会话状态.
type RunRecord struct {
	RoomCode        string      `json:"room_code"`
	Players         []RunPlayer `json:"players"`
	LevelsCleared   int         `json:"levels_cleared"`
	DurationSeconds int         `json:"duration_seconds"`
	CompletedAt     time.Time   `json:"completed_at"`
}

// RunPlayer 通关时在场的玩家
type RunPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
