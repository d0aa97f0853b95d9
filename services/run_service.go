// services/run_service.go
package services

import (
	"time"

	"github.com/wfunc/mazeserver/logger"
	"github.com/wfunc/mazeserver/models"
	"github.com/wfunc/mazeserver/monitor"
	"github.com/wfunc/mazeserver/persistence"
	"github.com/wfunc/mazeserver/room"
	"github.com/wfunc/mazeserver/state"
)

// RunRecordService 在一局游戏通关后把记录写入存储. 写入是即发即弃的,
// 失败只记日志, 绝不影响房间状态.
type RunRecordService struct {
	db  persistence.Database // nil disables archiving
	mon *monitor.Monitor
}

func NewRunRecordService(db persistence.Database, mon *monitor.Monitor) *RunRecordService {
	return &RunRecordService{db: db, mon: mon}
}

// ArchiveRun 归档一局通关的房间. db 未配置时只计数不落库.
func (s *RunRecordService) ArchiveRun(r *room.Room) {
	if s.mon != nil {
		s.mon.IncCompletedRuns()
	}
	if s.db == nil {
		return
	}

	snap := r.Snapshot()
	players := make([]models.RunPlayer, 0, len(snap.Players))
	for _, p := range snap.Players {
		players = append(players, models.RunPlayer{ID: p.ID, Name: p.Name})
	}

	record := &models.RunRecord{
		RoomCode:        r.Code,
		Players:         players,
		LevelsCleared:   state.MaxLevel + 1,
		DurationSeconds: int(time.Since(r.CreatedAt).Seconds()),
		CompletedAt:     time.Now(),
	}

	go func() {
		if err := s.db.SaveRunRecord(record); err != nil {
			logger.Log.Errorf("Failed to archive run for room %s: %v", record.RoomCode, err)
		}
	}()
}

// Stats 返回通关统计, db 未配置时返回空集合.
func (s *RunRecordService) Stats() (map[string]interface{}, error) {
	if s.db == nil {
		return map[string]interface{}{}, nil
	}
	return s.db.GetRunStats()
}
