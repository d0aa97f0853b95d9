package services

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/wfunc/mazeserver/logger"
	"github.com/wfunc/mazeserver/models"
	"github.com/wfunc/mazeserver/room"
	"github.com/wfunc/mazeserver/state"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// fakeDatabase records saved runs in memory.
type fakeDatabase struct {
	mu    sync.Mutex
	saved []*models.RunRecord
}

func (f *fakeDatabase) SaveRunRecord(record *models.RunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, record)
	return nil
}

func (f *fakeDatabase) GetRunStats() (map[string]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return map[string]interface{}{"total_runs": int64(len(f.saved))}, nil
}

func (f *fakeDatabase) Close() error { return nil }

func (f *fakeDatabase) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func TestArchiveRun(t *testing.T) {
	db := &fakeDatabase{}
	svc := NewRunRecordService(db, nil)

	r := room.New("ABC123", "a", "Alice")
	r.AddPlayer("b", "Bob")

	svc.ArchiveRun(r)

	// the write is asynchronous
	deadline := time.Now().Add(time.Second)
	for db.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if db.count() != 1 {
		t.Fatalf("Expected 1 archived run, got %d", db.count())
	}

	rec := db.saved[0]
	if rec.RoomCode != "ABC123" {
		t.Errorf("Expected room code ABC123, got %s", rec.RoomCode)
	}
	if len(rec.Players) != 2 {
		t.Errorf("Expected 2 players in record, got %d", len(rec.Players))
	}
	if rec.LevelsCleared != state.MaxLevel+1 {
		t.Errorf("Expected %d levels cleared, got %d", state.MaxLevel+1, rec.LevelsCleared)
	}
}

func TestArchiveRun_NilDatabase(t *testing.T) {
	svc := NewRunRecordService(nil, nil)
	r := room.New("ABC123", "a", "Alice")

	// must not panic and must not block
	svc.ArchiveRun(r)

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats with nil database should not error: %v", err)
	}
	if len(stats) != 0 {
		t.Errorf("Expected empty stats with nil database, got %v", stats)
	}
}

func TestStats(t *testing.T) {
	db := &fakeDatabase{}
	svc := NewRunRecordService(db, nil)

	stats, err := svc.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["total_runs"] != int64(0) {
		t.Errorf("Expected 0 total runs, got %v", stats["total_runs"])
	}
}
