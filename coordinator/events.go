// coordinator/events.go
package coordinator

import (
	"github.com/wfunc/mazeserver/room"
)

// 入站事件载荷

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type JoinRoomRequest struct {
	RoomCode string `json:"roomCode"`
	Name     string `json:"name"`
}

type TerminalActivatedRequest struct {
	TerminalIndex int `json:"terminalIndex"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

// 出站事件载荷, 字段名与客户端协议对齐

// CreatedRoomInfo 建房回执里的房间视图. 有意不含 completedCodes:
// 房主建房时集合必然为空, 协议兼容起见保持这一形状.
type CreatedRoomInfo struct {
	CurrentLevel int           `json:"currentLevel"`
	MapSeed      float64       `json:"mapSeed"`
	Players      []room.Player `json:"players"`
}

type RoomCreatedPayload struct {
	RoomCode string          `json:"roomCode"`
	Player   room.Player     `json:"player"`
	Room     CreatedRoomInfo `json:"room"`
}

type RoomJoinedPayload struct {
	RoomCode string        `json:"roomCode"`
	Player   room.Player   `json:"player"`
	Room     room.Snapshot `json:"room"`
}

type PlayerMovedPayload struct {
	ID string `json:"id"`
	room.Update
}

type CodeCollectedPayload struct {
	PlayerID      string `json:"playerId"`
	PlayerName    string `json:"playerName"`
	TerminalIndex int    `json:"terminalIndex"`
	TotalCodes    int    `json:"totalCodes"`
}

type LevelCompletePayload struct {
	NewLevel int     `json:"newLevel"`
	MapSeed  float64 `json:"mapSeed"`
}

type PlayerDeadPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ChatPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

type PlayerLeftPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
