// room/room.go
package room

import (
	"errors"
	"sync"
	"time"

	"github.com/wfunc/mazeserver/state"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
)

// MaxPlayers 单房间容量上限
const MaxPlayers = 8

// Room 是一局合作游戏的权威状态: 成员, 每个玩家的瞬时状态, 关卡进度.
// 所有修改操作都在房间自己的锁内完成, 跨房间操作互不协调.
type Room struct {
	Code       string
	MaxPlayers int
	CreatedAt  time.Time

	mu       sync.Mutex
	players  map[string]*Player
	order    []string // join order, preserved for snapshots
	progress *state.Progress
}

// New 创建房间并把房主作为第一个玩家加入. 新房间永远容得下房主,
// 所以这里不会返回 ErrRoomFull.
func New(code, hostID, hostName string) *Room {
	r := &Room{
		Code:       code,
		MaxPlayers: MaxPlayers,
		CreatedAt:  time.Now(),
		players:    make(map[string]*Player),
		progress:   state.NewProgress(),
	}
	r.addPlayerLocked(hostID, hostName)
	return r
}

// AddPlayer 添加一个玩家, 颜色按插入前的人数取模调色板分配.
func (r *Room) AddPlayer(id, name string) (Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 同一连接重复加入不改变成员表
	if p, exists := r.players[id]; exists {
		return *p, nil
	}
	if len(r.players) >= r.MaxPlayers {
		return Player{}, ErrRoomFull
	}
	return r.addPlayerLocked(id, name), nil
}

func (r *Room) addPlayerLocked(id, name string) Player {
	p := newPlayer(id, name, len(r.players))
	r.players[id] = p
	r.order = append(r.order, id)
	return *p
}

// RemovePlayer 移除玩家, 不存在则为空操作. 剩余玩家的颜色不重新分配.
func (r *Room) RemovePlayer(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.players[id]; !exists {
		return
	}
	delete(r.players, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// UpdatePlayer merges the caller-supplied fields into that player's own
// state. Returns false (and changes nothing) if the player is absent, which
// callers treat as a silently-dropped late message.
func (r *Room) UpdatePlayer(id string, u Update) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.players[id]
	if !exists {
		return false
	}
	if u.Position != nil {
		p.Position = *u.Position
	}
	if u.Yaw != nil {
		p.Yaw = *u.Yaw
	}
	if u.Pitch != nil {
		p.Pitch = *u.Pitch
	}
	if u.Light != nil {
		p.Light = *u.Light
	}
	return true
}

// MarkDead 标记玩家死亡, 返回玩家当时的副本.
func (r *Room) MarkDead(id string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.players[id]
	if !exists {
		return Player{}, false
	}
	p.Dead = true
	return *p, true
}

// CompleteCode 记录一个终端代码并返回收集总数 (幂等).
func (r *Room) CompleteCode(index int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress.CompleteCode(index)
}

func (r *Room) CodeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress.CodeCount()
}

// TryLevelUp 尝试推进关卡. 调用方负责先确认出口已开启
// (CodeCount == state.CodesPerLevel); 终点关卡返回 false 且不做任何修改.
func (r *Room) TryLevelUp() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress.TryLevelUp()
}

// MarkFinished 首次通关返回 true, 此后恒为 false. 通关广播可以重发,
// 一次性副作用 (比如归档) 以首次为准.
func (r *Room) MarkFinished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress.MarkFinished()
}

// Reset 清空代码集合, 所有玩家回到出生点并复活. 姓名与颜色保留.
func (r *Room) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress.ClearCodes()
	for _, p := range r.players {
		p.Position = SpawnPoint
		p.Dead = false
	}
}

func (r *Room) Level() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress.Level()
}

func (r *Room) MapSeed() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.progress.MapSeed()
}

// Player 返回玩家状态的副本.
func (r *Room) Player(id string) (Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.players[id]
	if !exists {
		return Player{}, false
	}
	return *p, true
}

// PlayerIDs 返回按加入顺序排列的连接ID副本, 供广播扇出使用.
func (r *Room) PlayerIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

func (r *Room) IsEmpty() bool {
	return r.PlayerCount() == 0
}

// Snapshot 新加入/创建连接看到的只读视图.
type Snapshot struct {
	CurrentLevel   int      `json:"currentLevel"`
	MapSeed        float64  `json:"mapSeed"`
	Players        []Player `json:"players"`
	CompletedCodes []int    `json:"completedCodes"`
}

func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	players := make([]Player, 0, len(r.players))
	for _, id := range r.order {
		players = append(players, *r.players[id])
	}
	return Snapshot{
		CurrentLevel:   r.progress.Level(),
		MapSeed:        r.progress.MapSeed(),
		Players:        players,
		CompletedCodes: r.progress.CompletedCodes(),
	}
}
