// room/registry.go
package room

import (
	"math/rand"
	"sync"
	"time"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// CodeLength 房间码长度
	CodeLength = 6
)

// Registry 进程级房间表, code -> Room. 自身的读写锁只保护表结构,
// 房间内部状态由各房间自己的锁保护.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
	}
}

// Create 生成一个未占用的房间码, 以 host 为第一个玩家建房并登记.
func (reg *Registry) Create(hostID, hostName string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code := reg.generateCodeLocked()
	r := New(code, hostID, hostName)
	reg.rooms[code] = r
	return r
}

// generateCodeLocked 在字母表上拒绝采样直到不冲突. 36^6 个组合,
// 实际循环次数几乎总是 1.
func (reg *Registry) generateCodeLocked() string {
	buf := make([]byte, CodeLength)
	for {
		for i := range buf {
			buf[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
		}
		code := string(buf)
		if _, exists := reg.rooms[code]; !exists {
			return code
		}
	}
}

func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, exists := reg.rooms[code]
	return r, exists
}

// Join 在表锁内解析房间并加入, 使加入与摘除互斥: 房间一旦被摘掉,
// 晚到的加入只会看到 ErrRoomNotFound, 不会绑到孤儿房间上.
func (reg *Registry) Join(code, id, name string) (*Room, Player, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, exists := reg.rooms[code]
	if !exists {
		return nil, Player{}, ErrRoomNotFound
	}
	p, err := r.AddPlayer(id, name)
	if err != nil {
		return nil, Player{}, err
	}
	return r, p, nil
}

func (reg *Registry) Remove(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, code)
}

// RemoveIfEmpty 在表锁内复查房间仍然为空才摘除, 返回是否删掉了.
// 与 Join 互斥, 挡住 "成员清零后, 摘除前" 窗口里挤进来的加入.
func (reg *Registry) RemoveIfEmpty(code string) bool {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, exists := reg.rooms[code]
	if !exists || !r.IsEmpty() {
		return false
	}
	delete(reg.rooms, code)
	return true
}

func (reg *Registry) Count() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// ListEntry 房间列表里的一项, 字段与客户端的大厅视图对齐.
type ListEntry struct {
	Code       string `json:"code"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Level      int    `json:"level"`
}

// ListJoinable 列出所有未满的房间, 顺序不保证.
func (reg *Registry) ListJoinable() []ListEntry {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	list := make([]ListEntry, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		n := r.PlayerCount()
		if n >= r.MaxPlayers {
			continue
		}
		list = append(list, ListEntry{
			Code:       r.Code,
			Players:    n,
			MaxPlayers: r.MaxPlayers,
			Level:      r.Level(),
		})
	}
	return list
}

// Sweep removes every room that is empty and older than retention,
// returning how many were removed. Disconnect handling already deletes
// empty rooms eagerly; the sweep catches rooms orphaned by paths that
// never delivered a clean disconnect.
func (reg *Registry) Sweep(now time.Time, retention time.Duration) int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	removed := 0
	for code, r := range reg.rooms {
		if r.IsEmpty() && now.Sub(r.CreatedAt) > retention {
			delete(reg.rooms, code)
			removed++
		}
	}
	return removed
}
