// broadcast/broadcast.go
package broadcast

import (
	"encoding/json"

	"github.com/wfunc/mazeserver/room"
	"github.com/wfunc/mazeserver/session"
)

// Broadcaster 出站消息的寻址规则: 只发本人, 发整个房间, 发房间内除本人外
// 的所有人. 客户端依赖这三种受众的精确划分.
type Broadcaster interface {
	SendToSession(sessionID string, msgID uint16, payload any) error
	BroadcastToRoom(code string, msgID uint16, payload any) error
	BroadcastToOthers(code, exceptID string, msgID uint16, payload any) error
}

// RoomBroadcaster 基于房间成员表和会话表的广播器. 发送是即发即弃:
// 单个连接的发送失败被跳过, 由该连接自己的读循环负责善后.
type RoomBroadcaster struct {
	registry *room.Registry
	sessions *session.Manager
}

func NewRoomBroadcaster(registry *room.Registry, sessions *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		registry: registry,
		sessions: sessions,
	}
}

func (b *RoomBroadcaster) SendToSession(sessionID string, msgID uint16, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	s, exists := b.sessions.Get(sessionID)
	if !exists {
		return nil
	}
	return s.Send(msgID, data)
}

func (b *RoomBroadcaster) BroadcastToRoom(code string, msgID uint16, payload any) error {
	return b.fanout(code, "", msgID, payload)
}

func (b *RoomBroadcaster) BroadcastToOthers(code, exceptID string, msgID uint16, payload any) error {
	return b.fanout(code, exceptID, msgID, payload)
}

func (b *RoomBroadcaster) fanout(code, exceptID string, msgID uint16, payload any) error {
	r, exists := b.registry.Get(code)
	if !exists {
		return room.ErrRoomNotFound
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	for _, id := range r.PlayerIDs() {
		if id == exceptID {
			continue
		}
		if s, ok := b.sessions.Get(id); ok {
			if err := s.Send(msgID, data); err != nil {
				continue
			}
		}
	}
	return nil
}
