// coordinator/coordinator.go
package coordinator

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/wfunc/mazeserver/broadcast"
	"github.com/wfunc/mazeserver/logger"
	"github.com/wfunc/mazeserver/network"
	"github.com/wfunc/mazeserver/room"
	"github.com/wfunc/mazeserver/services"
	"github.com/wfunc/mazeserver/session"
	"github.com/wfunc/mazeserver/state"
)

const defaultPlayerName = "Player"

// Coordinator 把一条连接绑定到至多一个房间, 将入站事件翻译成房间变更与
// 出站广播. 所有方法都只在该连接的读循环 goroutine 上调用.
//
// 除 create/join 以外的处理函数在未绑定房间时一律静默忽略: 迟到或乱序的
// 消息 (比如断线后才到达的位置更新) 不是客户端错误.
type Coordinator struct {
	sess    *session.Session
	rooms   *room.Registry
	cast    broadcast.Broadcaster
	records *services.RunRecordService // nil disables run archiving
}

func New(sess *session.Session, rooms *room.Registry, cast broadcast.Broadcaster, records *services.RunRecordService) *Coordinator {
	return &Coordinator{
		sess:    sess,
		rooms:   rooms,
		cast:    cast,
		records: records,
	}
}

// HandlePacket dispatches one inbound packet. Unknown message IDs are logged
// and dropped.
func (c *Coordinator) HandlePacket(p *network.Packet) {
	c.sess.Touch()

	switch p.MsgID {
	case network.MsgTypeHeartbeat:
		// Touch above is all a heartbeat does.
	case network.MsgTypeCreateRoom:
		c.handleCreateRoom(p.Data)
	case network.MsgTypeJoinRoom:
		c.handleJoinRoom(p.Data)
	case network.MsgTypeGetRoomList:
		c.handleGetRoomList()
	case network.MsgTypePlayerUpdate:
		c.handlePlayerUpdate(p.Data)
	case network.MsgTypeTerminalActivated:
		c.handleTerminalActivated(p.Data)
	case network.MsgTypeExitActivated:
		c.handleExitActivated()
	case network.MsgTypePlayerDied:
		c.handlePlayerDied()
	case network.MsgTypeChatMessage:
		c.handleChatMessage(p.Data)
	default:
		logger.Log.Infof("Session %s sent unknown message type %d", c.sess.ID, p.MsgID)
	}
}

func (c *Coordinator) handleCreateRoom(data []byte) {
	var req CreateRoomRequest
	_ = json.Unmarshal(data, &req) // empty body means default name

	name := req.Name
	if name == "" {
		name = defaultPlayerName
	}

	// 一条连接同时只能在一个房间里
	c.leaveCurrentRoom()

	r := c.rooms.Create(c.sess.ID, name)
	c.sess.Name = name
	c.sess.RoomCode = r.Code

	player, _ := r.Player(c.sess.ID)
	snap := r.Snapshot()
	c.reply(network.MsgTypeRoomCreated, RoomCreatedPayload{
		RoomCode: r.Code,
		Player:   player,
		Room: CreatedRoomInfo{
			CurrentLevel: snap.CurrentLevel,
			MapSeed:      snap.MapSeed,
			Players:      snap.Players,
		},
	})

	logger.Log.Infof("Room %s created by %s", r.Code, name)
}

func (c *Coordinator) handleJoinRoom(data []byte) {
	var req JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}

	name := req.Name
	if name == "" {
		name = defaultPlayerName
	}

	// 经由表锁内的 Join, 不会加入一个正在被摘除的房间
	r, player, err := c.rooms.Join(req.RoomCode, c.sess.ID, name)
	if err != nil {
		switch {
		case errors.Is(err, room.ErrRoomNotFound):
			c.replyError("Room not found")
		case errors.Is(err, room.ErrRoomFull):
			c.replyError("Room is full")
		}
		return
	}

	// 加入成功后才离开旧房间, 失败路径不产生任何状态变化
	if c.sess.RoomCode != "" && c.sess.RoomCode != req.RoomCode {
		c.leaveCurrentRoom()
	}
	c.sess.Name = name
	c.sess.RoomCode = req.RoomCode

	c.reply(network.MsgTypeRoomJoined, RoomJoinedPayload{
		RoomCode: req.RoomCode,
		Player:   player,
		Room:     r.Snapshot(),
	})
	c.cast.BroadcastToOthers(req.RoomCode, c.sess.ID, network.MsgTypePlayerJoined, player)

	logger.Log.Infof("%s joined room %s", name, req.RoomCode)
}

func (c *Coordinator) handlePlayerUpdate(data []byte) {
	r, ok := c.boundRoom()
	if !ok {
		return
	}

	var u room.Update
	if err := json.Unmarshal(data, &u); err != nil {
		return
	}

	if !r.UpdatePlayer(c.sess.ID, u) {
		return
	}
	c.cast.BroadcastToOthers(r.Code, c.sess.ID, network.MsgTypePlayerMoved, PlayerMovedPayload{
		ID:     c.sess.ID,
		Update: u,
	})
}

func (c *Coordinator) handleTerminalActivated(data []byte) {
	r, ok := c.boundRoom()
	if !ok {
		return
	}

	var req TerminalActivatedRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}

	total := r.CompleteCode(req.TerminalIndex)
	c.cast.BroadcastToRoom(r.Code, network.MsgTypeCodeCollected, CodeCollectedPayload{
		PlayerID:      c.sess.ID,
		PlayerName:    c.sess.Name,
		TerminalIndex: req.TerminalIndex,
		TotalCodes:    total,
	})

	logger.Log.Infof("Terminal %d activated in room %s. Codes: %d/%d",
		req.TerminalIndex, r.Code, total, state.CodesPerLevel)
}

func (c *Coordinator) handleExitActivated() {
	r, ok := c.boundRoom()
	if !ok {
		return
	}

	if r.CodeCount() != state.CodesPerLevel {
		return
	}

	if r.TryLevelUp() {
		r.Reset()
		c.cast.BroadcastToRoom(r.Code, network.MsgTypeLevelComplete, LevelCompletePayload{
			NewLevel: r.Level(),
			MapSeed:  r.MapSeed(),
		})
		logger.Log.Infof("Room %s advanced to level %d", r.Code, r.Level())
		return
	}

	// 终点关卡: 游戏完成, 房间保留但不再有自动状态变化.
	// 完成广播随每次出口激活重发, 归档只在首次通关触发.
	if r.MarkFinished() && c.records != nil {
		c.records.ArchiveRun(r)
	}
	c.cast.BroadcastToRoom(r.Code, network.MsgTypeGameComplete, struct{}{})
	logger.Log.Infof("Room %s completed the game", r.Code)
}

func (c *Coordinator) handlePlayerDied() {
	r, ok := c.boundRoom()
	if !ok {
		return
	}

	if _, marked := r.MarkDead(c.sess.ID); !marked {
		return
	}
	c.cast.BroadcastToRoom(r.Code, network.MsgTypePlayerDead, PlayerDeadPayload{
		ID:   c.sess.ID,
		Name: c.sess.Name,
	})
}

func (c *Coordinator) handleChatMessage(data []byte) {
	r, ok := c.boundRoom()
	if !ok {
		return
	}

	var req ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return
	}

	// 消息内容不校验不截断, 对核心完全不透明
	c.cast.BroadcastToRoom(r.Code, network.MsgTypeChatBroadcast, ChatPayload{
		PlayerID:   c.sess.ID,
		PlayerName: c.sess.Name,
		Message:    req.Message,
		Timestamp:  time.Now().UnixMilli(),
	})
}

func (c *Coordinator) handleGetRoomList() {
	c.reply(network.MsgTypeRoomList, c.rooms.ListJoinable())
}

// OnDisconnect 由传输层在连接关闭时调用一次.
func (c *Coordinator) OnDisconnect() {
	c.leaveCurrentRoom()
}

// leaveCurrentRoom 把连接从当前房间摘除并通知其余成员;
// 房间空了就立即删除, 周期清扫只是兜底.
func (c *Coordinator) leaveCurrentRoom() {
	code := c.sess.RoomCode
	if code == "" {
		return
	}
	c.sess.RoomCode = ""

	r, exists := c.rooms.Get(code)
	if !exists {
		return
	}

	r.RemovePlayer(c.sess.ID)
	c.cast.BroadcastToOthers(code, c.sess.ID, network.MsgTypePlayerLeft, PlayerLeftPayload{
		ID:   c.sess.ID,
		Name: c.sess.Name,
	})

	if c.rooms.RemoveIfEmpty(code) {
		logger.Log.Infof("Room %s deleted (empty)", code)
	}
}

func (c *Coordinator) reply(msgID uint16, payload any) {
	if err := c.cast.SendToSession(c.sess.ID, msgID, payload); err != nil {
		logger.Log.Warnf("Failed to reply %d to session %s: %v", msgID, c.sess.ID, err)
	}
}

func (c *Coordinator) replyError(message string) {
	c.reply(network.MsgTypeError, ErrorPayload{Message: message})
}

func (c *Coordinator) boundRoom() (*room.Room, bool) {
	if c.sess.RoomCode == "" {
		return nil, false
	}
	return c.rooms.Get(c.sess.RoomCode)
}
