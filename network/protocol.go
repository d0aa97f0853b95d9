package network

// 消息ID定义: 1xx 房间操作, 2xx 游戏内事件, 3xx 服务器推送
const (
	MsgTypeHeartbeat = 1

	// client -> server
	MsgTypeCreateRoom        = 101
	MsgTypeJoinRoom          = 102
	MsgTypeGetRoomList       = 103
	MsgTypePlayerUpdate      = 201
	MsgTypeTerminalActivated = 202
	MsgTypeExitActivated     = 203
	MsgTypePlayerDied        = 204
	MsgTypeChatMessage       = 205

	// server -> client
	MsgTypeRoomCreated   = 301
	MsgTypeRoomJoined    = 302
	MsgTypePlayerJoined  = 303
	MsgTypePlayerMoved   = 304
	MsgTypeCodeCollected = 305
	MsgTypeLevelComplete = 306
	MsgTypeGameComplete  = 307
	MsgTypePlayerDead    = 308
	MsgTypeChatBroadcast = 309
	MsgTypePlayerLeft    = 310
	MsgTypeRoomList      = 311
	MsgTypeError         = 400
)
