// room/player.go
package room

// SpawnPoint 每关固定出生点
var SpawnPoint = [3]float64{5.5, 1.7, 5.5}

// PlayerColors 按加入顺序循环分配的调色板
var PlayerColors = [8][3]float64{
	{1.0, 0.3, 0.3}, // Red
	{0.3, 1.0, 0.3}, // Green
	{0.3, 0.3, 1.0}, // Blue
	{1.0, 1.0, 0.3}, // Yellow
	{1.0, 0.3, 1.0}, // Magenta
	{0.3, 1.0, 1.0}, // Cyan
	{1.0, 0.6, 0.3}, // Orange
	{0.6, 0.3, 1.0}, // Purple
}

// Player 房间内一个玩家的瞬时状态, 以连接ID为键, 仅归属房间持有.
// Position/Yaw/Pitch/Light 只能由玩家自己的更新事件修改, Dead 只能由
// 玩家自己的死亡事件置位, 两者都在 Reset 时还原.
type Player struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Color    [3]float64 `json:"color"`
	Position [3]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
	Pitch    float64    `json:"pitch"`
	Light    float64    `json:"light"`
	Dead     bool       `json:"dead"`
}

// Update is the whitelist of player fields a client may overwrite.
// Identity fields (id, name, color) are deliberately absent: a crafted
// payload carrying them is dropped during unmarshalling.
type Update struct {
	Position *[3]float64 `json:"position,omitempty"`
	Yaw      *float64    `json:"yaw,omitempty"`
	Pitch    *float64    `json:"pitch,omitempty"`
	Light    *float64    `json:"light,omitempty"`
}

func newPlayer(id, name string, colorIndex int) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Color:    PlayerColors[colorIndex%len(PlayerColors)],
		Position: SpawnPoint,
	}
}
