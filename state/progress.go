// state/progress.go
package state

import (
	"math/rand"
	"sort"
)

const (
	// MaxLevel 终点关卡, 通过后游戏结束
	MaxLevel = 2
	// CodesPerLevel 每关需要激活的终端数
	CodesPerLevel = 3
)

// Progress 关卡推进状态机: level 0 -> 1 -> 2 -> complete.
//
// 每关收集满 CodesPerLevel 个不同的代码后出口才可激活; 升级时重掷地图种子
// 并清空已收集的代码. 到达 MaxLevel 后 TryLevelUp 永远返回 false, 房间进入
// 终态 (游戏完成).
//
// Progress 不做并发保护, 由持有它的 Room 在自己的锁内访问.
type Progress struct {
	level     int
	mapSeed   float64
	completed map[int]struct{}
	finished  bool
}

func NewProgress() *Progress {
	return &Progress{
		mapSeed:   rand.Float64(),
		completed: make(map[int]struct{}),
	}
}

func (p *Progress) Level() int {
	return p.level
}

// MapSeed is in [0,1) and deterministically seeds client-side map generation.
func (p *Progress) MapSeed() float64 {
	return p.mapSeed
}

// CompleteCode marks a terminal code as collected and returns the new total.
// Re-activating a collected code is idempotent. Indices outside the level's
// terminal range are ignored so the set can never over-fill.
func (p *Progress) CompleteCode(index int) int {
	if index < 0 || index >= CodesPerLevel {
		return len(p.completed)
	}
	p.completed[index] = struct{}{}
	return len(p.completed)
}

func (p *Progress) CodeCount() int {
	return len(p.completed)
}

// CompletedCodes returns the collected indices in ascending order.
func (p *Progress) CompletedCodes() []int {
	codes := make([]int, 0, len(p.completed))
	for c := range p.completed {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	return codes
}

// ExitOpen reports whether the exit-activation precondition holds.
func (p *Progress) ExitOpen() bool {
	return len(p.completed) == CodesPerLevel
}

// TryLevelUp advances to the next level, clearing the code set and rerolling
// the map seed. Returns false without change once MaxLevel is reached; that
// is the game-complete signal.
func (p *Progress) TryLevelUp() bool {
	if p.level >= MaxLevel {
		return false
	}
	p.level++
	p.completed = make(map[int]struct{})
	p.mapSeed = rand.Float64()
	return true
}

// MarkFinished latches the terminal game-complete state. Only the first call
// returns true; the exit stays activatable afterwards but one-shot effects
// must key off that first call.
func (p *Progress) MarkFinished() bool {
	if p.finished {
		return false
	}
	p.finished = true
	return true
}

// Finished reports whether the run has been latched as complete.
func (p *Progress) Finished() bool {
	return p.finished
}

// ClearCodes empties the collected set without touching level or seed.
func (p *Progress) ClearCodes() {
	p.completed = make(map[int]struct{})
}
