package client

import (
	"math"

	"lasertag/geometry"
)

// PlayerID 表示服务端分配的玩家编号，会话期内稳定
type PlayerID int32

const (
	// MoveStep 每次前进/后退沿朝向移动的距离
	MoveStep = 5.0
	// RotateStep 每次左/右转调整的角度（弧度）
	RotateStep = math.Pi / 16
)

// Player 本地视角下的一名玩家（包括自己）
type Player struct {
	ID          PlayerID          `json:"id" msgpack:"id"`
	Position    geometry.Vector2D `json:"pos" msgpack:"pos"`
	Orientation float64           `json:"orientation" msgpack:"orientation"`
	LaserActive bool              `json:"laser" msgpack:"laser"`
}

// NewPlayer 根据快照中的记录创建玩家
func NewPlayer(rec PlayerRecord) *Player {
	p := &Player{ID: PlayerID(rec.PlayerNum)}
	p.Update(rec)
	return p
}

// Update 以服务端记录覆盖全部字段
func (p *Player) Update(rec PlayerRecord) {
	p.Position = geometry.Vector2D{X: rec.X, Y: rec.Y}
	p.Orientation = rec.Orientation
	p.LaserActive = rec.LaserActive
}

// Record 序列化为线上记录
func (p *Player) Record() PlayerRecord {
	return PlayerRecord{
		PlayerNum:   int32(p.ID),
		X:           p.Position.X,
		Y:           p.Position.Y,
		Orientation: p.Orientation,
		LaserActive: p.LaserActive,
	}
}

func (p *Player) MoveForward() {
	p.Position = p.Position.Add(geometry.Heading(p.Orientation).Scale(MoveStep))
}

func (p *Player) MoveBackward() {
	p.Position = p.Position.Sub(geometry.Heading(p.Orientation).Scale(MoveStep))
}

func (p *Player) RotateLeft() { p.Orientation -= RotateStep }

func (p *Player) RotateRight() { p.Orientation += RotateStep }

// Registry 所有玩家按编号索引；不自带锁，由 Session 的互斥锁保护
type Registry map[PlayerID]*Player

// Reconcile 把一份已接受快照的记录合并进表：插入新玩家、更新已有玩家、
// 移除不在活跃集合中的玩家。local 为本地玩家编号，本地玩家只有在与服务端
// 位置偏差超过 threshold 时才整体采用服务端状态（重生/瞬移），否则保留本地
// 预测位置，其余字段仍以服务端为准。返回是否发生了这种本地纠正。
func (r Registry) Reconcile(records []PlayerRecord, local PlayerID, threshold float64) (corrected bool) {
	active := make(map[PlayerID]struct{}, len(records))
	for _, rec := range records {
		id := PlayerID(rec.PlayerNum)
		active[id] = struct{}{}

		p, ok := r[id]
		if !ok {
			r[id] = NewPlayer(rec)
			continue
		}
		if id == local {
			if r.correctLocal(p, rec, threshold) {
				corrected = true
			}
			continue
		}
		p.Update(rec)
	}

	for id := range r {
		if _, ok := active[id]; !ok {
			delete(r, id)
		}
	}
	return corrected
}

func (r Registry) correctLocal(p *Player, rec PlayerRecord, threshold float64) bool {
	server := geometry.Vector2D{X: rec.X, Y: rec.Y}
	if geometry.Norm(server.Sub(p.Position)) > threshold {
		p.Update(rec)
		return true
	}
	p.Orientation = rec.Orientation
	p.LaserActive = rec.LaserActive
	return false
}

// Copy 返回按值拷贝的只读视图
func (r Registry) Copy() map[PlayerID]Player {
	out := make(map[PlayerID]Player, len(r))
	for id, p := range r {
		out[id] = *p
	}
	return out
}
