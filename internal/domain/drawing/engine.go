// Package drawing は地図クリックから敷地ポリゴンを作成する描画エンジンを提供する。
package drawing

import (
	"github.com/paulmach/orb"
)

// MinPoints ポリゴン確定に必要な最小点数
const MinPoints = 3

// Mode 描画エンジンの状態
type Mode int

const (
	// ModeIdle 描画していない
	ModeIdle Mode = iota
	// ModeDrawing クリック点を蓄積中
	ModeDrawing
)

func (m Mode) String() string {
	switch m {
	case ModeDrawing:
		return "drawing"
	default:
		return "idle"
	}
}

// Engine 描画中の点列と保存済みポリゴンを保持する。単一の所有者から操作する前提で同期は行わない
type Engine struct {
	mode   Mode
	points []orb.Point
	saved  []ClosedPolygon
	alloc  Allocator
}

// NewEngine 空の保存コレクションで Engine を作成。alloc が nil ならランダム払い出しを使う
func NewEngine(alloc Allocator) *Engine {
	if alloc == nil {
		alloc = NewRandomAllocator()
	}
	return &Engine{alloc: alloc}
}

// Mode 現在の状態
func (e *Engine) Mode() Mode {
	return e.mode
}

// Start 描画を開始する。確定前の点列は破棄される
func (e *Engine) Start() {
	e.points = nil
	e.mode = ModeDrawing
}

// AddPoint 描画中ならクリック点を追加する。重複除去やスナップは行わない
func (e *Engine) AddPoint(p orb.Point) bool {
	if e.mode != ModeDrawing {
		return false
	}
	e.points = append(e.points, p)
	return true
}

// Points 描画中の点列のコピー
func (e *Engine) Points() []orb.Point {
	out := make([]orb.Point, len(e.points))
	copy(out, e.points)
	return out
}

// CanFinish 確定可能か（描画中かつ3点以上）
func (e *Engine) CanFinish() bool {
	return e.mode == ModeDrawing && len(e.points) >= MinPoints
}

// Finish 点列を閉じてポリゴンを確定し、保存コレクションに追加して Idle に戻る
// 確定できない場合は何もせず false を返す（状態は Drawing のまま）
func (e *Engine) Finish() (ClosedPolygon, bool) {
	if !e.CanFinish() {
		return ClosedPolygon{}, false
	}

	id := e.alloc.NextID()
	color := e.alloc.NextColor()
	polygon := newClosedPolygon(e.points, id, color)

	e.saved = append(e.saved, polygon)
	e.points = nil
	e.mode = ModeIdle
	return polygon, true
}

// Cancel 点列を保存せずに破棄して Idle に戻る
func (e *Engine) Cancel() {
	e.points = nil
	e.mode = ModeIdle
}

// ClearPoints 点列を破棄するが描画は継続する
func (e *Engine) ClearPoints() {
	e.points = nil
}

// Delete 指定IDの保存ポリゴンを削除する。存在しないIDなら false
func (e *Engine) Delete(id string) bool {
	for i, p := range e.saved {
		if p.ID() == id {
			e.saved = append(e.saved[:i:i], e.saved[i+1:]...)
			return true
		}
	}
	return false
}

// Saved 保存済みポリゴンを追加順で返す
func (e *Engine) Saved() []ClosedPolygon {
	out := make([]ClosedPolygon, len(e.saved))
	copy(out, e.saved)
	return out
}

// Latest 最後に保存したポリゴン
func (e *Engine) Latest() (ClosedPolygon, bool) {
	if len(e.saved) == 0 {
		return ClosedPolygon{}, false
	}
	return e.saved[len(e.saved)-1], true
}

// Export 保存済みポリゴンをGeoJSONとして出力
func (e *Engine) Export() ([]byte, error) {
	return ExportJSON(e.saved)
}
