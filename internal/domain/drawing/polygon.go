package drawing

import (
	"github.com/paulmach/orb"
)

// ClosedPolygon 描画を確定した敷地ポリゴン。生成後は不変
type ClosedPolygon struct {
	id     string
	ring   orb.Ring
	color  string
	center orb.Point
	area   int64
}

// newClosedPolygon 描画点列を閉じて重心と面積を一度だけ計算する
func newClosedPolygon(points []orb.Point, id, color string) ClosedPolygon {
	ring := make(orb.Ring, 0, len(points)+1)
	ring = append(ring, points...)
	ring = append(ring, points[0])

	return ClosedPolygon{
		id:     id,
		ring:   ring,
		color:  color,
		center: RingCentroid(ring),
		area:   RingArea(ring),
	}
}

// ID 識別子
func (p ClosedPolygon) ID() string { return p.id }

// Color 表示色
func (p ClosedPolygon) Color() string { return p.color }

// Center 重心（経度, 緯度）
func (p ClosedPolygon) Center() orb.Point { return p.center }

// Area 面積（m²）
func (p ClosedPolygon) Area() int64 { return p.area }

// Ring 閉じたリングのコピー（先頭点が末尾に重複する）
func (p ClosedPolygon) Ring() orb.Ring {
	return p.ring.Clone()
}

// Polygon 単一リング（穴なし）の orb.Polygon
func (p ClosedPolygon) Polygon() orb.Polygon {
	return orb.Polygon{p.Ring()}
}
