package drawing

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusMeters 地球の平均半径（m）
const EarthRadiusMeters = 6371000.0

// distinctVertices 閉じたリングから末尾の重複点を除いた頂点列
func distinctVertices(ring orb.Ring) []orb.Point {
	if len(ring) == 0 {
		return nil
	}
	return ring[:len(ring)-1]
}

// RingCentroid 閉じたリングの重心（末尾の重複点を除いた頂点の算術平均）
func RingCentroid(ring orb.Ring) orb.Point {
	points := distinctVertices(ring)
	if len(points) == 0 {
		return orb.Point{}
	}

	var sumLng, sumLat float64
	for _, p := range points {
		sumLng += p.Lon()
		sumLat += p.Lat()
	}
	n := float64(len(points))
	return orb.Point{sumLng / n, sumLat / n}
}

// RingArea 閉じたリングの面積（m²、整数に丸め）
// 小規模ポリゴン向けの球面過剰近似式。測地線による厳密計算ではない
func RingArea(ring orb.Ring) int64 {
	points := distinctVertices(ring)
	n := len(points)
	if n < 3 {
		return 0
	}

	var area float64
	for i := 0; i < n; i++ {
		p1 := points[i]
		p2 := points[(i+1)%n]
		area += (p2.Lon() - p1.Lon()) * (2 + math.Sin(p1.Lat()*math.Pi/180) + math.Sin(p2.Lat()*math.Pi/180))
	}
	area = math.Abs(area*EarthRadiusMeters*EarthRadiusMeters/2) * math.Pi / 180
	return int64(math.Round(area))
}
