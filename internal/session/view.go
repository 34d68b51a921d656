package session

import "github.com/paulmach/orb"

const (
	// SelectedZoom 物件選択時のズーム
	SelectedZoom = 16.0

	// OverlayZoom CADオーバーレイに合わせるときのズーム
	OverlayZoom = 15.0
)

// ViewState 地図の表示状態
type ViewState struct {
	Longitude float64
	Latitude  float64
	Zoom      float64
	Bearing   float64
	Pitch     float64
}

// DefaultViewState 初期表示（ベンガジ中心部、CAD図面の向きに合わせて-45度回転）
func DefaultViewState() ViewState {
	return ViewState{
		Longitude: 19.988878,
		Latitude:  31.999042,
		Zoom:      14.64,
		Bearing:   -45,
		Pitch:     0,
	}
}

// CenterOn 指定位置・ズームに移動した表示状態を返す（方位と傾きは維持）
func (v ViewState) CenterOn(p orb.Point, zoom float64) ViewState {
	v.Longitude = p.Lon()
	v.Latitude = p.Lat()
	v.Zoom = zoom
	return v
}
