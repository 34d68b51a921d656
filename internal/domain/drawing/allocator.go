package drawing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// Allocator 保存ポリゴンのIDと表示色を払い出す
type Allocator interface {
	NextID() string
	NextColor() string
}

// randomAllocator UUID と乱数色による既定の払い出し
type randomAllocator struct{}

// NewRandomAllocator UUID v4 のIDと "#rrggbb" のランダム色を払い出す Allocator を作成
func NewRandomAllocator() Allocator {
	return randomAllocator{}
}

func (randomAllocator) NextID() string {
	return uuid.New().String()
}

func (randomAllocator) NextColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}

// SequentialAllocator 連番IDとパレット巡回色による決定的な払い出し
type SequentialAllocator struct {
	prefix  string
	palette []string
	next    int
}

// defaultPalette パレット未指定時の色
var defaultPalette = []string{"#e74c3c", "#3498db", "#27ae60", "#f39c12", "#8e44ad"}

// NewSequentialAllocator "prefix-1", "prefix-2", ... のIDを払い出す Allocator を作成
func NewSequentialAllocator(prefix string, palette []string) *SequentialAllocator {
	if len(palette) == 0 {
		palette = defaultPalette
	}
	return &SequentialAllocator{prefix: prefix, palette: palette}
}

// NextID 次のIDを払い出す
func (a *SequentialAllocator) NextID() string {
	a.next++
	return fmt.Sprintf("%s-%d", a.prefix, a.next)
}

// NextColor 直前に払い出したIDに対応する色を返す
func (a *SequentialAllocator) NextColor() string {
	idx := a.next - 1
	if idx < 0 {
		idx = 0
	}
	return a.palette[idx%len(a.palette)]
}
