// Package session はブラウザ上の閲覧セッションの状態（検索条件・物件一覧・選択・描画・作成フォーム）を
// 描画フレームワークに依存しない形で保持し、明示的な遷移メソッドで更新する。
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"

	"PropertyMap-App/internal/domain/drawing"
	"PropertyMap-App/internal/domain/model"
)

// ErrIncompleteForm 作成フォームの必須項目（名称・価格・ポリゴン）が揃っていない
var ErrIncompleteForm = errors.New("please fill in all required fields and draw a polygon")

// PropertyStore 物件の検索・作成を行う外部サービス
type PropertyStore interface {
	Query(ctx context.Context, filter *model.PropertyFilter) ([]model.Property, error)
	Create(ctx context.Context, req *model.CreatePropertyRequest) (*model.Property, error)
}

// Draft 物件作成フォームの入力内容
type Draft struct {
	Title        string
	PropertyType string
	Price        string
	LandSize     string
	Address      string
}

// DefaultDraft 空のフォーム（種別は Land）
func DefaultDraft() Draft {
	return Draft{PropertyType: model.DefaultPropertyType}
}

// NoticeKind 通知の種類
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeError
)

// Notice ユーザーに表示する通知
type Notice struct {
	Kind       NoticeKind
	Message    string
	PropertyID int64
}

// Session 閲覧セッションの状態コンテナ
type Session struct {
	store PropertyStore

	mu         sync.Mutex
	filters    Filters
	properties []model.Property
	fetchErr   error
	selected   *model.Property
	view       ViewState
	overlay    bool
	engine     *drawing.Engine
	draft      Draft
	panelOpen  bool
	notice     *Notice

	// 物件取得のリクエスト番号。issued は発行済みの最大値、applied は反映済みの最大値
	issued  uint64
	applied uint64
}

// New 新しいセッションを作成する。alloc が nil の場合はランダムなID・色を使う
func New(store PropertyStore, alloc drawing.Allocator) *Session {
	return &Session{
		store:   store,
		filters: DefaultFilters(),
		view:    DefaultViewState(),
		overlay: true,
		engine:  drawing.NewEngine(alloc),
		draft:   DefaultDraft(),
	}
}

// --- 検索条件と物件一覧 ---

// Filters 現在の検索条件
func (s *Session) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// UpdateFilters 検索条件を更新して物件一覧を再取得する
func (s *Session) UpdateFilters(ctx context.Context, update func(*Filters)) error {
	s.mu.Lock()
	update(&s.filters)
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh 現在の検索条件で物件一覧を取得する
// 取得中に新しいリクエストの結果が先に反映された場合、この結果は破棄する
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	query := s.filters.Query()
	s.mu.Unlock()

	properties, err := s.store.Query(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		log.Debug().
			Uint64("seq", seq).
			Uint64("applied", s.applied).
			Msg("古い物件一覧のレスポンスを破棄")
		return nil
	}
	s.applied = seq

	if err != nil {
		s.fetchErr = err
		log.Error().Err(err).Msg("❌ 物件一覧の取得に失敗")
		return fmt.Errorf("物件一覧の取得に失敗: %w", err)
	}
	if properties == nil {
		properties = []model.Property{}
	}
	s.properties = properties
	s.fetchErr = nil
	return nil
}

// Properties 表示中の物件一覧
func (s *Session) Properties() []model.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Property(nil), s.properties...)
}

// FetchError 直近の一覧取得エラー（成功時は nil）
func (s *Session) FetchError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchErr
}

// --- 選択と表示 ---

// SelectProperty 物件を選択し、その位置にズームする（一覧・マーカーのクリック）
func (s *Session) SelectProperty(p model.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &p
	s.view = s.view.CenterOn(p.Location.ToPoint(), SelectedZoom)
}

// SelectPropertyByID 表示中の一覧から物件を選択する
func (s *Session) SelectPropertyByID(id int64) bool {
	s.mu.Lock()
	var found *model.Property
	for i := range s.properties {
		if s.properties[i].ID == id {
			p := s.properties[i]
			found = &p
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		return false
	}
	s.SelectProperty(*found)
	return true
}

// Selected 選択中の物件（未選択の場合は nil）
func (s *Session) Selected() *model.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	p := *s.selected
	return &p
}

// ClearSelection 選択を解除する
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// View 地図の表示状態
func (s *Session) View() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetView 地図の移動・ズーム操作を反映する
func (s *Session) SetView(v ViewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

// CenterOnOverlay CADオーバーレイの中心に表示を合わせる
func (s *Session) CenterOnOverlay(center orb.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.CenterOn(center, OverlayZoom)
}

// ToggleOverlay CADオーバーレイの表示を切り替え、切替後の状態を返す
func (s *Session) ToggleOverlay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay = !s.overlay
	return s.overlay
}

// OverlayVisible CADオーバーレイを表示中かどうか
func (s *Session) OverlayVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay
}

// --- ポリゴン描画 ---

// StartDrawing 描画モードを開始する（描画中の点は破棄）
func (s *Session) StartDrawing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Start()
}

// MapClick 地図クリック。描画中のみ点を追加し、追加したかを返す
func (s *Session) MapClick(p orb.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.AddPoint(p)
}

// DrawingMode 描画エンジンの状態
func (s *Session) DrawingMode() drawing.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Mode()
}

// DrawnPoints 描画中の点
func (s *Session) DrawnPoints() []orb.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Points()
}

// CanFinish ポリゴンを確定できるか
func (s *Session) CanFinish() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.CanFinish()
}

// FinishPolygon ポリゴンを確定し、面積をフォームに反映して作成パネルを開く
// 点が3未満の場合は何もしない
func (s *Session) FinishPolygon() (drawing.ClosedPolygon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	polygon, ok := s.engine.Finish()
	if !ok {
		return drawing.ClosedPolygon{}, false
	}
	s.draft.LandSize = strconv.FormatInt(polygon.Area(), 10)
	s.panelOpen = true

	log.Info().
		Str("id", polygon.ID()).
		Int64("area", polygon.Area()).
		Msg("📐 ポリゴンを確定しました")
	return polygon, true
}

// ClearDrawing 描画中の点を消去する（描画モードは継続）
func (s *Session) ClearDrawing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.ClearPoints()
}

// CancelDrawing 描画をやめる（描画中の点は破棄）
func (s *Session) CancelDrawing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Cancel()
}

// DeletePolygon 保存済みポリゴンを削除する
func (s *Session) DeletePolygon(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Delete(id)
}

// SavedPolygons 保存済みポリゴン
func (s *Session) SavedPolygons() []drawing.ClosedPolygon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Saved()
}

// ExportPolygons 保存済みポリゴンをGeoJSONで書き出す（ファイル名は drawing.ExportFileName）
func (s *Session) ExportPolygons() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Export()
}

// --- 物件作成フォーム ---

// Draft 作成フォームの入力内容
func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// UpdateDraft 作成フォームの入力を更新する
func (s *Session) UpdateDraft(update func(*Draft)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(&s.draft)
}

// OpenAdminPanel 作成パネルを開く
func (s *Session) OpenAdminPanel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelOpen = true
}

// CloseAdminPanel 作成パネルを閉じてフォームを初期化する（保存済みポリゴンは残す）
func (s *Session) CloseAdminPanel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panelOpen = false
	s.draft = DefaultDraft()
}

// AdminPanelOpen 作成パネルが開いているか
func (s *Session) AdminPanelOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panelOpen
}

// Notice 直近の通知（なければ nil）
func (s *Session) Notice() *Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.notice == nil {
		return nil
	}
	n := *s.notice
	return &n
}

// DismissNotice 通知を閉じる
func (s *Session) DismissNotice() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = nil
}

// SubmitProperty 最新の保存済みポリゴンとフォーム入力から物件を作成する
// 失敗時はフォームと保存済みポリゴンを残し、再送できるようにする。成功時はフォームを初期化して一覧を再取得する
func (s *Session) SubmitProperty(ctx context.Context) (*model.Property, error) {
	s.mu.Lock()
	req, latest, err := s.buildRequest()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, req)
	if err != nil {
		s.mu.Lock()
		s.notice = &Notice{
			Kind:    NoticeError,
			Message: "Failed to create property. Please try again.",
		}
		s.mu.Unlock()
		log.Error().Err(err).Str("polygon_id", latest.ID()).Msg("❌ 物件の作成に失敗")
		return nil, fmt.Errorf("物件の作成に失敗: %w", err)
	}

	center := latest.Center()
	message := fmt.Sprintf("Property %q created successfully! ID: %d Location: %.6f, %.6f Area: %d m²",
		created.Title, created.ID, center.Lat(), center.Lon(), latest.Area())

	s.mu.Lock()
	s.panelOpen = false
	s.draft = DefaultDraft()
	s.notice = &Notice{
		Kind:       NoticeSuccess,
		Message:    message,
		PropertyID: created.ID,
	}
	s.mu.Unlock()

	log.Info().Int64("id", created.ID).Msg("🏠 物件を作成しました")

	if err := s.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("⚠️ 作成後の一覧再取得に失敗")
	}
	return created, nil
}

// buildRequest フォームの必須項目を確認して作成リクエストを組み立てる（ロック取得済みで呼ぶ）
func (s *Session) buildRequest() (*model.CreatePropertyRequest, drawing.ClosedPolygon, error) {
	latest, ok := s.engine.Latest()
	title := strings.TrimSpace(s.draft.Title)
	price := parseNumber(s.draft.Price)
	if title == "" || price == nil || !ok {
		return nil, drawing.ClosedPolygon{}, ErrIncompleteForm
	}

	propertyType := s.draft.PropertyType
	if propertyType == "" {
		propertyType = model.DefaultPropertyType
	}
	location := model.LatLngFromPoint(latest.Center())

	return &model.CreatePropertyRequest{
		Title:        title,
		PropertyType: propertyType,
		Price:        price,
		LandSize:     latest.Area(),
		Address:      strings.TrimSpace(s.draft.Address),
		Location:     &location,
		Polygon:      geojson.NewGeometry(latest.Polygon()),
	}, latest, nil
}
