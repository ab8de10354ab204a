package application

import (
	"TeruelTrip-App/internal/domain/model"
	"TeruelTrip-App/internal/domain/repository"
	"TeruelTrip-App/internal/domain/service"
	"TeruelTrip-App/internal/lifecycle"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

const (
	defaultSearchTimeout   = 45 * time.Second
	defaultLocationTimeout = 10 * time.Second
)

// State はコントローラー全体の状態
type State struct {
	Search         lifecycle.Snapshot
	Ideas          lifecycle.Snapshot
	HasSearched    bool
	FormGeneration int
	IdeasOpen      bool
	LocationError  string
}

// ControllerOption は TripPlannerController の設定を変更する
type ControllerOption func(*controllerOptions)

type controllerOptions struct {
	searchTimeout   time.Duration
	locationTimeout time.Duration
	clock           lifecycle.Clock
	now             func() time.Time
	listener        func(State)
}

// WithSearchTimeout は検索のウォッチドッグの制限時間を設定する
func WithSearchTimeout(d time.Duration) ControllerOption {
	return func(o *controllerOptions) { o.searchTimeout = d }
}

// WithLocationTimeout は現在地取得の制限時間を設定する
func WithLocationTimeout(d time.Duration) ControllerOption {
	return func(o *controllerOptions) { o.locationTimeout = d }
}

// WithClock はウォッチドッグのタイマー生成元を差し替える
func WithClock(c lifecycle.Clock) ControllerOption {
	return func(o *controllerOptions) { o.clock = c }
}

// WithNow は現在時刻の取得方法を差し替える
func WithNow(now func() time.Time) ControllerOption {
	return func(o *controllerOptions) { o.now = now }
}

// WithStateListener は状態が変わるたびに呼ばれるコールバックを設定する
func WithStateListener(f func(State)) ControllerOption {
	return func(o *controllerOptions) { o.listener = f }
}

// TripPlannerController は検索・旅行アイデア・最近の検索・購読・現在地を束ねるアプリケーションの最上位コントローラー
type TripPlannerController struct {
	planner repository.TripPlanningRepository
	recent  repository.RecentSearchRepository
	subs    repository.SubscriptionRepository
	locator repository.LocationProvider
	opts    controllerOptions

	search *lifecycle.Operation[*model.TripPlan]
	ideas  *lifecycle.Operation[[]model.TripIdea]

	mu             sync.Mutex
	hasSearched    bool
	formGeneration int
	form           model.SearchRequest
	searchDate     string
	ideasOpen      bool
	locationErr    string
	view           *ResultsView
}

// NewTripPlannerController は新しいTripPlannerControllerインスタンスを作成
// locator が nil の場合、現在地は利用できない
func NewTripPlannerController(
	planner repository.TripPlanningRepository,
	recent repository.RecentSearchRepository,
	subs repository.SubscriptionRepository,
	locator repository.LocationProvider,
	opts ...ControllerOption,
) *TripPlannerController {
	o := controllerOptions{
		searchTimeout:   defaultSearchTimeout,
		locationTimeout: defaultLocationTimeout,
		clock:           lifecycle.RealClock,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &TripPlannerController{
		planner: planner,
		recent:  recent,
		subs:    subs,
		locator: locator,
		opts:    o,
	}
	c.form = c.defaultForm()

	c.search = lifecycle.New[*model.TripPlan]("search",
		lifecycle.WithTimeout(o.searchTimeout, model.MsgSearchTimeout),
		lifecycle.WithClock(o.clock),
		lifecycle.WithErrorMessage(searchErrorMessage),
		lifecycle.WithListener(func(lifecycle.Snapshot) { c.onSearchChange() }),
	)
	c.ideas = lifecycle.New[[]model.TripIdea]("ideas",
		lifecycle.WithClock(o.clock),
		lifecycle.WithErrorMessage(ideasErrorMessage),
		lifecycle.WithListener(func(lifecycle.Snapshot) { c.emit() }),
	)
	return c
}

// searchErrorMessage は検索失敗時の表示メッセージを決める
func searchErrorMessage(err error) string {
	if errors.Is(err, model.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return model.MsgServerTimeout
	}
	return model.MsgPlanFailed
}

// ideasErrorMessage はサーバーのメッセージがあればそれを、なければ汎用メッセージを返す
func ideasErrorMessage(err error) string {
	var um model.UserMessager
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	return model.MsgIdeasFailed
}

// StartSearch は検索条件を検証し、最近の検索に保存してから検索を開始する
// 検証に失敗した場合はエラーを表示して検索を開始しない
func (c *TripPlannerController) StartSearch(ctx context.Context, req model.SearchRequest) error {
	if err := req.Validate(); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			c.search.Reject(ve.Message)
		}
		return err
	}

	if err := c.recent.Save(ctx, req.ToRecentSearch()); err != nil {
		log.Printf("⚠️ 最近の検索の保存に失敗: %v", err)
	}

	c.mu.Lock()
	c.hasSearched = true
	c.searchDate = req.Date
	c.mu.Unlock()

	log.Printf("🔍 検索開始: %s → %s (%s)", req.Origin, req.Destination, req.Date)
	c.search.Start(ctx, func(ctx context.Context) (*model.TripPlan, error) {
		return c.planner.PlanTrip(ctx, &req)
	})
	return nil
}

// CancelSearch はユーザー操作で検索を中止する。ローディングとエラーは即座に消える
func (c *TripPlannerController) CancelSearch() bool {
	return c.search.Cancel(lifecycle.ReasonUserCancel)
}

// ClearSearch は検索を中止し、結果・エラー・検索済みフラグを初期化してフォームを作り直す
func (c *TripPlannerController) ClearSearch() {
	c.mu.Lock()
	c.hasSearched = false
	c.searchDate = ""
	c.formGeneration++
	c.form = c.defaultForm()
	c.mu.Unlock()

	c.search.Clear()
}

// SelectRecentSearch は保存された検索条件をフォームに反映して検索する
func (c *TripPlannerController) SelectRecentSearch(ctx context.Context, rs model.RecentSearch) error {
	req := rs.ToSearchRequest()

	c.mu.Lock()
	c.form = req
	c.formGeneration++
	c.mu.Unlock()

	return c.StartSearch(ctx, req)
}

// SuggestTrips は旅行アイデアの画面を開き、アイデアの取得を開始する
// 取得中のものがあればキャンセルする
func (c *TripPlannerController) SuggestTrips(ctx context.Context) {
	c.mu.Lock()
	c.ideasOpen = true
	c.mu.Unlock()

	c.ideas.Start(ctx, c.planner.SuggestTripIdeas)
}

// CloseIdeas は旅行アイデアの画面を閉じ、取得中のものをキャンセルする
func (c *TripPlannerController) CloseIdeas() {
	c.mu.Lock()
	c.ideasOpen = false
	c.mu.Unlock()

	c.ideas.Cancel(lifecycle.ReasonUserCancel)
}

// Ideas は最後に取得した旅行アイデアを返す
func (c *TripPlannerController) Ideas() []model.TripIdea {
	ideas, _ := c.ideas.Result()
	return ideas
}

// PlanFromIdea はアイデアから今日・1名の検索を作って実行する
func (c *TripPlannerController) PlanFromIdea(ctx context.Context, idea model.TripIdea) error {
	c.CloseIdeas()
	return c.SelectRecentSearch(ctx, model.RecentSearchFromIdea(idea, c.opts.now()))
}

// RecentSearches は最近の検索を新しい順に返す
func (c *TripPlannerController) RecentSearches(ctx context.Context) ([]model.RecentSearch, error) {
	return c.recent.List(ctx)
}

// Subscriptions は購読中のルートを新しい順に返す
func (c *TripPlannerController) Subscriptions(ctx context.Context) ([]model.Subscription, error) {
	return c.subs.List(ctx)
}

// IsSubscribed はルートが購読中か判定する
func (c *TripPlannerController) IsSubscribed(ctx context.Context, route *model.Route) (bool, error) {
	return c.subs.Exists(ctx, service.SubscriptionID(route))
}

// ToggleSubscription はルートの購読を切り替え、切り替え後に購読中なら true を返す
// 購読の日付には結果を生んだ検索の日付を使う
func (c *TripPlannerController) ToggleSubscription(ctx context.Context, route *model.Route) (bool, error) {
	id := service.SubscriptionID(route)
	exists, err := c.subs.Exists(ctx, id)
	if err != nil {
		return false, err
	}
	if exists {
		return false, c.subs.Remove(ctx, id)
	}

	c.mu.Lock()
	date := c.searchDate
	c.mu.Unlock()

	return true, c.subs.Add(ctx, service.NewSubscription(route, date))
}

// Unsubscribe は購読を解除する
func (c *TripPlannerController) Unsubscribe(ctx context.Context, id string) error {
	return c.subs.Remove(ctx, id)
}

// CheckSubscription は購読中ルートの運行情報を取得し、種類を分類する
func (c *TripPlannerController) CheckSubscription(ctx context.Context, sub model.Subscription) (*model.TripUpdate, error) {
	update, err := c.planner.CheckTripUpdate(ctx, &sub)
	if err != nil {
		return nil, fmt.Errorf("運行情報の取得に失敗 (%s): %w", sub.Summary, err)
	}
	update.Kind = service.ClassifyUpdate(update.Message)
	return update, nil
}

// UseCurrentLocation は現在地を取得してフォームの出発地に設定する
// 検索とは独立しており、検索のトークンには影響しない
func (c *TripPlannerController) UseCurrentLocation(ctx context.Context) (*model.GeoPoint, error) {
	pos, err := c.locate(ctx)
	if err != nil {
		msg := LocationErrorMessage(err)
		log.Printf("⚠️ 現在地の取得に失敗: %v", err)
		c.mu.Lock()
		c.locationErr = msg
		c.mu.Unlock()
		c.emit()
		return nil, errors.New(msg)
	}

	c.mu.Lock()
	c.locationErr = ""
	c.form.Origin = model.CurrentLocationLabel
	c.form.OriginCoords = pos
	c.mu.Unlock()
	c.emit()
	return pos, nil
}

func (c *TripPlannerController) locate(ctx context.Context) (*model.GeoPoint, error) {
	if c.locator == nil {
		return nil, model.ErrLocationUnsupported
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.locationTimeout)
	defer cancel()
	return c.locator.CurrentPosition(ctx)
}

// LocationErrorMessage は現在地取得の失敗を表示用メッセージに変換する
func LocationErrorMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return model.MsgGeolocationTimeout
	case errors.Is(err, model.ErrLocationUnsupported):
		return model.MsgGeolocationUnsupported
	case errors.Is(err, model.ErrLocationDenied):
		return model.MsgGeolocationDenied
	default:
		return model.MsgGeolocationUnavailable
	}
}

// Form は現在のフォームの初期値を返す
func (c *TripPlannerController) Form() model.SearchRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Results は現在の検索結果の表示用ビューを返す（結果がなければ nil）
func (c *TripPlannerController) Results() *ResultsView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// State は現在の状態を返す
func (c *TripPlannerController) State() State {
	search := c.search.Snapshot()
	ideas := c.ideas.Snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Search:         search,
		Ideas:          ideas,
		HasSearched:    c.hasSearched,
		FormGeneration: c.formGeneration,
		IdeasOpen:      c.ideasOpen,
		LocationError:  c.locationErr,
	}
}

// Wait は実行中の検索とアイデア取得の処理がすべて終わるまで待つ
func (c *TripPlannerController) Wait() {
	c.search.Wait()
	c.ideas.Wait()
}

// onSearchChange は検索結果が変わったときに表示用ビューを作り直す
// 通知の順序に依存しないよう、常に現在の結果から判定する
func (c *TripPlannerController) onSearchChange() {
	plan, ok := c.search.Result()

	c.mu.Lock()
	switch {
	case !ok || plan == nil:
		c.view = nil
	case c.view == nil || c.view.Plan() != plan:
		c.view = NewResultsView(plan)
	}
	c.mu.Unlock()

	c.emit()
}

func (c *TripPlannerController) emit() {
	if c.opts.listener != nil {
		c.opts.listener(c.State())
	}
}

func (c *TripPlannerController) defaultForm() model.SearchRequest {
	return model.SearchRequest{
		Date:       model.FormatDate(c.opts.now()),
		Passengers: 1,
	}
}
