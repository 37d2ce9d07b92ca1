package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/h2go-next/internal/logger"
	"github.com/h2go-next/internal/models"

	"go.uber.org/zap"
)

// DefaultStorageKey 浏览器端沿用的购物车存储 key
const DefaultStorageKey = "h2go_cart"

const defaultWriteTimeout = 3 * time.Second

// Storage 单个字符串槽位的持久化存储
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// EventKind 变更类型
type EventKind string

const (
	EventItems    EventKind = "items"
	EventPanel    EventKind = "panel"
	EventHydrated EventKind = "hydrated"
)

// HydrationResult 初始读取结果
type HydrationResult string

const (
	HydrationPending     HydrationResult = ""
	HydrationLoaded      HydrationResult = "loaded"
	HydrationEmpty       HydrationResult = "empty"
	HydrationCorrupted   HydrationResult = "corrupted"
	HydrationUnavailable HydrationResult = "unavailable"
)

// State 购物车状态快照
type State struct {
	Items     []models.CartLineItem `json:"items"`
	PanelOpen bool                  `json:"is_panel_open"`
	ItemCount int                   `json:"item_count"`
	Subtotal  models.Money          `json:"subtotal"`
	Hydrated  bool                  `json:"-"`
}

// Event 推送给订阅者的变更通知
type Event struct {
	Kind      EventKind       `json:"kind"`
	Hydration HydrationResult `json:"hydration,omitempty"`
	State     State           `json:"state"`
}

// Listener 订阅回调；回调内不得调用 Store 的变更方法
type Listener func(Event)

type listenerEntry struct {
	id int
	fn Listener
}

// Option Store 可选配置
type Option func(*Store)

// WithLogger 指定日志实例
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithWriteTimeout 指定单次持久化写入超时
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		if timeout > 0 {
			s.writeTimeout = timeout
		}
	}
}

// Store 购物车状态容器
//
// 所有变更先更新内存状态再按订阅顺序通知监听者，持久化写入本身也是一个监听者。
// 完成初始读取（Hydrate）之前的变更只作用于内存，不会写入存储。
type Store struct {
	storage      Storage
	key          string
	log          *zap.SugaredLogger
	writeTimeout time.Duration

	// emitMu 串行化“变更 + 通知”，保证存储看到的写入顺序与变更顺序一致
	emitMu sync.Mutex

	mu        sync.RWMutex
	items     []models.CartLineItem
	panelOpen bool
	hydrated  bool
	writable  bool
	hydration HydrationResult
	listeners []listenerEntry
	nextID    int
}

// New 创建尚未完成初始读取的购物车
func New(storage Storage, key string, opts ...Option) *Store {
	if key == "" {
		key = DefaultStorageKey
	}
	s := &Store{
		storage:      storage,
		key:          key,
		log:          logger.S(),
		writeTimeout: defaultWriteTimeout,
		items:        []models.CartLineItem{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("cart_key", key)
	s.Subscribe(s.persist)
	return s
}

// Open 创建购物车并完成初始读取
func Open(ctx context.Context, storage Storage, key string, opts ...Option) *Store {
	s := New(storage, key, opts...)
	s.Hydrate(ctx)
	return s
}

// Key 存储槽位 key
func (s *Store) Key() string {
	return s.key
}

// Hydrate 从存储读取购物车；损坏或读取失败都按空购物车处理，不向调用方返回错误
func (s *Store) Hydrate(ctx context.Context) HydrationResult {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.RLock()
	if s.hydrated {
		result := s.hydration
		s.mu.RUnlock()
		return result
	}
	s.mu.RUnlock()

	result, loaded := s.readSlot(ctx)

	s.mu.Lock()
	if result == HydrationLoaded {
		s.items = loaded
	}
	s.hydrated = true
	// 读取失败时存储里可能仍有真实购物车，之后的变更都不能写回
	s.writable = result != HydrationUnavailable
	s.hydration = result
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(Event{Kind: EventHydrated, Hydration: result, State: state})
	return result
}

func (s *Store) readSlot(ctx context.Context) (HydrationResult, []models.CartLineItem) {
	if s.storage == nil {
		return HydrationEmpty, nil
	}
	raw, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.log.Warnw("cart_storage_read_failed", "error", err)
		return HydrationUnavailable, nil
	}
	if !found {
		return HydrationEmpty, nil
	}
	items, err := DecodeItems(raw)
	if err != nil {
		s.log.Warnw("cart_storage_corrupted", "error", err)
		return HydrationCorrupted, nil
	}
	return HydrationLoaded, items
}

// Hydrated 是否已完成初始读取
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// Writable 初始读取成功（含空槽位与损坏槽位）后才允许写入存储
func (s *Store) Writable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writable
}

// Items 返回购物车项副本（保持加入顺序）
func (s *Store) Items() []models.CartLineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items)
}

// PanelOpen 购物车面板是否展开
func (s *Store) PanelOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.panelOpen
}

// ItemCount 商品总件数
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count, _ := Totals(s.items)
	return count
}

// Subtotal 商品小计
func (s *Store) Subtotal() models.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, subtotal := Totals(s.items)
	return subtotal
}

// Snapshot 返回当前完整状态
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe 订阅变更，返回取消订阅函数
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, entry := range s.listeners {
				if entry.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// OpenPanel 展开面板
func (s *Store) OpenPanel() {
	s.mutate(EventPanel, func() bool {
		return s.setPanelLocked(true)
	})
}

// ClosePanel 收起面板
func (s *Store) ClosePanel() {
	s.mutate(EventPanel, func() bool {
		return s.setPanelLocked(false)
	})
}

// TogglePanel 切换面板
func (s *Store) TogglePanel() {
	s.mutate(EventPanel, func() bool {
		return s.setPanelLocked(!s.panelOpen)
	})
}

// AddToCart 加入购物车
//
// 相同商品+变体只累加数量，单价保持首次加入时的快照；变体下标越界按无变体处理。
// 无论之前状态如何，加入后面板都会展开。
func (s *Store) AddToCart(product models.Product, variantIndex int) {
	s.mutate(EventItems, func() bool {
		variant := ResolveVariant(product, variantIndex)
		uniqueID := LineItemID(product.ID, variant)
		next := cloneItems(s.items)
		if idx := indexOf(next, uniqueID); idx >= 0 {
			next[idx].Quantity++
		} else {
			next = append(next, NewLineItem(product, variant))
		}
		s.items = next
		s.panelOpen = true
		return true
	})
}

// RemoveFromCart 删除购物车项，不存在时不做任何事
func (s *Store) RemoveFromCart(uniqueID string) {
	s.mutate(EventItems, func() bool {
		idx := indexOf(s.items, uniqueID)
		if idx < 0 {
			return false
		}
		next := make([]models.CartLineItem, 0, len(s.items)-1)
		next = append(next, s.items[:idx]...)
		next = append(next, s.items[idx+1:]...)
		s.items = next
		return true
	})
}

// UpdateQuantity 调整数量，结果小于等于 0 时删除该项；不存在时不做任何事
func (s *Store) UpdateQuantity(uniqueID string, delta int) {
	s.mutate(EventItems, func() bool {
		idx := indexOf(s.items, uniqueID)
		if idx < 0 {
			return false
		}
		quantity := s.items[idx].Quantity + delta
		next := make([]models.CartLineItem, 0, len(s.items))
		for i, item := range s.items {
			if i != idx {
				next = append(next, item)
				continue
			}
			if quantity <= 0 {
				continue
			}
			item.Quantity = quantity
			next = append(next, item)
		}
		s.items = next
		return true
	})
}

// Clear 清空购物车
func (s *Store) Clear() {
	s.mutate(EventItems, func() bool {
		if len(s.items) == 0 {
			return false
		}
		s.items = []models.CartLineItem{}
		return true
	})
}

func (s *Store) mutate(kind EventKind, fn func() bool) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	state := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(Event{Kind: kind, State: state})
}

func (s *Store) setPanelLocked(open bool) bool {
	if s.panelOpen == open {
		return false
	}
	s.panelOpen = open
	return true
}

func (s *Store) snapshotLocked() State {
	count, subtotal := Totals(s.items)
	return State{
		Items:     cloneItems(s.items),
		PanelOpen: s.panelOpen,
		ItemCount: count,
		Subtotal:  subtotal,
		Hydrated:  s.hydrated,
	}
}

func (s *Store) notify(event Event) {
	s.mu.RLock()
	listeners := make([]listenerEntry, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, entry := range listeners {
		entry.fn(event)
	}
}

// persist 写入存储的监听者
func (s *Store) persist(event Event) {
	if s.storage == nil || !event.State.Hydrated || !s.Writable() {
		return
	}
	switch event.Kind {
	case EventItems:
	case EventHydrated:
		// 读取成功时存储内容已是最新；读取失败时不能用空购物车覆盖
		switch event.Hydration {
		case HydrationCorrupted:
		case HydrationEmpty:
			if len(event.State.Items) == 0 {
				return
			}
		default:
			return
		}
	default:
		return
	}

	payload, err := EncodeItems(event.State.Items)
	if err != nil {
		s.log.Errorw("cart_storage_encode_failed", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()
	if err := s.storage.Set(ctx, s.key, payload); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.Warnw("cart_storage_write_timeout", "timeout_ms", s.writeTimeout.Milliseconds())
			return
		}
		s.log.Errorw("cart_storage_write_failed", "error", err)
	}
}
