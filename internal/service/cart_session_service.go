package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/h2go-next/internal/cart"
	"github.com/h2go-next/internal/config"
	"github.com/h2go-next/internal/logger"
	"github.com/h2go-next/internal/storage"

	"github.com/google/uuid"
)

// CartSessionHeader 前端携带购物车会话的请求头
const CartSessionHeader = "X-Cart-Session"

type cartSession struct {
	store    *cart.Store
	lastSeen time.Time
	holders  int
}

// PurgeResult 过期会话清理结果
type PurgeResult struct {
	Evicted      int   `json:"evicted"`
	SlotsDeleted int64 `json:"slots_deleted"`
}

// CartSessionService 购物车会话注册表
//
// 每个会话对应一个已完成初始读取的 cart.Store，槽位 key 为 {storage_key}:{session}。
type CartSessionService struct {
	storage      cart.Storage
	storageKey   string
	writeTimeout time.Duration
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*cartSession
}

// NewCartSessionService 创建购物车会话服务
func NewCartSessionService(backend cart.Storage, cfg config.CartConfig) *CartSessionService {
	key := strings.TrimSpace(cfg.StorageKey)
	if key == "" {
		key = cart.DefaultStorageKey
	}
	return &CartSessionService{
		storage:      backend,
		storageKey:   key,
		writeTimeout: time.Duration(cfg.WriteTimeoutMS) * time.Millisecond,
		now:          time.Now,
		sessions:     make(map[string]*cartSession),
	}
}

// ResolveSessionID 校验客户端会话 ID，缺失或非法时签发新的 ID（issued=true）
func (s *CartSessionService) ResolveSessionID(raw string) (id string, issued bool) {
	if parsed, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
		return parsed.String(), false
	}
	return uuid.NewString(), true
}

// SlotKey 会话对应的存储槽位 key
func (s *CartSessionService) SlotKey(sessionID string) string {
	return s.storageKey + ":" + sessionID
}

// Open 获取会话购物车，首次访问时从存储读取
func (s *CartSessionService) Open(ctx context.Context, sessionID string) (*cart.Store, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, ErrCartSessionInvalid
	}

	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		store := cart.New(s.storage, s.SlotKey(sessionID),
			cart.WithWriteTimeout(s.writeTimeout),
			cart.WithLogger(logger.SW("cart_session", sessionID)),
		)
		session = &cartSession{store: store}
		s.sessions[sessionID] = session
	}
	session.lastSeen = s.now()
	s.mu.Unlock()

	// 并发请求共享同一个 Store，Hydrate 幂等且串行
	if result := session.store.Hydrate(ctx); result == cart.HydrationUnavailable {
		// 存储暂不可用时不缓存该会话，下次请求重新读取
		s.mu.Lock()
		if current, ok := s.sessions[sessionID]; ok && current == session {
			delete(s.sessions, sessionID)
		}
		s.mu.Unlock()
	}
	return session.store, nil
}

// OpenForWrite 获取可变更的会话购物车
//
// 存储读取失败时返回 ErrCartStorageUnavailable，避免空购物车的变更覆盖存储中的真实数据。
func (s *CartSessionService) OpenForWrite(ctx context.Context, sessionID string) (*cart.Store, error) {
	store, err := s.Open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !store.Writable() {
		return nil, ErrCartStorageUnavailable
	}
	return store, nil
}

// Hold 标记会话正被长连接使用，持有期间不会被 PurgeStale 清理；返回的函数释放持有
func (s *CartSessionService) Hold(sessionID string, store *cart.Store) func() {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok || session.store != store {
		s.mu.Unlock()
		return func() {}
	}
	session.holders++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			session.holders--
			session.lastSeen = s.now()
		})
	}
}

// Evict 从内存中移除会话（不删除存储槽位）
func (s *CartSessionService) Evict(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// ActiveSessions 内存中的会话数
func (s *CartSessionService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// PurgeStale 清理 before 之前未访问且无人持有的会话，并删除可清理存储中的过期槽位
func (s *CartSessionService) PurgeStale(ctx context.Context, before time.Time) (PurgeResult, error) {
	var result PurgeResult

	s.mu.Lock()
	for id, session := range s.sessions {
		if session.holders == 0 && session.lastSeen.Before(before) {
			delete(s.sessions, id)
			result.Evicted++
		}
	}
	s.mu.Unlock()

	sweeper, ok := s.storage.(storage.Sweeper)
	if !ok {
		return result, nil
	}
	deleted, err := sweeper.DeleteStale(ctx, s.storageKey+":", before)
	if err != nil {
		return result, err
	}
	result.SlotsDeleted = deleted
	return result, nil
}
