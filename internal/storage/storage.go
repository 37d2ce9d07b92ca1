package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/h2go-next/internal/cache"
	"github.com/h2go-next/internal/cart"
	"github.com/h2go-next/internal/config"
	"github.com/h2go-next/internal/constants"
	"github.com/h2go-next/internal/repository"

	"gorm.io/gorm"
)

var (
	// ErrUnknownBackend 未知的存储类型
	ErrUnknownBackend = errors.New("unknown cart storage backend")
	// ErrBackendUnavailable 存储依赖未初始化
	ErrBackendUnavailable = errors.New("cart storage backend unavailable")
)

// Sweeper 支持按更新时间清理槽位的存储
type Sweeper interface {
	DeleteStale(ctx context.Context, prefix string, before time.Time) (int64, error)
}

// NewFromConfig 根据 cart.storage 选择存储实现
func NewFromConfig(cfg config.CartConfig, db *gorm.DB) (cart.Storage, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Storage))
	switch backend {
	case "", constants.CartStorageMemory:
		return NewMemory(), nil
	case constants.CartStorageRedis:
		if !cache.Enabled() {
			return nil, fmt.Errorf("%w: redis is disabled", ErrBackendUnavailable)
		}
		return NewRedis(time.Duration(cfg.SlotTTLHours) * time.Hour), nil
	case constants.CartStorageDatabase:
		if db == nil {
			return nil, fmt.Errorf("%w: database is not initialized", ErrBackendUnavailable)
		}
		return NewDatabase(repository.NewCartSlotRepository(db)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, backend)
	}
}

var (
	_ cart.Storage = (*Memory)(nil)
	_ cart.Storage = (*Redis)(nil)
	_ cart.Storage = (*Database)(nil)
	_ Sweeper      = (*Memory)(nil)
	_ Sweeper      = (*Database)(nil)
)
