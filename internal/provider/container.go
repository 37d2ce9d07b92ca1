package provider

import (
	"context"

	"github.com/h2go-next/internal/cache"
	"github.com/h2go-next/internal/cart"
	"github.com/h2go-next/internal/catalog"
	"github.com/h2go-next/internal/chat"
	"github.com/h2go-next/internal/checkout"
	"github.com/h2go-next/internal/config"
	"github.com/h2go-next/internal/logger"
	"github.com/h2go-next/internal/models"
	"github.com/h2go-next/internal/queue"
	"github.com/h2go-next/internal/service"
	"github.com/h2go-next/internal/storage"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Storage
	CartStorage cart.Storage

	// Services
	CartSessionService *service.CartSessionService
	CatalogClient      *catalog.Client
	CheckoutService    *checkout.Service
	ChatService        chat.Streamer
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化购物车存储
	c.initStorage()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initStorage() {
	backend, err := storage.NewFromConfig(c.Config.Cart, models.DB)
	if err != nil {
		logger.Errorw("provider_init_cart_storage_failed", "storage", c.Config.Cart.Storage, "error", err)
		panic(err)
	}
	c.CartStorage = backend
	logger.Infow("provider_cart_storage_ready", "storage", c.Config.Cart.Storage)
}

func (c *Container) initServices() {
	c.CartSessionService = service.NewCartSessionService(c.CartStorage, c.Config.Cart)
	c.CatalogClient = catalog.NewClient(c.Config.CMS)

	policy, err := checkout.NewShippingPolicy(c.Config.Shipping)
	if err != nil {
		logger.Warnw("provider_shipping_policy_invalid", "error", err, "fallback", "default")
		policy = checkout.DefaultShippingPolicy()
	}
	c.CheckoutService = checkout.NewService(c.Config.Backend, policy)

	chatService, err := chat.NewService(context.Background(), c.Config.Chat)
	if err != nil {
		logger.Errorw("provider_init_chat_failed", "error", err)
		chatService, _ = chat.NewService(context.Background(), config.ChatConfig{})
	}
	if !chatService.Enabled() {
		logger.Infow("provider_chat_disabled", "reason", "missing_api_key")
	}
	c.ChatService = chatService
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if closer, ok := c.ChatService.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Warnw("provider_close_chat_failed", "error", err)
		}
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
