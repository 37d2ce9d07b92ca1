package router

import (
	"fmt"
	"strings"

	"github.com/h2go-next/internal/cache"
	"github.com/h2go-next/internal/config"
	publichandlers "github.com/h2go-next/internal/http/handlers/public"
	"github.com/h2go-next/internal/logger"
	"github.com/h2go-next/internal/provider"
	"github.com/h2go-next/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	cartWriteWindowSeconds = 60
	cartWriteMaxRequests   = 120
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "h2go"
	}
	redisClient := cache.Client()
	cartWriteRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:cart", redisPrefix),
		WindowSeconds: cartWriteWindowSeconds,
		MaxRequests:   cartWriteMaxRequests,
		MessageKey:    "error.rate_limited",
		FailOpen:      true,
	}
	chatRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:chat", redisPrefix),
		WindowSeconds: cfg.Chat.RateLimitWindowSec,
		MaxRequests:   cfg.Chat.RateLimitMax,
		MessageKey:    "error.chat_rate_limited",
		FailOpen:      true,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// CMS 内容
		public := apiV1.Group("/public")
		{
			public.GET("/home", publicHandler.GetHomePage)
			public.GET("/products/:slug", publicHandler.GetProductBySlug)
			public.GET("/posts", publicHandler.GetPosts)
			public.GET("/posts/:slug", publicHandler.GetPostBySlug)
		}

		// 购物车（按 X-Cart-Session 区分会话）
		cartGroup := apiV1.Group("/cart")
		cartGroup.Use(CartSessionMiddleware(c.CartSessionService))
		{
			cartGroup.GET("", publicHandler.GetCart)
			cartGroup.GET("/summary", publicHandler.GetCartSummary)
			cartGroup.GET("/events", publicHandler.StreamCartEvents)
			cartGroup.POST("/panel/:action", publicHandler.SetCartPanel)

			cartWrite := cartGroup.Group("/items")
			cartWrite.Use(RateLimitMiddleware(redisClient, cartWriteRule, KeyByIPAndHeader(service.CartSessionHeader)))
			{
				cartWrite.POST("", publicHandler.AddCartItem)
				cartWrite.PATCH("/:unique_id", publicHandler.UpdateCartItem)
				cartWrite.DELETE("/:unique_id", publicHandler.RemoveCartItem)
			}
		}

		// 结算：下单需要用户令牌，支付回跳只依赖购物车会话
		checkoutGroup := apiV1.Group("/checkout")
		{
			checkoutGroup.GET("/profile", BearerTokenMiddleware(), publicHandler.GetCheckoutProfile)
			checkoutGroup.POST("", BearerTokenMiddleware(), CartSessionMiddleware(c.CartSessionService), publicHandler.SubmitCheckout)
			checkoutGroup.POST("/return", CartSessionMiddleware(c.CartSessionService), publicHandler.HandlePaymentReturn)
		}

		// AI 助手
		apiV1.POST("/chat", RateLimitMiddleware(redisClient, chatRule, KeyByIP), publicHandler.Chat)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
