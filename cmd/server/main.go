package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"syscall"

	"github.com/h2go-next/internal/app"
	"github.com/h2go-next/internal/config"
	"github.com/h2go-next/internal/constants"
	"github.com/h2go-next/internal/logger"
	"github.com/h2go-next/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiDim    = "\033[2m"
	ansiCyan   = "\033[36m"
	ansiYellow = "\033[33m"
)

func main() {
	printStartupBanner()

	// .env 仅用于本地开发，缺失时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "读取 .env 失败: %v\n", err)
	}

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	// 仅数据库存储需要连接数据库
	if cfg.Cart.Storage == constants.CartStorageDatabase {
		if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
			MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
			MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
		}); err != nil {
			stdLog.Fatalf("数据库初始化失败: %v", err)
		}
		if err := models.AutoMigrate(); err != nil {
			stdLog.Fatalf("数据库迁移失败: %v", err)
		}
	}

	if strings.TrimSpace(cfg.Chat.APIKey) == "" {
		stdLog.Printf("提示: 未配置 chat.api_key，AI 助手接口将返回不可用")
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", envOr("H2GO_MODE", app.ModeAll), "启动模式: all (默认), api, worker")
	flag.Parse()

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func printStartupBanner() {
	fmt.Println(ansiCyan + ansiBold + "╔════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiCyan + ansiBold + "║        h2go storefront API 启动中          ║" + ansiReset)
	fmt.Println(ansiCyan + ansiBold + "╚════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiYellow + "• 购物车 / 结算 / 商品 / AI 助手" + ansiReset)
	fmt.Println(ansiDim + "----------------------------------------------" + ansiReset)
}
