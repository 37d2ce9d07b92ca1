package app

import (
	"errors"

	"github.com/h2go-next/internal/config"
	"github.com/h2go-next/internal/logger"
	"github.com/h2go-next/internal/provider"
	"github.com/h2go-next/internal/queue"
	"github.com/h2go-next/internal/router"
	"github.com/h2go-next/internal/worker"

	"github.com/hibiken/asynq"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}

	container := provider.NewContainer(cfg)

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	// 初始化 Worker 服务；未启用队列时由进程内循环负责购物车清理
	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		if cfg.Queue.Enabled {
			workerService, err := worker.NewService(cfg, consumer)
			if err != nil {
				return nil, nil, err
			}
			services = append(services, workerService)
			if err := container.QueueClient.EnqueueCartPurgeStale(queue.CartPurgeStalePayload{
				IdleHours: cfg.Cart.SessionTTLHours,
			}, asynq.Unique(worker.PurgeInterval(cfg.Cart))); err != nil {
				logger.Warnw("app_enqueue_cart_purge_failed", "error", err)
			}
		} else if mode == ModeAll {
			services = append(services, worker.NewPurgeLoop(cfg.Cart, consumer))
		} else {
			return nil, nil, errors.New("worker mode requires queue.enabled")
		}
	}

	// 如果没有服务被启动（例如模式错误或配置导致都没起），应该报错或至少打日志
	if len(services) == 0 {
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts, err := normalizeOptions(opts)
	if err != nil {
		return err
	}
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
