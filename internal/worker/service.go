package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/h2go-next/internal/config"
	"github.com/h2go-next/internal/logger"
	"github.com/h2go-next/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultPurgeInterval = time.Hour

// Service 异步队列服务（任务消费 + 定时清理调度）
type Service struct {
	name      string
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	consumer  *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	scheduler := asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC})
	task, err := queue.NewCartPurgeStaleTask(queue.CartPurgeStalePayload{IdleHours: cfg.Cart.SessionTTLHours})
	if err != nil {
		return nil, err
	}
	cronspec := fmt.Sprintf("@every %s", PurgeInterval(cfg.Cart))
	if _, err := scheduler.Register(cronspec, task, asynq.Queue(queue.DefaultQueue)); err != nil {
		return nil, fmt.Errorf("register cart purge schedule: %w", err)
	}
	return &Service{
		name:      "worker",
		server:    server,
		mux:       mux,
		scheduler: scheduler,
		consumer:  consumer,
	}, nil
}

// PurgeInterval 购物车清理周期
func PurgeInterval(cfg config.CartConfig) time.Duration {
	if cfg.PurgeIntervalMinutes > 0 {
		return time.Duration(cfg.PurgeIntervalMinutes) * time.Minute
	}
	return defaultPurgeInterval
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.scheduler != nil {
		if err := s.scheduler.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	if s.scheduler != nil {
		s.scheduler.Shutdown()
	}
	s.server.Shutdown()
	return nil
}

// PurgeLoop 未启用队列时在进程内定时清理购物车会话
type PurgeLoop struct {
	consumer *Consumer
	interval time.Duration
	stop     chan struct{}
}

// NewPurgeLoop 创建进程内清理循环
func NewPurgeLoop(cfg config.CartConfig, consumer *Consumer) *PurgeLoop {
	return &PurgeLoop{
		consumer: consumer,
		interval: PurgeInterval(cfg),
		stop:     make(chan struct{}),
	}
}

// Name 服务名称
func (l *PurgeLoop) Name() string {
	return "cart_purge_loop"
}

// Start 启动循环，直到 ctx 结束或 Stop
func (l *PurgeLoop) Start(ctx context.Context) error {
	if l == nil || l.consumer == nil {
		return errors.New("purge loop not initialized")
	}
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.stop:
			return nil
		case <-ticker.C:
			if _, err := l.consumer.PurgeStale(ctx, 0); err != nil {
				logger.Warnw("worker_cart_purge_loop_failed", "error", err)
			}
		}
	}
}

// Stop 停止循环
func (l *PurgeLoop) Stop(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case <-l.stop:
	default:
		close(l.stop)
	}
	return nil
}
