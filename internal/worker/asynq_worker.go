package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/h2go-next/internal/logger"
	"github.com/h2go-next/internal/provider"
	"github.com/h2go-next/internal/queue"
	"github.com/h2go-next/internal/service"

	"github.com/hibiken/asynq"
)

const defaultSessionTTL = 72 * time.Hour

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
	now func() time.Time
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
		now:       time.Now,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartPurgeStale, c.handleCartPurgeStale)
}

func (c *Consumer) handleCartPurgeStale(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_purge_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartPurgeStalePayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Warnw("worker_cart_purge_unmarshal_failed", "error", err)
			return err
		}
	}
	_, err := c.PurgeStale(ctx, payload.IdleHours)
	return err
}

// PurgeStale 清理空闲超过 idleHours 的购物车会话，idleHours<=0 时使用配置
func (c *Consumer) PurgeStale(ctx context.Context, idleHours int) (service.PurgeResult, error) {
	if c == nil || c.Container == nil || c.CartSessionService == nil {
		return service.PurgeResult{}, nil
	}
	before := c.now().Add(-c.sessionTTL(idleHours))
	result, err := c.CartSessionService.PurgeStale(ctx, before)
	if err != nil {
		logger.Warnw("worker_cart_purge_failed", "before", before, "error", err)
		return result, err
	}
	logger.Infow("worker_cart_purge_done",
		"before", before,
		"evicted", result.Evicted,
		"slots_deleted", result.SlotsDeleted,
	)
	return result, nil
}

func (c *Consumer) sessionTTL(idleHours int) time.Duration {
	if idleHours > 0 {
		return time.Duration(idleHours) * time.Hour
	}
	if c.Config != nil && c.Config.Cart.SessionTTLHours > 0 {
		return time.Duration(c.Config.Cart.SessionTTLHours) * time.Hour
	}
	return defaultSessionTTL
}
