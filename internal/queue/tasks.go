package queue

import (
	"encoding/json"

	"github.com/h2go-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartPurgeStale 清理过期购物车会话任务
	TaskCartPurgeStale = constants.TaskCartPurgeStale
)

// CartPurgeStalePayload 清理任务载荷，IdleHours<=0 时使用配置的会话有效期
type CartPurgeStalePayload struct {
	IdleHours int `json:"idle_hours"`
}

// NewCartPurgeStaleTask 创建购物车清理任务
func NewCartPurgeStaleTask(payload CartPurgeStalePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartPurgeStale, body), nil
}
