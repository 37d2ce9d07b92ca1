package storage

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memorySlot struct {
	value     string
	updatedAt time.Time
}

// Memory 进程内存储，用于测试和单机开发
type Memory struct {
	mu    sync.RWMutex
	slots map[string]memorySlot
	now   func() time.Time
}

// NewMemory 创建内存存储
func NewMemory() *Memory {
	return &Memory{
		slots: make(map[string]memorySlot),
		now:   time.Now,
	}
}

// Get 读取槽位
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	slot, ok := m.slots[key]
	return slot.value, ok, nil
}

// Set 写入槽位
func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = memorySlot{value: value, updatedAt: m.now()}
	return nil
}

// Delete 删除槽位
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

// DeleteStale 删除前缀匹配且更新时间早于 before 的槽位
func (m *Memory) DeleteStale(ctx context.Context, prefix string, before time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for key, slot := range m.slots {
		if strings.HasPrefix(key, prefix) && slot.updatedAt.Before(before) {
			delete(m.slots, key)
			removed++
		}
	}
	return removed, nil
}

// Len 当前槽位数量
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.slots)
}
