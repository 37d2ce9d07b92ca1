package storage

import (
	"context"
	"time"

	"github.com/h2go-next/internal/repository"
)

// Database 基于 cart_slots 表的存储
type Database struct {
	repo repository.CartSlotRepository
}

// NewDatabase 创建数据库存储
func NewDatabase(repo repository.CartSlotRepository) *Database {
	return &Database{repo: repo}
}

// Get 读取槽位
func (d *Database) Get(ctx context.Context, key string) (string, bool, error) {
	slot, err := d.repo.WithContext(ctx).GetByKey(key)
	if err != nil {
		return "", false, err
	}
	if slot == nil {
		return "", false, nil
	}
	return slot.Value, true, nil
}

// Set 写入槽位
func (d *Database) Set(ctx context.Context, key, value string) error {
	return d.repo.WithContext(ctx).Upsert(key, value)
}

// Delete 删除槽位
func (d *Database) Delete(ctx context.Context, key string) error {
	return d.repo.WithContext(ctx).DeleteByKey(key)
}

// DeleteStale 删除长时间未写入的槽位
func (d *Database) DeleteStale(ctx context.Context, prefix string, before time.Time) (int64, error) {
	return d.repo.WithContext(ctx).DeleteUpdatedBefore(prefix, before)
}
