package repository

import (
	"context"
	"errors"
	"time"

	"github.com/h2go-next/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSlotRepository 购物车槽位数据访问接口
type CartSlotRepository interface {
	GetByKey(key string) (*models.CartSlot, error)
	Upsert(key, value string) error
	DeleteByKey(key string) error
	DeleteUpdatedBefore(prefix string, before time.Time) (int64, error)
	WithContext(ctx context.Context) *GormCartSlotRepository
}

// GormCartSlotRepository GORM 实现
type GormCartSlotRepository struct {
	db *gorm.DB
}

// NewCartSlotRepository 创建购物车槽位仓库
func NewCartSlotRepository(db *gorm.DB) *GormCartSlotRepository {
	return &GormCartSlotRepository{db: db}
}

// WithContext 绑定请求上下文
func (r *GormCartSlotRepository) WithContext(ctx context.Context) *GormCartSlotRepository {
	if ctx == nil {
		return r
	}
	return &GormCartSlotRepository{db: r.db.WithContext(ctx)}
}

// GetByKey 按 key 获取槽位，不存在时返回 nil
func (r *GormCartSlotRepository) GetByKey(key string) (*models.CartSlot, error) {
	var slot models.CartSlot
	if err := r.db.Where("slot_key = ?", key).First(&slot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// Upsert 写入槽位（存在则覆盖）
func (r *GormCartSlotRepository) Upsert(key, value string) error {
	now := time.Now()
	slot := &models.CartSlot{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slot_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(slot).Error
}

// DeleteByKey 删除槽位
func (r *GormCartSlotRepository) DeleteByKey(key string) error {
	return r.db.Where("slot_key = ?", key).Delete(&models.CartSlot{}).Error
}

// DeleteUpdatedBefore 删除指定前缀下长时间未更新的槽位
func (r *GormCartSlotRepository) DeleteUpdatedBefore(prefix string, before time.Time) (int64, error) {
	condition, args := keyPrefixCondition(r.db, "slot_key", prefix)
	result := r.db.Where(condition, args...).Where("updated_at < ?", before).Delete(&models.CartSlot{})
	return result.RowsAffected, result.Error
}
