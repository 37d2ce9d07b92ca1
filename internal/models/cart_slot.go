package models

import "time"

// CartSlot 购物车持久化槽位（一个 key 对应一份序列化的购物车）
type CartSlot struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                              // 主键
	Key       string    `gorm:"column:slot_key;type:varchar(191);uniqueIndex;not null" json:"key"` // 槽位 key
	Value     string    `gorm:"type:text;not null" json:"value"`                                   // JSON 序列化内容
	CreatedAt time.Time `json:"created_at"`                                                        // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                           // 更新时间
}

// TableName 指定表名
func (CartSlot) TableName() string {
	return "cart_slots"
}
