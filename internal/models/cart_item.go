package models

// LineItemVariant 购物车项的变体快照
type LineItemVariant struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CartLineItem 购物车项
//
// JSON 字段名与浏览器端持久化格式保持一致，存储槽位里的数据可以直接互通。
type CartLineItem struct {
	UniqueID string           `json:"uniqueId"`          // 商品+变体组合键
	ID       int              `json:"id"`                // 商品ID
	Slug     string           `json:"slug"`              // 商品 slug
	Name     string           `json:"name"`              // 商品名称
	Price    Money            `json:"price"`             // 加入时的单价快照
	Quantity int              `json:"quantity"`          // 数量（始终 >= 1）
	Image    string           `json:"image,omitempty"`   // 图片地址
	Variant  *LineItemVariant `json:"variant,omitempty"` // 变体信息
}

// LineTotal 单行金额
func (i CartLineItem) LineTotal() Money {
	return i.Price.MulInt(i.Quantity)
}
