package cart

import (
	"strconv"

	"github.com/h2go-next/internal/models"
)

// NoVariant 表示不选择变体
const NoVariant = -1

const defaultVariantSuffix = "default"

// LineItemID 生成购物车项唯一键："{商品ID}-{变体ID}"，无变体时为 "{商品ID}-default"
func LineItemID(productID int, variant *models.ProductVariant) string {
	suffix := defaultVariantSuffix
	if variant != nil {
		suffix = strconv.Itoa(variant.ID)
	}
	return strconv.Itoa(productID) + "-" + suffix
}

// ResolveVariant 按下标取变体，越界或负数视为未选择
func ResolveVariant(product models.Product, index int) *models.ProductVariant {
	if index < 0 || index >= len(product.Variants) {
		return nil
	}
	variant := product.Variants[index]
	return &variant
}

// ResolveImage 图片优先取变体首图，其次商品首图，都没有时返回空
func ResolveImage(product models.Product, variant *models.ProductVariant) string {
	if variant != nil {
		if url := models.FirstImageURL(variant.ProductImages); url != "" {
			return url
		}
	}
	return models.FirstImageURL(product.Images)
}

// NewLineItem 根据商品与变体构造数量为 1 的购物车项，价格取当前商品价格
func NewLineItem(product models.Product, variant *models.ProductVariant) models.CartLineItem {
	item := models.CartLineItem{
		UniqueID: LineItemID(product.ID, variant),
		ID:       product.ID,
		Slug:     product.Slug,
		Name:     product.Name,
		Price:    product.Price.NonNegative(),
		Quantity: 1,
		Image:    ResolveImage(product, variant),
	}
	if variant != nil {
		item.Variant = &models.LineItemVariant{
			Name:  variant.ColorName,
			Color: variant.ColorHex,
		}
	}
	return item
}

// Totals 计算商品总件数与小计
func Totals(items []models.CartLineItem) (int, models.Money) {
	count := 0
	subtotal := models.NewMoneyFromInt(0)
	for _, item := range items {
		count += item.Quantity
		subtotal = subtotal.Add(item.LineTotal())
	}
	return count, subtotal
}

func indexOf(items []models.CartLineItem, uniqueID string) int {
	for i := range items {
		if items[i].UniqueID == uniqueID {
			return i
		}
	}
	return -1
}

func cloneItems(items []models.CartLineItem) []models.CartLineItem {
	out := make([]models.CartLineItem, len(items))
	for i, item := range items {
		if item.Variant != nil {
			variant := *item.Variant
			item.Variant = &variant
		}
		out[i] = item
	}
	return out
}
