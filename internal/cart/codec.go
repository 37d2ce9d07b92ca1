package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/h2go-next/internal/models"
)

// ErrSlotCorrupted 存储槽位内容无法解析为购物车项数组
var ErrSlotCorrupted = errors.New("cart slot corrupted")

// EncodeItems 序列化购物车项为 JSON 数组
func EncodeItems(items []models.CartLineItem) (string, error) {
	if items == nil {
		items = []models.CartLineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

// DecodeItems 解析存储槽位内容
//
// 顶层不是数组时返回 ErrSlotCorrupted；数组中无法解析、缺少 uniqueId 或数量小于 1 的行被丢弃，
// 重复的 uniqueId 只保留第一次出现的行。
func DecodeItems(raw string) ([]models.CartLineItem, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty value", ErrSlotCorrupted)
	}
	var rows []json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSlotCorrupted, err)
	}
	if rows == nil {
		return nil, fmt.Errorf("%w: not an array", ErrSlotCorrupted)
	}
	items := make([]models.CartLineItem, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		var item models.CartLineItem
		if err := json.Unmarshal(row, &item); err != nil {
			continue
		}
		item.UniqueID = strings.TrimSpace(item.UniqueID)
		if item.UniqueID == "" || item.Quantity < 1 {
			continue
		}
		if _, ok := seen[item.UniqueID]; ok {
			continue
		}
		seen[item.UniqueID] = struct{}{}
		item.Price = item.Price.NonNegative()
		items = append(items, item)
	}
	return items, nil
}
