package checkout

import (
	"fmt"
	"strings"

	"github.com/h2go-next/internal/config"
	"github.com/h2go-next/internal/models"

	"github.com/shopspring/decimal"
)

// Currency 店铺结算币种（秘鲁索尔）
const Currency = "PEN"

// ShippingPolicy 运费规则：小计严格大于门槛时免运费，否则收取固定运费
type ShippingPolicy struct {
	FreeThreshold models.Money
	FlatCost      models.Money
}

// DefaultShippingPolicy 默认规则（满 200 免运费，否则 15）
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		FreeThreshold: models.NewMoneyFromInt(200),
		FlatCost:      models.NewMoneyFromInt(15),
	}
}

// NewShippingPolicy 从配置解析运费规则
func NewShippingPolicy(cfg config.ShippingConfig) (ShippingPolicy, error) {
	policy := DefaultShippingPolicy()
	if raw := strings.TrimSpace(cfg.FreeThreshold); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return ShippingPolicy{}, fmt.Errorf("invalid shipping.free_threshold %q: %w", raw, err)
		}
		policy.FreeThreshold = models.NewMoneyFromDecimal(d).NonNegative()
	}
	if raw := strings.TrimSpace(cfg.FlatCost); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return ShippingPolicy{}, fmt.Errorf("invalid shipping.flat_cost %q: %w", raw, err)
		}
		policy.FlatCost = models.NewMoneyFromDecimal(d).NonNegative()
	}
	return policy, nil
}

// Summary 订单金额汇总
type Summary struct {
	Subtotal     models.Money `json:"subtotal"`
	Shipping     models.Money `json:"shipping"`
	Total        models.Money `json:"total"`
	FreeShipping bool         `json:"free_shipping"`
	Currency     string       `json:"currency"`
}

// Cost 计算运费
func (p ShippingPolicy) Cost(subtotal models.Money) models.Money {
	if subtotal.Decimal.GreaterThan(p.FreeThreshold.Decimal) {
		return models.NewMoneyFromInt(0)
	}
	return p.FlatCost
}

// Quote 根据小计计算运费和总价
func (p ShippingPolicy) Quote(subtotal models.Money) Summary {
	shipping := p.Cost(subtotal)
	return Summary{
		Subtotal:     subtotal,
		Shipping:     shipping,
		Total:        subtotal.Add(shipping),
		FreeShipping: shipping.Decimal.IsZero(),
		Currency:     Currency,
	}
}
