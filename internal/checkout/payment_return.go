package checkout

import "strings"

// 支付网关回跳时携带的支付状态
const (
	PaymentStatusApproved  = "approved"
	PaymentStatusPending   = "pending"
	PaymentStatusInProcess = "in_process"
	PaymentStatusRejected  = "rejected"
	PaymentStatusCancelled = "cancelled"
	// 用户未完成支付直接返回时网关回传字面量 null
	PaymentStatusNull = "null"
)

var knownPaymentStatuses = map[string]struct{}{
	PaymentStatusApproved:  {},
	PaymentStatusPending:   {},
	PaymentStatusInProcess: {},
	PaymentStatusRejected:  {},
	PaymentStatusCancelled: {},
	PaymentStatusNull:      {},
}

// NormalizePaymentStatus 规范化回跳状态，未知状态返回 false
func NormalizePaymentStatus(raw string) (string, bool) {
	status := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := knownPaymentStatuses[status]; !ok {
		return "", false
	}
	return status, true
}

// ClearsCart 只有支付成功才清空购物车，待支付与失败都保留以便重试
func ClearsCart(status string) bool {
	return status == PaymentStatusApproved
}
