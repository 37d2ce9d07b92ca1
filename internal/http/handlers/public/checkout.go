package public

import (
	"errors"

	"github.com/h2go-next/internal/cart"
	"github.com/h2go-next/internal/checkout"
	"github.com/h2go-next/internal/http/response"
	"github.com/h2go-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	ShippingData checkout.ShippingData `json:"shipping_data"`
}

// PaymentReturnRequest 支付网关回跳参数
type PaymentReturnRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status" binding:"required"`
}

// PaymentReturnView 回跳处理结果
type PaymentReturnView struct {
	OrderID     string   `json:"order_id"`
	PaymentID   string   `json:"payment_id"`
	Status      string   `json:"status"`
	CartCleared bool     `json:"cart_cleared"`
	Cart        CartView `json:"cart"`
}

// GetCheckoutProfile 获取用于预填收货表单的用户资料
func (h *Handler) GetCheckoutProfile(c *gin.Context) {
	token, ok := getBearerToken(c)
	if !ok {
		return
	}
	profile, err := h.CheckoutService.Profile(c.Request.Context(), token)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	response.Success(c, profile)
}

// SubmitCheckout 将当前购物车提交到订单后端
func (h *Handler) SubmitCheckout(c *gin.Context) {
	token, ok := getBearerToken(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	store, ok := h.openCart(c)
	if !ok {
		return
	}

	result, err := h.CheckoutService.Submit(c.Request.Context(), token, store.Snapshot(), req.ShippingData)
	if err != nil {
		h.respondCheckoutError(c, req.ShippingData, err)
		return
	}
	requestLog(c).Infow("checkout_submitted",
		"cart_key", store.Key(),
		"order_id", result.OrderID,
		"total", result.Summary.Total.String(),
	)
	response.Success(c, result)
}

func (h *Handler) respondCheckoutError(c *gin.Context, data checkout.ShippingData, err error) {
	var rejected *checkout.RejectedError
	switch {
	case errors.Is(err, checkout.ErrShippingInvalid):
		msg := i18n.T(i18n.ResolveLocale(c), "error.shipping_invalid")
		response.ErrorWithData(c, response.CodeUnprocessable, msg, gin.H{"fields": data.InvalidFields()})
	case errors.As(err, &rejected):
		msg := i18n.Sprintf(i18n.ResolveLocale(c), "error.order_rejected", rejected.Reason)
		respondErrorWithMsg(c, response.CodeUnprocessable, msg, nil)
	case errors.Is(err, checkout.ErrBackendRequest), errors.Is(err, checkout.ErrBackendResponse):
		respondError(c, response.CodeBadGateway, "error.order_failed", err)
	default:
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.order_failed")
	}
}

// HandlePaymentReturn 处理支付回跳，支付成功时清空当前会话的购物车
func (h *Handler) HandlePaymentReturn(c *gin.Context) {
	var req PaymentReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	status, ok := checkout.NormalizePaymentStatus(req.Status)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.payment_status_invalid", nil)
		return
	}

	clears := checkout.ClearsCart(status)
	var store *cart.Store
	if clears {
		store, ok = h.openCartForWrite(c)
	} else {
		store, ok = h.openCart(c)
	}
	if !ok {
		return
	}
	if clears {
		store.Clear()
	}
	requestLog(c).Infow("checkout_payment_returned",
		"cart_key", store.Key(),
		"order_id", req.OrderID,
		"payment_id", req.PaymentID,
		"status", status,
		"cart_cleared", clears,
	)
	response.Success(c, PaymentReturnView{
		OrderID:     req.OrderID,
		PaymentID:   req.PaymentID,
		Status:      status,
		CartCleared: clears,
		Cart:        h.cartView(store.Snapshot()),
	})
}
