package public

import (
	"strings"

	"github.com/h2go-next/internal/cart"
	"github.com/h2go-next/internal/checkout"
	"github.com/h2go-next/internal/http/response"
	"github.com/h2go-next/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	panelActionOpen   = "open"
	panelActionClose  = "close"
	panelActionToggle = "toggle"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	Slug         string `json:"slug" binding:"required"`
	VariantIndex *int   `json:"variant_index"`
}

// UpdateCartItemRequest 调整数量请求
type UpdateCartItemRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

// CartView 购物车响应
type CartView struct {
	Items       []models.CartLineItem `json:"items"`
	IsPanelOpen bool                  `json:"is_panel_open"`
	ItemCount   int                   `json:"item_count"`
	Subtotal    models.Money          `json:"subtotal"`
	Summary     checkout.Summary      `json:"summary"`
}

// CartSummaryView 购物车金额摘要
type CartSummaryView struct {
	ItemCount int `json:"item_count"`
	checkout.Summary
}

// GetCart 获取当前会话的购物车
func (h *Handler) GetCart(c *gin.Context) {
	store, ok := h.openCart(c)
	if !ok {
		return
	}
	response.Success(c, h.cartView(store.Snapshot()))
}

// GetCartSummary 获取件数、小计、运费和合计
func (h *Handler) GetCartSummary(c *gin.Context) {
	store, ok := h.openCart(c)
	if !ok {
		return
	}
	state := store.Snapshot()
	response.Success(c, CartSummaryView{
		ItemCount: state.ItemCount,
		Summary:   h.CheckoutService.Quote(state),
	})
}

// AddCartItem 加入购物车，商品信息以 CMS 为准
func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	store, ok := h.openCartForWrite(c)
	if !ok {
		return
	}
	product, err := h.CatalogClient.ProductBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	variantIndex := cart.NoVariant
	if req.VariantIndex != nil {
		variantIndex = *req.VariantIndex
	}
	store.AddToCart(*product, variantIndex)
	requestLog(c).Infow("cart_item_added",
		"cart_key", store.Key(),
		"product_id", product.ID,
		"variant_index", variantIndex,
	)
	response.Success(c, h.cartView(store.Snapshot()))
}

// UpdateCartItem 按增量调整数量，结果小于等于 0 时删除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if *req.Delta == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	store, ok := h.openCartForWrite(c)
	if !ok {
		return
	}
	store.UpdateQuantity(strings.TrimSpace(c.Param("unique_id")), *req.Delta)
	response.Success(c, h.cartView(store.Snapshot()))
}

// RemoveCartItem 删除购物车项
func (h *Handler) RemoveCartItem(c *gin.Context) {
	store, ok := h.openCartForWrite(c)
	if !ok {
		return
	}
	store.RemoveFromCart(strings.TrimSpace(c.Param("unique_id")))
	response.Success(c, h.cartView(store.Snapshot()))
}

// SetCartPanel 展开、收起或切换购物车面板
func (h *Handler) SetCartPanel(c *gin.Context) {
	action := strings.ToLower(strings.TrimSpace(c.Param("action")))
	switch action {
	case panelActionOpen, panelActionClose, panelActionToggle:
	default:
		respondError(c, response.CodeBadRequest, "cart.panel_invalid_action", nil)
		return
	}
	store, ok := h.openCart(c)
	if !ok {
		return
	}
	switch action {
	case panelActionOpen:
		store.OpenPanel()
	case panelActionClose:
		store.ClosePanel()
	default:
		store.TogglePanel()
	}
	response.Success(c, gin.H{"is_panel_open": store.PanelOpen()})
}

func (h *Handler) openCart(c *gin.Context) (*cart.Store, bool) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return nil, false
	}
	store, err := h.CartSessionService.Open(c.Request.Context(), sessionID)
	if err != nil {
		respondCartSessionError(c, err)
		return nil, false
	}
	return store, true
}

// openCartForWrite 存储读取失败时拒绝变更，避免覆盖存储中的购物车
func (h *Handler) openCartForWrite(c *gin.Context) (*cart.Store, bool) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return nil, false
	}
	store, err := h.CartSessionService.OpenForWrite(c.Request.Context(), sessionID)
	if err != nil {
		respondCartSessionError(c, err)
		return nil, false
	}
	return store, true
}

func (h *Handler) cartView(state cart.State) CartView {
	return CartView{
		Items:       state.Items,
		IsPanelOpen: state.PanelOpen,
		ItemCount:   state.ItemCount,
		Subtotal:    state.Subtotal,
		Summary:     h.CheckoutService.Quote(state),
	}
}
