package public

import "github.com/h2go-next/internal/provider"

// Handler 店铺前台接口处理器入口
// 说明：商品、购物车、结算和聊天接口共用同一个容器。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
