package shared

import (
	"github.com/h2go-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

const (
	// CartSessionContextKey 购物车会话 ID 在 gin 上下文中的 key
	CartSessionContextKey = "cart_session"
	// BearerTokenContextKey 用户令牌在 gin 上下文中的 key
	BearerTokenContextKey = "bearer_token"
)

// GetContextStringWithKey 从上下文读取字符串值，缺失时按 missingCode/missingKey 响应。
func GetContextStringWithKey(c *gin.Context, key string, missingCode int, missingKey string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, missingCode, missingKey, nil)
		return "", false
	}
	v, ok := value.(string)
	if !ok || v == "" {
		RespondError(c, missingCode, missingKey, nil)
		return "", false
	}
	return v, true
}

// GetCartSessionID 读取中间件解析出的购物车会话 ID
func GetCartSessionID(c *gin.Context) (string, bool) {
	return GetContextStringWithKey(c, CartSessionContextKey, response.CodeBadRequest, "error.cart_unavailable")
}

// GetBearerToken 读取中间件解析出的用户令牌
func GetBearerToken(c *gin.Context) (string, bool) {
	return GetContextStringWithKey(c, BearerTokenContextKey, response.CodeUnauthorized, "error.unauthorized")
}
