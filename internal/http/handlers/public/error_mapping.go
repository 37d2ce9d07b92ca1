package public

import (
	"errors"

	"github.com/h2go-next/internal/catalog"
	"github.com/h2go-next/internal/chat"
	"github.com/h2go-next/internal/checkout"
	"github.com/h2go-next/internal/http/response"
	"github.com/h2go-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var catalogErrorRules = []mappedHandlerError{
	{target: catalog.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: catalog.ErrPostNotFound, code: response.CodeNotFound, key: "error.post_not_found"},
}

var cartSessionErrorRules = []mappedHandlerError{
	{target: service.ErrCartSessionInvalid, code: response.CodeBadRequest, key: "error.cart_unavailable"},
	{target: service.ErrCartStorageUnavailable, code: response.CodeServiceUnavailable, key: "error.cart_storage_unavailable"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: checkout.ErrUnauthorized, code: response.CodeUnauthorized, key: "error.unauthorized"},
	{target: checkout.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
}

var profileErrorRules = []mappedHandlerError{
	{target: checkout.ErrUnauthorized, code: response.CodeUnauthorized, key: "error.unauthorized"},
}

var chatErrorRules = []mappedHandlerError{
	{target: chat.ErrChatDisabled, code: response.CodeServiceUnavailable, key: "error.chat_disabled"},
	{target: chat.ErrEmptyMessage, code: response.CodeBadRequest, key: "error.chat_message_required"},
}

func respondCatalogError(c *gin.Context, err error) {
	respondWithMappedError(c, err, catalogErrorRules, response.CodeBadGateway, "error.content_unavailable")
}

func respondCartSessionError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartSessionErrorRules, response.CodeServiceUnavailable, "error.cart_unavailable")
}

func respondProfileError(c *gin.Context, err error) {
	respondWithMappedError(c, err, profileErrorRules, response.CodeBadGateway, "error.profile_unavailable")
}

func respondChatError(c *gin.Context, err error) {
	respondWithMappedError(c, err, chatErrorRules, response.CodeBadGateway, "error.chat_failed")
}
