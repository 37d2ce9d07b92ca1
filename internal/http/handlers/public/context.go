package public

import (
	handlershared "github.com/h2go-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getCartSessionID(c *gin.Context) (string, bool) {
	return handlershared.GetCartSessionID(c)
}

func getBearerToken(c *gin.Context) (string, bool) {
	return handlershared.GetBearerToken(c)
}
