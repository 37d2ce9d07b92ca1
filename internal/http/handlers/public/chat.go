package public

import (
	"github.com/h2go-next/internal/chat"
	"github.com/h2go-next/internal/constants"
	"github.com/h2go-next/internal/http/response"
	"github.com/h2go-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// ChatRequest 聊天请求，messages 为完整对话历史
type ChatRequest struct {
	Messages []chat.Message `json:"messages" binding:"required"`
}

// Chat 以 SSE 流式返回 AI 助手回复
//
// 第一段文本产生之前出错时返回普通 JSON 错误；开始推送后出错只能以 error 事件结束。
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if h.ChatService == nil {
		respondError(c, response.CodeServiceUnavailable, "error.chat_disabled", nil)
		return
	}

	ctx := c.Request.Context()
	started := false
	chunks := 0
	err := h.ChatService.Stream(ctx, req.Messages, func(chunk string) error {
		if !started {
			started = true
			c.Header("X-Accel-Buffering", "no")
		}
		chunks++
		c.SSEvent(constants.ChatEventMessage, gin.H{"text": chunk})
		c.Writer.Flush()
		return ctx.Err()
	})

	if err != nil && !started {
		respondChatError(c, err)
		return
	}
	if err != nil {
		requestLog(c).Warnw("chat_stream_interrupted", "chunks", chunks, "error", err)
		msg := i18n.T(i18n.ResolveLocale(c), "error.chat_failed")
		c.SSEvent(constants.ChatEventError, gin.H{"msg": msg})
		c.Writer.Flush()
		return
	}
	c.SSEvent(constants.ChatEventDone, gin.H{"chunks": chunks})
	c.Writer.Flush()
}
