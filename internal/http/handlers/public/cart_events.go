package public

import (
	"io"
	"time"

	"github.com/h2go-next/internal/cart"
	"github.com/h2go-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// StreamCartEvents 以 SSE 推送购物车变更
//
// 连接建立后先推送一次当前快照，之后每次变更推送一条 cart 事件。
// 消费过慢时只保留最新一条事件，客户端最终总能收到最后的状态。
func (h *Handler) StreamCartEvents(c *gin.Context) {
	sessionID, ok := getCartSessionID(c)
	if !ok {
		return
	}
	store, ok := h.openCart(c)
	if !ok {
		return
	}
	release := h.CartSessionService.Hold(sessionID, store)
	defer release()

	events := make(chan cart.Event, 1)
	unsubscribe := store.Subscribe(func(event cart.Event) {
		offerLatest(events, event)
	})
	defer unsubscribe()

	keepalive := time.NewTicker(time.Duration(constants.CartEventKeepaliveSec) * time.Second)
	defer keepalive.Stop()

	log := requestLog(c).With("cart_key", store.Key())
	log.Debugw("cart_events_connected")
	defer log.Debugw("cart_events_disconnected")

	c.Header("X-Accel-Buffering", "no")
	c.SSEvent(constants.CartEventSnapshotName, store.Snapshot())
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event := <-events:
			c.SSEvent(constants.CartEventStreamName, event)
			return true
		case <-keepalive.C:
			c.SSEvent(constants.CartEventKeepaliveName, time.Now().Unix())
			return true
		}
	})
}

// offerLatest 非阻塞投递，通道已满时用新事件替换尚未消费的旧事件
//
// 监听者按变更顺序串行调用，因此只有一个生产者。
func offerLatest(events chan cart.Event, event cart.Event) {
	select {
	case events <- event:
		return
	default:
	}
	select {
	case <-events:
	default:
	}
	select {
	case events <- event:
	default:
	}
}
