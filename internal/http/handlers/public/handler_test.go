package public

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/h2go-next/internal/cache"
	"github.com/h2go-next/internal/cart"
	"github.com/h2go-next/internal/catalog"
	"github.com/h2go-next/internal/chat"
	"github.com/h2go-next/internal/checkout"
	"github.com/h2go-next/internal/config"
	handlershared "github.com/h2go-next/internal/http/handlers/shared"
	"github.com/h2go-next/internal/provider"
	"github.com/h2go-next/internal/service"
	"github.com/h2go-next/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const cmsProductPayload = `{
  "data": [{
    "id": 7,
    "name": "Botella H2GO",
    "slug": "botella-h2go",
    "price": 59.9,
    "images": [{"id": 1, "url": "/uploads/botella.png"}],
    "variants": [
      {"id": 31, "color_name": "Negro", "color_hex": "#000000", "product_images": [{"id": 2, "url": "/uploads/negro.png"}]}
    ]
  }]
}`

type fakeStreamer struct {
	chunks []string
	err    error
}

func (f *fakeStreamer) Stream(ctx context.Context, messages []chat.Message, emit func(chunk string) error) error {
	for _, chunk := range f.chunks {
		if err := emit(chunk); err != nil {
			return err
		}
	}
	return f.err
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type testEnv struct {
	container *provider.Container
	engine    *gin.Engine
	orders    atomic.Int32
}

// outageStorage 读取总是失败的存储，记录写入次数
type outageStorage struct {
	writes atomic.Int32
}

func (o *outageStorage) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

func (o *outageStorage) Set(ctx context.Context, key, value string) error {
	o.writes.Add(1)
	return nil
}

func (o *outageStorage) Delete(ctx context.Context, key string) error {
	return nil
}

func newTestEnv(t *testing.T, streamer chat.Streamer) *testEnv {
	t.Helper()
	return newTestEnvWithStorage(t, streamer, storage.NewMemory())
}

func newTestEnvWithStorage(t *testing.T, streamer chat.Streamer, backend cart.Storage) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cache.Use(nil, "")

	cms := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/products" && r.URL.Query().Get("filters[slug][$eq]") == "botella-h2go":
			_, _ = w.Write([]byte(cmsProductPayload))
		case r.URL.Path == "/api/products":
			_, _ = w.Write([]byte(`{"data": []}`))
		case r.URL.Path == "/api/posts" && r.URL.Query().Get("filters[slug][$eq]") == "nueva-botella":
			_, _ = w.Write([]byte(`{"data": [{"id": 4, "title": "Nueva botella", "slug": "nueva-botella", "content": "Texto"}]}`))
		case r.URL.Path == "/api/posts" && r.URL.Query().Has("filters[slug][$eq]"):
			_, _ = w.Write([]byte(`{"data": []}`))
		case r.URL.Path == "/api/posts":
			_, _ = w.Write([]byte(`{"data": [{"id": 4, "title": "Nueva botella", "slug": "nueva-botella"}]}`))
		case r.URL.Path == "/api/home-page":
			_, _ = w.Write([]byte(`{"data": {"id": 1, "title": "h2go", "sections": []}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(cms.Close)

	env := &testEnv{}
	backendServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/orders":
			env.orders.Add(1)
			if r.Header.Get("Authorization") != "Bearer good-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"pedidoId": 501, "redirectUrl": "https://pay.example.com/501"}`))
		case "/perfil":
			_, _ = w.Write([]byte(`{"nombre": "Ana", "email": "ana@example.com"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(backendServer.Close)

	cartCfg := config.CartConfig{StorageKey: "h2go_cart"}
	env.container = &provider.Container{
		Config:             &config.Config{Cart: cartCfg},
		CartStorage:        backend,
		CartSessionService: service.NewCartSessionService(backend, cartCfg),
		CatalogClient:      catalog.NewClient(config.CMSConfig{BaseURL: cms.URL, TimeoutMS: 2000}),
		CheckoutService:    checkout.NewService(config.BackendConfig{BaseURL: backendServer.URL, TimeoutMS: 2000}, checkout.DefaultShippingPolicy()),
		ChatService:        streamer,
	}

	h := New(env.container)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if session := c.GetHeader(service.CartSessionHeader); session != "" {
			c.Set(handlershared.CartSessionContextKey, session)
		}
		if token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "); token != "" {
			c.Set(handlershared.BearerTokenContextKey, token)
		}
		c.Next()
	})
	r.GET("/public/home", h.GetHomePage)
	r.GET("/public/products/:slug", h.GetProductBySlug)
	r.GET("/public/posts", h.GetPosts)
	r.GET("/public/posts/:slug", h.GetPostBySlug)
	r.GET("/cart", h.GetCart)
	r.GET("/cart/summary", h.GetCartSummary)
	r.GET("/cart/events", h.StreamCartEvents)
	r.POST("/cart/items", h.AddCartItem)
	r.PATCH("/cart/items/:unique_id", h.UpdateCartItem)
	r.DELETE("/cart/items/:unique_id", h.RemoveCartItem)
	r.POST("/cart/panel/:action", h.SetCartPanel)
	r.GET("/checkout/profile", h.GetCheckoutProfile)
	r.POST("/checkout", h.SubmitCheckout)
	r.POST("/checkout/return", h.HandlePaymentReturn)
	r.POST("/chat", h.Chat)
	env.engine = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path, session, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set(service.CartSessionHeader, session)
	}
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) CartView {
	t.Helper()
	resp := decodeEnvelope(t, w)
	if resp.StatusCode != 0 {
		t.Fatalf("status_code want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var view CartView
	if err := json.Unmarshal(resp.Data, &view); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}
	return view
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{})
	session := uuid.NewString()

	view := decodeCart(t, env.do(t, http.MethodGet, "/cart", session, ""))
	if len(view.Items) != 0 || view.ItemCount != 0 || view.IsPanelOpen {
		t.Fatalf("new cart should be empty and closed: %+v", view)
	}

	env.do(t, http.MethodPost, "/cart/panel/close", session, "")
	view = decodeCart(t, env.do(t, http.MethodPost, "/cart/items", session, `{"slug":"botella-h2go","variant_index":0}`))
	if len(view.Items) != 1 || view.Items[0].UniqueID != "7-31" || !view.IsPanelOpen {
		t.Fatalf("unexpected cart after add: %+v", view)
	}
	if view.Items[0].Image != "/uploads/negro.png" || view.Items[0].Variant == nil || view.Items[0].Variant.Name != "Negro" {
		t.Fatalf("variant snapshot missing: %+v", view.Items[0])
	}

	env.do(t, http.MethodPost, "/cart/items", session, `{"slug":"botella-h2go","variant_index":0}`)
	view = decodeCart(t, env.do(t, http.MethodPost, "/cart/items", session, `{"slug":"botella-h2go"}`))
	if len(view.Items) != 2 || view.Items[0].Quantity != 2 || view.Items[1].UniqueID != "7-default" {
		t.Fatalf("unexpected merge result: %+v", view.Items)
	}
	if view.ItemCount != 3 || view.Subtotal.String() != "179.70" {
		t.Fatalf("totals want 3/179.70 got %d/%s", view.ItemCount, view.Subtotal.String())
	}
	if view.Summary.Shipping.String() != "15.00" || view.Summary.Total.String() != "194.70" {
		t.Fatalf("unexpected summary: %+v", view.Summary)
	}

	view = decodeCart(t, env.do(t, http.MethodPatch, "/cart/items/7-31", session, `{"delta":-2}`))
	if len(view.Items) != 1 || view.Items[0].UniqueID != "7-default" {
		t.Fatalf("quantity to zero should remove the line: %+v", view.Items)
	}

	view = decodeCart(t, env.do(t, http.MethodDelete, "/cart/items/unknown", session, ""))
	if len(view.Items) != 1 {
		t.Fatalf("removing unknown id should be a no-op: %+v", view.Items)
	}
	view = decodeCart(t, env.do(t, http.MethodDelete, "/cart/items/7-default", session, ""))
	if len(view.Items) != 0 {
		t.Fatalf("cart should be empty: %+v", view.Items)
	}

	raw, found, err := env.container.CartStorage.Get(context.Background(), env.container.CartSessionService.SlotKey(session))
	if err != nil || !found || raw != "[]" {
		t.Fatalf("persisted slot want [] got %q found=%v err=%v", raw, found, err)
	}
}

func TestCartSessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{})
	first := uuid.NewString()
	second := uuid.NewString()

	env.do(t, http.MethodPost, "/cart/items", first, `{"slug":"botella-h2go"}`)
	view := decodeCart(t, env.do(t, http.MethodGet, "/cart", second, ""))
	if len(view.Items) != 0 {
		t.Fatalf("second session should not see first session items: %+v", view.Items)
	}
}

func TestCartValidation(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{})
	session := uuid.NewString()

	cases := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{name: "missing slug", method: http.MethodPost, path: "/cart/items", body: `{}`, wantCode: 400},
		{name: "unknown product", method: http.MethodPost, path: "/cart/items", body: `{"slug":"no-existe"}`, wantCode: 404},
		{name: "missing delta", method: http.MethodPatch, path: "/cart/items/7-31", body: `{}`, wantCode: 400},
		{name: "zero delta", method: http.MethodPatch, path: "/cart/items/7-31", body: `{"delta":0}`, wantCode: 400},
		{name: "bad panel action", method: http.MethodPost, path: "/cart/panel/flip", wantCode: 400},
	}
	for _, tc := range cases {
		resp := decodeEnvelope(t, env.do(t, tc.method, tc.path, session, tc.body))
		if resp.StatusCode != tc.wantCode {
			t.Fatalf("%s: status_code want %d got %d", tc.name, tc.wantCode, resp.StatusCode)
		}
	}

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cart", nil))
	if resp := decodeEnvelope(t, w); resp.StatusCode != 400 {
		t.Fatalf("missing session want 400 got %d", resp.StatusCode)
	}
}

func TestSetCartPanel(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{})
	session := uuid.NewString()

	steps := []struct {
		action string
		want   bool
	}{
		{action: "open", want: true},
		{action: "toggle", want: false},
		{action: "TOGGLE", want: true},
		{action: "close", want: false},
	}
	for _, step := range steps {
		resp := decodeEnvelope(t, env.do(t, http.MethodPost, "/cart/panel/"+step.action, session, ""))
		var data struct {
			IsPanelOpen bool `json:"is_panel_open"`
		}
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			t.Fatalf("unmarshal panel failed: %v", err)
		}
		if data.IsPanelOpen != step.want {
			t.Fatalf("%s: panel want %v got %v", step.action, step.want, data.IsPanelOpen)
		}
	}
}

func TestGetCartSummaryFreeShipping(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{})
	session := uuid.NewString()
	for i := 0; i < 4; i++ {
		env.do(t, http.MethodPost, "/cart/items", session, `{"slug":"botella-h2go"}`)
	}

	resp := decodeEnvelope(t, env.do(t, http.MethodGet, "/cart/summary", session, ""))
	var summary CartSummaryView
	if err := json.Unmarshal(resp.Data, &summary); err != nil {
		t.Fatalf("unmarshal summary failed: %v", err)
	}
	if summary.ItemCount != 4 || summary.Subtotal.String() != "239.60" {
		t.Fatalf("unexpected summary totals: %+v", summary)
	}
	if !summary.FreeShipping || !summary.Shipping.IsZero() || summary.Total.String() != "239.60" {
		t.Fatalf("subtotal above threshold should ship free: %+v", summary)
	}
}

func TestCatalogHandlers(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{})

	resp := decodeEnvelope(t, env.do(t, http.MethodGet, "/public/products/Botella-H2GO", "", ""))
	if resp.StatusCode != 0 || !strings.Contains(string(resp.Data), `"slug":"botella-h2go"`) {
		t.Fatalf("unexpected product response: %d %s", resp.StatusCode, string(resp.Data))
	}
	resp = decodeEnvelope(t, env.do(t, http.MethodGet, "/public/products/nada", "", ""))
	if resp.StatusCode != 404 {
		t.Fatalf("missing product want 404 got %d", resp.StatusCode)
	}
	resp = decodeEnvelope(t, env.do(t, http.MethodGet, "/public/home", "", ""))
	if resp.StatusCode != 0 {
		t.Fatalf("home want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
}

func TestSubmitCheckout(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{})
	session := uuid.NewString()
	shipping := `{"shipping_data":{"firstName":"Ana","email":"ana@example.com","phone":"987654321","address":"Av. Arequipa 123","city":"Lima"}}`

	resp := decodeEnvelope(t, env.do(t, http.MethodPost, "/checkout", session, shipping))
	if resp.StatusCode != 400 {
		t.Fatalf("empty cart want 400 got %d", resp.StatusCode)
	}

	env.do(t, http.MethodPost, "/cart/items", session, `{"slug":"botella-h2go"}`)
	resp = decodeEnvelope(t, env.do(t, http.MethodPost, "/checkout", session, `{"shipping_data":{"firstName":"Ana","email":"nope"}}`))
	if resp.StatusCode != 422 || !strings.Contains(string(resp.Data), `"email"`) {
		t.Fatalf("invalid shipping want 422 with fields, got %d %s", resp.StatusCode, string(resp.Data))
	}
	if env.orders.Load() != 0 {
		t.Fatalf("backend should not be called before validation passes")
	}

	resp = decodeEnvelope(t, env.do(t, http.MethodPost, "/checkout", session, shipping))
	if resp.StatusCode != 0 {
		t.Fatalf("checkout want 0 got %d (%s)", resp.StatusCode, resp.Msg)
	}
	var result checkout.Result
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		t.Fatalf("unmarshal result failed: %v", err)
	}
	if result.OrderID != "501" || result.RedirectURL != "https://pay.example.com/501" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Summary.Total.String() != "74.90" {
		t.Fatalf("total want 74.90 got %s", result.Summary.Total.String())
	}

	view := decodeCart(t, env.do(t, http.MethodGet, "/cart", session, ""))
	if len(view.Items) != 1 {
		t.Fatalf("cart should be kept after checkout: %+v", view.Items)
	}
}

func TestSubmitCheckoutUnauthorized(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{})
	session := uuid.NewString()
	env.do(t, http.MethodPost, "/cart/items", session, `{"slug":"botella-h2go"}`)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"shipping_data":{"firstName":"Ana","email":"ana@example.com","phone":"987654321","address":"Av. Arequipa 123","city":"Lima"}}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(service.CartSessionHeader, session)
	req.Header.Set("Authorization", "Bearer expired-token")
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)

	if resp := decodeEnvelope(t, w); resp.StatusCode != 401 {
		t.Fatalf("rejected token want 401 got %d", resp.StatusCode)
	}
}

func TestGetCheckoutProfile(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{})
	resp := decodeEnvelope(t, env.do(t, http.MethodGet, "/checkout/profile", "", ""))
	var profile checkout.Profile
	if err := json.Unmarshal(resp.Data, &profile); err != nil {
		t.Fatalf("unmarshal profile failed: %v", err)
	}
	if profile.Name != "Ana" || profile.Email != "ana@example.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestChatStreams(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{chunks: []string{"Hola", ", ¿en qué te ayudo?"}})
	w := env.do(t, http.MethodPost, "/chat", "", `{"messages":[{"role":"user","content":"hola"}]}`)

	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("content type want event stream got %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "event:message") || !strings.Contains(body, `"text":"Hola"`) {
		t.Fatalf("missing message events: %s", body)
	}
	if !strings.Contains(body, "event:done") {
		t.Fatalf("missing done event: %s", body)
	}
}

func TestChatErrors(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{err: chat.ErrChatDisabled})
	resp := decodeEnvelope(t, env.do(t, http.MethodPost, "/chat", "", `{"messages":[{"role":"user","content":"hola"}]}`))
	if resp.StatusCode != 503 {
		t.Fatalf("disabled chat want 503 got %d", resp.StatusCode)
	}

	env = newTestEnv(t, &fakeStreamer{err: chat.ErrEmptyMessage})
	resp = decodeEnvelope(t, env.do(t, http.MethodPost, "/chat", "", `{"messages":[]}`))
	if resp.StatusCode != 400 {
		t.Fatalf("empty chat want 400 got %d", resp.StatusCode)
	}

	env = newTestEnv(t, &fakeStreamer{chunks: []string{"Hola"}, err: errors.New("upstream reset")})
	w := env.do(t, http.MethodPost, "/chat", "", `{"messages":[{"role":"user","content":"hola"}]}`)
	if !strings.Contains(w.Body.String(), "event:error") {
		t.Fatalf("interrupted stream should end with an error event: %s", w.Body.String())
	}
}

func TestStreamCartEvents(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{})
	server := httptest.NewServer(env.engine)
	defer server.Close()
	session := uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/cart/events", nil)
	if err != nil {
		t.Fatalf("build request failed: %v", err)
	}
	req.Header.Set(service.CartSessionHeader, session)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open event stream failed: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	waitEvent := func(name string) string {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read stream failed waiting for %s: %v", name, err)
			}
			if strings.TrimSpace(line) != "event:"+name {
				continue
			}
			data, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("read data failed: %v", err)
			}
			return strings.TrimPrefix(strings.TrimSpace(data), "data:")
		}
	}

	if snapshot := waitEvent("snapshot"); !strings.Contains(snapshot, `"items":[]`) {
		t.Fatalf("unexpected snapshot: %s", snapshot)
	}

	// 长连接持有期间会话不会被清理，后续变更仍推送到同一个 Store
	purged, err := env.container.CartSessionService.PurgeStale(context.Background(), time.Now().Add(time.Hour))
	if err != nil || purged.Evicted != 0 {
		t.Fatalf("streaming session should not be purged: %+v err=%v", purged, err)
	}

	store, err := env.container.CartSessionService.Open(context.Background(), session)
	if err != nil {
		t.Fatalf("open cart failed: %v", err)
	}
	store.OpenPanel()

	event := waitEvent("cart")
	if !strings.Contains(event, `"kind":"panel"`) || !strings.Contains(event, `"is_panel_open":true`) {
		t.Fatalf("unexpected cart event: %s", event)
	}
}

func TestCartWritesRejectedDuringStorageOutage(t *testing.T) {
	backend := &outageStorage{}
	env := newTestEnvWithStorage(t, &fakeStreamer{}, backend)
	session := uuid.NewString()

	view := decodeCart(t, env.do(t, http.MethodGet, "/cart", session, ""))
	if len(view.Items) != 0 {
		t.Fatalf("unreadable cart should show as empty: %+v", view.Items)
	}

	writes := []struct {
		method string
		path   string
		body   string
	}{
		{method: http.MethodPost, path: "/cart/items", body: `{"slug":"botella-h2go"}`},
		{method: http.MethodPatch, path: "/cart/items/7-default", body: `{"delta":1}`},
		{method: http.MethodDelete, path: "/cart/items/7-default"},
		{method: http.MethodPost, path: "/checkout/return", body: `{"order_id":"501","status":"approved"}`},
	}
	for _, tc := range writes {
		resp := decodeEnvelope(t, env.do(t, tc.method, tc.path, session, tc.body))
		if resp.StatusCode != 503 {
			t.Fatalf("%s %s during outage want 503 got %d", tc.method, tc.path, resp.StatusCode)
		}
	}
	if backend.writes.Load() != 0 {
		t.Fatalf("stored cart must not be overwritten during outage, got %d writes", backend.writes.Load())
	}
}

func TestHandlePaymentReturn(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{})
	session := uuid.NewString()
	env.do(t, http.MethodPost, "/cart/items", session, `{"slug":"botella-h2go"}`)

	decodeReturn := func(w *httptest.ResponseRecorder) PaymentReturnView {
		t.Helper()
		resp := decodeEnvelope(t, w)
		if resp.StatusCode != 0 {
			t.Fatalf("payment return want 0 got %d (%s)", resp.StatusCode, resp.Msg)
		}
		var view PaymentReturnView
		if err := json.Unmarshal(resp.Data, &view); err != nil {
			t.Fatalf("unmarshal payment return failed: %v", err)
		}
		return view
	}

	for _, status := range []string{"pending", "rejected", "null"} {
		view := decodeReturn(env.do(t, http.MethodPost, "/checkout/return", session, `{"order_id":"501","status":"`+status+`"}`))
		if view.CartCleared || len(view.Cart.Items) != 1 {
			t.Fatalf("status %s must keep the cart: %+v", status, view)
		}
	}

	resp := decodeEnvelope(t, env.do(t, http.MethodPost, "/checkout/return", session, `{"order_id":"501","status":"paid"}`))
	if resp.StatusCode != 400 {
		t.Fatalf("unknown status want 400 got %d", resp.StatusCode)
	}
	resp = decodeEnvelope(t, env.do(t, http.MethodPost, "/checkout/return", session, `{"order_id":"501"}`))
	if resp.StatusCode != 400 {
		t.Fatalf("missing status want 400 got %d", resp.StatusCode)
	}

	view := decodeReturn(env.do(t, http.MethodPost, "/checkout/return", session, `{"order_id":"501","payment_id":"mp-77","status":"Approved"}`))
	if !view.CartCleared || view.Status != "approved" || view.PaymentID != "mp-77" || len(view.Cart.Items) != 0 {
		t.Fatalf("approved payment should clear the cart: %+v", view)
	}
	raw, found, err := env.container.CartStorage.Get(context.Background(), env.container.CartSessionService.SlotKey(session))
	if err != nil || !found || raw != "[]" {
		t.Fatalf("cleared cart should be persisted, got %q found=%v err=%v", raw, found, err)
	}
}

func TestPostHandlers(t *testing.T) {
	env := newTestEnv(t, &fakeStreamer{})

	resp := decodeEnvelope(t, env.do(t, http.MethodGet, "/public/posts", "", ""))
	if resp.StatusCode != 0 || !strings.Contains(string(resp.Data), `"slug":"nueva-botella"`) {
		t.Fatalf("unexpected posts response: %d %s", resp.StatusCode, string(resp.Data))
	}
	resp = decodeEnvelope(t, env.do(t, http.MethodGet, "/public/posts/Nueva-Botella", "", ""))
	if resp.StatusCode != 0 || !strings.Contains(string(resp.Data), `"content":"Texto"`) {
		t.Fatalf("unexpected post response: %d %s", resp.StatusCode, string(resp.Data))
	}
	resp = decodeEnvelope(t, env.do(t, http.MethodGet, "/public/posts/nada", "", ""))
	if resp.StatusCode != 404 {
		t.Fatalf("missing post want 404 got %d", resp.StatusCode)
	}
}

func TestOfferLatestKeepsNewestEvent(t *testing.T) {
	events := make(chan cart.Event, 1)
	offerLatest(events, cart.Event{Kind: cart.EventItems, State: cart.State{ItemCount: 1}})
	offerLatest(events, cart.Event{Kind: cart.EventItems, State: cart.State{ItemCount: 2}})
	offerLatest(events, cart.Event{Kind: cart.EventPanel, State: cart.State{ItemCount: 2, PanelOpen: true}})

	select {
	case event := <-events:
		if event.Kind != cart.EventPanel || !event.State.PanelOpen {
			t.Fatalf("expected newest event, got %+v", event)
		}
	default:
		t.Fatalf("expected a pending event")
	}
	select {
	case event := <-events:
		t.Fatalf("expected a single pending event, got extra %+v", event)
	default:
	}
}
