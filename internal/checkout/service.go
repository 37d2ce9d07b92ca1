package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/h2go-next/internal/cart"
	"github.com/h2go-next/internal/config"
	"github.com/h2go-next/internal/logger"
	"github.com/h2go-next/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized       = errors.New("checkout unauthorized")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrShippingInvalid    = errors.New("shipping data invalid")
	ErrOrderRejected      = errors.New("order rejected")
	ErrBackendRequest     = errors.New("order backend request failed")
	ErrBackendResponse    = errors.New("order backend response invalid")
	ErrProfileUnavailable = errors.New("profile unavailable")
)

const (
	defaultBackendURL = "http://localhost:3000/api"
	defaultTimeout    = 10 * time.Second
)

// RejectedError 订单后端拒绝下单（非 2xx），Reason 为后端返回的 error 文本
type RejectedError struct {
	StatusCode int
	Reason     string
}

func (e *RejectedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("order rejected: status %d", e.StatusCode)
	}
	return fmt.Sprintf("order rejected: status %d: %s", e.StatusCode, e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return ErrOrderRejected
}

// Result 下单结果
type Result struct {
	OrderID     string  `json:"order_id"`
	RedirectURL string  `json:"redirect_url,omitempty"`
	Summary     Summary `json:"summary"`
}

// Profile 用于预填收货表单的用户资料
type Profile struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Service 结算服务，将购物车提交到外部订单后端
type Service struct {
	baseURL    string
	timeout    time.Duration
	policy     ShippingPolicy
	httpClient *http.Client
}

// NewService 创建结算服务
func NewService(cfg config.BackendConfig, policy ShippingPolicy) *Service {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBackendURL
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Service{
		baseURL:    baseURL,
		timeout:    timeout,
		policy:     policy,
		httpClient: http.DefaultClient,
	}
}

// Policy 当前运费规则
func (s *Service) Policy() ShippingPolicy {
	return s.policy
}

// Quote 计算购物车的结算金额
func (s *Service) Quote(state cart.State) Summary {
	return s.policy.Quote(state.Subtotal)
}

type orderVariant struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type orderLine struct {
	UniqueID string        `json:"uniqueId"`
	ID       int           `json:"id"`
	Slug     string        `json:"slug"`
	Name     string        `json:"name"`
	Price    json.Number   `json:"price"`
	Quantity int           `json:"quantity"`
	Image    string        `json:"image,omitempty"`
	Variant  *orderVariant `json:"variant,omitempty"`
}

type orderPayload struct {
	ShippingData ShippingData `json:"shippingData"`
	Items        []orderLine  `json:"items"`
	Subtotal     json.Number  `json:"subtotal"`
	Total        json.Number  `json:"total"`
}

type orderResponse struct {
	PedidoID    json.RawMessage `json:"pedidoId"`
	RedirectURL string          `json:"redirectUrl"`
	Error       string          `json:"error"`
}

func amount(m models.Money) json.Number {
	return json.Number(m.String())
}

func buildOrderLines(items []models.CartLineItem) []orderLine {
	lines := make([]orderLine, 0, len(items))
	for _, item := range items {
		line := orderLine{
			UniqueID: item.UniqueID,
			ID:       item.ID,
			Slug:     item.Slug,
			Name:     item.Name,
			Price:    amount(item.Price),
			Quantity: item.Quantity,
			Image:    item.Image,
		}
		if item.Variant != nil {
			line.Variant = &orderVariant{Name: item.Variant.Name, Color: item.Variant.Color}
		}
		lines = append(lines, line)
	}
	return lines
}

// Submit 提交订单
//
// 购物车为空、未登录或收货信息不完整时不会发起请求。成功后不清空购物车。
func (s *Service) Submit(ctx context.Context, token string, state cart.State, data ShippingData) (*Result, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}
	if len(state.Items) == 0 {
		return nil, ErrCartEmpty
	}
	data = data.Normalize()
	if invalid := data.InvalidFields(); len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrShippingInvalid, strings.Join(invalid, ","))
	}

	summary := s.policy.Quote(state.Subtotal)
	body, err := json.Marshal(orderPayload{
		ShippingData: data,
		Items:        buildOrderLines(state.Items),
		Subtotal:     amount(summary.Subtotal),
		Total:        amount(summary.Total),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request failed", ErrBackendRequest)
	}

	idempotencyKey := uuid.NewString()
	log := logger.SW("idempotency_key", idempotencyKey, "subject", TokenSubject(token))
	headers := map[string]string{"Idempotency-Key": idempotencyKey}

	respBody, statusCode, err := s.doJSONRequest(ctx, http.MethodPost, "/orders", token, body, headers)
	if err != nil {
		log.Warnw("checkout_backend_request_failed", "error", err)
		return nil, err
	}

	var resp orderResponse
	decodeErr := json.Unmarshal(respBody, &resp)
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if statusCode < 200 || statusCode >= 300 {
		log.Warnw("checkout_order_rejected", "status", statusCode, "reason", resp.Error)
		return nil, &RejectedError{StatusCode: statusCode, Reason: strings.TrimSpace(resp.Error)}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrBackendResponse)
	}
	orderID := rawID(resp.PedidoID)
	if orderID == "" {
		return nil, fmt.Errorf("%w: missing pedidoId", ErrBackendResponse)
	}

	log.Infow("checkout_order_created",
		"order_id", orderID,
		"items", len(state.Items),
		"total", summary.Total.String(),
	)
	return &Result{
		OrderID:     orderID,
		RedirectURL: strings.TrimSpace(resp.RedirectURL),
		Summary:     summary,
	}, nil
}

// Profile 读取当前登录用户资料
func (s *Service) Profile(ctx context.Context, token string) (*Profile, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}
	respBody, statusCode, err := s.doJSONRequest(ctx, http.MethodGet, "/perfil", token, nil, nil)
	if err != nil {
		return nil, err
	}
	if statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrProfileUnavailable, statusCode)
	}
	var raw struct {
		Nombre string `json:"nombre"`
		Email  string `json:"email"`
	}
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrBackendResponse)
	}
	return &Profile{Name: strings.TrimSpace(raw.Nombre), Email: strings.TrimSpace(raw.Email)}, nil
}

// TokenSubject 读取令牌的 sub 声明（不校验签名，仅用于日志关联）
func TokenSubject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	subject, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return subject
}

func rawID(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	return trimmed
}

func (s *Service) doJSONRequest(ctx context.Context, method, endpoint, token string, body []byte, headers map[string]string) ([]byte, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrBackendRequest)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrBackendRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrBackendRequest)
	}
	return respBody, resp.StatusCode, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}
