package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

const defaultReadHeaderTimeout = 10 * time.Second

// HTTPService 店铺 API 的 HTTP 服务
//
// 所有请求的 context 都派生自 streams。Stop 先取消 streams，让 SSE 推送循环结束，
// 否则长连接会一直占住 Shutdown 直到超时。
type HTTPService struct {
	name    string
	server  *http.Server
	streams context.Context
	cancel  context.CancelFunc
}

// NewHTTPService 创建 HTTP 服务
func NewHTTPService(addr string, handler http.Handler) *HTTPService {
	streams, cancel := context.WithCancel(context.Background())
	return &HTTPService{
		name:    "http",
		streams: streams,
		cancel:  cancel,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
			BaseContext: func(net.Listener) context.Context {
				return streams
			},
		},
	}
}

// Name 服务名称
func (s *HTTPService) Name() string {
	if s == nil || s.name == "" {
		return "http"
	}
	return s.name
}

// Start 监听配置地址并阻塞提供服务
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	addr := s.server.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve 在已有监听器上提供服务，Stop 后返回 nil
func (s *HTTPService) Serve(ln net.Listener) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 结束长连接后优雅关闭
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.cancel()
	return s.server.Shutdown(ctx)
}
