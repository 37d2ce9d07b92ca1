package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/h2go-next/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

var (
	ErrChatDisabled = errors.New("chat is disabled")
	ErrChatFailed   = errors.New("chat generation failed")
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 30 * time.Second
)

// Streamer 流式对话接口
type Streamer interface {
	Stream(ctx context.Context, messages []Message, emit func(chunk string) error) error
}

// Service Gemini 对话服务
type Service struct {
	client     *genai.Client
	model      string
	maxHistory int
	timeout    time.Duration
}

// NewService 创建对话服务，未配置 API Key 时返回禁用状态的服务
func NewService(ctx context.Context, cfg config.ChatConfig) (*Service, error) {
	svc := &Service{
		model:      strings.TrimSpace(cfg.Model),
		maxHistory: cfg.MaxHistory,
		timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
	if svc.model == "" {
		svc.model = defaultModel
	}
	if svc.timeout <= 0 {
		svc.timeout = defaultTimeout
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return svc, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	svc.client = client
	return svc, nil
}

// Enabled 是否已配置模型
func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// Close 关闭客户端
func (s *Service) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}

// Stream 发送对话并把生成的文本片段依次交给 emit
func (s *Service) Stream(ctx context.Context, messages []Message, emit func(chunk string) error) error {
	if !s.Enabled() {
		return ErrChatDisabled
	}
	history, last, err := prepareHistory(messages, s.maxHistory)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	model := s.client.GenerativeModel(s.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	session := model.StartChat()
	session.History = history

	iter := session.SendMessageStream(ctx, genai.Text(last))
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrChatFailed, err)
		}
		for _, text := range responseText(resp) {
			if err := emit(text); err != nil {
				return err
			}
		}
	}
}

func responseText(resp *genai.GenerateContentResponse) []string {
	if resp == nil {
		return nil
	}
	var chunks []string
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok && text != "" {
				chunks = append(chunks, string(text))
			}
		}
	}
	return chunks
}
