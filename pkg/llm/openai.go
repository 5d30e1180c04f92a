package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/easyops/medcontext-go/pkg/core/errors"
)

// GroqBaseURL Groq 的 OpenAI 兼容端点
const GroqBaseURL = "https://api.groq.com/openai/v1"

// DefaultGroqModel Groq 默认模型
const DefaultGroqModel = "llama-3.3-70b-versatile"

// OpenAIClient OpenAI 兼容的 LLM 客户端
type OpenAIClient struct {
	client  *openai.Client
	name    string
	options *Options
}

// NewOpenAI 创建 OpenAI 客户端
func NewOpenAI(opts ...Option) (*OpenAIClient, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.APIKey == "" {
		return nil, errors.ErrInvalidAPIKey
	}
	if options.Model == "" {
		options.Model = "gpt-4o"
	}

	config := openai.DefaultConfig(options.APIKey)
	if options.BaseURL != "" {
		config.BaseURL = options.BaseURL
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(config),
		name:    "openai",
		options: options,
	}, nil
}

// NewGroq 创建指向 Groq 兼容端点的客户端
func NewGroq(opts ...Option) (*OpenAIClient, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	if options.APIKey == "" {
		return nil, errors.ErrInvalidAPIKey
	}
	if options.BaseURL == "" {
		options.BaseURL = GroqBaseURL
	}
	if options.Model == "" {
		options.Model = DefaultGroqModel
	}

	config := openai.DefaultConfig(options.APIKey)
	config.BaseURL = options.BaseURL

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(config),
		name:    "groq",
		options: options,
	}, nil
}

// Name 返回提供商名称
func (c *OpenAIClient) Name() string {
	return c.name
}

// Model 返回当前模型名称
func (c *OpenAIClient) Model() string {
	return c.options.Model
}

// Close 关闭客户端连接
func (c *OpenAIClient) Close() error {
	return nil
}

// Generate 生成响应（带重试）
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (Response, error) {
	chatReq := c.buildChatRequest(req)

	var resp openai.ChatCompletionResponse
	var err error

	err = retry(ctx, c.options.MaxRetries, c.options.RetryDelay, func() error {
		resp, err = c.client.CreateChatCompletion(ctx, chatReq)
		return mapOpenAIError(err)
	})

	if err != nil {
		return Response{}, err
	}

	return parseResponse(resp)
}

// buildChatRequest 构建聊天补全请求
func (c *OpenAIClient) buildChatRequest(req Request) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    c.options.Model,
		Messages: messages,
	}

	if req.Temperature != nil {
		chatReq.Temperature = float32(*req.Temperature)
	} else {
		chatReq.Temperature = float32(c.options.Temperature)
	}

	if req.MaxTokens != nil {
		chatReq.MaxTokens = *req.MaxTokens
	} else {
		chatReq.MaxTokens = c.options.MaxTokens
	}

	return chatReq
}

// parseResponse 解析响应
func parseResponse(resp openai.ChatCompletionResponse) (Response, error) {
	if len(resp.Choices) == 0 {
		return Response{}, errors.ErrInvalidResponse
	}

	choice := resp.Choices[0]
	return Response{
		ID:           resp.ID,
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		TokenUsage: TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// mapOpenAIError 映射 API 错误到框架错误
func mapOpenAIError(err error) error {
	if err == nil {
		return nil
	}

	apiErr, ok := err.(*openai.APIError)
	if !ok {
		return errors.WrapError(err, "llm request failed")
	}

	switch apiErr.HTTPStatusCode {
	case 401:
		return errors.ErrInvalidAPIKey
	case 429:
		return errors.ErrRateLimited
	case 500, 502, 503:
		return errors.ErrProviderUnavailable
	default:
		return fmt.Errorf("llm error (code=%d): %w", apiErr.HTTPStatusCode, err)
	}
}

// 编译时接口检查
var _ Provider = (*OpenAIClient)(nil)
