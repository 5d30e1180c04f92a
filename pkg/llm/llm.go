// Package llm 提供 OpenAI 兼容的 LLM 客户端。
//
// 上下文装配的下游消费者：把装配好的上下文包连同调用方的
// 指令发送给聊天补全端点。默认对接 Groq 的 OpenAI 兼容
// 端点，也可指向任何兼容服务。
package llm

import "context"

// Role 消息角色
type Role string

const (
	// RoleSystem 系统消息
	RoleSystem Role = "system"
	// RoleUser 用户消息
	RoleUser Role = "user"
	// RoleAssistant 助手消息
	RoleAssistant Role = "assistant"
)

// Message 对话消息
type Message struct {
	// Role 消息角色
	Role Role `json:"role"`
	// Content 消息内容
	Content string `json:"content"`
}

// NewSystemMessage 创建系统消息
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage 创建用户消息
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// TokenUsage Token 使用统计
type TokenUsage struct {
	// PromptTokens 输入 Token 数
	PromptTokens int `json:"prompt_tokens"`
	// CompletionTokens 输出 Token 数
	CompletionTokens int `json:"completion_tokens"`
	// TotalTokens 总 Token 数
	TotalTokens int `json:"total_tokens"`
}

// Request 聊天补全请求
type Request struct {
	// Messages 对话消息列表
	Messages []Message
	// Temperature 采样温度（nil 时使用客户端默认值）
	Temperature *float64
	// MaxTokens 最大生成 Token 数（nil 时使用客户端默认值）
	MaxTokens *int
}

// Response 聊天补全响应
type Response struct {
	// ID 响应 ID
	ID string
	// Content 生成内容
	Content string
	// FinishReason 结束原因
	FinishReason string
	// TokenUsage Token 使用统计
	TokenUsage TokenUsage
}

// Provider LLM 提供商接口
type Provider interface {
	// Name 返回提供商名称
	Name() string

	// Model 返回当前模型名称
	Model() string

	// Generate 生成响应
	Generate(ctx context.Context, req Request) (Response, error)

	// Close 关闭客户端连接
	Close() error
}
