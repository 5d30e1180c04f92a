// Package errors 定义框架的通用错误类型
package errors

import (
	"errors"
	"fmt"
)

// 通用错误
var (
	// ErrInvalidConfig 配置无效
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrContextCanceled 上下文被取消
	ErrContextCanceled = errors.New("context canceled")
)

// 校验相关错误（调用方契约错误，立即返回，不重试）
var (
	// ErrInvalidSubject 主体名称为空或格式非法
	ErrInvalidSubject = errors.New("invalid subject name")
	// ErrInvalidBudget Token 预算必须为正数
	ErrInvalidBudget = errors.New("token budget must be positive")
	// ErrEmptySection 分段标签为空
	ErrEmptySection = errors.New("section label must not be empty")
)

// 知识源相关错误（在聚合边界内被吸收为空集，不向调用方抛出）
var (
	// ErrSourceUnavailable 知识源不可用
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMissingCredential 知识源凭证缺失
	ErrMissingCredential = errors.New("missing source credential")
	// ErrMalformedResponse 知识源响应格式非法
	ErrMalformedResponse = errors.New("malformed source response")
	// ErrTimeout 请求超时
	ErrTimeout = errors.New("request timeout")
	// ErrRateLimited 请求被限速
	ErrRateLimited = errors.New("rate limited")
)

// 分词器相关错误（度量原语失效，致命，直接上报）
var (
	// ErrTokenizerUnavailable 分词器初始化失败
	ErrTokenizerUnavailable = errors.New("tokenizer unavailable")
	// ErrEncodeFailed 文本编码失败
	ErrEncodeFailed = errors.New("token encode failed")
	// ErrDecodeFailed Token 序列解码失败
	ErrDecodeFailed = errors.New("token decode failed")
)

// LLM 相关错误
var (
	// ErrInvalidAPIKey API 密钥无效
	ErrInvalidAPIKey = errors.New("invalid API key")
	// ErrProviderUnavailable 提供商不可用
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrInvalidResponse LLM 响应无效
	ErrInvalidResponse = errors.New("invalid LLM response")
)

// WrapError 包装错误并添加上下文信息
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// IsRetryable 判断错误是否可重试
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrSourceUnavailable)
}

// IsFatal 判断错误是否为致命错误（不可恢复）
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrInvalidAPIKey) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrTokenizerUnavailable) ||
		errors.Is(err, ErrEncodeFailed) ||
		errors.Is(err, ErrDecodeFailed)
}

// IsAbsorbable 判断错误是否应在聚合边界内降级为空结果
//
// 知识源内部的失败（网络、解析、凭证、超时）一律吸收，
// 单一知识源故障不得阻断整体聚合。
func IsAbsorbable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrSourceUnavailable) ||
		errors.Is(err, ErrMissingCredential) ||
		errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}
