package bundle

import (
	"github.com/pkoukk/tiktoken-go"

	"github.com/easyops/medcontext-go/pkg/core/errors"
)

// Tokenizer 定义 Token 编解码接口。
//
// Encode 对给定文本保序且确定；Decode 对截断后的序列给出
// 原文本某个前缀的合法、可展示重建。Token 的具体含义对
// 装配器不透明，只有序列长度和编解码往返有意义。
type Tokenizer interface {
	// Encode 把文本编码为 Token 序列。
	Encode(text string) ([]int, error)

	// Decode 把 Token 序列解码回文本。
	Decode(tokens []int) (string, error)
}

// TiktokenTokenizer 使用 tiktoken 实现精确的 Token 编解码。
type TiktokenTokenizer struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// TiktokenOption 配置 TiktokenTokenizer。
type TiktokenOption func(*TiktokenTokenizer)

// WithEncoding 设置 tiktoken 编码名称（如 cl100k_base、o200k_base）。
func WithEncoding(name string) TiktokenOption {
	return func(t *TiktokenTokenizer) {
		t.name = name
	}
}

// NewTiktokenTokenizer 创建新的 TiktokenTokenizer。
// 默认使用 cl100k_base 编码（GPT-4、GPT-4o 等使用）。
func NewTiktokenTokenizer(opts ...TiktokenOption) (*TiktokenTokenizer, error) {
	t := &TiktokenTokenizer{
		name: "cl100k_base",
	}

	for _, opt := range opts {
		opt(t)
	}

	encoding, err := tiktoken.GetEncoding(t.name)
	if err != nil {
		return nil, errors.WrapError(errors.ErrTokenizerUnavailable, t.name)
	}

	t.encoding = encoding
	return t, nil
}

// Encode 把文本编码为 Token 序列。
func (t *TiktokenTokenizer) Encode(text string) ([]int, error) {
	if t.encoding == nil {
		return nil, errors.ErrTokenizerUnavailable
	}
	return t.encoding.Encode(text, nil, nil), nil
}

// Decode 把 Token 序列解码回文本。
func (t *TiktokenTokenizer) Decode(tokens []int) (string, error) {
	if t.encoding == nil {
		return "", errors.ErrTokenizerUnavailable
	}
	return t.encoding.Decode(tokens), nil
}

// RuneTokenizer 把每个 rune 视为一个 Token。
//
// 当 tiktoken 编码不可用时的确定性降级方案：编解码往返
// 天然满足前缀重建性质，且不会把多字节字符截断到一半。
type RuneTokenizer struct{}

// NewRuneTokenizer 创建新的 RuneTokenizer。
func NewRuneTokenizer() *RuneTokenizer {
	return &RuneTokenizer{}
}

// Encode 把文本编码为 rune 序列。
func (t *RuneTokenizer) Encode(text string) ([]int, error) {
	runes := []rune(text)
	tokens := make([]int, len(runes))
	for i, r := range runes {
		tokens[i] = int(r)
	}
	return tokens, nil
}

// Decode 把 rune 序列解码回文本。
func (t *RuneTokenizer) Decode(tokens []int) (string, error) {
	runes := make([]rune, len(tokens))
	for i, token := range tokens {
		runes[i] = rune(token)
	}
	return string(runes), nil
}

// 编译时接口检查
var _ Tokenizer = (*TiktokenTokenizer)(nil)
var _ Tokenizer = (*RuneTokenizer)(nil)
