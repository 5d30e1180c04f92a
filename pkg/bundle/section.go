// Package bundle 实现 Token 预算内的上下文装配。
//
// 把带优先级的文本分段序列化、用可插拔分词器度量大小，
// 并在固定 Token 预算内做确定性截断，产出交给下游消费者
// （如 LLM）的上下文包。
package bundle

import "strings"

// ValueKind 分段内容的类型标签。
//
// 内容是标量文本还是文本列表在构造时决定，
// 序列化时不再做运行时类型探测。
type ValueKind int

const (
	// KindText 标量文本
	KindText ValueKind = iota
	// KindList 文本列表
	KindList
)

// Section 上下文分段。
//
// 一类已收集文本（如摘要、文献）的带标签、带优先级的载体。
// 优先级数值越小优先级越高，由调用方固定。
type Section struct {
	// Label 分段标签
	Label string
	// Priority 优先级（越小越高）
	Priority int

	kind  ValueKind
	text  string
	items []string
}

// NewTextSection 创建标量文本分段。
func NewTextSection(label, text string, priority int) *Section {
	return &Section{
		Label:    label,
		Priority: priority,
		kind:     KindText,
		text:     text,
	}
}

// NewListSection 创建文本列表分段。
func NewListSection(label string, items []string, priority int) *Section {
	copied := make([]string, len(items))
	copy(copied, items)
	return &Section{
		Label:    label,
		Priority: priority,
		kind:     KindList,
		items:    copied,
	}
}

// Kind 返回分段内容类型。
func (s *Section) Kind() ValueKind {
	return s.kind
}

// Serialize 序列化分段内容。
//
// 列表内容用单个换行符连接为一个字符串，标量内容原样返回。
// 度量与截断都作用于该序列化结果。
func (s *Section) Serialize() string {
	if s.kind == KindList {
		return strings.Join(s.items, "\n")
	}
	return s.text
}
