package bundle

import "strings"

// Entry 上下文包内的一个分段条目。
type Entry struct {
	// Label 分段标签
	Label string `json:"label"`
	// Content 最终内容（可能被截断）
	Content string `json:"content"`
	// Tokens 内容的 Token 数量
	Tokens int `json:"tokens"`
}

// Bundle 预算合规的上下文包。
//
// 标签到（内容、Token 数）的有序映射。装配完成后恒有
// TotalTokens ≤ 预算。构建后不可变。
type Bundle struct {
	entries     []Entry
	totalTokens int
}

// Entries 返回全部条目（按优先级顺序，拷贝）。
func (b *Bundle) Entries() []Entry {
	entries := make([]Entry, len(b.entries))
	copy(entries, b.entries)
	return entries
}

// Get 按标签查找条目。
func (b *Bundle) Get(label string) (Entry, bool) {
	for _, entry := range b.entries {
		if entry.Label == label {
			return entry, true
		}
	}
	return Entry{}, false
}

// Len 返回条目数量。
func (b *Bundle) Len() int {
	return len(b.entries)
}

// TotalTokens 返回全部条目的 Token 总量。
func (b *Bundle) TotalTokens() int {
	return b.totalTokens
}

// Format 把上下文包渲染为交给下游消费者的文本。
func (b *Bundle) Format() string {
	parts := make([]string, 0, len(b.entries))
	for _, entry := range b.entries {
		parts = append(parts, "["+entry.Label+"]\n"+entry.Content)
	}
	return strings.Join(parts, "\n\n")
}
