package bundle

import (
	"context"
	"sort"

	"github.com/easyops/medcontext-go/pkg/core/errors"
	"github.com/easyops/medcontext-go/pkg/otel"
)

// Assembler 在 Token 预算内装配上下文包。
//
// 纯单线程计算，只处理已收集的数据，不做任何 I/O。
type Assembler struct {
	logger  otel.Logger
	metrics otel.Metrics
}

// AssemblerOption 配置 Assembler。
type AssemblerOption func(*Assembler)

// WithLogger 设置日志器。
func WithLogger(logger otel.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// WithMetrics 设置指标收集器。
func WithMetrics(metrics otel.Metrics) AssemblerOption {
	return func(a *Assembler) {
		a.metrics = metrics
	}
}

// NewAssembler 使用给定选项创建 Assembler。
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		logger:  otel.NewNoopLogger(),
		metrics: otel.NewNoopMetrics(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Assemble 把分段装配为预算合规的上下文包。
//
// 算法（确定性、按优先级、单趟）：
//  1. 序列化并度量每个分段，求总量。
//  2. 总量不超预算：按优先级顺序原样返回全部分段。
//  3. 超预算：按优先级升序遍历，装得下的整段收录；第一个装不下
//     的分段把 Token 序列截断到恰好等于剩余预算（截尾不截头）
//     后收录，其后所有低优先级分段整段丢弃。
//     严格截止策略，不做按比例收缩：完整保留最高优先级内容优先
//     于让每个分段都部分退化。
//  4. 后置条件：收录分段的 Token 总量 ≤ maxTokens 恒成立。
//
// 截断以 Token 为粒度（经分词器编解码往返），绝不做朴素的
// 字符切片，避免把多字节字符切到一半。
//
// maxTokens ≤ 0 或分词器缺失时在任何度量工作开始前返回校验
// 错误；分词器编解码失败是致命错误，直接上报。
func (a *Assembler) Assemble(ctx context.Context, sections []*Section, maxTokens int, tokenizer Tokenizer) (*Bundle, error) {
	if maxTokens <= 0 {
		return nil, errors.ErrInvalidBudget
	}
	if tokenizer == nil {
		return nil, errors.ErrTokenizerUnavailable
	}

	// 按优先级稳定排序（相同优先级保持调用方顺序）
	ordered := make([]*Section, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	// 度量每个分段
	type measured struct {
		section    *Section
		serialized string
		tokens     []int
	}

	items := make([]measured, 0, len(ordered))
	total := 0
	for _, section := range ordered {
		serialized := section.Serialize()
		tokens, err := tokenizer.Encode(serialized)
		if err != nil {
			return nil, errors.WrapError(errors.ErrEncodeFailed, section.Label)
		}
		items = append(items, measured{section: section, serialized: serialized, tokens: tokens})
		total += len(tokens)
	}

	bundle := &Bundle{entries: make([]Entry, 0, len(items))}

	if total <= maxTokens {
		// 预算充足：全部分段原样收录
		for _, item := range items {
			bundle.entries = append(bundle.entries, Entry{
				Label:   item.section.Label,
				Content: item.serialized,
				Tokens:  len(item.tokens),
			})
			bundle.totalTokens += len(item.tokens)
		}
		a.observe(ctx, bundle, 0, 0)
		return bundle, nil
	}

	// 超预算：严格截止
	remaining := maxTokens
	truncated := 0
	dropped := 0
	for i, item := range items {
		if len(item.tokens) <= remaining {
			bundle.entries = append(bundle.entries, Entry{
				Label:   item.section.Label,
				Content: item.serialized,
				Tokens:  len(item.tokens),
			})
			bundle.totalTokens += len(item.tokens)
			remaining -= len(item.tokens)
			continue
		}

		// 第一个装不下的分段：截到恰好等于剩余预算，然后停止
		if remaining > 0 {
			content, err := tokenizer.Decode(item.tokens[:remaining])
			if err != nil {
				return nil, errors.WrapError(errors.ErrDecodeFailed, item.section.Label)
			}
			bundle.entries = append(bundle.entries, Entry{
				Label:   item.section.Label,
				Content: content,
				Tokens:  remaining,
			})
			bundle.totalTokens += remaining
			truncated = 1
			dropped = len(items) - i - 1
		} else {
			dropped = len(items) - i
		}
		break
	}

	a.observe(ctx, bundle, truncated, dropped)
	return bundle, nil
}

// observe 记录装配指标。
func (a *Assembler) observe(ctx context.Context, bundle *Bundle, truncated, dropped int) {
	a.metrics.Counter(otel.MetricBundleAssemblies).Add(ctx, 1)
	a.metrics.Histogram(otel.MetricBundleTokens).Record(ctx, float64(bundle.totalTokens))
	if truncated > 0 {
		a.metrics.Counter(otel.MetricBundleTruncated).Add(ctx, int64(truncated))
	}
	if dropped > 0 {
		a.metrics.Counter(otel.MetricBundleDropped).Add(ctx, int64(dropped))
		a.logger.WithContext(ctx).Debug("sections dropped past budget cutoff",
			"dropped", dropped,
			"total_tokens", bundle.totalTokens,
		)
	}
}

// Assemble 使用默认 Assembler 装配上下文包。
func Assemble(sections []*Section, maxTokens int, tokenizer Tokenizer) (*Bundle, error) {
	return NewAssembler().Assemble(context.Background(), sections, maxTokens, tokenizer)
}
