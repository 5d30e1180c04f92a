package graph

import (
	"context"
	"sync"
	"time"

	"github.com/easyops/medcontext-go/pkg/otel"
	"github.com/easyops/medcontext-go/pkg/source"
)

// Builder 交互图构建器。
//
// 对所有知识源做扇出查询并将结果并为邻居集合，进而计算
// 两个主体之间的交互报告。每次调用无状态、自包含，
// 调用之间不保留任何数据。
type Builder struct {
	sources  []source.Source
	timeout  time.Duration
	parallel bool
	logger   otel.Logger
	metrics  otel.Metrics
	tracer   otel.Tracer
}

// BuilderOption 配置 Builder。
type BuilderOption func(*Builder)

// WithSources 设置知识源列表（由调用方提供，核心不硬编码）。
func WithSources(sources ...source.Source) BuilderOption {
	return func(b *Builder) {
		b.sources = sources
	}
}

// WithTimeout 设置单个知识源的查询超时。
//
// 超时的知识源等同于失败的知识源（空集结果），
// 不会取消或阻塞其余知识源。
func WithTimeout(timeout time.Duration) BuilderOption {
	return func(b *Builder) {
		b.timeout = timeout
	}
}

// WithParallel 设置是否并行扇出。
//
// 各知识源查询相互独立且并操作满足交换律，
// 串行与并行产生相同的邻居集合。
func WithParallel(parallel bool) BuilderOption {
	return func(b *Builder) {
		b.parallel = parallel
	}
}

// WithLogger 设置日志器。
func WithLogger(logger otel.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithMetrics 设置指标收集器。
func WithMetrics(metrics otel.Metrics) BuilderOption {
	return func(b *Builder) {
		b.metrics = metrics
	}
}

// WithTracer 设置追踪器。
func WithTracer(tracer otel.Tracer) BuilderOption {
	return func(b *Builder) {
		b.tracer = tracer
	}
}

// NewBuilder 使用给定选项创建 Builder。
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		timeout:  10 * time.Second,
		parallel: true,
		logger:   otel.NewNoopLogger(),
		metrics:  otel.NewNoopMetrics(),
		tracer:   otel.NewNoopTracer(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Aggregate 计算主体在所有知识源上的邻居集合并集。
//
// 每个知识源的调用相互隔离：单个知识源失败或返回空集不影响
// 其他知识源。所有知识源都失败时返回空集，这是合法的非错误
// 结果。返回的集合与知识源排列顺序无关。
func (b *Builder) Aggregate(ctx context.Context, subject string) (*NeighborSet, error) {
	normalized, err := ValidateSubject(subject)
	if err != nil {
		return nil, err
	}

	ctx, span := b.tracer.Start(ctx, "graph.aggregate")
	defer span.End()

	results := b.fanOut(ctx, normalized)

	neighbors := NewNeighborSet()
	for _, result := range results {
		if !result.OK() {
			// 失败已降级为空集，仅做观测
			b.logger.WithContext(ctx).Warn("source fetch failed",
				"source", result.Source,
				"subject", normalized,
				"error", result.Err,
			)
			b.metrics.Counter(otel.MetricSourceErrors).Add(ctx, 1,
				otel.NewAttr("source", result.Source))
			continue
		}
		for _, name := range result.Neighbors {
			neighbors.Add(name)
		}
	}

	return neighbors, nil
}

// BuildReport 构建两个主体之间的交互报告。
//
// 两个主体都必须是非空的归一化字符串，否则在任何知识源被调用
// 之前返回校验错误。
func (b *Builder) BuildReport(ctx context.Context, subjectA, subjectB string) (*InteractionReport, error) {
	normalizedA, err := ValidateSubject(subjectA)
	if err != nil {
		return nil, err
	}
	normalizedB, err := ValidateSubject(subjectB)
	if err != nil {
		return nil, err
	}

	ctx, span := b.tracer.Start(ctx, "graph.build_report")
	defer span.End()

	start := time.Now()

	neighborsA, err := b.Aggregate(ctx, normalizedA)
	if err != nil {
		return nil, err
	}
	neighborsB, err := b.Aggregate(ctx, normalizedB)
	if err != nil {
		return nil, err
	}

	report := newReport(normalizedA, normalizedB, neighborsA, neighborsB)

	b.metrics.Counter(otel.MetricGraphReports).Add(ctx, 1)
	b.metrics.Histogram(otel.MetricGraphReportDuration).Record(ctx,
		float64(time.Since(start).Milliseconds()))
	b.logger.WithContext(ctx).Info("interaction report built",
		"subject_a", normalizedA,
		"subject_b", normalizedB,
		"direct", report.Direct,
		"common", report.Common.Len(),
	)

	return report, nil
}

// fanOut 对所有知识源发起查询并收集结果。
func (b *Builder) fanOut(ctx context.Context, subject string) []source.Result {
	if !b.parallel {
		results := make([]source.Result, 0, len(b.sources))
		for _, src := range b.sources {
			results = append(results, b.fetchOne(ctx, src, subject))
		}
		return results
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]source.Result, 0, len(b.sources))
	)

	for _, src := range b.sources {
		wg.Add(1)
		go func(s source.Source) {
			defer wg.Done()

			result := b.fetchOne(ctx, s, subject)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(src)
	}

	wg.Wait()
	return results
}

// fetchOne 带独立超时地查询单个知识源。
func (b *Builder) fetchOne(ctx context.Context, src source.Source, subject string) source.Result {
	fetchCtx := ctx
	if b.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	result := src.Fetch(fetchCtx, subject)

	b.metrics.Counter(otel.MetricSourceFetches).Add(ctx, 1,
		otel.NewAttr("source", src.Name()))
	b.metrics.Histogram(otel.MetricSourceFetchDuration).Record(ctx,
		float64(time.Since(start).Milliseconds()),
		otel.NewAttr("source", src.Name()))

	return result
}
