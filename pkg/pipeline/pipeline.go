// Package pipeline 提供端到端的医药上下文流水线门面。
//
// 把知识源聚合、上下文分段、Token 预算装配与可选的 LLM 建议
// 生成串联为一条流水线：收集 → 分段 → 装配 → 生成。
// 提示词设计不在范围内，指令文本由调用方提供。
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/easyops/medcontext-go/pkg/bundle"
	"github.com/easyops/medcontext-go/pkg/core/config"
	"github.com/easyops/medcontext-go/pkg/core/errors"
	"github.com/easyops/medcontext-go/pkg/graph"
	"github.com/easyops/medcontext-go/pkg/llm"
	"github.com/easyops/medcontext-go/pkg/otel"
	"github.com/easyops/medcontext-go/pkg/source"
)

// 上下文分段的固定优先级：报告最优先，相关实体次之，文献最后。
const (
	priorityReport    = 0
	priorityNeighbors = 1
	priorityArticles  = 2
)

// Service 医药上下文流水线。
type Service struct {
	cfg       *config.Config
	builder   *graph.Builder
	assembler *bundle.Assembler
	tokenizer bundle.Tokenizer
	arxiv     *source.ArxivClient
	provider  llm.Provider

	overrideSources []source.Source

	logger  otel.Logger
	tracer  otel.Tracer
	metrics otel.Metrics
}

// ServiceOption 配置 Service。
type ServiceOption func(*Service)

// WithSources 覆盖默认知识源集合。
func WithSources(sources ...source.Source) ServiceOption {
	return func(s *Service) {
		s.overrideSources = sources
	}
}

// WithProvider 设置 LLM 提供商（缺省时 Advise 不可用）。
func WithProvider(provider llm.Provider) ServiceOption {
	return func(s *Service) {
		s.provider = provider
	}
}

// WithTokenizer 覆盖默认分词器。
func WithTokenizer(tokenizer bundle.Tokenizer) ServiceOption {
	return func(s *Service) {
		s.tokenizer = tokenizer
	}
}

// WithArxivClient 覆盖默认文献客户端。
func WithArxivClient(client *source.ArxivClient) ServiceOption {
	return func(s *Service) {
		s.arxiv = client
	}
}

// WithLogger 设置日志器。
func WithLogger(logger otel.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer 设置追踪器。
func WithTracer(tracer otel.Tracer) ServiceOption {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithMetrics 设置指标收集器。
func WithMetrics(metrics otel.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// NewService 创建流水线。
//
// 知识源按配置构建：DBpedia、Wikidata、Google KG 总是启用
// （凭证缺失在抓取时降级），Neo4j 与 SQLite 仅在配置了地址/
// 路径时启用，其连接失败属于配置错误，在构造期上报。
// 分词器不可用同样是致命错误。
func NewService(ctx context.Context, cfg *config.Config, opts ...ServiceOption) (*Service, error) {
	s := &Service{
		cfg:     cfg,
		logger:  otel.NewNoopLogger(),
		tracer:  otel.NewNoopTracer(),
		metrics: otel.NewNoopMetrics(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.tokenizer == nil {
		var encOpts []bundle.TiktokenOption
		if cfg.Context.Encoding != "" {
			encOpts = append(encOpts, bundle.WithEncoding(cfg.Context.Encoding))
		}
		tokenizer, err := bundle.NewTiktokenTokenizer(encOpts...)
		if err != nil {
			return nil, err
		}
		s.tokenizer = tokenizer
	}

	sources := s.overrideSources
	if sources == nil {
		built, err := buildSources(ctx, cfg.Sources)
		if err != nil {
			return nil, err
		}
		sources = built
	}

	s.builder = graph.NewBuilder(
		graph.WithSources(sources...),
		graph.WithTimeout(cfg.Sources.Timeout),
		graph.WithLogger(s.logger),
		graph.WithMetrics(s.metrics),
		graph.WithTracer(s.tracer),
	)

	if s.arxiv == nil {
		s.arxiv = source.NewArxivClient(source.ArxivConfig{
			Endpoint:   cfg.Sources.ArxivEndpoint,
			Timeout:    cfg.Sources.Timeout,
			MaxResults: cfg.Context.MaxArticles,
		})
	}

	return s, nil
}

// buildSources 按配置构建默认知识源集合。
func buildSources(ctx context.Context, cfg config.SourcesConfig) ([]source.Source, error) {
	sources := []source.Source{
		source.NewDBpediaSource(source.DBpediaConfig{
			Endpoint:   cfg.DBpediaEndpoint,
			Timeout:    cfg.Timeout,
			MaxResults: cfg.MaxResults,
		}),
		source.NewWikidataSource(source.WikidataConfig{
			Endpoint:   cfg.WikidataEndpoint,
			Timeout:    cfg.Timeout,
			MaxResults: cfg.MaxResults,
		}),
		source.NewGoogleKGSource(source.GoogleKGConfig{
			Endpoint:   cfg.GoogleKGEndpoint,
			APIKey:     cfg.GoogleKGAPIKey,
			Timeout:    cfg.Timeout,
			MaxResults: cfg.MaxResults,
		}),
	}

	if cfg.Neo4jURI != "" {
		neo4jSource, err := source.NewNeo4jSource(ctx, source.Neo4jConfig{
			URI:        cfg.Neo4jURI,
			Username:   cfg.Neo4jUsername,
			Password:   cfg.Neo4jPassword,
			MaxResults: cfg.MaxResults,
		})
		if err != nil {
			return nil, errors.WrapError(err, "neo4j source")
		}
		sources = append(sources, neo4jSource)
	}

	if cfg.SQLitePath != "" {
		sqliteSource, err := source.NewSQLiteSource(cfg.SQLitePath, cfg.MaxResults)
		if err != nil {
			return nil, errors.WrapError(err, "sqlite source")
		}
		sources = append(sources, sqliteSource)
	}

	return sources, nil
}

// BuildReport 构建两个主体间的相互作用报告。
func (s *Service) BuildReport(ctx context.Context, subjectA, subjectB string) (*graph.InteractionReport, error) {
	return s.builder.BuildReport(ctx, subjectA, subjectB)
}

// Aggregate 聚合单个主体的相关实体集合。
func (s *Service) Aggregate(ctx context.Context, subject string) (*graph.NeighborSet, error) {
	return s.builder.Aggregate(ctx, subject)
}

// GatherSubjectContext 收集单个主体的上下文分段。
//
// 产出两类分段：相关实体列表与文献条目。文献检索失败按
// 单源故障处理：记录日志后跳过该分段，不中断收集。
func (s *Service) GatherSubjectContext(ctx context.Context, subject string) ([]*bundle.Section, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.gather_subject_context")
	defer span.End()

	normalized, err := graph.ValidateSubject(subject)
	if err != nil {
		return nil, err
	}

	neighbors, err := s.builder.Aggregate(ctx, normalized)
	if err != nil {
		return nil, err
	}

	sections := []*bundle.Section{
		bundle.NewListSection("Related Entities", neighbors.Values(), priorityNeighbors),
	}

	articles, err := s.arxiv.Search(ctx, normalized)
	if err != nil {
		s.logger.WithContext(ctx).Warn("literature search failed",
			"subject", normalized,
			"error", err.Error(),
		)
	} else if len(articles) > 0 {
		items := make([]string, 0, len(articles))
		for _, article := range articles {
			items = append(items, article.Describe())
		}
		sections = append(sections, bundle.NewListSection("Articles", items, priorityArticles))
	}

	return sections, nil
}

// GatherInteractionContext 收集两个主体的相互作用上下文分段。
//
// 报告分段优先级最高，其后是双方的相关实体，最后是针对
// 主体组合的文献条目。
func (s *Service) GatherInteractionContext(ctx context.Context, subjectA, subjectB string) ([]*bundle.Section, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.gather_interaction_context")
	defer span.End()

	report, err := s.builder.BuildReport(ctx, subjectA, subjectB)
	if err != nil {
		return nil, err
	}

	sections := []*bundle.Section{
		bundle.NewTextSection("Interaction Report", renderReport(report), priorityReport),
		bundle.NewListSection("Related to "+report.SubjectA, report.NeighborsA.Values(), priorityNeighbors),
		bundle.NewListSection("Related to "+report.SubjectB, report.NeighborsB.Values(), priorityNeighbors),
	}

	query := report.SubjectA + " " + report.SubjectB
	articles, err := s.arxiv.Search(ctx, query)
	if err != nil {
		s.logger.WithContext(ctx).Warn("literature search failed",
			"query", query,
			"error", err.Error(),
		)
	} else if len(articles) > 0 {
		items := make([]string, 0, len(articles))
		for _, article := range articles {
			items = append(items, article.Describe())
		}
		sections = append(sections, bundle.NewListSection("Articles", items, priorityArticles))
	}

	return sections, nil
}

// AssembleContext 在配置的 Token 预算内装配上下文包。
func (s *Service) AssembleContext(ctx context.Context, sections []*bundle.Section) (*bundle.Bundle, error) {
	assembler := bundle.NewAssembler(
		bundle.WithLogger(s.logger),
		bundle.WithMetrics(s.metrics),
	)
	return assembler.Assemble(ctx, sections, s.cfg.Context.MaxTokens, s.tokenizer)
}

// Advise 把上下文包与调用方指令发给 LLM 并返回生成内容。
func (s *Service) Advise(ctx context.Context, instructions string, contextBundle *bundle.Bundle) (string, error) {
	if s.provider == nil {
		return "", errors.ErrProviderUnavailable
	}

	ctx, span := s.tracer.Start(ctx, "pipeline.advise")
	defer span.End()

	s.metrics.Counter(otel.MetricLLMRequests).Add(ctx, 1)

	resp, err := s.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			llm.NewSystemMessage(instructions),
			llm.NewUserMessage(contextBundle.Format()),
		},
	})
	if err != nil {
		s.metrics.Counter(otel.MetricLLMErrors).Add(ctx, 1)
		span.RecordError(err)
		return "", err
	}

	return resp.Content, nil
}

// renderReport 把报告渲染为上下文分段文本。
func renderReport(report *graph.InteractionReport) string {
	direct := "no direct relation found"
	if report.Direct {
		direct = "direct relation found"
	}

	common := "none"
	if !report.Common.IsEmpty() {
		common = strings.Join(report.Common.Values(), ", ")
	}

	return fmt.Sprintf("%s and %s: %s. Common related entities: %s.",
		report.SubjectA, report.SubjectB, direct, common)
}
