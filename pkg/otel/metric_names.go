package otel

// 预定义的指标名称
// 遵循 OpenTelemetry 语义约定
const (
	// 知识源指标
	MetricSourceFetches       = "source.fetches"        // 计数器: 知识源查询次数
	MetricSourceErrors        = "source.errors"         // 计数器: 知识源失败次数（已降级为空集）
	MetricSourceFetchDuration = "source.fetch.duration" // 直方图: 知识源查询时间(ms)

	// 交互图指标
	MetricGraphReports        = "graph.reports"         // 计数器: 交互报告构建次数
	MetricGraphReportDuration = "graph.report.duration" // 直方图: 交互报告构建时间(ms)

	// 上下文装配指标
	MetricBundleAssemblies = "bundle.assemblies"         // 计数器: 上下文装配次数
	MetricBundleTokens     = "bundle.tokens"             // 直方图: 装配后 Token 总量
	MetricBundleTruncated  = "bundle.sections.truncated" // 计数器: 被截断的分段数
	MetricBundleDropped    = "bundle.sections.dropped"   // 计数器: 被整段丢弃的分段数

	// LLM 指标
	MetricLLMRequests = "llm.requests" // 计数器: LLM 请求次数
	MetricLLMErrors   = "llm.errors"   // 计数器: LLM 错误次数
	MetricLLMRetries  = "llm.retries"  // 计数器: LLM 重试次数
)

var descriptions = map[string]string{
	MetricSourceFetches:       "Number of knowledge source fetches",
	MetricSourceErrors:        "Number of knowledge source failures absorbed as empty sets",
	MetricSourceFetchDuration: "Duration of knowledge source fetches in milliseconds",
	MetricGraphReports:        "Number of interaction reports built",
	MetricGraphReportDuration: "Duration of interaction report builds in milliseconds",
	MetricBundleAssemblies:    "Number of context bundle assemblies",
	MetricBundleTokens:        "Total tokens of assembled bundles",
	MetricBundleTruncated:     "Number of sections truncated to fit the token budget",
	MetricBundleDropped:       "Number of sections dropped past the cutoff",
	MetricLLMRequests:         "Number of LLM requests",
	MetricLLMErrors:           "Number of LLM errors",
	MetricLLMRetries:          "Number of LLM retries",
}

// describe 返回指标的描述文本
func describe(name string) string {
	return descriptions[name]
}
