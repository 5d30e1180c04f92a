// Package config 提供配置加载和管理功能
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/easyops/medcontext-go/pkg/core/errors"
)

// Config 全局配置结构
//
// 所有凭证与端点在启动时加载并校验一次，随后以显式配置对象
// 传入各知识源构造函数，调用期间不再读取环境变量。
type Config struct {
	// Sources 知识源配置
	Sources SourcesConfig `koanf:"sources"`
	// Context 上下文装配配置
	Context ContextConfig `koanf:"context"`
	// LLM LLM 配置
	LLM LLMConfig `koanf:"llm"`
	// Observability 可观测性配置
	Observability ObservabilityConfig `koanf:"observability"`
}

// SourcesConfig 知识源配置
type SourcesConfig struct {
	// DBpediaEndpoint DBpedia SPARQL 端点
	DBpediaEndpoint string `koanf:"dbpedia_endpoint"`
	// WikidataEndpoint Wikidata SPARQL 端点
	WikidataEndpoint string `koanf:"wikidata_endpoint"`
	// GoogleKGEndpoint Google Knowledge Graph 搜索端点
	GoogleKGEndpoint string `koanf:"googlekg_endpoint"`
	// GoogleKGAPIKey Google Knowledge Graph API 密钥
	GoogleKGAPIKey string `koanf:"googlekg_api_key"`
	// ArxivEndpoint arXiv Atom API 端点
	ArxivEndpoint string `koanf:"arxiv_endpoint"`
	// Neo4jURI 本地知识图谱 Neo4j 地址
	Neo4jURI string `koanf:"neo4j_uri"`
	// Neo4jUsername Neo4j 用户名
	Neo4jUsername string `koanf:"neo4j_username"`
	// Neo4jPassword Neo4j 密码
	Neo4jPassword string `koanf:"neo4j_password"`
	// SQLitePath 本地参考库 SQLite 路径
	SQLitePath string `koanf:"sqlite_path"`
	// Timeout 单个知识源的请求超时
	Timeout time.Duration `koanf:"timeout"`
	// MaxResults 单个知识源返回的最大实体数
	MaxResults int `koanf:"max_results"`
}

// ContextConfig 上下文装配配置
type ContextConfig struct {
	// MaxTokens 上下文 Token 预算
	MaxTokens int `koanf:"max_tokens"`
	// Encoding 分词编码名称（tiktoken 编码，如 cl100k_base）
	Encoding string `koanf:"encoding"`
	// MaxArticles 文献分段收录的最大文章数
	MaxArticles int `koanf:"max_articles"`
}

// LLMConfig LLM 配置
type LLMConfig struct {
	// APIKey API 密钥
	APIKey string `koanf:"api_key"`
	// BaseURL 服务地址（默认 Groq 的 OpenAI 兼容端点）
	BaseURL string `koanf:"base_url"`
	// Model 模型名称
	Model string `koanf:"model"`
	// Timeout 请求超时
	Timeout time.Duration `koanf:"timeout"`
	// MaxRetries 最大重试次数
	MaxRetries int `koanf:"max_retries"`
	// RetryDelay 重试基础延迟
	RetryDelay time.Duration `koanf:"retry_delay"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	// Enabled 是否启用
	Enabled bool `koanf:"enabled"`
	// ServiceName 服务名称
	ServiceName string `koanf:"service_name"`
	// TracerEndpoint 追踪端点
	TracerEndpoint string `koanf:"tracer_endpoint"`
	// MetricsEndpoint 指标端点
	MetricsEndpoint string `koanf:"metrics_endpoint"`
	// SampleRate 采样率 [0, 1]
	SampleRate float64 `koanf:"sample_rate"`
}

// Loader 配置加载器
type Loader struct {
	k *koanf.Koanf
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{
		k: koanf.New("."),
	}
}

// LoadEnv 从环境变量加载配置
func (l *Loader) LoadEnv(prefix string) error {
	return l.k.Load(env.Provider(prefix, ".", func(s string) string {
		// 转换环境变量名: MEDCONTEXT_SOURCES_GOOGLEKG_API_KEY -> sources.googlekg_api_key
		s = strings.TrimPrefix(s, prefix)
		s = strings.ToLower(s)
		parts := strings.SplitN(s, "_", 2)
		if len(parts) == 2 {
			return parts[0] + "." + parts[1]
		}
		return s
	}), nil)
}

// Unmarshal 解析配置到结构体
func (l *Loader) Unmarshal(cfg *Config) error {
	return l.k.Unmarshal("", cfg)
}

// GetString 获取字符串配置值
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// GetInt 获取整数配置值
func (l *Loader) GetInt(key string) int {
	return l.k.Int(key)
}

// GetBool 获取布尔配置值
func (l *Loader) GetBool(key string) bool {
	return l.k.Bool(key)
}

// GetDuration 获取时间间隔配置值
func (l *Loader) GetDuration(key string) time.Duration {
	return l.k.Duration(key)
}

// Load 加载完整配置（环境变量，MEDCONTEXT_ 前缀）
func Load() (*Config, error) {
	loader := NewLoader()

	if err := loader.LoadEnv("MEDCONTEXT_"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := loader.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// 应用默认值并校验
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate 校验配置（启动时执行一次）
func (c *Config) Validate() error {
	if c.Context.MaxTokens <= 0 {
		return errors.WrapError(errors.ErrInvalidConfig, "context.max_tokens must be positive")
	}
	if c.Sources.Timeout <= 0 {
		return errors.WrapError(errors.ErrInvalidConfig, "sources.timeout must be positive")
	}
	if c.Observability.SampleRate < 0 || c.Observability.SampleRate > 1 {
		return errors.WrapError(errors.ErrInvalidConfig, "observability.sample_rate must be in [0, 1]")
	}
	return nil
}

// applyDefaults 应用默认配置值
func applyDefaults(cfg *Config) {
	// 知识源默认值
	if cfg.Sources.DBpediaEndpoint == "" {
		cfg.Sources.DBpediaEndpoint = "https://dbpedia.org/sparql"
	}
	if cfg.Sources.WikidataEndpoint == "" {
		cfg.Sources.WikidataEndpoint = "https://query.wikidata.org/sparql"
	}
	if cfg.Sources.GoogleKGEndpoint == "" {
		cfg.Sources.GoogleKGEndpoint = "https://kgsearch.googleapis.com/v1/entities:search"
	}
	if cfg.Sources.ArxivEndpoint == "" {
		cfg.Sources.ArxivEndpoint = "http://export.arxiv.org/api/query"
	}
	if cfg.Sources.Timeout == 0 {
		cfg.Sources.Timeout = 10 * time.Second
	}
	if cfg.Sources.MaxResults == 0 {
		cfg.Sources.MaxResults = 10
	}

	// 上下文默认值
	if cfg.Context.MaxTokens == 0 {
		cfg.Context.MaxTokens = 4096
	}
	if cfg.Context.Encoding == "" {
		cfg.Context.Encoding = "cl100k_base"
	}
	if cfg.Context.MaxArticles == 0 {
		cfg.Context.MaxArticles = 5
	}

	// LLM 默认值
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "llama-3.3-70b-versatile"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if cfg.LLM.MaxRetries == 0 {
		cfg.LLM.MaxRetries = 3
	}
	if cfg.LLM.RetryDelay == 0 {
		cfg.LLM.RetryDelay = time.Second
	}

	// 可观测性默认值
	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "medcontext"
	}
	if cfg.Observability.SampleRate == 0 {
		cfg.Observability.SampleRate = 1.0
	}
}
