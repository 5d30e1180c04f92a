package source

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/easyops/medcontext-go/pkg/core/errors"
)

// GoogleKGConfig Google Knowledge Graph 适配器配置。
type GoogleKGConfig struct {
	// Endpoint 实体搜索端点
	Endpoint string
	// APIKey API 密钥（缺失时适配器降级为失败结果）
	APIKey string
	// Timeout 请求超时
	Timeout time.Duration
	// MaxResults 最大返回实体数
	MaxResults int
}

// GoogleKGSource 基于 Google Knowledge Graph Search API 的知识源适配器。
//
// 凭证缺失不在构造期报错：按「单源故障不阻断聚合」的约定，
// Fetch 返回携带 ErrMissingCredential 的失败结果。
type GoogleKGSource struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	maxResults int
}

// NewGoogleKGSource 创建 Google Knowledge Graph 适配器。
func NewGoogleKGSource(cfg GoogleKGConfig) *GoogleKGSource {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://kgsearch.googleapis.com/v1/entities:search"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	return &GoogleKGSource{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxResults: cfg.MaxResults,
	}
}

// Name 返回知识源名称。
func (s *GoogleKGSource) Name() string {
	return "googlekg"
}

// kgSearchResponse Knowledge Graph Search API 响应格式。
type kgSearchResponse struct {
	ItemListElement []struct {
		Result struct {
			Name string `json:"name"`
		} `json:"result"`
	} `json:"itemListElement"`
}

// Fetch 返回与主体相关的实体名称集合。
func (s *GoogleKGSource) Fetch(ctx context.Context, subject string) Result {
	if s.apiKey == "" {
		return Failure(s.Name(), errors.ErrMissingCredential)
	}

	params := url.Values{}
	params.Set("query", subject)
	params.Set("key", s.apiKey)
	params.Set("limit", strconv.Itoa(s.maxResults))
	params.Set("languages", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Failure(s.Name(), errors.WrapError(err, "build kg request"))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Failure(s.Name(), errors.WrapError(errors.ErrSourceUnavailable, err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Failure(s.Name(), errors.WrapError(errors.ErrSourceUnavailable, resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure(s.Name(), errors.WrapError(errors.ErrSourceUnavailable, err.Error()))
	}

	var parsed kgSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Failure(s.Name(), errors.WrapError(errors.ErrMalformedResponse, err.Error()))
	}

	subjectName := NormalizeEntityName(subject)
	neighbors := make([]string, 0, len(parsed.ItemListElement))
	for _, element := range parsed.ItemListElement {
		name := NormalizeEntityName(element.Result.Name)
		if name == "" || name == subjectName {
			// 搜索结果首位通常是主体自身，剔除
			continue
		}
		neighbors = append(neighbors, name)
	}

	return Success(s.Name(), neighbors)
}

// 编译时接口检查
var _ Source = (*GoogleKGSource)(nil)
