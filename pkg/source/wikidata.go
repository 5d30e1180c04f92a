package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/easyops/medcontext-go/pkg/core/errors"
)

// WikidataConfig Wikidata 适配器配置。
type WikidataConfig struct {
	// Endpoint SPARQL 端点
	Endpoint string
	// SearchEndpoint 实体搜索 API 端点（名称解析为 QID）
	SearchEndpoint string
	// Timeout 请求超时
	Timeout time.Duration
	// MaxResults 最大返回实体数
	MaxResults int
}

// WikidataSource 基于 Wikidata 的知识源适配器。
//
// 两段式抓取：先经 wbsearchentities 把主体名称解析为 QID，
// 再对该实体查询 wdt:P769（重大药物相互作用）并取英文标签。
type WikidataSource struct {
	client         *sparqlClient
	searchEndpoint string
	httpClient     *http.Client
	maxResults     int
}

// NewWikidataSource 创建 Wikidata 适配器。
func NewWikidataSource(cfg WikidataConfig) *WikidataSource {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://query.wikidata.org/sparql"
	}
	if cfg.SearchEndpoint == "" {
		cfg.SearchEndpoint = "https://www.wikidata.org/w/api.php"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	return &WikidataSource{
		client:         newSPARQLClient(cfg.Endpoint, cfg.Timeout),
		searchEndpoint: cfg.SearchEndpoint,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		maxResults:     cfg.MaxResults,
	}
}

// Name 返回知识源名称。
func (s *WikidataSource) Name() string {
	return "wikidata"
}

// Fetch 返回与主体相关的实体名称集合。
func (s *WikidataSource) Fetch(ctx context.Context, subject string) Result {
	qid, err := s.resolveQID(ctx, subject)
	if err != nil {
		return Failure(s.Name(), err)
	}
	if qid == "" {
		// 未收录的主体不是错误，只是空集
		return Success(s.Name(), nil)
	}

	query := fmt.Sprintf(`SELECT DISTINCT ?interactionLabel WHERE {
  wd:%s wdt:P769 ?interaction .
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en" . }
} LIMIT %d`, qid, s.maxResults)

	bindings, err := s.client.query(ctx, query)
	if err != nil {
		return Failure(s.Name(), err)
	}

	neighbors := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		if v, ok := binding["interactionLabel"]; ok {
			if name := NormalizeEntityName(v.Value); name != "" {
				neighbors = append(neighbors, name)
			}
		}
	}

	return Success(s.Name(), neighbors)
}

// wbSearchResponse wbsearchentities 响应格式。
type wbSearchResponse struct {
	Search []struct {
		ID string `json:"id"`
	} `json:"search"`
}

// resolveQID 把主体名称解析为 Wikidata QID，未命中时返回空串。
func (s *WikidataSource) resolveQID(ctx context.Context, subject string) (string, error) {
	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("search", subject)
	params.Set("language", "en")
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.searchEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", errors.WrapError(err, "build wikidata search request")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.WrapError(errors.ErrSourceUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.WrapError(errors.ErrSourceUnavailable, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.WrapError(errors.ErrSourceUnavailable, err.Error())
	}

	var parsed wbSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", errors.WrapError(errors.ErrMalformedResponse, err.Error())
	}

	if len(parsed.Search) == 0 {
		return "", nil
	}
	return parsed.Search[0].ID, nil
}

// 编译时接口检查
var _ Source = (*WikidataSource)(nil)
