package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/easyops/medcontext-go/pkg/core/errors"
)

// ArxivConfig arXiv 文献客户端配置。
type ArxivConfig struct {
	// Endpoint Atom API 端点
	Endpoint string
	// Timeout 请求超时
	Timeout time.Duration
	// MaxResults 最大返回文章数
	MaxResults int
}

// Article arXiv 文章摘要信息。
type Article struct {
	// Title 标题
	Title string
	// Summary 摘要
	Summary string
	// URL 文章链接
	URL string
	// Published 发表时间
	Published string
}

// Describe 把文章渲染为上下文分段用的单行条目。
func (a Article) Describe() string {
	return fmt.Sprintf("%s: %s", a.Title, a.Summary)
}

// ArxivClient arXiv 文献检索客户端。
//
// 不是图谱知识源：返回文章而非相关实体，供上下文装配的
// 文献分段使用，因此不实现 Source 接口。
type ArxivClient struct {
	endpoint   string
	httpClient *http.Client
	maxResults int
}

// NewArxivClient 创建 arXiv 文献客户端。
func NewArxivClient(cfg ArxivConfig) *ArxivClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://export.arxiv.org/api/query"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 5
	}
	return &ArxivClient{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxResults: cfg.MaxResults,
	}
}

// atomFeed arXiv Atom 响应格式。
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	ID        string `xml:"id"`
	Published string `xml:"published"`
}

// Search 按查询词检索相关文章。
func (c *ArxivClient) Search(ctx context.Context, query string) ([]Article, error) {
	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(c.maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.WrapError(err, "build arxiv request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WrapError(errors.ErrSourceUnavailable, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.WrapError(errors.ErrSourceUnavailable, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapError(errors.ErrSourceUnavailable, err.Error())
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, errors.WrapError(errors.ErrMalformedResponse, err.Error())
	}

	articles := make([]Article, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		articles = append(articles, Article{
			Title:     collapseWhitespace(entry.Title),
			Summary:   collapseWhitespace(entry.Summary),
			URL:       strings.TrimSpace(entry.ID),
			Published: strings.TrimSpace(entry.Published),
		})
	}

	return articles, nil
}

// collapseWhitespace 折叠 Atom 字段中的换行与缩进。
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
