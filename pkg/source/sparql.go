package source

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/easyops/medcontext-go/pkg/core/errors"
)

// sparqlValue SPARQL JSON 结果中的单个绑定值。
type sparqlValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// sparqlResponse SPARQL JSON 结果格式。
type sparqlResponse struct {
	Results struct {
		Bindings []map[string]sparqlValue `json:"bindings"`
	} `json:"results"`
}

// sparqlClient 执行 SPARQL 查询并返回绑定列表。
//
// DBpedia 与 Wikidata 适配器共用。
type sparqlClient struct {
	endpoint   string
	httpClient *http.Client
}

// newSPARQLClient 创建 SPARQL 客户端。
func newSPARQLClient(endpoint string, timeout time.Duration) *sparqlClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &sparqlClient{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// query 执行查询并返回全部绑定。
func (c *sparqlClient) query(ctx context.Context, sparql string) ([]map[string]sparqlValue, error) {
	params := url.Values{}
	params.Set("query", sparql)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.WrapError(err, "build sparql request")
	}
	req.Header.Set("Accept", "application/sparql-results+json")

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

	var parsed sparqlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.WrapError(errors.ErrMalformedResponse, err.Error())
	}

	return parsed.Results.Bindings, nil
}
