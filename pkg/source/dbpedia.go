package source

import (
	"context"
	"fmt"
	"time"
)

// DBpediaConfig DBpedia 适配器配置。
type DBpediaConfig struct {
	// Endpoint SPARQL 端点
	Endpoint string
	// Timeout 请求超时
	Timeout time.Duration
	// MaxResults 最大返回实体数
	MaxResults int
}

// DBpediaSource 基于 DBpedia SPARQL 端点的知识源适配器。
//
// 对主体资源同时查询 dbo:relatedDrug 与 dbo:drugInteraction
// 两个谓词，二者在 DBpedia 数据中交替出现。
type DBpediaSource struct {
	client     *sparqlClient
	maxResults int
}

// NewDBpediaSource 创建 DBpedia 适配器。
func NewDBpediaSource(cfg DBpediaConfig) *DBpediaSource {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://dbpedia.org/sparql"
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	return &DBpediaSource{
		client:     newSPARQLClient(cfg.Endpoint, cfg.Timeout),
		maxResults: cfg.MaxResults,
	}
}

// Name 返回知识源名称。
func (s *DBpediaSource) Name() string {
	return "dbpedia"
}

// Fetch 返回与主体相关的实体名称集合。
func (s *DBpediaSource) Fetch(ctx context.Context, subject string) Result {
	query := fmt.Sprintf(`PREFIX dbo: <http://dbpedia.org/ontology/>
PREFIX dbr: <http://dbpedia.org/resource/>
SELECT DISTINCT ?related WHERE {
  { dbr:%[1]s dbo:relatedDrug ?related . }
  UNION
  { dbr:%[1]s dbo:drugInteraction ?related . }
} LIMIT %[2]d`, SubjectIdentifier(subject), s.maxResults)

	bindings, err := s.client.query(ctx, query)
	if err != nil {
		return Failure(s.Name(), err)
	}

	neighbors := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		if v, ok := binding["related"]; ok {
			if name := NormalizeEntityName(v.Value); name != "" {
				neighbors = append(neighbors, name)
			}
		}
	}

	return Success(s.Name(), neighbors)
}

// 编译时接口检查
var _ Source = (*DBpediaSource)(nil)
