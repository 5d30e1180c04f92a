package source

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/easyops/medcontext-go/pkg/core/errors"
)

// Neo4jConfig 本地知识图谱适配器配置。
type Neo4jConfig struct {
	// URI Neo4j 地址
	URI string
	// Username 用户名
	Username string
	// Password 密码
	Password string
	// MaxResults 最大返回实体数
	MaxResults int
}

// Neo4jSource 基于本地 Neo4j 知识图谱的知识源适配器。
//
// 相关关系按无向处理：MATCH 不指定方向，两端的实体都算邻居。
type Neo4jSource struct {
	driver     neo4j.DriverWithContext
	maxResults int
}

// NewNeo4jSource 创建 Neo4j 适配器。
//
// 连接验证在构造期完成：本地图谱属于部署内依赖，不可达
// 属于配置错误而非运行期单源降级。
func NewNeo4jSource(ctx context.Context, config Neo4jConfig) (*Neo4jSource, error) {
	if config.URI == "" {
		config.URI = "bolt://localhost:7687"
	}
	if config.MaxResults <= 0 {
		config.MaxResults = 10
	}

	auth := neo4j.NoAuth()
	if config.Username != "" && config.Password != "" {
		auth = neo4j.BasicAuth(config.Username, config.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(config.URI, auth)
	if err != nil {
		return nil, errors.WrapError(err, "create neo4j driver")
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, errors.WrapError(errors.ErrSourceUnavailable, err.Error())
	}

	return &Neo4jSource{driver: driver, maxResults: config.MaxResults}, nil
}

// Name 返回知识源名称。
func (s *Neo4jSource) Name() string {
	return "neo4j"
}

// Fetch 返回与主体相关的实体名称集合。
func (s *Neo4jSource) Fetch(ctx context.Context, subject string) Result {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	query := `
	MATCH (a:Entity {name: $subject})-[:INTERACTS_WITH]-(b:Entity)
	RETURN DISTINCT b.name AS name
	LIMIT $limit
	`
	params := map[string]interface{}{
		"subject": subject,
		"limit":   s.maxResults,
	}

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return Failure(s.Name(), errors.WrapError(errors.ErrSourceUnavailable, err.Error()))
	}

	var neighbors []string
	for result.Next(ctx) {
		record := result.Record()
		nameVal, ok := record.Get("name")
		if !ok {
			continue
		}
		if name, ok := nameVal.(string); ok {
			if normalized := NormalizeEntityName(name); normalized != "" {
				neighbors = append(neighbors, normalized)
			}
		}
	}
	if err := result.Err(); err != nil {
		return Failure(s.Name(), errors.WrapError(errors.ErrSourceUnavailable, err.Error()))
	}

	return Success(s.Name(), neighbors)
}

// Close 关闭底层驱动连接。
func (s *Neo4jSource) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

var _ Source = (*Neo4jSource)(nil)
