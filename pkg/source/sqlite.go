package source

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/easyops/medcontext-go/pkg/core/errors"
)

// SQLiteSource 基于本地 SQLite 参考库的知识源适配器。
//
// 参考库保存人工整理的相互作用对，按无向处理：
// 主体出现在任意一端都命中。
type SQLiteSource struct {
	db         *sql.DB
	maxResults int
}

// NewSQLiteSource 创建 SQLite 适配器。
func NewSQLiteSource(dbPath string, maxResults int) (*SQLiteSource, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.WrapError(err, "open database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.WrapError(errors.ErrSourceUnavailable, err.Error())
	}

	s := &SQLiteSource{db: db, maxResults: maxResults}

	if err := s.initSchema(); err != nil {
		return nil, errors.WrapError(err, "init schema")
	}

	return s, nil
}

// initSchema 初始化表结构
func (s *SQLiteSource) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS interactions (
		subject TEXT NOT NULL,
		neighbor TEXT NOT NULL,
		PRIMARY KEY (subject, neighbor)
	);
	CREATE INDEX IF NOT EXISTS idx_interactions_neighbor ON interactions(neighbor);
	`

	_, err := s.db.Exec(query)
	return err
}

// Name 返回知识源名称。
func (s *SQLiteSource) Name() string {
	return "sqlite"
}

// Fetch 返回与主体相关的实体名称集合。
func (s *SQLiteSource) Fetch(ctx context.Context, subject string) Result {
	query := `
	SELECT neighbor FROM interactions WHERE subject = ?
	UNION
	SELECT subject FROM interactions WHERE neighbor = ?
	LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, subject, subject, s.maxResults)
	if err != nil {
		return Failure(s.Name(), errors.WrapError(errors.ErrSourceUnavailable, err.Error()))
	}
	defer rows.Close()

	var neighbors []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return Failure(s.Name(), errors.WrapError(errors.ErrMalformedResponse, err.Error()))
		}
		if normalized := NormalizeEntityName(name); normalized != "" {
			neighbors = append(neighbors, normalized)
		}
	}
	if err := rows.Err(); err != nil {
		return Failure(s.Name(), errors.WrapError(errors.ErrSourceUnavailable, err.Error()))
	}

	return Success(s.Name(), neighbors)
}

// AddInteraction 写入一条相互作用对（测试与数据装载用）。
func (s *SQLiteSource) AddInteraction(ctx context.Context, subject, neighbor string) error {
	query := `
	INSERT INTO interactions (subject, neighbor) VALUES (?, ?)
	ON CONFLICT(subject, neighbor) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query, subject, neighbor)
	return err
}

// Close 关闭底层数据库连接。
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

var _ Source = (*SQLiteSource)(nil)
