// Package source 提供知识源适配器。
//
// 每个知识源对应一个适配器实例：给定主体名称，返回一组可直接
// 比较的相关实体名称。适配器负责把来源特有的标识
// （URI、标签、数字 ID）归一化为普通字符串，使跨源的
// 集合并/交运算有意义。
//
// 适配器永不向调用方抛出错误：任何失败（网络、解析、凭证缺失、
// 超时）都降级为空结果，失败原因保留在 Result.Err 中供日志与
// 指标观测。单一知识源故障不得阻断整体聚合。
package source

import (
	"context"
	"net/url"
	"strings"
)

// Source 知识源适配器接口。
type Source interface {
	// Name 返回知识源名称（用于日志与指标）。
	Name() string

	// Fetch 返回与主体相关的实体名称集合。
	//
	// 返回的 Result 永远有效：失败时 Neighbors 为空，
	// Err 记录失败原因。实现不得 panic，也不得返回 nil 之外
	// 把错误泄漏给调用方的形式。
	Fetch(ctx context.Context, subject string) Result
}

// Result 单个知识源的抓取结果。
//
// 显式的「成功携带集合 / 失败携带原因」结果类型：失败对
// 日志与指标可观测，但不会中断聚合。
type Result struct {
	// Source 知识源名称
	Source string
	// Neighbors 相关实体名称（已归一化，可能为空）
	Neighbors []string
	// Err 失败原因（成功时为 nil）
	Err error
}

// OK 判断抓取是否成功。
func (r Result) OK() bool {
	return r.Err == nil
}

// Success 构建成功结果。
func Success(source string, neighbors []string) Result {
	return Result{Source: source, Neighbors: neighbors}
}

// Failure 构建失败结果（邻居为空集）。
func Failure(source string, err error) Result {
	return Result{Source: source, Err: err}
}

// NormalizeEntityName 把来源特有的实体标识归一化为可比较的名称。
//
// 取 URI 的最后一个路径段，解码百分号转义，下划线还原为空格，
// 再折叠空白。非 URI 的普通标签仅做空白折叠。
func NormalizeEntityName(raw string) string {
	name := raw
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	name = strings.ReplaceAll(name, "_", " ")
	return strings.Join(strings.Fields(name), " ")
}

// SubjectIdentifier 把归一化主体名称转换为来源资源标识
// （空格还原为下划线，DBpedia 资源命名约定）。
func SubjectIdentifier(subject string) string {
	return strings.ReplaceAll(strings.TrimSpace(subject), " ", "_")
}
