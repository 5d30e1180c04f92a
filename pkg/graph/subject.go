// Package graph 实现交互图聚合引擎。
//
// 对单个主体（药物或疾病名称），从多个相互独立的知识源收集
// 相关实体并做集合并；对两个主体计算成对交互报告
// （直接关联 + 共同邻居）。
package graph

import (
	"strings"

	"github.com/easyops/medcontext-go/pkg/core/errors"
)

// Normalize 归一化主体名称。
//
// 去除首尾空白并折叠内部连续空白为单个空格。
// 两个主体相等当且仅当归一化形式相等。
func Normalize(subject string) string {
	return strings.Join(strings.Fields(subject), " ")
}

// ValidateSubject 校验主体名称，归一化后为空则返回校验错误。
//
// 返回归一化后的主体名称。校验在任何知识源被调用之前执行。
func ValidateSubject(subject string) (string, error) {
	normalized := Normalize(subject)
	if normalized == "" {
		return "", errors.ErrInvalidSubject
	}
	return normalized, nil
}
