package graph

import (
	"time"

	"github.com/google/uuid"
)

// InteractionReport 两个主体之间的成对交互报告。
//
// 不变式：
//   - Common = NeighborsA ∩ NeighborsB
//   - Direct = (SubjectB ∈ NeighborsA) || (SubjectA ∈ NeighborsB)
//
// Direct 是基于「或」的非对称成员测试，不要求双方互相列出对方。
// 报告按查询新建，构建后不可变，不做持久化。
type InteractionReport struct {
	// ID 报告唯一标识
	ID string `json:"id"`
	// SubjectA 主体 A（归一化形式）
	SubjectA string `json:"subject_a"`
	// SubjectB 主体 B（归一化形式）
	SubjectB string `json:"subject_b"`
	// Direct 是否存在直接关联
	Direct bool `json:"direct"`
	// Common 共同邻居
	Common *NeighborSet `json:"common"`
	// NeighborsA 主体 A 的邻居集合
	NeighborsA *NeighborSet `json:"neighbors_a"`
	// NeighborsB 主体 B 的邻居集合
	NeighborsB *NeighborSet `json:"neighbors_b"`
	// CreatedAt 构建时间
	CreatedAt time.Time `json:"created_at"`
}

// newReport 按不变式从两个邻居集合构建报告。
func newReport(subjectA, subjectB string, neighborsA, neighborsB *NeighborSet) *InteractionReport {
	return &InteractionReport{
		ID:         uuid.New().String(),
		SubjectA:   subjectA,
		SubjectB:   subjectB,
		Direct:     neighborsA.Contains(subjectB) || neighborsB.Contains(subjectA),
		Common:     neighborsA.Intersect(neighborsB),
		NeighborsA: neighborsA,
		NeighborsB: neighborsB,
		CreatedAt:  time.Now(),
	}
}

// HasFindings 判断报告是否包含任何交互信息。
func (r *InteractionReport) HasFindings() bool {
	return r.Direct || !r.Common.IsEmpty()
}
