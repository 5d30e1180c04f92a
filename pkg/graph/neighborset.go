package graph

import "sort"

// NeighborSet 邻居集合。
//
// 某个主体的相关实体名称集合（去重、无序），由零个或多个
// 知识源结果做并集得到。集合内的名称均为归一化后的形式。
type NeighborSet struct {
	members map[string]struct{}
}

// NewNeighborSet 创建邻居集合。
func NewNeighborSet(names ...string) *NeighborSet {
	s := &NeighborSet{
		members: make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		s.Add(name)
	}
	return s
}

// Add 添加实体名称（归一化后为空的名称被忽略）。
func (s *NeighborSet) Add(name string) {
	normalized := Normalize(name)
	if normalized == "" {
		return
	}
	s.members[normalized] = struct{}{}
}

// Contains 判断集合是否包含实体名称。
func (s *NeighborSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.members[Normalize(name)]
	return ok
}

// Len 返回集合大小。
func (s *NeighborSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// IsEmpty 判断集合是否为空。
func (s *NeighborSet) IsEmpty() bool {
	return s.Len() == 0
}

// Union 将另一个集合并入当前集合（就地修改）。
//
// 并操作满足交换律与结合律，聚合时与知识源完成顺序无关。
func (s *NeighborSet) Union(other *NeighborSet) {
	if other == nil {
		return
	}
	for name := range other.members {
		s.members[name] = struct{}{}
	}
}

// Intersect 返回当前集合与另一个集合的交集（新集合）。
func (s *NeighborSet) Intersect(other *NeighborSet) *NeighborSet {
	result := NewNeighborSet()
	if s == nil || other == nil {
		return result
	}

	// 遍历较小的一侧
	small, large := s, other
	if large.Len() < small.Len() {
		small, large = large, small
	}

	for name := range small.members {
		if _, ok := large.members[name]; ok {
			result.members[name] = struct{}{}
		}
	}
	return result
}

// Values 返回集合内全部实体名称（字典序，保证输出确定性）。
func (s *NeighborSet) Values() []string {
	if s == nil {
		return nil
	}
	values := make([]string, 0, len(s.members))
	for name := range s.members {
		values = append(values, name)
	}
	sort.Strings(values)
	return values
}

// Clone 返回集合的拷贝。
func (s *NeighborSet) Clone() *NeighborSet {
	clone := NewNeighborSet()
	if s == nil {
		return clone
	}
	for name := range s.members {
		clone.members[name] = struct{}{}
	}
	return clone
}
