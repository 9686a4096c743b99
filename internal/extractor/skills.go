package extractor

// span 一段已被某个技能认领的字符区间 [Start, End)
type span struct {
	Start, End int
}

// spanSet 跟踪已认领的字符区间，防止同一段文本被记到两个不同技能头上
// （例如 "JavaScript" 命中后，"Java" 的模式不允许再在它内部触发）
type spanSet []span

func (s spanSet) overlaps(start, end int) bool {
	for _, claimed := range s {
		if start < claimed.End && end > claimed.Start {
			return true
		}
	}
	return false
}

func (s *spanSet) claim(start, end int) {
	*s = append(*s, span{Start: start, End: end})
}

// extractSkills 按词表优先级扫描技能。
// 每个技能只记一次；匹配区间与已认领区间相交的候选直接丢弃。
// 返回完整的发现序列，截断到10个由装配层负责
func extractSkills(text string) []string {
	var found []string
	var claimed spanSet

	for _, rule := range skillRules {
		matched := false
		for _, re := range rule.Patterns {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				if claimed.overlaps(loc[0], loc[1]) {
					continue
				}
				found = append(found, rule.Name)
				claimed.claim(loc[0], loc[1])
				matched = true
				break // 同一技能多处出现也只记一次
			}
			if matched {
				break
			}
		}
	}
	return found
}
