package ranking

import (
	"errors"
	"sort"
	"strings"

	"resume-screener-go/internal/types"
)

// 查询分词后参与技能交叉匹配的最小长度，过短的词（for、and、sql之类的边界情况）噪音太大
const minQueryTokenLen = 3

// ErrEmptyQuery 排序查询串为空白
var ErrEmptyQuery = errors.New("ranking query must not be empty")

// Rank 按自由文本查询对候选人集合排序。
//
// 每个候选人的得分：查询串是姓名子串+10，是邮箱子串+5；
// 查询中每个长度大于3的词与候选人技能做双向子串匹配，
// 每对命中 +3×权重（权重按候选人技能的小写形式查表，缺省1.0，
// 跨所有词/技能组合累加）；最后加完整度奖励 ——
// 姓名/邮箱/电话各占1分，技能按 min(个数,5)×0.2 计。
//
// 结果按得分降序，同分保持输入顺序。查询为空白是调用方错误，直接报错；
// 候选人集合为空返回空结果
func Rank(candidates []types.CandidateRecord, query string, weights map[string]float64) ([]types.RankedCandidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if len(candidates) == 0 {
		return []types.RankedCandidate{}, nil
	}

	queryLower := strings.ToLower(query)
	var queryTokens []string
	for _, tok := range strings.Fields(queryLower) {
		if len(tok) > minQueryTokenLen {
			queryTokens = append(queryTokens, tok)
		}
	}

	ranked := make([]types.RankedCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		score := 0.0

		if strings.Contains(strings.ToLower(candidate.Name), queryLower) {
			score += 10.0
		}
		if strings.Contains(strings.ToLower(candidate.Email), queryLower) {
			score += 5.0
		}

		for _, token := range queryTokens {
			for _, skill := range candidate.Skills {
				skillLower := strings.ToLower(skill)
				if strings.Contains(skillLower, token) || strings.Contains(token, skillLower) {
					weight := 1.0
					if w, ok := weights[skillLower]; ok {
						weight = w
					}
					score += 3.0 * weight
				}
			}
		}

		score += completenessBonus(&candidate)

		ranked = append(ranked, types.RankedCandidate{Candidate: candidate, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}

// completenessBonus 排序用的完整度奖励。
// 与 Completeness 不同：这里只看字段是否非空（不校验姓名有效性），
// 技能按数量给部分分而不是0/1
func completenessBonus(r *types.CandidateRecord) float64 {
	bonus := 0.0
	if r.Name != "" {
		bonus++
	}
	if r.Email != "" {
		bonus++
	}
	if r.Phone != "" {
		bonus++
	}
	if n := len(r.Skills); n > 0 {
		if n > 5 {
			n = 5
		}
		bonus += float64(n) * 0.2
	}
	return bonus
}

// Filter 按姓名和技能过滤候选人集合，两个条件都是大小写不敏感的子串匹配，
// 同时给出时取交集。空过滤条件不参与过滤，返回新切片不修改输入
func Filter(candidates []types.CandidateRecord, nameFilter, skillFilter string) []types.CandidateRecord {
	out := make([]types.CandidateRecord, 0, len(candidates))
	nameLower := strings.ToLower(strings.TrimSpace(nameFilter))
	skillLower := strings.ToLower(strings.TrimSpace(skillFilter))

	for _, c := range candidates {
		if nameLower != "" && !strings.Contains(strings.ToLower(c.Name), nameLower) {
			continue
		}
		if skillLower != "" && !containsSkill(c.Skills, skillLower) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func containsSkill(skills []string, needle string) bool {
	for _, s := range skills {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}
