package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/types"
)

func TestRank_EmptyQuery(t *testing.T) {
	_, err := Rank([]types.CandidateRecord{{Name: "Alice"}}, "   ", nil)
	assert.Error(t, err)
}

func TestRank_EmptyCandidates(t *testing.T) {
	got, err := Rank(nil, "python", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRank_SkillAndCompleteness(t *testing.T) {
	candidates := []types.CandidateRecord{
		{
			Name:   "Alice Johnson",
			Email:  "alice@x.com",
			Phone:  "555-123-4567",
			Skills: []string{"Python", "Django"},
		},
		{
			Name:   "Bob",
			Skills: []string{"Go"},
		},
	}

	got, err := Rank(candidates, "python", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Alice: 技能命中3 + 完整度奖励(1+1+1+2×0.2) = 6.4
	assert.Equal(t, "Alice Johnson", got[0].Candidate.Name)
	assert.InDelta(t, 6.4, got[0].Score, 1e-9)

	// Bob: 完整度奖励(1+1×0.2) = 1.2
	assert.Equal(t, "Bob", got[1].Candidate.Name)
	assert.InDelta(t, 1.2, got[1].Score, 1e-9)
}

func TestRank_NameAndEmailMatch(t *testing.T) {
	candidates := []types.CandidateRecord{
		{Name: "Alice Johnson", Email: "alice@x.com"},
	}
	got, err := Rank(candidates, "alice", nil)
	require.NoError(t, err)

	// 姓名子串10 + 邮箱子串5 + 完整度奖励(1+1) = 17
	assert.InDelta(t, 17.0, got[0].Score, 1e-9)
}

func TestRank_SkillWeights(t *testing.T) {
	candidates := []types.CandidateRecord{
		{Name: "Alice Johnson", Skills: []string{"Python"}},
	}
	weights := map[string]float64{"python": 2.0}
	got, err := Rank(candidates, "python", weights)
	require.NoError(t, err)

	// 3×2.0 + 完整度奖励(1+0.2) = 7.2
	assert.InDelta(t, 7.2, got[0].Score, 1e-9)
}

func TestRank_ShortTokensIgnored(t *testing.T) {
	candidates := []types.CandidateRecord{
		{Name: "Alice Johnson", Skills: []string{"Go", "SQL"}},
	}
	// "go" 和 "sql" 都不超过3个字符，不参与技能交叉匹配
	got, err := Rank(candidates, "go sql", nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.4, got[0].Score, 1e-9)
}

func TestRank_StableOnTies(t *testing.T) {
	candidates := []types.CandidateRecord{
		{Name: "Alice Johnson", Filename: "first.pdf"},
		{Name: "Alice Johnson", Filename: "second.pdf"},
	}
	got, err := Rank(candidates, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "first.pdf", got[0].Candidate.Filename)
	assert.Equal(t, "second.pdf", got[1].Candidate.Filename)
}

func TestFilter(t *testing.T) {
	candidates := []types.CandidateRecord{
		{Name: "Alice Johnson", Skills: []string{"Python", "Docker"}},
		{Name: "Bob Lee", Skills: []string{"Java"}},
		{Name: "Carol Chen", Skills: []string{"Python"}},
	}

	assert.Len(t, Filter(candidates, "", ""), 3)

	byName := Filter(candidates, "bob", "")
	require.Len(t, byName, 1)
	assert.Equal(t, "Bob Lee", byName[0].Name)

	bySkill := Filter(candidates, "", "python")
	assert.Len(t, bySkill, 2)

	both := Filter(candidates, "carol", "python")
	require.Len(t, both, 1)
	assert.Equal(t, "Carol Chen", both[0].Name)

	assert.Empty(t, Filter(candidates, "bob", "python"))
}
