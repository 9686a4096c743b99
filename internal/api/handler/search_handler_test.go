package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/types"
)

func TestPaginate(t *testing.T) {
	list := []types.CandidateRecord{
		{Filename: "a.pdf"},
		{Filename: "b.pdf"},
		{Filename: "c.pdf"},
		{Filename: "d.pdf"},
		{Filename: "e.pdf"},
	}

	page := paginate(list, 0, 2)
	require.Len(t, page, 2)
	assert.Equal(t, "a.pdf", page[0].Filename)

	page = paginate(list, 3, 10)
	require.Len(t, page, 2)
	assert.Equal(t, "d.pdf", page[0].Filename)

	assert.Empty(t, paginate(list, 5, 2))
	assert.Empty(t, paginate(list, 100, 2))

	// limit<=0 返回offset之后的全部
	page = paginate(list, 1, 0)
	assert.Len(t, page, 4)
}

func TestAggregateSkills(t *testing.T) {
	candidates := []types.CandidateRecord{
		{Filename: "a.pdf", Skills: []string{"Go", "Python"}},
		{Filename: "b.pdf", Skills: []string{"go", "Kubernetes"}},
		{Filename: "c.pdf", Skills: []string{"GO", "Python"}},
	}

	skills := aggregateSkills(candidates)
	require.Len(t, skills, 3)

	// 大小写不敏感聚合，展示首次出现的写法，按次数降序
	assert.Equal(t, SkillCount{Skill: "Go", Count: 3}, skills[0])
	assert.Equal(t, SkillCount{Skill: "Python", Count: 2}, skills[1])
	assert.Equal(t, SkillCount{Skill: "Kubernetes", Count: 1}, skills[2])
}

func TestAggregateSkills_Empty(t *testing.T) {
	assert.Empty(t, aggregateSkills(nil))
	assert.Empty(t, aggregateSkills([]types.CandidateRecord{{Filename: "a.pdf"}}))
}

func TestAggregateSkills_TieBreakAlphabetical(t *testing.T) {
	candidates := []types.CandidateRecord{
		{Filename: "a.pdf", Skills: []string{"Rust", "Elixir"}},
	}
	skills := aggregateSkills(candidates)
	require.Len(t, skills, 2)
	assert.Equal(t, "Elixir", skills[0].Skill)
	assert.Equal(t, "Rust", skills[1].Skill)
}
