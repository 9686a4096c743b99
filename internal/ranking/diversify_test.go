package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/types"
)

func scoredChunk(name string, id int, distance float32) types.ScoredChunk {
	return types.ScoredChunk{
		Chunk: types.DocumentChunk{
			ChunkID:  id,
			Content:  "chunk",
			Metadata: types.ChunkMetadata{Name: name, Filename: name + ".pdf"},
		},
		Distance: distance,
	}
}

func TestDiversify_PerCandidateCap(t *testing.T) {
	// 3个候选人各3个分块，按距离升序传入，k=6
	results := []types.ScoredChunk{
		scoredChunk("Alice", 1, 0.10),
		scoredChunk("Alice", 2, 0.11),
		scoredChunk("Alice", 3, 0.12),
		scoredChunk("Alice", 4, 0.13),
		scoredChunk("Bob", 5, 0.20),
		scoredChunk("Bob", 6, 0.21),
		scoredChunk("Carol", 7, 0.30),
		scoredChunk("Carol", 8, 0.31),
		scoredChunk("Carol", 9, 0.32),
	}

	got := Diversify(results, 6)
	require.Len(t, got, 6)

	// 没有候选人超过3个分块
	counts := make(map[string]int)
	for _, c := range got {
		counts[c.CandidateID()]++
	}
	for id, n := range counts {
		assert.LessOrEqualf(t, n, 3, "候选人 %s 占了 %d 个分块", id, n)
	}

	// Alice 的第4个分块被上限挡掉，Bob 和 Carol 补位
	assert.Equal(t, 3, counts["Alice"])
	assert.Equal(t, 2, counts["Bob"])
	assert.Equal(t, 1, counts["Carol"])
}

func TestDiversify_SortedAscendingByDistance(t *testing.T) {
	// 乱序传入也按距离升序返回
	results := []types.ScoredChunk{
		scoredChunk("Alice", 1, 0.30),
		scoredChunk("Bob", 2, 0.10),
		scoredChunk("Carol", 3, 0.20),
	}
	got := Diversify(results, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []int{2, 3, 1}, []int{got[0].ChunkID, got[1].ChunkID, got[2].ChunkID})
}

func TestDiversify_KLargerThanResults(t *testing.T) {
	results := []types.ScoredChunk{
		scoredChunk("Alice", 1, 0.2),
		scoredChunk("Bob", 2, 0.1),
	}
	got := Diversify(results, 10)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ChunkID)
	assert.Equal(t, 1, got[1].ChunkID)
}

func TestDiversify_NonPositiveK(t *testing.T) {
	results := []types.ScoredChunk{scoredChunk("Alice", 1, 0.1)}
	assert.Nil(t, Diversify(results, 0))
	assert.Nil(t, Diversify(results, -1))
}

func TestDiversify_FilenameFallbackGrouping(t *testing.T) {
	// 姓名缺失时按文件名分组，仍受单候选人上限约束
	results := make([]types.ScoredChunk, 0, 5)
	for i := 0; i < 5; i++ {
		results = append(results, types.ScoredChunk{
			Chunk: types.DocumentChunk{
				ChunkID:  i,
				Metadata: types.ChunkMetadata{Filename: "anon.pdf"},
			},
			Distance: float32(i) * 0.1,
		})
	}
	got := Diversify(results, 5)
	assert.Len(t, got, 3)
}
