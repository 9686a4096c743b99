package ranking

import (
	"sort"

	"resume-screener-go/internal/types"
)

const (
	// maxChunksPerCandidate 最终结果中单个候选人最多占的分块数
	maxChunksPerCandidate = 3

	// OversampleFactor 相似度搜索的超采样倍数：先取 k×2 条再做多样化筛选，
	// 否则头部被单个候选人占满时凑不够 k 个不同来源的分块
	OversampleFactor = 2
)

// Diversify 对相似度搜索结果做候选人多样化：
// 按传入顺序（相似度从高到低）逐条放行，同一候选人（按姓名分组，
// 姓名缺失回退文件名）最多放行3条，凑满 k 条即停。
// 放行的分块按距离升序重排后返回 —— 最终顺序由相似度决定，与放行顺序无关。
// k 不为正时返回空结果
func Diversify(results []types.ScoredChunk, k int) []types.DocumentChunk {
	if k <= 0 || len(results) == 0 {
		return nil
	}

	perCandidate := make(map[string]int)
	admitted := make([]types.ScoredChunk, 0, k)

	for _, sc := range results {
		id := sc.Chunk.CandidateID()
		if perCandidate[id] >= maxChunksPerCandidate {
			continue
		}
		perCandidate[id]++
		admitted = append(admitted, sc)
		if len(admitted) >= k {
			break
		}
	}

	sort.SliceStable(admitted, func(i, j int) bool {
		return admitted[i].Distance < admitted[j].Distance
	})

	chunks := make([]types.DocumentChunk, 0, len(admitted))
	for _, sc := range admitted {
		chunks = append(chunks, sc.Chunk)
	}
	return chunks
}
