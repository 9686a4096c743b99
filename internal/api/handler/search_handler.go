package handler

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"resume-screener-go/internal/logger"
	"resume-screener-go/internal/processor"
	"resume-screener-go/internal/ranking"
	"resume-screener-go/internal/types"
)

// SearchHandler 检索、排序与导出相关的HTTP处理器
type SearchHandler struct {
	svc processor.SearchService
}

// NewSearchHandler 创建检索处理器
func NewSearchHandler(svc processor.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// SearchRequest 语义检索请求体
type SearchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
	// Answer为true时同时生成自然语言回答
	Answer bool `json:"answer"`
}

// SearchResponse 语义检索响应
type SearchResponse struct {
	Query  string                `json:"query"`
	Answer string                `json:"answer,omitempty"`
	Chunks []types.DocumentChunk `json:"chunks"`
}

// HandleSearch 语义检索简历分块，可选生成回答
func (h *SearchHandler) HandleSearch(ctx context.Context, c *app.RequestContext) {
	var req SearchRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "请求体解析失败"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "query不能为空"})
		return
	}

	var (
		answer string
		chunks []types.DocumentChunk
		err    error
	)
	if req.Answer {
		answer, chunks, err = h.svc.AnswerQuestion(ctx, req.Query, req.K)
	} else {
		chunks, err = h.svc.SearchChunks(ctx, req.Query, req.K)
	}
	if err != nil {
		logger.Error().Err(err).Str("query", req.Query).Msg("语义检索失败")
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": "检索失败"})
		return
	}

	if chunks == nil {
		chunks = []types.DocumentChunk{}
	}
	c.JSON(consts.StatusOK, SearchResponse{
		Query:  req.Query,
		Answer: answer,
		Chunks: chunks,
	})
}

// RankRequest 候选人排序请求体
type RankRequest struct {
	Query string `json:"query"`
	// Weights 查询词的权重覆盖，键为小写词
	Weights map[string]float64 `json:"weights,omitempty"`
}

// RankResponse 候选人排序响应
type RankResponse struct {
	Query      string                  `json:"query"`
	Candidates []types.RankedCandidate `json:"candidates"`
}

// HandleRank 按查询串对全部候选人确定性打分排序
func (h *SearchHandler) HandleRank(ctx context.Context, c *app.RequestContext) {
	var req RankRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "请求体解析失败"})
		return
	}

	ranked, err := h.svc.RankCandidates(ctx, req.Query, req.Weights)
	if err != nil {
		if errors.Is(err, ranking.ErrEmptyQuery) {
			c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "query不能为空"})
			return
		}
		logger.Error().Err(err).Str("query", req.Query).Msg("候选人排序失败")
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": "排序失败"})
		return
	}

	if ranked == nil {
		ranked = []types.RankedCandidate{}
	}
	c.JSON(consts.StatusOK, RankResponse{Query: req.Query, Candidates: ranked})
}

// CandidateListResponse 候选人列表响应
type CandidateListResponse struct {
	Total      int64                   `json:"total"`
	Offset     int                     `json:"offset"`
	Limit      int                     `json:"limit"`
	Candidates []types.CandidateRecord `json:"candidates"`
}

// HandleListCandidates 分页列出候选人画像，支持按姓名和技能子串过滤
func (h *SearchHandler) HandleListCandidates(ctx context.Context, c *app.RequestContext) {
	offset := parseIntQuery(c, "offset", 0)
	limit := parseIntQuery(c, "limit", 20)
	if limit > 100 {
		limit = 100
	}
	nameFilter := c.Query("name")
	skillFilter := c.Query("skill")

	// 过滤条件需要在全量画像上做子串匹配，再在内存中分页
	if nameFilter != "" || skillFilter != "" {
		all, _, err := h.svc.ListCandidates(ctx, 0, 0)
		if err != nil {
			logger.Error().Err(err).Msg("查询候选人列表失败")
			c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": "查询失败"})
			return
		}
		filtered := ranking.Filter(all, nameFilter, skillFilter)
		total := int64(len(filtered))
		page := paginate(filtered, offset, limit)
		c.JSON(consts.StatusOK, CandidateListResponse{
			Total:      total,
			Offset:     offset,
			Limit:      limit,
			Candidates: page,
		})
		return
	}

	candidates, total, err := h.svc.ListCandidates(ctx, offset, limit)
	if err != nil {
		logger.Error().Err(err).Msg("查询候选人列表失败")
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": "查询失败"})
		return
	}
	if candidates == nil {
		candidates = []types.CandidateRecord{}
	}
	c.JSON(consts.StatusOK, CandidateListResponse{
		Total:      total,
		Offset:     offset,
		Limit:      limit,
		Candidates: candidates,
	})
}

// HandleGetCandidate 查询单个候选人画像
func (h *SearchHandler) HandleGetCandidate(ctx context.Context, c *app.RequestContext) {
	submissionUUID := c.Param("submission_uuid")
	if submissionUUID == "" {
		c.JSON(consts.StatusBadRequest, map[string]interface{}{"error": "submission_uuid不能为空"})
		return
	}

	record, err := h.svc.GetCandidate(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, processor.ErrCandidateNotFound) {
			c.JSON(consts.StatusNotFound, map[string]interface{}{"error": "候选人不存在"})
			return
		}
		logger.Error().Err(err).Str("submission_uuid", submissionUUID).Msg("查询候选人画像失败")
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": "查询失败"})
		return
	}
	c.JSON(consts.StatusOK, record)
}

// HandleStats 返回候选人总数与向量索引规模
func (h *SearchHandler) HandleStats(ctx context.Context, c *app.RequestContext) {
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("统计索引规模失败")
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": "统计失败"})
		return
	}
	c.JSON(consts.StatusOK, stats)
}

// HandleExportCSV 导出全部候选人画像为CSV
func (h *SearchHandler) HandleExportCSV(ctx context.Context, c *app.RequestContext) {
	candidates, _, err := h.svc.ListCandidates(ctx, 0, 0)
	if err != nil {
		logger.Error().Err(err).Msg("导出候选人CSV失败")
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": "导出失败"})
		return
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"name", "email", "phone", "skills", "filename"})
	for i := range candidates {
		record := &candidates[i]
		_ = w.Write([]string{
			ranking.DisplayName(record),
			record.Email,
			record.Phone,
			strings.Join(record.Skills, ", "),
			record.Filename,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logger.Error().Err(err).Msg("写出CSV失败")
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": "导出失败"})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="candidates.csv"`)
	c.Data(consts.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// SkillCount 单个技能的出现次数
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// SkillsDistributionResponse 技能分布统计响应
type SkillsDistributionResponse struct {
	TotalCandidates int          `json:"total_candidates"`
	Skills          []SkillCount `json:"skills"`
}

// HandleSkillsDistribution 统计候选人技能分布。
// 技能按大小写不敏感聚合，展示首次出现的写法，按出现次数降序
func (h *SearchHandler) HandleSkillsDistribution(ctx context.Context, c *app.RequestContext) {
	candidates, _, err := h.svc.ListCandidates(ctx, 0, 0)
	if err != nil {
		logger.Error().Err(err).Msg("统计技能分布失败")
		c.JSON(consts.StatusInternalServerError, map[string]interface{}{"error": "统计失败"})
		return
	}

	c.JSON(consts.StatusOK, SkillsDistributionResponse{
		TotalCandidates: len(candidates),
		Skills:          aggregateSkills(candidates),
	})
}

// aggregateSkills 大小写不敏感地统计技能出现次数，
// 展示首次出现的写法，按次数降序、同次数按字典序
func aggregateSkills(candidates []types.CandidateRecord) []SkillCount {
	counts := make(map[string]int)
	display := make(map[string]string)
	for i := range candidates {
		for _, skill := range candidates[i].Skills {
			key := strings.ToLower(skill)
			if _, seen := display[key]; !seen {
				display[key] = skill
			}
			counts[key]++
		}
	}

	skills := make([]SkillCount, 0, len(counts))
	for key, count := range counts {
		skills = append(skills, SkillCount{Skill: display[key], Count: count})
	}
	sort.SliceStable(skills, func(i, j int) bool {
		if skills[i].Count != skills[j].Count {
			return skills[i].Count > skills[j].Count
		}
		return skills[i].Skill < skills[j].Skill
	})
	return skills
}

func parseIntQuery(c *app.RequestContext, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return fallback
	}
	return val
}

func paginate(list []types.CandidateRecord, offset, limit int) []types.CandidateRecord {
	if offset >= len(list) {
		return []types.CandidateRecord{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
