package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"resume-screener-go/internal/config"
	"resume-screener-go/internal/ranking"
	"resume-screener-go/internal/storage"
	"resume-screener-go/internal/types"
)

// ErrEmptyQuery 查询串为空或全是空白
var ErrEmptyQuery = errors.New("query must not be empty")

// ErrCandidateNotFound 查询的候选人不存在
var ErrCandidateNotFound = errors.New("candidate not found")

// SearchService 检索与排序服务接口。
// 采用Facade模式，内部持有所有需要的组件，但不暴露给外部
type SearchService interface {
	// SearchChunks 语义检索简历分块，结果按候选人多样化后最多返回k条
	SearchChunks(ctx context.Context, query string, k int) ([]types.DocumentChunk, error)

	// AnswerQuestion 检索分块并生成自然语言回答。
	// 回答生成失败时降级为只返回分块，answer为空串
	AnswerQuestion(ctx context.Context, query string, k int) (string, []types.DocumentChunk, error)

	// RankCandidates 按查询串对全部候选人做确定性打分排序
	RankCandidates(ctx context.Context, query string, weights map[string]float64) ([]types.RankedCandidate, error)

	// ListCandidates 分页列出候选人画像，limit<=0时返回全部
	ListCandidates(ctx context.Context, offset, limit int) ([]types.CandidateRecord, int64, error)

	// GetCandidate 查询单个候选人画像，优先读缓存。
	// 不存在时返回ErrCandidateNotFound
	GetCandidate(ctx context.Context, submissionUUID string) (*types.CandidateRecord, error)

	// Stats 返回候选人总数与向量库中的点数
	Stats(ctx context.Context) (*IndexStats, error)
}

// IndexStats 索引规模统计
type IndexStats struct {
	TotalCandidates int64 `json:"total_candidates"`
	VectorPoints    int64 `json:"vector_points"`
}

type searchServiceImpl struct {
	embedder     TextEmbedder
	answerer     AnswerGenerator // 可为nil，此时AnswerQuestion只返回分块
	storage      *storage.Storage
	logger       *zerolog.Logger
	defaultLimit int
}

// NewSearchService 创建检索服务实例
func NewSearchService(cfg *config.Config, storageManager *storage.Storage, embedder TextEmbedder, answerer AnswerGenerator, logger *zerolog.Logger) (SearchService, error) {
	if storageManager == nil {
		return nil, ErrStorageNotInit
	}
	if embedder == nil {
		return nil, ErrEmbedderNotInit
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	defaultLimit := 10
	if cfg != nil && cfg.Qdrant.DefaultSearchLimit > 0 {
		defaultLimit = cfg.Qdrant.DefaultSearchLimit
	}

	return &searchServiceImpl{
		embedder:     embedder,
		answerer:     answerer,
		storage:      storageManager,
		logger:       logger,
		defaultLimit: defaultLimit,
	}, nil
}

func (s *searchServiceImpl) SearchChunks(ctx context.Context, query string, k int) ([]types.DocumentChunk, error) {
	ctx, span := tracer.Start(ctx, "SearchService.SearchChunks",
		trace.WithAttributes(attribute.Int("k", k)))
	defer span.End()

	if query == "" {
		return nil, ErrEmptyQuery
	}
	if k <= 0 {
		k = s.defaultLimit
	}

	vectors, err := s.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query embedding failed")
		return nil, fmt.Errorf("查询向量化失败: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("查询向量化返回空结果")
	}

	if s.storage.Qdrant == nil {
		return nil, fmt.Errorf("qdrant存储服务未初始化")
	}

	// 超采样后按候选人去集中化，避免结果被单人霸榜
	scored, err := s.storage.Qdrant.SearchSimilarChunks(ctx, vectors[0], k*ranking.OversampleFactor, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "vector search failed")
		return nil, fmt.Errorf("向量检索失败: %w", err)
	}
	span.SetAttributes(attribute.Int("raw_results", len(scored)))

	chunks := ranking.Diversify(scored, k)
	s.logger.Debug().
		Int("k", k).
		Int("raw", len(scored)).
		Int("returned", len(chunks)).
		Msg("语义检索完成")
	return chunks, nil
}

func (s *searchServiceImpl) AnswerQuestion(ctx context.Context, query string, k int) (string, []types.DocumentChunk, error) {
	ctx, span := tracer.Start(ctx, "SearchService.AnswerQuestion")
	defer span.End()

	chunks, err := s.SearchChunks(ctx, query, k)
	if err != nil {
		return "", nil, err
	}
	if len(chunks) == 0 {
		return "", nil, nil
	}

	if s.answerer == nil {
		return "", chunks, nil
	}

	answer, err := s.answerer.GenerateAnswer(ctx, query, chunks)
	if err != nil {
		// 生成失败降级为纯检索结果
		span.RecordError(err)
		s.logger.Warn().Err(err).Msg("回答生成失败, 降级为仅返回检索分块")
		return "", chunks, nil
	}
	return answer, chunks, nil
}

func (s *searchServiceImpl) RankCandidates(ctx context.Context, query string, weights map[string]float64) ([]types.RankedCandidate, error) {
	ctx, span := tracer.Start(ctx, "SearchService.RankCandidates")
	defer span.End()

	candidates, _, err := s.ListCandidates(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	ranked, err := ranking.Rank(candidates, query, weights)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("candidates", len(ranked)))
	return ranked, nil
}

func (s *searchServiceImpl) GetCandidate(ctx context.Context, submissionUUID string) (*types.CandidateRecord, error) {
	if s.storage.Redis != nil {
		record, err := s.storage.Redis.GetCachedCandidateProfile(ctx, submissionUUID)
		if err == nil {
			return record, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("读取候选人画像缓存失败")
		}
	}

	if s.storage.MySQL == nil {
		return nil, fmt.Errorf("mysql存储服务未初始化")
	}
	profile, err := s.storage.MySQL.GetCandidateProfile(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("查询候选人画像失败: %w", err)
	}

	record := profile.ToCandidateRecord()
	if s.storage.Redis != nil {
		if err := s.storage.Redis.CacheCandidateProfile(ctx, submissionUUID, &record, profileCacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("回填候选人画像缓存失败")
		}
	}
	return &record, nil
}

func (s *searchServiceImpl) Stats(ctx context.Context) (*IndexStats, error) {
	_, total, err := s.ListCandidates(ctx, 0, 1)
	if err != nil {
		return nil, err
	}

	stats := &IndexStats{TotalCandidates: total}
	if s.storage.Qdrant != nil {
		points, err := s.storage.Qdrant.CountPoints(ctx)
		if err != nil {
			// 向量库统计失败不阻断整体统计
			s.logger.Warn().Err(err).Msg("统计向量点数失败")
		} else {
			stats.VectorPoints = points
		}
	}
	return stats, nil
}

func (s *searchServiceImpl) ListCandidates(ctx context.Context, offset, limit int) ([]types.CandidateRecord, int64, error) {
	if s.storage.MySQL == nil {
		return nil, 0, fmt.Errorf("mysql存储服务未初始化")
	}

	profiles, total, err := s.storage.MySQL.ListCandidateProfiles(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("查询候选人画像失败: %w", err)
	}

	records := make([]types.CandidateRecord, 0, len(profiles))
	for i := range profiles {
		records = append(records, profiles[i].ToCandidateRecord())
	}
	return records, total, nil
}
