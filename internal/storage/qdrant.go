package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"resume-screener-go/internal/config"
	"resume-screener-go/internal/tracing"
	"resume-screener-go/internal/types"
)

var qdrantTracer = otel.Tracer("resume-screener-go/storage/qdrant")

// QdrantPointIDNamespace 用于生成确定性point ID的命名空间。
// 同一份提交的同一个分块总是得到相同的point ID，重复写入是幂等的
var QdrantPointIDNamespace = uuid.Must(uuid.FromString("9f2ab3d4-61c5-4e8f-b0a7-3d5e8c41f6b2"))

// VectorDatabase 向量数据库接口
type VectorDatabase interface {
	// StoreChunkVectors 存储一份简历提交的全部分块向量，返回point ID列表
	StoreChunkVectors(ctx context.Context, submissionUUID string, chunks []types.DocumentChunk, embeddings [][]float64) ([]string, error)

	// SearchSimilarChunks 搜索与查询向量最相似的分块，结果按距离升序
	SearchSimilarChunks(ctx context.Context, queryVector []float64, limit int, filter map[string]interface{}) ([]types.ScoredChunk, error)

	// DeletePointsBySubmissionUUID 删除一份提交的全部向量点
	DeletePointsBySubmissionUUID(ctx context.Context, submissionUUID string) error
}

var _ VectorDatabase = (*Qdrant)(nil)

// Qdrant 通过HTTP API访问Qdrant向量数据库
type Qdrant struct {
	endpoint       string
	collectionName string
	vectorSize     int
	distanceMetric string
	apiKey         string
	httpClient     *http.Client
}

// QdrantOption 定义Qdrant构造函数选项
type QdrantOption func(*Qdrant)

// WithDistanceMetric 设置距离度量
func WithDistanceMetric(metric string) QdrantOption {
	return func(q *Qdrant) {
		q.distanceMetric = metric
	}
}

// WithHTTPTimeout 设置HTTP客户端超时
func WithHTTPTimeout(timeout time.Duration) QdrantOption {
	return func(q *Qdrant) {
		q.httpClient = &http.Client{Timeout: timeout}
	}
}

// NewQdrant 创建Qdrant客户端并确保集合存在
func NewQdrant(cfg *config.QdrantConfig, opts ...QdrantOption) (*Qdrant, error) {
	if cfg == nil {
		return nil, fmt.Errorf("qdrant配置不能为空")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:6333"
	}
	collectionName := cfg.Collection
	if collectionName == "" {
		collectionName = "resume_chunks"
	}
	vectorSize := cfg.Dimension
	if vectorSize <= 0 {
		vectorSize = 1024 // 与阿里云Embedding默认维度一致
	}

	q := &Qdrant{
		endpoint:       endpoint,
		collectionName: collectionName,
		vectorSize:     vectorSize,
		distanceMetric: "Cosine",
		apiKey:         cfg.APIKey,
		httpClient:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(q)
	}

	if err := q.ensureCollectionExists(context.Background()); err != nil {
		return nil, fmt.Errorf("确保集合 '%s' 存在失败: %w", collectionName, err)
	}

	log.Printf("成功连接到Qdrant服务器: %s, 集合 '%s' 就绪", endpoint, collectionName)
	return q, nil
}

// ensureCollectionExists 检查集合，不存在时创建
func (q *Qdrant) ensureCollectionExists(ctx context.Context) error {
	ctx, span := qdrantTracer.Start(ctx, "Qdrant.EnsureCollectionExists",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("net.peer.name", q.endpoint),
		attribute.String("db.system", "qdrant"),
		attribute.String("db.operation", "check_collection"),
		attribute.String("db.collection", q.collectionName),
		attribute.Int("db.vector_size", q.vectorSize),
	)

	var collectionInfo struct {
		Result struct {
			Config struct {
				Params struct {
					Vectors struct {
						Size     int    `json:"size"`
						Distance string `json:"distance"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}

	err := q.doRequest(ctx, http.MethodGet, fmt.Sprintf("/collections/%s", q.collectionName), nil, &collectionInfo)
	if err != nil {
		if isNotFound(err) {
			span.AddEvent("collection_not_found")
			log.Printf("集合 '%s' 不存在，将创建新集合", q.collectionName)
			return q.createCollection(ctx)
		}
		tracing.RecordError(span, err, tracing.ErrorTypeVectorDB)
		return err
	}

	existingSize := collectionInfo.Result.Config.Params.Vectors.Size
	existingDistance := collectionInfo.Result.Config.Params.Vectors.Distance
	if existingSize != q.vectorSize || existingDistance != q.distanceMetric {
		log.Printf("警告: 现有集合配置与当前配置不匹配。现有: 维度=%d, 距离=%s; 当前: 维度=%d, 距离=%s",
			existingSize, existingDistance, q.vectorSize, q.distanceMetric)
		span.AddEvent("collection_config_mismatch", trace.WithAttributes(
			attribute.Int("expected_vector_size", q.vectorSize),
			attribute.String("expected_distance", q.distanceMetric),
		))
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// createCollection 创建新的向量集合
func (q *Qdrant) createCollection(ctx context.Context) error {
	ctx, span := qdrantTracer.Start(ctx, "Qdrant.CreateCollection",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("db.system", "qdrant"),
		attribute.String("db.operation", "create_collection"),
		attribute.String("db.collection", q.collectionName),
		attribute.Int("db.vector_size", q.vectorSize),
		attribute.String("db.vector.distance", q.distanceMetric),
	)

	createReqBody := map[string]interface{}{
		"vectors": map[string]interface{}{
			"size":     q.vectorSize,
			"distance": q.distanceMetric,
		},
		"optimizers_config": map[string]interface{}{
			"default_segment_number": 2,
		},
	}

	err := q.doRequest(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", q.collectionName), createReqBody, nil)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeVectorDB)
		return fmt.Errorf("创建集合失败: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	log.Printf("已成功创建Qdrant集合: %s, 维度: %d", q.collectionName, q.vectorSize)
	return nil
}

// StoreChunkVectors 存储一份简历提交的分块向量，point ID由提交UUID和分块序号确定性生成
func (q *Qdrant) StoreChunkVectors(ctx context.Context, submissionUUID string, chunks []types.DocumentChunk, embeddings [][]float64) ([]string, error) {
	ctx, span := qdrantTracer.Start(ctx, "Qdrant.StoreChunkVectors",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("db.system", "qdrant"),
		attribute.String("db.operation", "store_vectors"),
		attribute.String("db.collection", q.collectionName),
		attribute.String("submission_uuid", submissionUUID),
		attribute.Int("vectors.count", len(embeddings)),
	)

	if len(chunks) != len(embeddings) {
		err := fmt.Errorf("chunks数量(%d)与embeddings数量(%d)不匹配", len(chunks), len(embeddings))
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	if len(embeddings) == 0 {
		span.SetStatus(codes.Ok, "no vectors to store")
		return []string{}, nil
	}

	points := make([]interface{}, 0, len(chunks))
	ids := make([]string, 0, len(chunks))
	for i, embedding := range embeddings {
		if len(embedding) != q.vectorSize {
			err := fmt.Errorf("向量维度(%d)与配置维度(%d)不匹配", len(embedding), q.vectorSize)
			tracing.RecordError(span, err, tracing.ErrorTypeValidation)
			return nil, err
		}

		chunk := chunks[i]
		idSource := fmt.Sprintf("submission_uuid:%s_chunk_id:%d", submissionUUID, chunk.ChunkID)
		pointID := uuid.NewV5(QdrantPointIDNamespace, idSource).String()
		ids = append(ids, pointID)

		points = append(points, map[string]interface{}{
			"id":      pointID,
			"vector":  embedding,
			"payload": chunkPayload(submissionUUID, chunk),
		})
	}

	reqBody := map[string]interface{}{"points": points}
	err := q.doRequest(ctx, http.MethodPut,
		fmt.Sprintf("/collections/%s/points?wait=true", q.collectionName), reqBody, nil)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeVectorDB)
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return ids, nil
}

// SearchSimilarChunks 搜索相似分块，把Qdrant的相似度分数换算为距离（1-score，越小越相似）
func (q *Qdrant) SearchSimilarChunks(ctx context.Context, queryVector []float64, limit int, filter map[string]interface{}) ([]types.ScoredChunk, error) {
	ctx, span := qdrantTracer.Start(ctx, "Qdrant.SearchSimilarChunks",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("db.system", "qdrant"),
		attribute.String("db.operation", "search_vectors"),
		attribute.String("db.collection", q.collectionName),
		attribute.Int("search.limit", limit),
		attribute.Int("query_vector.size", len(queryVector)),
	)

	if len(queryVector) != q.vectorSize {
		err := fmt.Errorf("查询向量维度(%d)与配置维度(%d)不匹配", len(queryVector), q.vectorSize)
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	searchReq := map[string]interface{}{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
	}
	if len(filter) > 0 {
		searchReq["filter"] = filter
	}

	var result struct {
		Result []struct {
			ID      string                 `json:"id"`
			Score   float32                `json:"score"`
			Payload map[string]interface{} `json:"payload"`
		} `json:"result"`
		Status string  `json:"status"`
		Time   float64 `json:"time"`
	}

	err := q.doRequest(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/search", q.collectionName), searchReq, &result)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeVectorDB)
		return nil, err
	}

	scored := make([]types.ScoredChunk, 0, len(result.Result))
	for _, point := range result.Result {
		scored = append(scored, types.ScoredChunk{
			Chunk:    chunkFromPayload(point.Payload),
			Distance: 1 - point.Score,
		})
	}

	span.SetAttributes(
		attribute.Int("search.results.count", len(scored)),
		attribute.String("qdrant.response_status", result.Status),
		attribute.Float64("qdrant.response_time", result.Time),
	)
	span.SetStatus(codes.Ok, "")
	return scored, nil
}

// DeletePointsBySubmissionUUID 按提交UUID删除全部向量点
func (q *Qdrant) DeletePointsBySubmissionUUID(ctx context.Context, submissionUUID string) error {
	ctx, span := qdrantTracer.Start(ctx, "Qdrant.DeletePointsBySubmissionUUID",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("db.system", "qdrant"),
		attribute.String("db.operation", "delete_points"),
		attribute.String("db.collection", q.collectionName),
		attribute.String("submission_uuid", submissionUUID),
	)

	reqBody := map[string]interface{}{
		"filter": map[string]interface{}{
			"must": []map[string]interface{}{
				{
					"key":   "submission_uuid",
					"match": map[string]interface{}{"value": submissionUUID},
				},
			},
		},
	}

	err := q.doRequest(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/delete?wait=true", q.collectionName), reqBody, nil)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeVectorDB)
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// CountPoints 获取集合中的点数量
func (q *Qdrant) CountPoints(ctx context.Context) (int64, error) {
	ctx, span := qdrantTracer.Start(ctx, "Qdrant.CountPoints",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("db.system", "qdrant"),
		attribute.String("db.operation", "count_points"),
		attribute.String("db.collection", q.collectionName),
	)

	var result struct {
		Result struct {
			Count int64 `json:"count"`
		} `json:"result"`
	}

	err := q.doRequest(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/count", q.collectionName),
		map[string]interface{}{"exact": true}, &result)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeVectorDB)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("qdrant.points.count", result.Result.Count))
	span.SetStatus(codes.Ok, "")
	return result.Result.Count, nil
}

// chunkPayload 构造分块的Qdrant payload，冗余携带候选人标量字段作为检索元数据
func chunkPayload(submissionUUID string, chunk types.DocumentChunk) map[string]interface{} {
	payload := map[string]interface{}{
		"submission_uuid":  submissionUUID,
		"chunk_id":         chunk.ChunkID,
		"content":          tracing.TruncateString(chunk.Content, 2000),
		"filename":         chunk.Metadata.Filename,
		"years_experience": chunk.Metadata.YearsExperience,
		"source":           "resume",
	}

	setIfNotEmpty := func(key, value string) {
		if value != "" {
			payload[key] = value
		}
	}
	setIfNotEmpty("name", chunk.Metadata.Name)
	setIfNotEmpty("email", chunk.Metadata.Email)
	setIfNotEmpty("phone", chunk.Metadata.Phone)
	setIfNotEmpty("skills", chunk.Metadata.Skills)
	setIfNotEmpty("education_level", chunk.Metadata.EducationLevel)
	setIfNotEmpty("job_titles", chunk.Metadata.JobTitles)
	setIfNotEmpty("companies", chunk.Metadata.Companies)
	setIfNotEmpty("location", chunk.Metadata.Location)
	setIfNotEmpty("certifications", chunk.Metadata.Certifications)
	return payload
}

// chunkFromPayload 从Qdrant payload还原分块，缺失字段保持零值
func chunkFromPayload(payload map[string]interface{}) types.DocumentChunk {
	getString := func(key string) string {
		if v, ok := payload[key].(string); ok {
			return v
		}
		return ""
	}
	getInt := func(key string) int {
		switch v := payload[key].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
		return 0
	}

	return types.DocumentChunk{
		ChunkID: getInt("chunk_id"),
		Content: getString("content"),
		Metadata: types.ChunkMetadata{
			Filename:        getString("filename"),
			Name:            getString("name"),
			Email:           getString("email"),
			Phone:           getString("phone"),
			Skills:          getString("skills"),
			YearsExperience: getInt("years_experience"),
			EducationLevel:  getString("education_level"),
			JobTitles:       getString("job_titles"),
			Companies:       getString("companies"),
			Location:        getString("location"),
			Certifications:  getString("certifications"),
		},
	}
}

// notFoundError 标记404响应，供集合存在性检查区分
type notFoundError struct{ msg string }

func (e *notFoundError) Error() string { return e.msg }

func isNotFound(err error) bool {
	_, ok := err.(*notFoundError)
	return ok
}

// doRequest 执行Qdrant HTTP请求，注入追踪上下文并解析JSON响应
func (q *Qdrant) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	ctx, span := qdrantTracer.Start(ctx, fmt.Sprintf("%s %s", method, path),
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("net.peer.name", q.endpoint),
		attribute.String("db.system", "qdrant"),
		attribute.String("db.operation", path),
	)

	var req *http.Request
	var err error
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeVectorDB)
			return err
		}
		req, err = http.NewRequestWithContext(ctx, method, q.endpoint+path, bytes.NewBuffer(jsonBody))
		if err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeVectorDB)
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		span.SetAttributes(attribute.Int("http.request.body.size", len(jsonBody)))
	} else {
		req, err = http.NewRequestWithContext(ctx, method, q.endpoint+path, nil)
		if err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeVectorDB)
			return err
		}
	}

	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := q.httpClient.Do(req)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeHTTP)
		return err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeHTTP)
		return err
	}

	if resp.StatusCode == http.StatusNotFound {
		return &notFoundError{msg: fmt.Sprintf("qdrant: %s not found", path)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = fmt.Errorf("qdrant API error: status=%d, body=%s", resp.StatusCode, string(respBody))
		tracing.RecordHTTPError(span, err, resp.StatusCode)
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err = json.Unmarshal(respBody, result); err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeVectorDB)
			return err
		}
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
