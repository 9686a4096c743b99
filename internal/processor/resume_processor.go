// Package processor 实现简历处理管线：文本提取、画像抽取、向量索引与检索服务。
package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"resume-screener-go/internal/config"
	"resume-screener-go/internal/constants"
	"resume-screener-go/internal/extractor"
	"resume-screener-go/internal/parser"
	"resume-screener-go/internal/ranking"
	"resume-screener-go/internal/storage"
	"resume-screener-go/internal/storage/models"
	"resume-screener-go/internal/tracing"
	"resume-screener-go/internal/types"
)

var tracer = otel.Tracer("processor")

// 服务级公共错误
var (
	ErrStorageNotInit   = errors.New("storage is not initialized")
	ErrExtractorNotInit = errors.New("extractor is not initialized")
	ErrChunkerNotInit   = errors.New("chunker is not initialized")
	ErrEmbedderNotInit  = errors.New("embedder is not initialized")
)

const (
	// 解析文本小于该阈值时随消息内联，省一次对象存储回源
	inlineTextLimit = 64 * 1024

	// 候选人画像的Redis缓存时长
	profileCacheTTL = 24 * time.Hour
)

// Components 聚合所有功能组件依赖，便于集中管理和测试替换
type Components struct {
	PDFExtractor     PDFExtractor     // PDF文本提取
	TextChunker      TextChunker      // 文本分块
	ProfileExtractor ProfileExtractor // 候选人画像抽取
	TextEmbedder     TextEmbedder     // 文本向量化

	// 存储层依赖
	Storage *storage.Storage
}

// Settings 纯配置项，不包含任何业务逻辑组件
type Settings struct {
	DefaultDimensions int
	Debug             bool
	Logger            *log.Logger
	TimeLocation      *time.Location
}

// ComponentConfig 处理器运行时配置
type ComponentConfig struct {
	DefaultDimensions int
	Debug             bool
	Logger            *log.Logger
}

// ResumeProcessor 简历处理组件聚合类。
// 每个Process方法对应一个队列消费者，处理流程由消费者驱动
type ResumeProcessor struct {
	PDFExtractor     PDFExtractor
	TextChunker      TextChunker
	ProfileExtractor ProfileExtractor
	TextEmbedder     TextEmbedder

	Storage *storage.Storage

	Config ComponentConfig
}

// NewResumeProcessor 创建简历处理器
func NewResumeProcessor(comp *Components, set *Settings, opts ...SettingOpt) *ResumeProcessor {
	for _, opt := range opts {
		opt(set)
	}

	if set.Logger == nil {
		set.Logger = log.New(os.Stdout, "[Processor] ", log.LstdFlags)
	}
	if set.TimeLocation == nil {
		set.TimeLocation = time.Local
	}

	rp := &ResumeProcessor{
		PDFExtractor:     comp.PDFExtractor,
		TextChunker:      comp.TextChunker,
		ProfileExtractor: comp.ProfileExtractor,
		TextEmbedder:     comp.TextEmbedder,
		Storage:          comp.Storage,
		Config: ComponentConfig{
			DefaultDimensions: set.DefaultDimensions,
			Debug:             set.Debug,
			Logger:            set.Logger,
		},
	}

	if rp.Storage == nil {
		rp.Config.Logger.Println("警告: ResumeProcessor 的 Storage 依赖未初始化。某些功能可能受限。")
	}

	return rp
}

// CreateProcessorFromConfig 从配置创建处理器组件集合
func CreateProcessorFromConfig(ctx context.Context, cfg *config.Config, storageManager *storage.Storage) (*ResumeProcessor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	componentOpts := []ComponentOpt{
		WithStorage(storageManager),
		WithProfileExtractor(extractor.New()),
		WithTextChunker(parser.NewTextChunker(cfg.Chunker,
			parser.WithChunkerLogger(log.New(os.Stdout, "[Chunker] ", log.LstdFlags)))),
	}

	if cfg.Tika.ServerURL != "" {
		var tikaOptions []parser.TikaOption
		if cfg.Tika.TimeoutSeconds > 0 {
			tikaOptions = append(tikaOptions, parser.WithTimeout(time.Duration(cfg.Tika.TimeoutSeconds)*time.Second))
		}
		tikaOptions = append(tikaOptions, parser.WithTikaLogger(log.New(os.Stdout, "[TikaPDF] ", log.LstdFlags)))
		componentOpts = append(componentOpts, WithPDFExtractor(parser.NewTikaPDFExtractor(cfg.Tika.ServerURL, tikaOptions...)))
	} else {
		pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx,
			parser.WithEinoLogger(log.New(os.Stdout, "[PDFExtractor] ", log.LstdFlags)))
		if err != nil {
			return nil, fmt.Errorf("创建PDF提取器失败: %w", err)
		}
		componentOpts = append(componentOpts, WithPDFExtractor(pdfExtractor))
	}

	if cfg.Aliyun.APIKey != "" {
		embedder, err := parser.NewAliyunEmbedder(cfg.Aliyun.APIKey, cfg.Aliyun.Embedding)
		if err != nil {
			return nil, fmt.Errorf("创建阿里云嵌入器失败: %w", err)
		}
		componentOpts = append(componentOpts, WithTextEmbedder(embedder))
	}

	settings := NewSettings(
		WithDefaultDimensions(cfg.Qdrant.Dimension),
		WithDebug(cfg.Logger.Level == "debug"),
		WithLogger(log.New(os.Stdout, "[Processor] ", log.LstdFlags)),
		WithTimeLocation(time.Local),
	)

	return NewResumeProcessor(NewComponents(componentOpts...), settings), nil
}

// ProcessUploadedResume 接收上传消息，完成原始文件下载、文本提取、
// 解析文本入库、发布索引消息的完整流程。
// 任一步失败都会把提交标记为 EXTRACTION_FAILED 并清理MD5去重记录，
// 以便同一文件可以重新上传
func (rp *ResumeProcessor) ProcessUploadedResume(ctx context.Context, message storage.ResumeUploadMessage, cfg *config.Config) error {
	ctx, span := tracer.Start(ctx, "ResumeProcessor.ProcessUploadedResume",
		trace.WithAttributes(attribute.String("submission_uuid", message.SubmissionUUID)))
	defer span.End()

	if rp.Storage == nil {
		return ErrStorageNotInit
	}
	if rp.PDFExtractor == nil {
		return ErrExtractorNotInit
	}

	text, err := rp.extractParsedText(ctx, message)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "text extraction failed")
		rp.markExtractionFailed(ctx, message)
		return err
	}
	span.AddEvent("parsed text extracted")

	textObjectKey, err := rp.Storage.MinIO.UploadParsedText(ctx, message.SubmissionUUID, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parsed text upload failed")
		rp.markExtractionFailed(ctx, message)
		return NewStoreError(message.SubmissionUUID, err.Error())
	}
	rp.logDebug("简历 %s 的解析文本已上传到MinIO: %s", message.SubmissionUUID, textObjectKey)

	if err := rp.Storage.MySQL.UpdateSubmissionFields(ctx, message.SubmissionUUID, map[string]interface{}{
		"parsed_text_path_oss": textObjectKey,
		"processing_status":    models.StatusTextExtracted,
		"extractor_version":    constants.ExtractorVersion,
	}); err != nil {
		rp.markExtractionFailed(ctx, message)
		return NewUpdateError(message.SubmissionUUID, err.Error())
	}

	extractedMsg := storage.ResumeExtractedMessage{
		SubmissionUUID:    message.SubmissionUUID,
		OriginalFilename:  message.OriginalFilename,
		ParsedTextPathOSS: textObjectKey,
	}
	if len(text) <= inlineTextLimit {
		extractedMsg.ParsedText = text
	}

	if err := rp.Storage.RabbitMQ.PublishJSON(ctx, cfg.RabbitMQ.ResumeEventsExchange, cfg.RabbitMQ.ExtractedRoutingKey, extractedMsg, true); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish extracted message failed")
		rp.markExtractionFailed(ctx, message)
		return NewPublishError(message.SubmissionUUID, err.Error())
	}

	rp.logDebug("上传任务 (简历 %s) 的文本提取已完成。", message.SubmissionUUID)
	return nil
}

// extractParsedText 下载原始文件并提取纯文本
func (rp *ResumeProcessor) extractParsedText(ctx context.Context, message storage.ResumeUploadMessage) (string, error) {
	ctx, span := tracer.Start(ctx, "ResumeProcessor.extractParsedText")
	defer span.End()

	fileBytes, err := rp.Storage.MinIO.GetResumeFile(ctx, message.OriginalFilePathOSS)
	if err != nil {
		rp.logDebug("从MinIO下载简历 %s 失败: %v", message.SubmissionUUID, err)
		return "", NewDownloadError(message.SubmissionUUID, err.Error())
	}
	span.AddEvent("file content downloaded")
	rp.logDebug("简历 %s 从MinIO下载成功，大小: %d bytes", message.SubmissionUUID, len(fileBytes))

	text, _, err := rp.PDFExtractor.ExtractTextFromBytes(ctx, fileBytes, message.OriginalFilePathOSS, nil)
	if err != nil {
		rp.logDebug("提取简历文本失败 for %s: %v", message.SubmissionUUID, err)
		return "", NewExtractError(message.SubmissionUUID, err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return "", NewExtractError(message.SubmissionUUID, "提取的文本为空")
	}
	span.SetAttributes(
		attribute.Int("resume.text_length", len(text)),
		attribute.String("resume.text_sample", tracing.SafeResumeContent(text)),
	)

	return text, nil
}

// markExtractionFailed 记录提取失败状态并清理MD5去重记录。
// 两个操作都是尽力而为，失败只记日志
func (rp *ResumeProcessor) markExtractionFailed(ctx context.Context, message storage.ResumeUploadMessage) {
	if err := rp.Storage.MySQL.UpdateSubmissionStatus(ctx, message.SubmissionUUID, models.StatusExtractionFailed); err != nil {
		rp.logError(err, "更新简历 %s 状态为 %s 失败", message.SubmissionUUID, models.StatusExtractionFailed)
	}
	if rp.Storage.Redis != nil && message.RawFileMD5 != "" {
		if err := rp.Storage.Redis.RemoveFileMD5(ctx, message.RawFileMD5); err != nil {
			rp.logError(err, "清理简历 %s 的MD5去重记录失败", message.SubmissionUUID)
		}
	}
}

// ProcessIndexingTask 接收提取完成消息，完成画像抽取、契合度评分、
// 分块向量化、向量入库和画像落库的完整流程
func (rp *ResumeProcessor) ProcessIndexingTask(ctx context.Context, message storage.ResumeExtractedMessage, cfg *config.Config) error {
	ctx, span := tracer.Start(ctx, "ResumeProcessor.ProcessIndexingTask",
		trace.WithAttributes(attribute.String("submission_uuid", message.SubmissionUUID)))
	defer span.End()

	if rp.Storage == nil {
		return ErrStorageNotInit
	}
	if rp.ProfileExtractor == nil {
		return ErrExtractorNotInit
	}
	if rp.TextChunker == nil {
		return ErrChunkerNotInit
	}
	if rp.TextEmbedder == nil {
		return ErrEmbedderNotInit
	}

	text, err := rp.resolveParsedText(ctx, message)
	if err != nil {
		rp.markIndexingFailed(ctx, message.SubmissionUUID)
		return err
	}

	// 画像抽取与契合度评分
	record := rp.ProfileExtractor.Extract(text, message.OriginalFilename)
	fitScore := ranking.FitScore(record)
	span.SetAttributes(attribute.Float64("fit_score", fitScore))
	rp.logDebug("简历 %s 画像抽取完成: name=%q, skills=%d, fit=%.1f",
		message.SubmissionUUID, record.Name, len(record.Skills), fitScore)

	pieces := rp.TextChunker.Chunk(text)
	if len(pieces) == 0 {
		rp.markIndexingFailed(ctx, message.SubmissionUUID)
		return NewIndexingError(message.SubmissionUUID, "分块结果为空")
	}

	embeddings, err := rp.TextEmbedder.EmbedStrings(ctx, pieces)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "embedding failed")
		rp.markIndexingFailed(ctx, message.SubmissionUUID)
		return NewIndexingError(message.SubmissionUUID, fmt.Sprintf("向量嵌入失败: %v", err))
	}
	if len(embeddings) != len(pieces) {
		rp.markIndexingFailed(ctx, message.SubmissionUUID)
		return NewIndexingError(message.SubmissionUUID,
			fmt.Sprintf("向量数量(%d)与分块数量(%d)不匹配", len(embeddings), len(pieces)))
	}

	chunks := BuildDocumentChunks(record, pieces)

	if rp.Storage.Qdrant == nil {
		rp.markIndexingFailed(ctx, message.SubmissionUUID)
		return fmt.Errorf("qdrant存储服务未初始化")
	}
	pointIDs, err := rp.Storage.Qdrant.StoreChunkVectors(ctx, message.SubmissionUUID, chunks, embeddings)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "qdrant store failed")
		rp.markIndexingFailed(ctx, message.SubmissionUUID)
		return NewIndexingError(message.SubmissionUUID, fmt.Sprintf("存储向量到Qdrant失败: %v", err))
	}
	rp.logDebug("成功存储 %d 个向量到Qdrant for %s", len(pointIDs), message.SubmissionUUID)

	profile := &models.CandidateProfile{}
	profile.FromCandidateRecord(message.SubmissionUUID, record, fitScore)
	if err := rp.Storage.MySQL.SaveCandidateProfile(ctx, profile); err != nil {
		rp.markIndexingFailed(ctx, message.SubmissionUUID)
		return NewIndexingError(message.SubmissionUUID, fmt.Sprintf("保存候选人画像失败: %v", err))
	}

	// 缓存失败不影响主流程
	if rp.Storage.Redis != nil {
		if err := rp.Storage.Redis.CacheCandidateProfile(ctx, message.SubmissionUUID, record, profileCacheTTL); err != nil {
			rp.logInfo("缓存候选人画像失败 for %s: %v", message.SubmissionUUID, err)
		}
	}

	if err := rp.Storage.MySQL.UpdateSubmissionStatus(ctx, message.SubmissionUUID, models.StatusIndexed); err != nil {
		return NewUpdateError(message.SubmissionUUID, err.Error())
	}

	rp.logDebug("简历 %s 索引流程完成, 分块数: %d", message.SubmissionUUID, len(chunks))
	return nil
}

// resolveParsedText 优先使用消息内联文本，否则从MinIO回源
func (rp *ResumeProcessor) resolveParsedText(ctx context.Context, message storage.ResumeExtractedMessage) (string, error) {
	if message.ParsedText != "" {
		return message.ParsedText, nil
	}
	if message.ParsedTextPathOSS == "" {
		return "", NewDownloadError(message.SubmissionUUID, "消息中没有解析文本路径")
	}

	text, err := rp.Storage.MinIO.GetParsedText(ctx, message.ParsedTextPathOSS)
	if err != nil {
		rp.logInfo("从MinIO下载解析文本失败 for %s (path: %s): %v", message.SubmissionUUID, message.ParsedTextPathOSS, err)
		return "", NewDownloadError(message.SubmissionUUID, err.Error())
	}
	if strings.TrimSpace(text) == "" {
		return "", NewDownloadError(message.SubmissionUUID, "下载的解析文本为空")
	}
	return text, nil
}

func (rp *ResumeProcessor) markIndexingFailed(ctx context.Context, submissionUUID string) {
	if err := rp.Storage.MySQL.UpdateSubmissionStatus(ctx, submissionUUID, models.StatusIndexingFailed); err != nil {
		rp.logInfo("更新简历 %s 状态为 %s 失败: %v", submissionUUID, models.StatusIndexingFailed, err)
	}
}

// BuildDocumentChunks 把分块文本和候选人画像组装为带元数据的文档分块。
// 列表字段以逗号连接的字符串冗余到每个分块上
func BuildDocumentChunks(record *types.CandidateRecord, pieces []string) []types.DocumentChunk {
	meta := types.ChunkMetadata{
		Filename:        record.Filename,
		Name:            record.Name,
		Email:           record.Email,
		Phone:           record.Phone,
		Skills:          strings.Join(record.Skills, ", "),
		YearsExperience: record.YearsExperience,
		EducationLevel:  record.EducationLevel,
		JobTitles:       strings.Join(record.JobTitles, ", "),
		Companies:       strings.Join(record.Companies, ", "),
		Location:        record.Location,
		Certifications:  strings.Join(record.Certifications, ", "),
	}

	chunks := make([]types.DocumentChunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, types.DocumentChunk{
			ChunkID:  i,
			Content:  piece,
			Metadata: meta,
		})
	}
	return chunks
}
