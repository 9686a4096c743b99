// Package handler 实现HTTP接口与队列消费者的协调逻辑。
package handler

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"

	"resume-screener-go/internal/config"
	"resume-screener-go/internal/logger"
	"resume-screener-go/internal/processor"
	"resume-screener-go/internal/storage"
	"resume-screener-go/internal/storage/models"
)

// ResumeHandler 简历上传处理器，负责协调上传入库与消费者流程
type ResumeHandler struct {
	cfg             *config.Config
	storage         *storage.Storage
	processorModule *processor.ResumeProcessor
}

// NewResumeHandler 创建简历处理器
func NewResumeHandler(cfg *config.Config, storage *storage.Storage, processorModule *processor.ResumeProcessor) *ResumeHandler {
	return &ResumeHandler{
		cfg:             cfg,
		storage:         storage,
		processorModule: processorModule,
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
}

// 上传响应状态
const (
	UploadStatusSubmitted = "SUBMITTED_FOR_PROCESSING"
	UploadStatusDuplicate = "DUPLICATE_FILE_SKIPPED"
)

// HandleResumeUpload 处理简历上传请求。
// 以文件MD5做去重：重复文件直接返回已有提交的UUID，不触发后续处理
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64, filename string) (*ResumeUploadResponse, error) {
	// reader只能读一次，MD5和上传共用读出的内容
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("上传文件为空")
	}
	sum := md5.Sum(fileBytes)
	fileMD5Hex := hex.EncodeToString(sum[:])

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	exists, existingUUID, err := h.storage.Redis.CheckAndSetFileMD5(ctx, fileMD5Hex, submissionUUID)
	if err != nil {
		logger.Error().Err(err).Str("md5", fileMD5Hex).Msg("查询Redis文件MD5去重记录失败")
		return nil, fmt.Errorf("检查文件MD5重复性失败: %w", err)
	}
	if exists {
		logger.Info().
			Str("md5", fileMD5Hex).
			Str("filename", filename).
			Str("existing_uuid", existingUUID).
			Msg("检测到重复的文件MD5，跳过处理")
		return &ResumeUploadResponse{
			SubmissionUUID: existingUUID,
			Status:         UploadStatusDuplicate,
		}, nil
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}

	originalObjectKey, err := h.storage.MinIO.UploadResumeFile(ctx, submissionUUID, ext, bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		// 上传失败时回滚去重记录，让同一文件可以重试
		if rmErr := h.storage.Redis.RemoveFileMD5(ctx, fileMD5Hex); rmErr != nil {
			logger.Warn().Err(rmErr).Str("md5", fileMD5Hex).Msg("回滚文件MD5去重记录失败")
		}
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	now := time.Now()
	submission := &models.CandidateSubmission{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: now,
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
		ProcessingStatus:    models.StatusPendingExtraction,
	}

	message := storage.ResumeUploadMessage{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: now,
		OriginalFilename:    filename,
		OriginalFilePathOSS: originalObjectKey,
		RawFileMD5:          fileMD5Hex,
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("序列化上传消息失败: %w", err)
	}

	// 提交记录和上传事件走同一个事务，由发件箱中继异步发布
	outboxMsg := &models.OutboxMessage{
		SubmissionUUID:   submissionUUID,
		EventType:        "resume.uploaded",
		Payload:          string(payload),
		TargetExchange:   h.cfg.RabbitMQ.ResumeEventsExchange,
		TargetRoutingKey: h.cfg.RabbitMQ.UploadedRoutingKey,
		Status:           models.OutboxStatusPending,
	}
	if err := h.storage.MySQL.CreateSubmissionWithOutbox(ctx, submission, outboxMsg); err != nil {
		return nil, fmt.Errorf("创建简历提交记录失败: %w", err)
	}

	logger.Info().
		Str("submission_uuid", submissionUUID).
		Str("filename", filename).
		Msg("简历已提交处理")
	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         UploadStatusSubmitted,
	}, nil
}

// StartExtractionConsumer 启动文本提取消费者，消费上传事件队列
func (h *ResumeHandler) StartExtractionConsumer(ctx context.Context) error {
	if err := h.storage.RabbitMQ.SetupResumeTopology(); err != nil {
		return fmt.Errorf("初始化队列拓扑失败: %w", err)
	}

	prefetch := h.cfg.RabbitMQ.PrefetchCount
	if prefetch <= 0 {
		prefetch = 1
	}

	logger.Info().
		Str("queue", h.cfg.RabbitMQ.RawResumeQueue).
		Int("prefetch_count", prefetch).
		Msg("文本提取消费者就绪")

	_, err := h.storage.RabbitMQ.StartConsumer(h.cfg.RabbitMQ.RawResumeQueue, prefetch, func(data []byte) bool {
		var message storage.ResumeUploadMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("解析上传消息失败")
			// 无法解析的消息重新入队没有意义
			return true
		}

		if err := h.processorModule.ProcessUploadedResume(ctx, message, h.cfg); err != nil {
			logger.Ctx(ctx).Error().
				Err(err).
				Str("submission_uuid", message.SubmissionUUID).
				Msg("处理简历上传消息失败")
			// 失败状态和去重回滚已由处理器记录，消息不再重试
			return true
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("启动文本提取消费者失败: %w", err)
	}
	return nil
}

// StartIndexingConsumer 启动索引消费者，消费提取完成事件队列
func (h *ResumeHandler) StartIndexingConsumer(ctx context.Context) error {
	if err := h.storage.RabbitMQ.SetupResumeTopology(); err != nil {
		return fmt.Errorf("初始化队列拓扑失败: %w", err)
	}

	prefetch := h.cfg.RabbitMQ.PrefetchCount
	if prefetch <= 0 {
		prefetch = 1
	}

	logger.Info().
		Str("queue", h.cfg.RabbitMQ.IndexingQueue).
		Int("prefetch_count", prefetch).
		Msg("索引消费者就绪")

	_, err := h.storage.RabbitMQ.StartConsumer(h.cfg.RabbitMQ.IndexingQueue, prefetch, func(data []byte) bool {
		var message storage.ResumeExtractedMessage
		if err := json.Unmarshal(data, &message); err != nil {
			logger.Ctx(ctx).Error().Err(err).Msg("解析索引消息失败")
			return true
		}

		if err := h.processorModule.ProcessIndexingTask(ctx, message, h.cfg); err != nil {
			logger.Ctx(ctx).Error().
				Err(err).
				Str("submission_uuid", message.SubmissionUUID).
				Msg("处理索引消息失败")
			return true
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("启动索引消费者失败: %w", err)
	}
	return nil
}

// HandleGetDownloadURL 生成原始简历的预签名下载URL，有效期15分钟
func (h *ResumeHandler) HandleGetDownloadURL(ctx context.Context, submissionUUID string) (string, error) {
	submission, err := h.storage.MySQL.GetSubmission(ctx, submissionUUID)
	if err != nil {
		return "", err
	}
	if submission.OriginalFilePathOSS == "" {
		return "", fmt.Errorf("提交 %s 没有关联的原始文件", submissionUUID)
	}
	return h.storage.MinIO.GetPresignedURL(ctx, submission.OriginalFilePathOSS, 15*time.Minute)
}

// HandleDeleteSubmission 删除一次提交的全部数据：向量、对象文件、缓存和数据库记录
func (h *ResumeHandler) HandleDeleteSubmission(ctx context.Context, submissionUUID string) error {
	submission, err := h.storage.MySQL.GetSubmission(ctx, submissionUUID)
	if err != nil {
		return err
	}

	if h.storage.Qdrant != nil {
		if err := h.storage.Qdrant.DeletePointsBySubmissionUUID(ctx, submissionUUID); err != nil {
			return fmt.Errorf("删除向量失败: %w", err)
		}
	}
	if err := h.storage.MinIO.DeleteSubmissionFiles(ctx, submission.OriginalFilePathOSS, submission.ParsedTextPathOSS); err != nil {
		return fmt.Errorf("删除对象文件失败: %w", err)
	}
	if h.storage.Redis != nil && submission.RawFileMD5 != "" {
		if err := h.storage.Redis.RemoveFileMD5(ctx, submission.RawFileMD5); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("清理MD5去重记录失败")
		}
	}
	return h.storage.MySQL.DeleteSubmission(ctx, submissionUUID)
}
