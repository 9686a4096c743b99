package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"resume-screener-go/internal/config"
	"resume-screener-go/internal/types"
)

const answerSystemPrompt = `你是一个简历筛选助手。根据提供的简历片段回答招聘方的问题。
只使用片段中出现的信息，不要编造；片段不足以回答时明确说明。
回答时用候选人姓名指代候选人，没有姓名时用文件名。`

const (
	defaultAnswerTimeout = 30 * time.Second
	defaultRetryWait     = 2 * time.Second
)

// Answerer 基于检索到的简历分块生成自然语言回答
type Answerer struct {
	chatModel  model.BaseChatModel
	timeout    time.Duration
	maxRetries int
	retryWait  time.Duration
	logger     *zerolog.Logger
}

// NewAnswerer 根据配置创建问答器
func NewAnswerer(cfg config.AnswererConfig, apiKey, apiURL string, logger *zerolog.Logger) (*Answerer, error) {
	chatModel, err := NewAliyunQwenChatModel(apiKey, cfg.ModelName, apiURL,
		WithTemperature(cfg.Temperature),
		WithMaxTokens(cfg.MaxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("创建问答模型失败: %w", err)
	}
	return NewAnswererWithModel(chatModel, cfg, logger), nil
}

// NewAnswererWithModel 用现成的聊天模型创建问答器，便于测试替换
func NewAnswererWithModel(chatModel model.BaseChatModel, cfg config.AnswererConfig, logger *zerolog.Logger) *Answerer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	timeout := config.GetDuration(cfg.AnswerTimeout, defaultAnswerTimeout)

	retryWait := defaultRetryWait
	if cfg.RetryWaitSeconds > 0 {
		retryWait = time.Duration(cfg.RetryWaitSeconds) * time.Second
	}

	return &Answerer{
		chatModel:  chatModel,
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		retryWait:  retryWait,
		logger:     logger,
	}
}

// GenerateAnswer 用query和检索分块生成回答。
// 模型调用失败时按配置重试，全部失败后返回最后一次错误
func (a *Answerer) GenerateAnswer(ctx context.Context, query string, chunks []types.DocumentChunk) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query不能为空")
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("没有可用的简历片段")
	}

	messages := []*schema.Message{
		schema.SystemMessage(answerSystemPrompt),
		schema.UserMessage(buildAnswerPrompt(query, chunks)),
	}

	var lastErr error
	attempts := a.maxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(a.retryWait):
			}
			a.logger.Debug().Int("attempt", attempt+1).Msg("重试回答生成")
		}

		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		resp, err := a.chatModel.Generate(callCtx, messages)
		cancel()
		if err != nil {
			lastErr = err
			a.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("回答生成失败")
			continue
		}

		answer := strings.TrimSpace(resp.Content)
		if answer == "" {
			lastErr = fmt.Errorf("模型返回空回答")
			continue
		}
		return answer, nil
	}

	return "", fmt.Errorf("回答生成失败 (尝试%d次): %w", attempts, lastErr)
}

// buildAnswerPrompt 把检索分块拼成带候选人标识的上下文
func buildAnswerPrompt(query string, chunks []types.DocumentChunk) string {
	var sb strings.Builder
	sb.WriteString("以下是检索到的简历片段:\n\n")
	for i, chunk := range chunks {
		sb.WriteString(fmt.Sprintf("[片段 %d] 候选人: %s\n", i+1, chunk.CandidateID()))
		if chunk.Metadata.Skills != "" {
			sb.WriteString(fmt.Sprintf("技能: %s\n", chunk.Metadata.Skills))
		}
		sb.WriteString(chunk.Content)
		sb.WriteString("\n\n")
	}
	sb.WriteString("问题: ")
	sb.WriteString(query)
	return sb.String()
}
