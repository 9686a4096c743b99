package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/config"
	"resume-screener-go/internal/types"
)

// fakeChatModel 按预设顺序返回回答或错误
type fakeChatModel struct {
	responses []string
	errs      []error
	calls     int
	lastMsgs  []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	idx := f.calls
	f.calls++
	f.lastMsgs = messages
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	content := ""
	if idx < len(f.responses) {
		content = f.responses[idx]
	}
	return &schema.Message{Role: schema.Assistant, Content: content}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not supported")
}

func sampleChunks() []types.DocumentChunk {
	return []types.DocumentChunk{
		{
			ChunkID: 0,
			Content: "5年Go后端开发经验，负责支付系统",
			Metadata: types.ChunkMetadata{
				Filename: "zhang_wei.pdf",
				Name:     "张伟",
				Skills:   "Go, MySQL, Kafka",
			},
		},
		{
			ChunkID:  1,
			Content:  "机器学习工程师，熟悉PyTorch",
			Metadata: types.ChunkMetadata{Filename: "anon_resume.pdf"},
		},
	}
}

func TestGenerateAnswer_Success(t *testing.T) {
	fake := &fakeChatModel{responses: []string{"张伟有5年Go经验。"}}
	answerer := NewAnswererWithModel(fake, config.AnswererConfig{}, nil)

	answer, err := answerer.GenerateAnswer(context.Background(), "谁会Go?", sampleChunks())
	require.NoError(t, err)
	assert.Equal(t, "张伟有5年Go经验。", answer)
	assert.Equal(t, 1, fake.calls)

	// 提示词包含候选人标识和问题
	require.Len(t, fake.lastMsgs, 2)
	assert.Equal(t, schema.System, fake.lastMsgs[0].Role)
	userPrompt := fake.lastMsgs[1].Content
	assert.Contains(t, userPrompt, "张伟")
	assert.Contains(t, userPrompt, "anon_resume.pdf")
	assert.Contains(t, userPrompt, "谁会Go?")
}

func TestGenerateAnswer_EmptyQuery(t *testing.T) {
	answerer := NewAnswererWithModel(&fakeChatModel{}, config.AnswererConfig{}, nil)

	_, err := answerer.GenerateAnswer(context.Background(), "   ", sampleChunks())
	assert.Error(t, err)
}

func TestGenerateAnswer_NoChunks(t *testing.T) {
	answerer := NewAnswererWithModel(&fakeChatModel{}, config.AnswererConfig{}, nil)

	_, err := answerer.GenerateAnswer(context.Background(), "谁会Go?", nil)
	assert.Error(t, err)
}

func TestGenerateAnswer_RetryThenSuccess(t *testing.T) {
	fake := &fakeChatModel{
		responses: []string{"", "重试后的回答"},
		errs:      []error{errors.New("临时故障"), nil},
	}
	answerer := NewAnswererWithModel(fake, config.AnswererConfig{
		MaxRetries:       1,
		RetryWaitSeconds: 1,
	}, nil)

	answer, err := answerer.GenerateAnswer(context.Background(), "谁会Go?", sampleChunks())
	require.NoError(t, err)
	assert.Equal(t, "重试后的回答", answer)
	assert.Equal(t, 2, fake.calls)
}

func TestGenerateAnswer_AllAttemptsFail(t *testing.T) {
	fake := &fakeChatModel{errs: []error{errors.New("模型不可用")}}
	answerer := NewAnswererWithModel(fake, config.AnswererConfig{MaxRetries: 0}, nil)

	_, err := answerer.GenerateAnswer(context.Background(), "谁会Go?", sampleChunks())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "模型不可用")
	assert.Equal(t, 1, fake.calls)
}

func TestGenerateAnswer_EmptyContentIsError(t *testing.T) {
	fake := &fakeChatModel{responses: []string{"   "}}
	answerer := NewAnswererWithModel(fake, config.AnswererConfig{MaxRetries: 0}, nil)

	_, err := answerer.GenerateAnswer(context.Background(), "谁会Go?", sampleChunks())
	assert.Error(t, err)
}
