package processor

import (
	"context"
	"io"

	"github.com/cloudwego/eino/components/embedding"

	"resume-screener-go/internal/types"
)

//
// PDF解析相关接口
//

// PDFExtractor PDF文本提取接口
type PDFExtractor interface {
	// ExtractFromFile 从PDF文件提取文本和元数据
	ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error)

	// ExtractTextFromReader 从io.Reader提取文本和元数据。
	// uri用于日志和元数据标识，options预留给具体实现
	ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, options interface{}) (string, map[string]interface{}, error)

	// ExtractTextFromBytes 从字节数组提取文本和元数据
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string, options interface{}) (string, map[string]interface{}, error)
}

//
// 文本分块与画像抽取相关接口
//

// TextChunker 文本分块接口
type TextChunker interface {
	// Chunk 将长文本切分为带重叠的分块
	Chunk(text string) []string
}

// ProfileExtractor 候选人画像抽取接口
type ProfileExtractor interface {
	// Extract 从简历全文抽取结构化候选人画像
	Extract(text, filename string) *types.CandidateRecord
}

//
// 向量嵌入相关接口
//

// TextEmbedder 文本向量化接口 (符合 cloudwego/eino 规范)
type TextEmbedder interface {
	// EmbedStrings 将文本转换为向量表示
	EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error)

	// GetDimensions 返回嵌入向量的维度
	GetDimensions() int
}

//
// 问答相关接口
//

// AnswerGenerator 基于检索分块生成自然语言回答的接口
type AnswerGenerator interface {
	// GenerateAnswer 用query和检索到的分块生成回答
	GenerateAnswer(ctx context.Context, query string, chunks []types.DocumentChunk) (string, error)
}
