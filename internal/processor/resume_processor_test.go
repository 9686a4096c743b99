package processor

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/types"
)

// MockPDFExtractor 模拟PDF提取器
type MockPDFExtractor struct {
	text string
	err  error
}

func (m *MockPDFExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	return m.text, nil, m.err
}

func (m *MockPDFExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string, options interface{}) (string, map[string]interface{}, error) {
	return m.text, nil, m.err
}

func (m *MockPDFExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string, options interface{}) (string, map[string]interface{}, error) {
	return m.text, nil, m.err
}

// MockTextChunker 模拟文本分块器
type MockTextChunker struct {
	pieces []string
}

func (m *MockTextChunker) Chunk(text string) []string {
	return m.pieces
}

// MockProfileExtractor 模拟画像抽取器
type MockProfileExtractor struct {
	record *types.CandidateRecord
}

func (m *MockProfileExtractor) Extract(text, filename string) *types.CandidateRecord {
	return m.record
}

// MockTextEmbedder 模拟文本向量化器
type MockTextEmbedder struct {
	dimensions int
	err        error
}

func (m *MockTextEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = make([]float64, m.dimensions)
	}
	return vectors, nil
}

func (m *MockTextEmbedder) GetDimensions() int {
	return m.dimensions
}

func TestNewResumeProcessor_Defaults(t *testing.T) {
	rp := NewResumeProcessor(&Components{
		PDFExtractor:     &MockPDFExtractor{text: "hello"},
		TextChunker:      &MockTextChunker{},
		ProfileExtractor: &MockProfileExtractor{},
		TextEmbedder:     &MockTextEmbedder{dimensions: 4},
	}, &Settings{})

	require.NotNil(t, rp)
	assert.NotNil(t, rp.Config.Logger, "未指定Logger时应有默认值")
	assert.Nil(t, rp.Storage)
}

func TestNewComponents_Options(t *testing.T) {
	pdfExtractor := &MockPDFExtractor{text: "hello"}
	chunker := &MockTextChunker{pieces: []string{"a"}}
	embedder := &MockTextEmbedder{dimensions: 8}

	comp := NewComponents(
		WithPDFExtractor(pdfExtractor),
		WithTextChunker(chunker),
		WithProfileExtractor(&MockProfileExtractor{}),
		WithTextEmbedder(embedder),
	)
	assert.Same(t, pdfExtractor, comp.PDFExtractor.(*MockPDFExtractor))
	assert.Same(t, chunker, comp.TextChunker.(*MockTextChunker))
	assert.Nil(t, comp.Storage)

	set := NewSettings(WithDefaultDimensions(1024), WithDebug(true), WithLogger(nil))
	assert.Equal(t, 1024, set.DefaultDimensions)
	assert.True(t, set.Debug)
	assert.NotNil(t, set.Logger, "nil logger应回落为丢弃日志")
}

func TestBuildDocumentChunks(t *testing.T) {
	record := &types.CandidateRecord{
		Filename:        "jane_doe.pdf",
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Phone:           "555-0100",
		Skills:          []string{"Go", "Python", "Kubernetes"},
		YearsExperience: 7,
		EducationLevel:  types.EducationMasters,
		JobTitles:       []string{"Software Engineer", "Tech Lead"},
		Companies:       []string{"Acme Corp"},
		Location:        "Berlin, Germany",
		Certifications:  []string{"CKA"},
	}
	pieces := []string{"第一段内容", "第二段内容", "第三段内容"}

	chunks := BuildDocumentChunks(record, pieces)
	require.Len(t, chunks, 3)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkID)
		assert.Equal(t, pieces[i], chunk.Content)
		// 每个分块携带同一份冗余元数据
		assert.Equal(t, "Jane Doe", chunk.Metadata.Name)
		assert.Equal(t, "jane_doe.pdf", chunk.Metadata.Filename)
		assert.Equal(t, 7, chunk.Metadata.YearsExperience)
	}

	meta := chunks[0].Metadata
	assert.Equal(t, "Go, Python, Kubernetes", meta.Skills)
	assert.Equal(t, "Software Engineer, Tech Lead", meta.JobTitles)
	assert.Equal(t, "Acme Corp", meta.Companies)
	assert.Equal(t, "CKA", meta.Certifications)
	assert.Equal(t, types.EducationMasters, meta.EducationLevel)
}

func TestBuildDocumentChunks_EmptyPieces(t *testing.T) {
	record := &types.CandidateRecord{Filename: "empty.pdf"}
	chunks := BuildDocumentChunks(record, nil)
	assert.Empty(t, chunks)
}

func TestBuildDocumentChunks_ListFieldsOmitted(t *testing.T) {
	record := &types.CandidateRecord{Filename: "minimal.pdf"}
	chunks := BuildDocumentChunks(record, []string{"only chunk"})
	require.Len(t, chunks, 1)

	meta := chunks[0].Metadata
	assert.Empty(t, meta.Skills)
	assert.Empty(t, meta.JobTitles)
	assert.False(t, strings.Contains(meta.Skills, ","))
}
