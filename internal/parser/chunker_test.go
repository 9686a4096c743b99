package parser

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-screener-go/internal/config"
)

func TestTextChunker_ShortTextSingleChunk(t *testing.T) {
	chunker := NewTextChunker(config.ChunkerConfig{ChunkSize: 100, ChunkOverlap: 20})

	chunks := chunker.Chunk("hello world")

	require.Len(t, chunks, 1)
	assert.Equal(t, "hello world", chunks[0])
}

func TestTextChunker_EmptyText(t *testing.T) {
	chunker := NewTextChunker(config.ChunkerConfig{ChunkSize: 100, ChunkOverlap: 20})

	assert.Nil(t, chunker.Chunk(""))
	assert.Nil(t, chunker.Chunk("   \n\n  "))
}

func TestTextChunker_ParagraphsPreservedWhenSmall(t *testing.T) {
	chunker := NewTextChunker(config.ChunkerConfig{ChunkSize: 200, ChunkOverlap: 40})

	text := "First paragraph about work history.\n\nSecond paragraph about education."
	chunks := chunker.Chunk(text)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

// 验证合并窗口的重叠行为：窗口前移时尾部碎片会成为下一块的开头
func TestTextChunker_WordOverlap(t *testing.T) {
	chunker := NewTextChunker(config.ChunkerConfig{ChunkSize: 10, ChunkOverlap: 4})

	chunks := chunker.Chunk("one two three four five six")

	assert.Equal(t, []string{"one two", "two three", "four five", "five six"}, chunks)
}

func TestTextChunker_ChunksNeverExceedSize(t *testing.T) {
	chunker := NewTextChunker(config.ChunkerConfig{ChunkSize: 120, ChunkOverlap: 30})

	var sb strings.Builder
	for i := 0; i < 40; i++ {
		sb.WriteString("Designed and shipped backend services for the billing platform. ")
		if i%5 == 0 {
			sb.WriteString("\n\n")
		}
	}

	chunks := chunker.Chunk(sb.String())
	require.NotEmpty(t, chunks)
	for i, chunk := range chunks {
		assert.LessOrEqualf(t, utf8.RuneCountInString(chunk), 120, "第 %d 块超出目标大小", i)
		assert.NotEmpty(t, strings.TrimSpace(chunk))
	}
}

// 无任何分隔符的长字符串回退到固定窗口切分
func TestTextChunker_UnbrokenTextRuneWindows(t *testing.T) {
	chunker := NewTextChunker(config.ChunkerConfig{ChunkSize: 1000, ChunkOverlap: 200})

	chunks := chunker.Chunk(strings.Repeat("a", 2500))

	require.Len(t, chunks, 3)
	assert.Equal(t, 1000, utf8.RuneCountInString(chunks[0]))
	assert.Equal(t, 1000, utf8.RuneCountInString(chunks[1]))
	assert.Equal(t, 900, utf8.RuneCountInString(chunks[2]))
}

func TestTextChunker_InvalidConfigFallsBack(t *testing.T) {
	chunker := NewTextChunker(config.ChunkerConfig{ChunkSize: 0, ChunkOverlap: -1})

	assert.Equal(t, 1000, chunker.chunkSize)
	assert.Equal(t, 200, chunker.chunkOverlap)
}
