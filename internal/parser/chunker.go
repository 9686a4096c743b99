package parser

import (
	"log"
	"strings"
	"unicode/utf8"

	"resume-screener-go/internal/config"
)

// defaultSeparators 分割优先级：段落 > 行 > 句子 > 词 > 字符
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// TextChunker 递归字符分块器。
// 按分隔符优先级切分文本，再将碎片合并为目标大小的分块，
// 相邻分块之间保留重叠，避免语义边界信息丢失
type TextChunker struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
	logger       *log.Logger
}

// TextChunkerOption 分块器的配置选项
type TextChunkerOption func(*TextChunker)

// WithChunkerLogger 配置自定义日志记录器
func WithChunkerLogger(logger *log.Logger) TextChunkerOption {
	return func(c *TextChunker) {
		c.logger = logger
	}
}

// WithSeparators 覆盖默认的分隔符优先级列表
func WithSeparators(separators []string) TextChunkerOption {
	return func(c *TextChunker) {
		c.separators = separators
	}
}

// NewTextChunker 按配置创建分块器。
// 非法的大小/重叠组合会被回退到默认值 1000/200
func NewTextChunker(cfg config.ChunkerConfig, options ...TextChunkerOption) *TextChunker {
	chunkSize := cfg.ChunkSize
	chunkOverlap := cfg.ChunkOverlap
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 200
		if chunkOverlap >= chunkSize {
			chunkOverlap = chunkSize / 5
		}
	}

	c := &TextChunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Chunk 将文本切分为有重叠的分块，空白文本返回nil
func (c *TextChunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	chunks := c.splitText(text, c.separators)
	if c.logger != nil {
		c.logger.Printf("文本分块完成: %d 字符 -> %d 块", utf8.RuneCountInString(text), len(chunks))
	}
	return chunks
}

// splitText 用当前层级能命中的第一个分隔符切分文本；
// 过大的碎片递归用更细的分隔符继续切分
func (c *TextChunker) splitText(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var nextSeparators []string
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			separator = s
			nextSeparators = separators[i+1:]
			break
		}
	}

	if separator == "" {
		return c.splitByRunes(text)
	}

	var finalChunks []string
	var goodSplits []string
	for _, piece := range strings.Split(text, separator) {
		if utf8.RuneCountInString(piece) < c.chunkSize {
			goodSplits = append(goodSplits, piece)
			continue
		}
		if len(goodSplits) > 0 {
			finalChunks = append(finalChunks, c.mergeSplits(goodSplits, separator)...)
			goodSplits = nil
		}
		if len(nextSeparators) == 0 {
			finalChunks = append(finalChunks, piece)
		} else {
			finalChunks = append(finalChunks, c.splitText(piece, nextSeparators)...)
		}
	}
	if len(goodSplits) > 0 {
		finalChunks = append(finalChunks, c.mergeSplits(goodSplits, separator)...)
	}
	return finalChunks
}

// mergeSplits 将碎片合并为不超过chunkSize的分块，
// 合并窗口前移时保留chunkOverlap的尾部碎片作为下一块的开头
func (c *TextChunker) mergeSplits(splits []string, separator string) []string {
	sepLen := utf8.RuneCountInString(separator)

	var docs []string
	var current []string
	total := 0
	for _, piece := range splits {
		pieceLen := utf8.RuneCountInString(piece)
		if len(current) > 0 && total+pieceLen+sepLen > c.chunkSize {
			doc := strings.Join(current, separator)
			if strings.TrimSpace(doc) != "" {
				docs = append(docs, doc)
			}
			// 弹出头部碎片，直到剩余长度进入重叠窗口且能容纳新碎片
			for len(current) > 0 && (total > c.chunkOverlap || total+pieceLen+sepLen > c.chunkSize) {
				headLen := utf8.RuneCountInString(current[0])
				total -= headLen
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}
		if len(current) > 0 {
			total += sepLen
		}
		current = append(current, piece)
		total += pieceLen
	}
	if len(current) > 0 {
		doc := strings.Join(current, separator)
		if strings.TrimSpace(doc) != "" {
			docs = append(docs, doc)
		}
	}
	return docs
}

// splitByRunes 按固定字符窗口切分，步长为 chunkSize - chunkOverlap
func (c *TextChunker) splitByRunes(text string) []string {
	runes := []rune(text)
	if len(runes) <= c.chunkSize {
		return []string{text}
	}

	step := c.chunkSize - c.chunkOverlap
	if step < 1 {
		step = 1
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
