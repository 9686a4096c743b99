// profilectl 是离线调试工具：对单个简历文件跑一遍提取和打分，
// 把候选人画像、契合度得分和分块结果打印为JSON，方便调参和排查抽取问题。
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"resume-screener-go/internal/config"
	"resume-screener-go/internal/extractor"
	"resume-screener-go/internal/parser"
	"resume-screener-go/internal/ranking"
	"resume-screener-go/internal/types"
)

type profileReport struct {
	Filename     string                 `json:"filename"`
	Profile      *types.CandidateRecord `json:"profile"`
	FitScore     float64                `json:"fit_score"`
	Completeness int                    `json:"completeness"`
	TextLength   int                    `json:"text_length"`
	ChunkCount   int                    `json:"chunk_count"`
	Chunks       []string               `json:"chunks,omitempty"`
}

func main() {
	var (
		configPath   string
		chunkSize    int
		chunkOverlap int
		showChunks   bool
	)
	pflag.StringVarP(&configPath, "config", "c", "", "配置文件路径（读取分块参数，不读环境变量）")
	pflag.IntVar(&chunkSize, "chunk-size", 1000, "分块的目标字符数")
	pflag.IntVar(&chunkOverlap, "chunk-overlap", 200, "相邻分块的重叠字符数")
	pflag.BoolVar(&showChunks, "chunks", false, "输出分块内容")
	pflag.Parse()

	// 显式传入的flag优先于配置文件
	if configPath != "" {
		cfg, err := config.LoadConfigFromFileOnly(configPath)
		if err != nil {
			log.Fatalf("加载配置失败: %v", err)
		}
		if !pflag.CommandLine.Changed("chunk-size") {
			chunkSize = cfg.Chunker.ChunkSize
		}
		if !pflag.CommandLine.Changed("chunk-overlap") {
			chunkOverlap = cfg.Chunker.ChunkOverlap
		}
	}

	if pflag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "用法: profilectl [flags] <resume.pdf|resume.txt>")
		pflag.PrintDefaults()
		os.Exit(2)
	}
	filePath := pflag.Arg(0)

	ctx := context.Background()
	text, err := loadResumeText(ctx, filePath)
	if err != nil {
		log.Fatalf("读取简历文本失败: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		log.Fatalf("文件 %s 没有可用文本", filePath)
	}

	filename := filepath.Base(filePath)
	record := extractor.New().Extract(text, filename)

	chunker := parser.NewTextChunker(config.ChunkerConfig{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
	}, parser.WithChunkerLogger(log.New(io.Discard, "", 0)))
	pieces := chunker.Chunk(text)

	report := profileReport{
		Filename:     filename,
		Profile:      record,
		FitScore:     ranking.FitScore(record),
		Completeness: ranking.Completeness(record),
		TextLength:   len(text),
		ChunkCount:   len(pieces),
	}
	if showChunks {
		report.Chunks = pieces
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(report); err != nil {
		log.Fatalf("输出JSON失败: %v", err)
	}
}

// loadResumeText PDF文件走Eino提取器，其他扩展名按纯文本读取
func loadResumeText(ctx context.Context, filePath string) (string, error) {
	if strings.EqualFold(filepath.Ext(filePath), ".pdf") {
		pdfExtractor, err := parser.NewEinoPDFTextExtractor(ctx,
			parser.WithEinoLogger(log.New(io.Discard, "", 0)))
		if err != nil {
			return "", err
		}
		text, _, err := pdfExtractor.ExtractFromFile(ctx, filePath)
		return text, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
