package parser

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEinoPDFTextExtractor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx)
	require.NoError(t, err)
	require.NotNil(t, extractor)
	require.NotNil(t, extractor.parser)
	require.NotNil(t, extractor.logger, "应该有默认logger")

	customLogger := log.New(io.Discard, "", 0)
	extractorWithLogger, err := NewEinoPDFTextExtractor(ctx, WithEinoLogger(customLogger))
	require.NoError(t, err)
	assert.Equal(t, customLogger, extractorWithLogger.logger)
}

// findTestPDF 在常见测试数据目录中找一个PDF文件
func findTestPDF() string {
	for _, dir := range []string{"testdata", "../testdata", "../../testdata"} {
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, file := range files {
			if !file.IsDir() && strings.HasSuffix(strings.ToLower(file.Name()), ".pdf") {
				return filepath.Join(dir, file.Name())
			}
		}
	}
	return ""
}

func TestEinoExtractFromFile(t *testing.T) {
	filePath := findTestPDF()
	if filePath == "" {
		t.Skip("找不到测试PDF文件，跳过测试")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx, WithEinoLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, err)

	text, metadata, err := extractor.ExtractFromFile(ctx, filePath)
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	require.NotNil(t, metadata)
	assert.Equal(t, filePath, metadata["source_file_path"])
	assert.Equal(t, len(text), metadata["text_length"])
}

func TestEinoExtractTextFromReader_ExtraMeta(t *testing.T) {
	filePath := findTestPDF()
	if filePath == "" {
		t.Skip("找不到测试PDF文件，跳过测试")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx, WithEinoLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, err)

	file, err := os.Open(filePath)
	require.NoError(t, err)
	defer file.Close()

	text, metadata, err := extractor.ExtractTextFromReader(ctx, file, "test_uri", map[string]interface{}{
		"test_meta_key": "test_meta_value",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, text)
	assert.Equal(t, "test_meta_value", metadata["test_meta_key"], "传入的额外元数据应原样带回")
}

func TestEinoExtract_InvalidPDF(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx, WithEinoLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, err)

	mockContent := []byte("%PDF-1.5\nnot a real pdf\n")
	_, _, err = extractor.ExtractTextFromReader(ctx, bytes.NewReader(mockContent), "mock.pdf", nil)
	assert.Error(t, err, "非法PDF内容应该报错")
}

func TestEinoExtract_NonExistentFile(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx, WithEinoLogger(log.New(io.Discard, "", 0)))
	require.NoError(t, err)

	nonExistentPath := "/path/to/non/existent/file-" + time.Now().Format("20060102150405") + ".pdf"
	_, _, err = extractor.ExtractFromFile(ctx, nonExistentPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "打开PDF文件")
}
