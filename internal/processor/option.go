package processor

import (
	"fmt"
	"io"
	"log"
	"time"

	"resume-screener-go/internal/storage"
)

// ComponentOpt 组件选项类型，仅改变 Components 结构体内的字段
type ComponentOpt func(*Components)

// SettingOpt 设置选项类型，仅改变 Settings 结构体内的字段
type SettingOpt func(*Settings)

// NewComponents 通过选项构造组件集合
func NewComponents(opts ...ComponentOpt) *Components {
	c := &Components{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewSettings 通过选项构造设置，未指定项保持零值，由NewResumeProcessor补默认
func NewSettings(opts ...SettingOpt) *Settings {
	s := &Settings{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ----- 组件选项 -----

// WithPDFExtractor 设置PDF提取器组件
func WithPDFExtractor(extractor PDFExtractor) ComponentOpt {
	return func(c *Components) {
		c.PDFExtractor = extractor
	}
}

// WithTextChunker 设置文本分块器组件
func WithTextChunker(chunker TextChunker) ComponentOpt {
	return func(c *Components) {
		c.TextChunker = chunker
	}
}

// WithProfileExtractor 设置画像抽取器组件
func WithProfileExtractor(extractor ProfileExtractor) ComponentOpt {
	return func(c *Components) {
		c.ProfileExtractor = extractor
	}
}

// WithTextEmbedder 设置文本嵌入器组件
func WithTextEmbedder(embedder TextEmbedder) ComponentOpt {
	return func(c *Components) {
		c.TextEmbedder = embedder
	}
}

// WithStorage 设置存储组件
func WithStorage(s *storage.Storage) ComponentOpt {
	return func(c *Components) {
		c.Storage = s
	}
}

// ----- 设置选项 -----

// WithDebug 设置调试模式
func WithDebug(debug bool) SettingOpt {
	return func(s *Settings) {
		s.Debug = debug
	}
}

// WithLogger 设置日志记录器
func WithLogger(logger *log.Logger) SettingOpt {
	return func(s *Settings) {
		if logger != nil {
			s.Logger = logger
		} else {
			s.Logger = log.New(io.Discard, "", 0)
		}
	}
}

// WithDefaultDimensions 设置默认向量维度
func WithDefaultDimensions(dimensions int) SettingOpt {
	return func(s *Settings) {
		s.DefaultDimensions = dimensions
	}
}

// WithTimeLocation 设置时区
func WithTimeLocation(loc *time.Location) SettingOpt {
	return func(s *Settings) {
		if loc != nil {
			s.TimeLocation = loc
		} else {
			s.TimeLocation = time.Local
		}
	}
}

// ----- 日志包装方法 -----

// logDebug 记录调试级别日志
func (rp *ResumeProcessor) logDebug(format string, args ...interface{}) {
	if rp.Config.Debug && rp.Config.Logger != nil {
		rp.Config.Logger.Printf(format, args...)
	}
}

// logInfo 记录信息级别日志
func (rp *ResumeProcessor) logInfo(format string, args ...interface{}) {
	if rp.Config.Logger != nil {
		rp.Config.Logger.Printf(format, args...)
	}
}

// logError 记录错误级别日志
func (rp *ResumeProcessor) logError(err error, format string, args ...interface{}) {
	if rp.Config.Logger != nil {
		if err != nil {
			format = fmt.Sprintf("ERROR: %v - %s", err, format)
		} else {
			format = "ERROR: " + format
		}
		rp.Config.Logger.Printf(format, args...)
	}
}
