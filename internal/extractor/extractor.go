// Package extractor 从纯文本简历中抽取结构化的候选人画像。
// 抽取完全基于分层的正则启发式与语境校验，不依赖任何模型调用，
// 同一输入永远产出同一结果。
package extractor

import (
	"time"

	"resume-screener-go/internal/types"
)

const (
	maxSkills = 10
)

// Extractor 候选人画像抽取器。零值不可用，必须通过 New 创建
type Extractor struct {
	now func() time.Time
}

// Option Extractor 的配置项
type Option func(*Extractor)

// WithClock 注入时钟，用于 "2019 - Present" 类开放日期区间的年限计算。
// 测试中固定时钟可以让年限断言不随真实日期漂移
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// New 创建画像抽取器
func New(opts ...Option) *Extractor {
	e := &Extractor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract 对单份简历文本执行全部字段的抽取，组装成候选人画像。
// text 为空时仍返回有效记录（姓名可能仍能从 filename 推导出来）。
// 各字段抽取相互独立，单个字段失败不影响其余字段
func (e *Extractor) Extract(text, filename string) *types.CandidateRecord {
	record := &types.CandidateRecord{
		Filename:        filename,
		Name:            resolveName(text, filename),
		Email:           extractEmail(text),
		Phone:           extractPhone(text),
		Skills:          capList(extractSkills(text), maxSkills),
		YearsExperience: extractYearsExperience(text, e.now().Year()),
		EducationLevel:  extractEducationLevel(text),
		JobTitles:       extractJobTitles(text),
		Companies:       extractCompanies(text),
		Location:        extractLocation(text),
		Certifications:  extractCertifications(text),
	}
	return record
}

func capList(list []string, max int) []string {
	if len(list) > max {
		return list[:max]
	}
	return list
}
