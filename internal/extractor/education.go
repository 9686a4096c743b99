package extractor

import (
	"regexp"
	"strings"
)

// educationContextKeywords 判断学历缩写是否真的在谈教育背景的语境词
var educationContextKeywords = []string{
	"degree", "education", "university", "college", "school",
	"institute", "graduated", "graduation", "bachelor", "master",
	"phd", "doctorate", "diploma", "certification",
}

// clearNonEducationContexts 完整学历表述附近出现这些词时判为误报
// （"master" 一词远不止学位一个意思）
var clearNonEducationContexts = []string{
	"microsoft", "ms office", "ms windows", "ms excel", "ms word",
	"master of ceremonies", "masters tournament", "master craftsman",
	"master class", "master plan", "master control",
}

// strictNonEducationContexts 学历缩写附近的排除词表，比完整表述的更长：
// MS 可能是 Microsoft，MA 可能是 Massachusetts，也可能出现在邮箱或职位名里
var strictNonEducationContexts = []string{
	"microsoft", "ms office", "ms windows", "ms excel", "ms word", "ms teams",
	"massachusetts", "ma ",
	"master of ceremonies", "masters tournament",
	"email", "@", "gmail", "yahoo",
	"company", "corporation", "inc", "llc",
	"project manager", "product manager", "program manager",
}

const (
	clearDegreeWindow  = 150
	strictDegreeWindow = 50
)

// extractEducationLevel 检测文本中提到的最高学历。
// 按固定优先级逐级检测，第一个有命中的等级即为结果，之后不再继续 ——
// 同时提到学士和硕士时只保留硕士，绝不会产生多值结果。
// 每一级先试 Clear 模式（宽窗口+短排除表），再试 Strict 模式
// （要求±50字符内有教育语境词且无任何非教育语境词）。
// 没有任何等级通过校验时返回空串
func extractEducationLevel(text string) string {
	lower := strings.ToLower(text)
	hasEducationContext := containsAny(lower, educationContextKeywords)

	for _, rule := range degreeRules {
		if matchClearDegree(text, rule.Clear, hasEducationContext) {
			return rule.Level
		}
		if matchStrictDegree(text, rule.Strict) {
			return rule.Level
		}
	}
	return ""
}

func matchClearDegree(text string, patterns []*regexp.Regexp, hasEducationContext bool) bool {
	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			ctx := strings.ToLower(sliceAround(text, loc[0], loc[1], clearDegreeWindow))
			if containsAny(ctx, clearNonEducationContexts) {
				continue
			}
			if hasEducationContext || containsAny(ctx, educationContextKeywords) {
				return true
			}
		}
	}
	return false
}

func matchStrictDegree(text string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			ctx := strings.ToLower(sliceAround(text, loc[0], loc[1], strictDegreeWindow))
			if !containsAny(ctx, educationContextKeywords) {
				continue
			}
			if containsAny(ctx, strictNonEducationContexts) {
				continue
			}
			return true
		}
	}
	return false
}
