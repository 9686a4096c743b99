package extractor

import "strings"

// educationKeywords 出现在日期/学历附近时表明处于教育背景段落的关键词
var educationKeywords = []string{
	"education", "university", "college", "school", "degree", "bachelor", "master",
	"phd", "doctorate", "diploma", "certificate", "graduated", "graduation",
	"student", "studied", "coursework", "gpa", "major", "minor", "academic",
	"bachelor's", "master's", "associate's", "bs ", "ba ", "ms ", "mba",
	"b.sc", "m.sc", "b.eng", "m.eng", "undergraduate", "graduate", "thesis",
}

// workKeywords 表明处于工作经历段落的关键词
var workKeywords = []string{
	"experience", "work", "employment", "position", "role", "job", "career",
	"employed", "worked", "company", "employer", "organization", "corporation",
	"engineer", "developer", "manager", "analyst", "consultant", "specialist",
	"director", "lead", "senior", "junior", "associate", "intern", "internship",
	"responsibilities", "achievements", "projects", "technologies", "tools",
}

// contextWindow 默认的上下文窗口半径（字符数）
const contextWindow = 100

// classifyContext 判断 text[start:end) 这段匹配所处的语境是教育还是工作。
// 检查两个窗口：匹配位置前后各 window 个字符，以及匹配所在的整行。
// 两个布尔值相互独立，都为假表示语境不明；下游把"不明"按非教育处理（宽松默认）
func classifyContext(text string, start, end, window int) (isEducation, isWork bool) {
	ctx := strings.ToLower(sliceAround(text, start, end, window))
	line := strings.ToLower(lineContaining(text, start))

	for _, kw := range educationKeywords {
		if strings.Contains(ctx, kw) || strings.Contains(line, kw) {
			isEducation = true
			break
		}
	}
	for _, kw := range workKeywords {
		if strings.Contains(ctx, kw) || strings.Contains(line, kw) {
			isWork = true
			break
		}
	}
	return isEducation, isWork
}

// sliceAround 取匹配位置前后各 window 个字符的窗口，边界自动截断
func sliceAround(text string, start, end, window int) string {
	lo := start - window
	if lo < 0 {
		lo = 0
	}
	hi := end + window
	if hi > len(text) {
		hi = len(text)
	}
	if lo > hi {
		return ""
	}
	return text[lo:hi]
}

// lineContaining 返回包含 pos 位置的整行文本
func lineContaining(text string, pos int) string {
	if pos < 0 || pos > len(text) {
		return ""
	}
	lo := strings.LastIndexByte(text[:pos], '\n') + 1
	hi := strings.IndexByte(text[pos:], '\n')
	if hi < 0 {
		return text[lo:]
	}
	return text[lo : pos+hi]
}

// containsAny 小工具：s 中是否出现任意一个关键词
func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
