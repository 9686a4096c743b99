package extractor

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// nameExcludeRules 明显不是姓名的行/词：各类简历页眉、章节标题、纯日期等。
// 匹配对象是转成大写后的文本
var nameExcludeRules = compileAll(
	`CERTIFICATE`, `RESUME`, `CV`, `CURRICULUM`, `VITAE`, `APPLICATION`,
	`COVER LETTER`, `PAGE \d+`, `\d+/\d+/\d+`, `\d{4}`,
	`PHONE`, `EMAIL`, `ADDRESS`, `CONTACT`, `OBJECTIVE`, `SUMMARY`,
	`EXPERIENCE`, `EDUCATION`, `SKILLS`, `PROJECT`, `REFERENCES`,
)

var (
	// 文件名里常见的简历相关词，去掉后剩下的往往就是姓名
	filenameStopwordRule = regexp.MustCompile(`(?i)\b(resume|cv|curriculum|vitae|intern|internship|fresher|experienced|updated|final|latest)\b`)
	separatorRule        = regexp.MustCompile(`[-_]`)
	separatorDotRule     = regexp.MustCompile(`[-_.]`)
	multiSpaceRule       = regexp.MustCompile(`\s+`)

	properNameRule  = regexp.MustCompile(`^[A-Z][a-z]+(\s+[A-Z][a-z]+)+$`)
	nameCharsRule   = regexp.MustCompile(`^[A-Z][a-zA-Z\s\-']+$`)
	singleWordRule  = regexp.MustCompile(`^[A-Z][a-z]+$`)
	nonNameLineRule = regexp.MustCompile(`^[\d\s\W]+$`)
	alphaWordRule   = regexp.MustCompile(`^[A-Za-z]+$`)
)

// nameScanLines 在正文头部扫描姓名时检查的非空行数量
const nameScanLines = 15

// resolveName 通过三级回退链解析候选人姓名：
//  1. 从文件名推导（去扩展名、分隔符换空格、剔除简历相关词）
//  2. 扫描正文前15个非空行，找符合姓名形态的行
//  3. 兜底：从清理后的文件名里取最多3个首字母大写的字母单词
//
// 保证：只有三级全部失败才返回空串；返回值绝不会命中排除规则
func resolveName(text, filename string) string {
	if name := nameFromFilename(filename); name != "" {
		return name
	}
	if name := nameFromText(text); name != "" {
		return name
	}
	return nameFromFilenameFallback(filename)
}

func nameFromFilename(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	clean := separatorRule.ReplaceAllString(base, " ")
	clean = filenameStopwordRule.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(multiSpaceRule.ReplaceAllString(clean, " "))

	parts := strings.Fields(clean)
	if len(parts) < 2 || len(parts) > 3 {
		return ""
	}
	candidate := strings.Join(parts, " ")
	if properNameRule.MatchString(candidate) && len(candidate) < 50 && !isExcludedName(candidate) {
		return candidate
	}
	return ""
}

func nameFromText(text string) string {
	scanned := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		scanned++
		if scanned > nameScanLines {
			break
		}

		if isExcludedName(line) {
			continue
		}
		// 含邮箱的行、过长的行（大概率是段落）、纯数字/符号的行都跳过
		if strings.Contains(line, "@") || len(line) > 80 || nonNameLineRule.MatchString(line) {
			continue
		}

		words := strings.Fields(line)
		if len(words) >= 2 && len(words) <= 4 {
			first := words[0]
			if first != "" && unicode.IsUpper(rune(first[0])) {
				// 超过两个词的全大写行是章节标题，不是姓名
				if len(words) > 2 && isAllUpper(line) {
					continue
				}
				if nameCharsRule.MatchString(line) {
					return line
				}
			}
		}

		// 单个首字母大写的词也可能是姓（只有姓氏的简历）
		if len(words) == 1 && len(words[0]) >= 3 && singleWordRule.MatchString(words[0]) {
			return words[0]
		}
	}
	return ""
}

func nameFromFilenameFallback(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	clean := separatorDotRule.ReplaceAllString(base, " ")
	clean = filenameStopwordRule.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(multiSpaceRule.ReplaceAllString(clean, " "))
	if clean == "" {
		return ""
	}

	words := strings.Fields(clean)
	if len(words) >= 2 && len(words) <= 4 && allStartUpper(words) {
		if !isExcludedName(clean) {
			return clean
		}
		return ""
	}

	// 只保留首字母大写的纯字母单词，最多取3个
	var nameWords []string
	for _, w := range words {
		if unicode.IsUpper(rune(w[0])) && alphaWordRule.MatchString(w) {
			nameWords = append(nameWords, w)
			if len(nameWords) == 3 {
				break
			}
		}
	}
	if len(nameWords) == 0 {
		return ""
	}
	candidate := strings.Join(nameWords, " ")
	if isExcludedName(candidate) {
		return ""
	}
	return candidate
}

// isExcludedName 候选串（转大写后）是否命中排除规则
func isExcludedName(s string) bool {
	upper := strings.ToUpper(s)
	for _, rule := range nameExcludeRules {
		if rule.MatchString(upper) {
			return true
		}
	}
	return false
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func allStartUpper(words []string) bool {
	for _, w := range words {
		if w == "" || !unicode.IsUpper(rune(w[0])) {
			return false
		}
	}
	return true
}
