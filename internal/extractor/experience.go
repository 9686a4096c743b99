package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

// dateRangeRules 三族日期区间模式："YYYY - YYYY|Present"、
// "MM/YYYY - MM/YYYY|Present"、"Month YYYY - Month YYYY|Present"。
// 每个模式的第1捕获组是起始日期串，第2捕获组是结束日期串
var dateRangeRules = compileAll(
	`(?i)(\d{4})\s*[-–—]\s*(\d{4}|Present|Current|Now)`,
	`(?i)(\d{1,2}[/-]\d{4})\s*[-–—]\s*(\d{1,2}[/-]\d{4}|Present|Current|Now)`,
	`(?i)((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4})\s*[-–—]\s*((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4}|Present|Current|Now)`,
)

var yearRule = regexp.MustCompile(`\d{4}`)

// presentTokens "至今"的各种写法
var presentTokens = map[string]bool{"present": true, "current": true, "now": true}

const (
	// minStartYear 早于该年份的起始年视为不可信数据，丢弃
	minStartYear = 1950
	// maxYearsExperience 工作年限上限
	maxYearsExperience = 50
)

// extractYearsExperience 从日期区间估算工作总年限。
//
// 对每个日期区间先做语境分类：教育语境的区间直接排除；
// 工作语境或语境不明的区间都计入 —— 简历里工作和教育的时间段交错出现，
// 低估年限比偶尔多算一段模糊区间的代价更高，所以对模糊区间取宽松策略。
// 多段工作经历的年限累加，结果截断到 [0, 50]。
// currentYear 用于 "2019 - Present" 这类开放区间的计算
func extractYearsExperience(text string, currentYear int) int {
	total := 0
	var claimed spanSet

	for _, rule := range dateRangeRules {
		for _, m := range rule.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			// 同一段文本可能被多族模式命中（如 "Jan 2015 - Present"
			// 同时匹配年份族和月份族），已计入的区间不再重复累加
			if claimed.overlaps(start, end) {
				continue
			}

			isEducation, _ := classifyContext(text, start, end, contextWindow)
			if isEducation {
				continue
			}

			startToken := text[m[2]:m[3]]
			endToken := text[m[4]:m[5]]

			startYear, ok := parseYear(startToken)
			if !ok || startYear < minStartYear {
				continue
			}

			if presentTokens[strings.ToLower(endToken)] {
				if currentYear > startYear {
					total += currentYear - startYear
				}
				claimed.claim(start, end)
				continue
			}

			endYear, ok := parseYear(endToken)
			if !ok || endYear < startYear {
				continue
			}
			total += endYear - startYear
			claimed.claim(start, end)
		}
	}

	if total > maxYearsExperience {
		return maxYearsExperience
	}
	if total < 0 {
		return 0
	}
	return total
}

// parseYear 取日期串中第一个4位数字作为年份
func parseYear(token string) (int, bool) {
	s := yearRule.FindString(token)
	if s == "" {
		return 0, false
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return y, true
}
