package extractor

import (
	"regexp"
	"strings"
	"unicode"
)

// jobContextKeywords 出现在匹配附近时佐证这确实是个职位名
var jobContextKeywords = []string{
	"position", "role", "title", "worked as", "served as", "employed as",
	"experience", "employment", "career", "responsibilities", "at", "company",
}

// companyContextKeywords 佐证匹配是公司名的语境词
var companyContextKeywords = []string{
	"at", "company", "employer", "organization", "corporation", "firm",
	"experience", "employment", "worked", "employed",
}

// experienceSectionKeywords 泛化的经历段落标志，语境词缺席时的补充证据
var experienceSectionKeywords = []string{"experience", "employment", "work"}

// genericTitleWords 单独出现时过于宽泛、不能作为职位记录的词
var genericTitleWords = map[string]bool{
	"manager": true, "director": true, "engineer": true,
	"developer": true, "analyst": true,
}

const (
	maxTitles    = 5
	maxCompanies = 5

	minPhraseLen = 3
	maxPhraseLen = 50
)

var (
	trailingDateRule  = regexp.MustCompile(`\s*[\|\-]\s*\d{4}.*$`)
	parentheticalRule = regexp.MustCompile(`\s*\(.*?\)\s*`)
)

// extractJobTitles 按三档模式提取职位名称。
// 每个候选要求：长度3~50、不命中误判表、±100字符窗口或所在行出现职位语境词
// （或处于经历段落）。大小写不敏感去重，剔除过于宽泛的单词，最多5个
func extractJobTitles(text string) []string {
	var found []string
	for _, rule := range titleRules {
		for _, m := range rule.FindAllStringIndex(text, -1) {
			title := strings.TrimSpace(text[m[0]:m[1]])
			if len(title) < minPhraseLen || len(title) > maxPhraseLen {
				continue
			}
			if matchesAnyRule(title, titleExcludeRules) {
				continue
			}
			if !hasNearbyKeyword(text, m[0], m[1], jobContextKeywords) &&
				!hasNearbyKeyword(text, m[0], m[1], experienceSectionKeywords) {
				continue
			}
			found = append(found, title)
		}
	}

	seen := make(map[string]bool)
	var unique []string
	for _, title := range found {
		key := strings.ToLower(strings.TrimSpace(title))
		if genericTitleWords[key] || seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, title)
		if len(unique) == maxTitles {
			break
		}
	}
	return unique
}

// extractCompanies 通过锚点模式提取雇主名称：
// "at <大写短语>"、雇佣动词+介词、公司后缀词（Inc/LLC/Corp等）、行首短语+职位分隔。
// 清理尾部的换行/日期/括号噪音后，要求附近有公司语境词或处于经历段落，
// 并拒绝完全由停用词组成的短语。大小写不敏感去重，最多5个
func extractCompanies(text string) []string {
	var found []string
	for _, rule := range companyRules {
		for _, m := range rule.FindAllStringSubmatchIndex(text, -1) {
			if len(m) < 4 || m[2] < 0 {
				continue
			}
			company := cleanCompanyName(text[m[2]:m[3]])
			if len(company) < minPhraseLen || len(company) > maxPhraseLen {
				continue
			}
			if !unicode.IsUpper(rune(company[0])) {
				continue
			}
			if allWordsAreStopwords(company) {
				continue
			}
			if !hasNearbyKeyword(text, m[0], m[1], companyContextKeywords) &&
				!hasNearbyKeyword(text, m[0], m[1], experienceSectionKeywords) {
				continue
			}
			found = append(found, company)
		}
	}

	seen := make(map[string]bool)
	var unique []string
	for _, company := range found {
		key := strings.ToLower(strings.TrimSpace(company))
		if seen[key] || companyStopwords[key] {
			continue
		}
		// 单个词的通用称谓不算公司名
		if !strings.Contains(key, " ") && (key == "company" || key == "inc" || key == "llc" || key == "corp") {
			continue
		}
		seen[key] = true
		unique = append(unique, company)
		if len(unique) == maxCompanies {
			break
		}
	}
	return unique
}

// cleanCompanyName 去掉公司名尾部粘连的换行内容、日期和括号说明
func cleanCompanyName(raw string) string {
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		raw = raw[:i]
	}
	raw = trailingDateRule.ReplaceAllString(raw, "")
	raw = parentheticalRule.ReplaceAllString(raw, " ")
	return strings.TrimSpace(raw)
}

func allWordsAreStopwords(phrase string) bool {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return true
	}
	for _, w := range words {
		if !companyStopwords[strings.ToLower(w)] {
			return false
		}
	}
	return true
}

// hasNearbyKeyword 匹配的±100字符窗口或所在行是否出现任一关键词
func hasNearbyKeyword(text string, start, end int, keywords []string) bool {
	ctx := strings.ToLower(sliceAround(text, start, end, contextWindow))
	if containsAny(ctx, keywords) {
		return true
	}
	line := strings.ToLower(lineContaining(text, start))
	return containsAny(line, keywords)
}

func matchesAnyRule(s string, rules []*regexp.Regexp) bool {
	for _, rule := range rules {
		if rule.MatchString(s) {
			return true
		}
	}
	return false
}
