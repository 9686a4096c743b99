package extractor

import (
	"regexp"
	"strings"
)

// certContextKeywords 表明附近在罗列证书/资质的关键词
var certContextKeywords = []string{
	"certification", "certified", "certificate", "credential",
	"license", "cert", "qualification",
}

// skillMentionPhrases 技能描述式用语：证书名附近只出现这些而没有证书语境词时，
// 判定为技能提及而非持证（"experience with AWS" 不等于 AWS 认证）
var skillMentionPhrases = []string{
	"experience with", "proficient in", "expert in", "skill in", "knowledge of",
}

// certSectionEndHeaders 证书段落扫描遇到这些章节标题即停止
var certSectionEndHeaders = map[string]bool{
	"experience": true, "education": true, "skills": true,
	"projects": true, "summary": true,
}

// genericCertFalsePositives 泛化扫描里排除的常见非证书短语
var genericCertFalsePositives = map[string]bool{
	"certification": true, "certified": true, "certificate": true, "credentials": true,
	"experience": true, "education": true, "skills": true, "projects": true,
	"summary": true, "resume": true, "cv": true, "name": true,
	"address": true, "phone": true, "email": true,
}

var (
	// 证书段落里形如 "AWS Certified Solutions" 的大写短语
	certPhraseRule = regexp.MustCompile(`\b([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*(?:\s+\+)?)`)
	// 厂商代号特征：两个以上大写字母接数字（AZ-900），或大写字母加号（A+）
	certCodeRule = regexp.MustCompile(`[A-Z]{2,}-?\d+|[A-Z]+\+`)
)

// certNameKeywords 泛化扫描中提示短语是证书名的词
var certNameKeywords = []string{"certified", "professional", "specialist", "expert", "foundation"}

const (
	maxCertifications = 15
	// 泛化扫描的累计结果上限，目录命中的优先级更高
	maxGenericCerts = 10
	// 目录匹配检查证书语境时向前后各看几行
	certContextLineRadius = 3
)

// extractCertifications 两遍提取证书：
// 第一遍按静态目录匹配（厂商代号、全称、缩写）。缩写式匹配要求附近若干行内
// 出现证书语境词，或模式本身属于公认无歧义缩写；语境里只有技能描述用语时
// 按技能提及拒绝。第二遍泛化扫描 "Certifications" 段落内的证书样短语，
// 遇到下一个已知章节标题停止。两遍结果合并去重，最多15个
func extractCertifications(text string) []string {
	var found []string
	seen := make(map[string]bool)
	lines := strings.Split(text, "\n")

	// 第一遍：静态目录
	for _, rule := range certRules {
		if matchCertRule(text, lines, rule) {
			key := strings.ToLower(rule.Name)
			if !seen[key] {
				seen[key] = true
				found = append(found, rule.Name)
			}
		}
	}

	// 第二遍：证书段落泛化扫描
	for _, cert := range scanCertSection(lines) {
		key := strings.ToLower(cert)
		if seen[key] || len(found) >= maxGenericCerts {
			continue
		}
		seen[key] = true
		found = append(found, cert)
	}

	if len(found) > maxCertifications {
		found = found[:maxCertifications]
	}
	return found
}

func matchCertRule(text string, lines []string, rule certRule) bool {
	for _, p := range rule.Patterns {
		for _, m := range p.Re.FindAllStringIndex(text, -1) {
			if p.KnownAbbr || hasCertContextNearby(text, lines, m[0]) {
				return true
			}
			// 既无证书语境又无已知缩写背书：技能描述用语出现则拒绝，
			// 否则仍按宽松策略接受
			ctx := strings.ToLower(sliceAround(text, m[0], m[1], 80))
			if containsAny(ctx, skillMentionPhrases) {
				continue
			}
			return true
		}
	}
	return false
}

// hasCertContextNearby 匹配所在行的前后若干行内是否出现证书语境词
func hasCertContextNearby(text string, lines []string, matchStart int) bool {
	lineNum := strings.Count(text[:matchStart], "\n")
	lo := lineNum - certContextLineRadius
	if lo < 0 {
		lo = 0
	}
	hi := lineNum + certContextLineRadius
	if hi > len(lines)-1 {
		hi = len(lines) - 1
	}
	for i := lo; i <= hi; i++ {
		if containsAny(strings.ToLower(lines[i]), certContextKeywords) {
			return true
		}
	}
	return false
}

// scanCertSection 走查 "Certifications" 段落标题之后的行，
// 提取像证书名的大写短语（含证书关键词或厂商代号特征的）
func scanCertSection(lines []string) []string {
	var certs []string
	inSection := false

	for _, line := range lines {
		lower := strings.ToLower(strings.TrimSpace(line))

		if containsAny(lower, certContextKeywords) {
			inSection = true
			continue
		}
		if inSection && certSectionEndHeaders[lower] {
			inSection = false
			continue
		}
		if !inSection || len(strings.TrimSpace(line)) <= 3 {
			continue
		}

		for _, phrase := range certPhraseRule.FindAllString(line, -1) {
			phrase = strings.TrimSpace(phrase)
			if genericCertFalsePositives[strings.ToLower(phrase)] {
				continue
			}
			if len(phrase) < 3 || len(phrase) > 50 {
				continue
			}
			if certCodeRule.MatchString(phrase) || containsAny(strings.ToLower(phrase), certNameKeywords) {
				certs = append(certs, phrase)
			}
		}
	}
	return certs
}
