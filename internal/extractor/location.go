package extractor

import "strings"

// locationRules "City, Region" 形式的地址模式：全称城市+全称地区，或城市+两字母州代码
var locationRules = compileAll(
	`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*),\s*([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`,
	`([A-Z][a-z]+),\s*([A-Z]{2})\b`,
)

// locationTechTerms 容易被误认成城市名的技术词
var locationTechTerms = map[string]bool{
	"Python": true, "Java": true, "JavaScript": true, "TypeScript": true,
	"Ruby": true, "PHP": true, "Swift": true, "Kotlin": true,
	"React": true, "Angular": true, "Vue": true, "Node": true,
	"Django": true, "Flask": true, "Spring": true, "Express": true,
	"SQL": true, "MySQL": true, "PostgreSQL": true, "MongoDB": true,
	"Redis": true, "Docker": true, "Kubernetes": true,
	"AWS": true, "Azure": true, "GCP": true, "Git": true, "GitHub": true,
	"Linux": true, "Windows": true, "Script": true, "Code": true,
}

// locationTechContext 匹配附近出现这些词说明是在罗列技术栈而不是写地址
var locationTechContext = []string{
	"programming", "language", "framework", "library", "skill",
	"proficient", "experience with",
}

// headerZoneSize 地址只在文档头部（联系方式区域）查找的范围
const headerZoneSize = 1000

// extractLocation 在头部区域找第一个可信的 "City, Region" 地址。
// 城市部分是技术词、或±50字符内出现技术栈语境时跳过该候选
func extractLocation(text string) string {
	header := text
	if len(header) > headerZoneSize {
		header = header[:headerZoneSize]
	}

	for _, rule := range locationRules {
		for _, m := range rule.FindAllStringSubmatchIndex(header, -1) {
			city := strings.TrimSpace(header[m[2]:m[3]])
			if locationTechTerms[city] || locationTechTerms[strings.ToUpper(city)] {
				continue
			}
			ctx := strings.ToLower(sliceAround(header, m[0], m[1], 50))
			if containsAny(ctx, locationTechContext) {
				continue
			}
			return strings.TrimSpace(header[m[0]:m[1]])
		}
	}
	return ""
}
