package extractor

import "regexp"

var emailRule = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// phoneRules 电话号码模式，从最具体到最宽泛排列：
// 国际前缀、括号区号、连字符、空格分隔、纯数字串、通用国际格式。
// 取第一个产生结果的模式的第一个匹配
var phoneRules = compileAll(
	`\+\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}`,
	`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`,
	`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`,
	`\d{3}[-\s]\d{3}[-\s]\d{4}`,
	`\d{10}`,
	`\+\d{1,4}[-\s]?\d{6,14}`,
)

var bareYearRule = regexp.MustCompile(`^\d{4}$`)

// extractEmail 提取第一个合法的 local@domain.tld 形式邮箱，找不到返回空串
func extractEmail(text string) string {
	return emailRule.FindString(text)
}

// extractPhone 按模式优先级提取电话号码。
// 恰好4位数字的匹配会被跳过（避免把裸年份 "2020" 当成电话），继续尝试下一个模式
func extractPhone(text string) string {
	for _, rule := range phoneRules {
		phone := rule.FindString(text)
		if phone == "" {
			continue
		}
		if bareYearRule.MatchString(phone) {
			continue
		}
		return phone
	}
	return ""
}
