// Package ranking 对已装配的候选人画像做匹配度打分、排序和检索结果多样化。
// 所有函数都是画像快照上的纯函数，不持有状态，调用方负责保证
// 打分期间候选人集合不被并发修改。
package ranking

import (
	"regexp"
	"strings"

	"resume-screener-go/internal/types"
)

// invalidNameRules 打分时判定姓名无效的模式（对转大写后的姓名检查）。
// 抽取阶段已经过滤过一轮，这里再兜底一次：历史数据里可能残留页眉词姓名
var invalidNameRules = []*regexp.Regexp{
	regexp.MustCompile(`CERTIFICATE`),
	regexp.MustCompile(`RESUME`),
	regexp.MustCompile(`CV`),
	regexp.MustCompile(`CURRICULUM`),
	regexp.MustCompile(`VITAE`),
	regexp.MustCompile(`APPLICATION`),
	regexp.MustCompile(`PAGE \d+`),
	regexp.MustCompile(`^\d+$`),
}

// 匹配度总分100，各组成部分的上限
const (
	nameScore      = 10.0
	emailScore     = 10.0
	phoneScore     = 10.0
	maxSkillScore  = 20.0
	maxExpScore    = 25.0
	educationScore = 15.0
	maxCertScore   = 10.0

	perSkillScore = 2.0
	perYearScore  = 2.5
	perCertScore  = 2.0
)

// ValidName 姓名是否可用于展示和打分：
// 非空、长度不小于3、不命中任何页眉词模式
func ValidName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(name) < 3 {
		return false
	}
	upper := strings.ToUpper(name)
	for _, rule := range invalidNameRules {
		if rule.MatchString(upper) {
			return false
		}
	}
	return true
}

// FitScore 计算候选人画像的匹配度得分，范围 [0, 100]：
// 有效姓名10分，邮箱10分，电话10分，技能每个2分上限20，
// 工作年限每年2.5分上限25，有学历15分，证书每个2分上限10。
// 每个候选人独立计算，与查询无关
func FitScore(r *types.CandidateRecord) float64 {
	score := 0.0

	if ValidName(r.Name) {
		score += nameScore
	}
	if r.Email != "" {
		score += emailScore
	}
	if r.Phone != "" {
		score += phoneScore
	}
	if n := len(r.Skills); n > 0 {
		score += min(maxSkillScore, float64(n)*perSkillScore)
	}
	if r.YearsExperience > 0 {
		score += min(maxExpScore, float64(r.YearsExperience)*perYearScore)
	}
	if r.EducationLevel != "" {
		score += educationScore
	}
	if n := len(r.Certifications); n > 0 {
		score += min(maxCertScore, float64(n)*perCertScore)
	}
	return score
}

// Completeness 画像完整度 [0, 4]：有效姓名、邮箱、电话、非空技能列表各计1分
func Completeness(r *types.CandidateRecord) int {
	n := 0
	if ValidName(r.Name) {
		n++
	}
	if r.Email != "" {
		n++
	}
	if r.Phone != "" {
		n++
	}
	if len(r.Skills) > 0 {
		n++
	}
	return n
}

// DisplayName 展示名：姓名有效时用姓名，否则回退到文件名
func DisplayName(r *types.CandidateRecord) string {
	if ValidName(r.Name) {
		return r.Name
	}
	if r.Filename != "" {
		return r.Filename
	}
	return "Unknown"
}
