package extractor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock 固定时钟，年限断言不随真实日期漂移
func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 15, 0, 0, 0, 0, time.UTC)
	}
}

const sampleResume = `John Smith
Austin, TX
john.smith@example.com
(512) 555-1234

SUMMARY
Senior Software Engineer with eight years of backend experience.

EXPERIENCE
Acme Corp | Software Engineer, 2015 - 2018
Built and operated billing services for enterprise accounts.
Beta Inc | Software Engineer, 2018 - 2022
Designed Go and Python microservices, deployed with Docker and Kubernetes across three production regions.

EDUCATION
Bachelor's degree in Computer Science from Texas State University 2011 - 2015

CERTIFICATIONS
AWS Certified Solutions Architect
`

func TestExtract_FullResume(t *testing.T) {
	e := New(WithClock(fixedClock(2024)))
	record := e.Extract(sampleResume, "john_smith_resume.pdf")
	require.NotNil(t, record)

	assert.Equal(t, "john_smith_resume.pdf", record.Filename)
	assert.Equal(t, "John Smith", record.Name)
	assert.Equal(t, "john.smith@example.com", record.Email)
	assert.Equal(t, "(512) 555-1234", record.Phone)
	assert.Equal(t, "Austin, TX", record.Location)
	assert.Equal(t, "Bachelor's", record.EducationLevel)

	// 技能按词表优先级顺序发现
	assert.Equal(t, []string{"Kubernetes", "Python", "AWS", "Docker", "Go"}, record.Skills)

	// 两段工作经历 2015-2018 + 2018-2022，教育段的 2011-2015 被排除
	assert.Equal(t, 7, record.YearsExperience)

	assert.Contains(t, record.JobTitles, "Senior Software Engineer")
	assert.Contains(t, record.Companies, "Acme Corp")
	assert.Equal(t, []string{"AWS Certified"}, record.Certifications)
}

func TestExtract_Idempotent(t *testing.T) {
	e := New(WithClock(fixedClock(2024)))
	first := e.Extract(sampleResume, "john_smith_resume.pdf")
	second := e.Extract(sampleResume, "john_smith_resume.pdf")
	assert.Equal(t, first, second)
}

func TestExtract_EmptyText(t *testing.T) {
	e := New(WithClock(fixedClock(2024)))
	record := e.Extract("", "jane_doe.pdf")
	require.NotNil(t, record)

	// 正文为空时姓名仍可从文件名推导，其余字段退化为零值
	assert.Equal(t, "Jane Doe", record.Name)
	assert.Empty(t, record.Email)
	assert.Empty(t, record.Phone)
	assert.Empty(t, record.Skills)
	assert.Zero(t, record.YearsExperience)
	assert.Empty(t, record.EducationLevel)
	assert.Empty(t, record.Certifications)
}

func TestExtract_FieldCaps(t *testing.T) {
	// 构造包含全部技能词、大量职位/公司/证书的文本，验证各列表上限
	var b strings.Builder
	b.WriteString("Experience with Machine Learning, Deep Learning, Node.js, Angular, TypeScript, ")
	b.WriteString("PostgreSQL, MySQL, JavaScript, Kubernetes, TensorFlow, Python, React, Java, SQL, ")
	b.WriteString("MongoDB, AWS, Docker, Git, Linux, Django, Flask, Spring, PHP, Ruby, Rust.\n")
	b.WriteString("Certifications\n")
	b.WriteString("PMP CISSP CEH CISM ITIL CCNA CKA CKAD TOGAF COBIT PRINCE2 CAPM\n")
	b.WriteString("AWS Certified Azure Certified Google Cloud Certified Oracle Certified\n")
	b.WriteString("Microsoft Certified Cisco Certified Salesforce Certified RHCE Tableau Certified\n")

	e := New(WithClock(fixedClock(2024)))
	record := e.Extract(b.String(), "caps.pdf")

	assert.LessOrEqual(t, len(record.Skills), 10)
	assert.LessOrEqual(t, len(record.JobTitles), 5)
	assert.LessOrEqual(t, len(record.Companies), 5)
	assert.LessOrEqual(t, len(record.Certifications), 15)
	assert.GreaterOrEqual(t, record.YearsExperience, 0)
	assert.LessOrEqual(t, record.YearsExperience, 50)
}

func TestResolveName_FilenameFirst(t *testing.T) {
	// 正文前15行全是排除词页眉时，姓名从文件名推导
	body := strings.Repeat("RESUME\nCURRICULUM VITAE\nPAGE 1\n", 10)
	name := resolveName(body, "John_Smith_Resume.pdf")
	assert.Equal(t, "John Smith", name)
}

func TestResolveName_TextScan(t *testing.T) {
	text := "\n\nAlice Johnson\nalice@example.com\n"
	assert.Equal(t, "Alice Johnson", resolveName(text, "scan_0042.pdf"))
}

func TestResolveName_SkipsHeaders(t *testing.T) {
	text := "RESUME\nOBJECTIVE\nSKILLS AND EXPERIENCE\nBob Lee\n"
	assert.Equal(t, "Bob Lee", resolveName(text, "document-1.pdf"))
}

func TestResolveName_NeverReturnsExcludedToken(t *testing.T) {
	// 三级回退全部失败时返回空串，绝不把 RESUME/CV 之类的页眉词当成姓名
	assert.Equal(t, "", resolveName("RESUME\n2024\n", "resume.pdf"))
}

func TestExtractEmail(t *testing.T) {
	assert.Equal(t, "a.b@corp.io", extractEmail("contact: a.b@corp.io / backup@x.com"))
	assert.Equal(t, "", extractEmail("no contact info here"))
}

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"括号区号", "Call (512) 555-1234 anytime", "(512) 555-1234"},
		{"国际前缀", "+86 138-0013-8000", "+86 138-0013-8000"},
		{"连字符", "555-123-4567", "555-123-4567"},
		{"裸年份不算电话", "Graduated 2020", ""},
		{"无号码", "email only", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractPhone(tt.text))
		})
	}
}

func TestExtractLocation(t *testing.T) {
	assert.Equal(t, "Austin, TX", extractLocation("Jane Doe\nAustin, TX\njane@x.com\n"))

	// 技术词不是城市
	assert.Equal(t, "", extractLocation("Skills: Python, Java, Docker\n"))

	// 超出头部区域的地址不采纳
	far := strings.Repeat("x", 1200) + "\nAustin, TX\n"
	assert.Equal(t, "", extractLocation(far))
}
