package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractYearsExperience(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "教育时间段完全排除",
			text: "Bachelor of Science, MIT, 2016 - 2020",
			want: 0,
		},
		{
			name: "多段工作经历累加",
			text: "Software Engineer at Acme Corp, 2015 - 2018\nSenior Engineer at Beta Inc, 2018 - 2022",
			want: 7,
		},
		{
			name: "Present按当前年份计算",
			text: "Software Engineer, 2019 - Present",
			want: 5,
		},
		{
			name: "月份格式区间",
			text: "Work history: Jan 2015 - Mar 2018, platform team",
			want: 3,
		},
		{
			name: "MM/YYYY格式区间",
			text: "Employment: 03/2019 - 06/2021",
			want: 2,
		},
		{
			name: "起始年份早于1950丢弃",
			text: "Job from 1890 - 1900",
			want: 0,
		},
		{
			name: "结束早于起始丢弃",
			text: "Worked on the job 2020 - 2015",
			want: 0,
		},
		{
			name: "累计超过50截断",
			text: "work: 1960 - 2020\nwork: 1955 - 2015",
			want: 50,
		},
		{
			name: "无日期区间",
			text: "Software Engineer with lots of experience",
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractYearsExperience(tt.text, 2024))
		})
	}
}

// 同一段文本被年份族和月份族同时命中时只计一次
func TestExtractYearsExperience_NoDoubleCount(t *testing.T) {
	got := extractYearsExperience("Team lead role, Jan 2015 - Present", 2024)
	assert.Equal(t, 9, got)
}

func TestClassifyContext(t *testing.T) {
	text := "Bachelor's degree from State University, 2016 - 2020"
	start := len("Bachelor's degree from State University, ")
	isEdu, _ := classifyContext(text, start, len(text), contextWindow)
	assert.True(t, isEdu)

	text = "Senior Engineer at the company, 2016 - 2020"
	start = len("Senior Engineer at the company, ")
	isEdu, isWork := classifyContext(text, start, len(text), contextWindow)
	assert.False(t, isEdu)
	assert.True(t, isWork)

	// 语境不明：两个布尔都为假，下游按非教育处理
	text = "something 2016 - 2020 something"
	isEdu, isWork = classifyContext(text, 10, 21, contextWindow)
	assert.False(t, isEdu)
	assert.False(t, isWork)
}
