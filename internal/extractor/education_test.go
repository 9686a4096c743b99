package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEducationLevel(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "完整表述的硕士",
			text: "Master's degree in Data Science, Stanford University",
			want: "Master's",
		},
		{
			name: "MBA需要教育语境",
			text: "MBA, Wharton School of Business",
			want: "Master's",
		},
		{
			name: "博士优先于硕士",
			text: "PhD in Physics and a Master's degree in Math, MIT",
			want: "PhD",
		},
		{
			name: "同时提到学士和硕士只保留硕士",
			text: "Master's degree and Bachelor's degree from State University",
			want: "Master's",
		},
		{
			name: "缩写在教育语境中接受",
			text: "BS in Computer Science, Stanford University",
			want: "Bachelor's",
		},
		{
			name: "MS Office不是学历",
			text: "Proficient in MS Office and MS Excel",
			want: "",
		},
		{
			name: "缺少教育语境的缩写拒绝",
			text: "MS led the initiative across teams",
			want: "",
		},
		{
			name: "无学历信息",
			text: "Software Engineer with 10 years of experience",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractEducationLevel(tt.text))
		})
	}
}
