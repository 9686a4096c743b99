package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJobTitles(t *testing.T) {
	got := extractJobTitles("Worked as a Senior Data Scientist at a startup")
	assert.Contains(t, got, "Senior Data Scientist")
	assert.LessOrEqual(t, len(got), 5)
}

func TestExtractJobTitles_RequiresContext(t *testing.T) {
	// 没有职位语境词也不在经历段落里的裸角色名词不采纳
	assert.Empty(t, extractJobTitles("Skilled Consultant"))
}

func TestExtractJobTitles_Excluded(t *testing.T) {
	got := extractJobTitles("Worked as Project Manager at Acme")
	assert.NotContains(t, got, "Project Manager")
}

func TestExtractJobTitles_GenericSingleWordSkipped(t *testing.T) {
	got := extractJobTitles("Engineer with broad experience in many roles")
	assert.NotContains(t, got, "Engineer")
}

func TestExtractCompanies(t *testing.T) {
	got := extractCompanies("Worked at Stripe\nBuilt the payments platform")
	assert.Contains(t, got, "Stripe")
	assert.LessOrEqual(t, len(got), 5)
}

func TestExtractCompanies_CorporateSuffix(t *testing.T) {
	got := extractCompanies("Employer: Acme Technologies\nShipped the core product")
	assert.Contains(t, got, "Acme")
}

func TestExtractCompanies_StopwordsOnlyRejected(t *testing.T) {
	// 完全由停用词组成的短语不算公司名
	assert.Empty(t, extractCompanies("Worked at Resume Experience\nmore text"))
}

func TestCleanCompanyName(t *testing.T) {
	assert.Equal(t, "Acme", cleanCompanyName("Acme\nnext line"))
	assert.Equal(t, "Acme", cleanCompanyName("Acme - 2019 to 2021"))
	assert.Equal(t, "Acme Labs", cleanCompanyName("Acme (formerly Beta) Labs"))
}
