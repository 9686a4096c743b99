package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-screener-go/internal/types"
)

func TestFitScore(t *testing.T) {
	// 10+10+10+16+12.5+15+4 = 77.5
	record := &types.CandidateRecord{
		Filename:        "alice.pdf",
		Name:            "Alice Johnson",
		Email:           "alice@example.com",
		Phone:           "555-123-4567",
		Skills:          []string{"Python", "Go", "Docker", "Kubernetes", "SQL", "Linux", "Git", "AWS"},
		YearsExperience: 5,
		EducationLevel:  types.EducationBachelors,
		Certifications:  []string{"AWS Certified", "CKA"},
	}
	assert.InDelta(t, 77.5, FitScore(record), 1e-9)
}

func TestFitScore_ComponentCaps(t *testing.T) {
	record := &types.CandidateRecord{
		Name:            "Bob Lee",
		Email:           "bob@example.com",
		Phone:           "555-000-1111",
		Skills:          make([]string, 10),
		YearsExperience: 50,
		EducationLevel:  types.EducationPhD,
		Certifications:  make([]string, 15),
	}
	// 技能/年限/证书都顶到上限：10+10+10+20+25+15+10 = 100
	assert.InDelta(t, 100.0, FitScore(record), 1e-9)
}

func TestFitScore_EmptyRecord(t *testing.T) {
	assert.Zero(t, FitScore(&types.CandidateRecord{Filename: "x.pdf"}))
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("Alice Johnson"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("Al"))
	assert.False(t, ValidName("RESUME"))
	assert.False(t, ValidName("Curriculum Vitae"))
	assert.False(t, ValidName("Page 2"))
	assert.False(t, ValidName("12345"))
}

func TestCompleteness(t *testing.T) {
	full := &types.CandidateRecord{
		Name:   "Alice Johnson",
		Email:  "a@x.com",
		Phone:  "555-123-4567",
		Skills: []string{"Go"},
	}
	assert.Equal(t, 4, Completeness(full))

	// 页眉词姓名不计入完整度
	headerName := &types.CandidateRecord{Name: "RESUME", Email: "a@x.com"}
	assert.Equal(t, 1, Completeness(headerName))

	assert.Zero(t, Completeness(&types.CandidateRecord{}))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Alice Johnson", DisplayName(&types.CandidateRecord{Name: "Alice Johnson", Filename: "a.pdf"}))
	assert.Equal(t, "a.pdf", DisplayName(&types.CandidateRecord{Name: "RESUME", Filename: "a.pdf"}))
	assert.Equal(t, "Unknown", DisplayName(&types.CandidateRecord{}))
}
