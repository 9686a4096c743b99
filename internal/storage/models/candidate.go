// Package models 定义存储层的GORM数据模型。
package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"resume-screener-go/internal/types"
)

// 简历提交的处理状态流转
const (
	StatusPendingExtraction = "PENDING_EXTRACTION" // 已上传，等待文本提取
	StatusTextExtracted     = "TEXT_EXTRACTED"     // 文本已提取，等待画像和索引
	StatusIndexed           = "INDEXED"            // 画像已入库，向量已写入
	StatusExtractionFailed  = "EXTRACTION_FAILED"  // 文本提取失败
	StatusIndexingFailed    = "INDEXING_FAILED"    // 向量索引失败
	StatusDuplicate         = "DUPLICATE"          // 文件MD5重复，跳过处理
)

// CandidateSubmission 简历提交表，每个上传文档一条记录
type CandidateSubmission struct {
	SubmissionUUID      string    `gorm:"type:char(36);primaryKey"`
	SubmissionTimestamp time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_cs_submission_timestamp"`
	OriginalFilename    string    `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string    `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string    `gorm:"type:varchar(1024)"`
	RawFileMD5          string    `gorm:"type:char(32);index:idx_cs_raw_file_md5"`
	ProcessingStatus    string    `gorm:"type:varchar(50);default:'PENDING_EXTRACTION';index:idx_cs_processing_status"`
	ExtractorVersion    string    `gorm:"type:varchar(50)"`
	CreatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (CandidateSubmission) TableName() string {
	return "candidate_submissions"
}

// CandidateProfile 候选人画像表，与提交记录一一对应。
// 列表字段以JSON数组落库，保持抽取时的顺序
type CandidateProfile struct {
	SubmissionUUID  string         `gorm:"type:char(36);primaryKey"`
	Filename        string         `gorm:"type:varchar(255)"`
	Name            string         `gorm:"type:varchar(255);index:idx_cp_name"`
	Email           string         `gorm:"type:varchar(255);index:idx_cp_email"`
	Phone           string         `gorm:"type:varchar(50)"`
	Location        string         `gorm:"type:varchar(255)"`
	EducationLevel  string         `gorm:"type:varchar(50)"`
	YearsExperience int            `gorm:"type:int"`
	Skills          datatypes.JSON `gorm:"type:json"` // string[]
	JobTitles       datatypes.JSON `gorm:"type:json"` // string[]
	Companies       datatypes.JSON `gorm:"type:json"` // string[]
	Certifications  datatypes.JSON `gorm:"type:json"` // string[]
	FitScore        float64        `gorm:"type:double;index:idx_cp_fit_score"`
	CreatedAt       time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt       time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	Submission *CandidateSubmission `gorm:"foreignKey:SubmissionUUID;references:SubmissionUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (CandidateProfile) TableName() string {
	return "candidate_profiles"
}

// ToCandidateRecord 将数据库模型转换为领域模型
func (p *CandidateProfile) ToCandidateRecord() types.CandidateRecord {
	return types.CandidateRecord{
		Filename:        p.Filename,
		Name:            p.Name,
		Email:           p.Email,
		Phone:           p.Phone,
		Location:        p.Location,
		EducationLevel:  p.EducationLevel,
		YearsExperience: p.YearsExperience,
		Skills:          jsonToList(p.Skills),
		JobTitles:       jsonToList(p.JobTitles),
		Companies:       jsonToList(p.Companies),
		Certifications:  jsonToList(p.Certifications),
	}
}

// FromCandidateRecord 从领域模型填充数据库模型
func (p *CandidateProfile) FromCandidateRecord(submissionUUID string, record *types.CandidateRecord, fitScore float64) {
	p.SubmissionUUID = submissionUUID
	p.Filename = record.Filename
	p.Name = record.Name
	p.Email = record.Email
	p.Phone = record.Phone
	p.Location = record.Location
	p.EducationLevel = record.EducationLevel
	p.YearsExperience = record.YearsExperience
	p.Skills = listToJSON(record.Skills)
	p.JobTitles = listToJSON(record.JobTitles)
	p.Companies = listToJSON(record.Companies)
	p.Certifications = listToJSON(record.Certifications)
	p.FitScore = fitScore
}

func jsonToList(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var list []string
	_ = json.Unmarshal(data, &list)
	return list
}

func listToJSON(list []string) datatypes.JSON {
	if len(list) == 0 {
		return datatypes.JSON("[]")
	}
	data, err := json.Marshal(list)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(data)
}
