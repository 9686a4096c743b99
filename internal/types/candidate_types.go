package types

// CandidateRecord 一份简历解析后生成的候选人画像
// 每个上传文档对应一条记录，创建后不可变；重复上传同一文件会生成新记录而不是合并
type CandidateRecord struct {
	// Filename 原始文件名，始终存在，作为展示时的兜底标识
	Filename string `json:"filename"`

	// Name 候选人姓名，可能为空；保证不会是 RESUME/CV 等页眉词
	Name string `json:"name"`

	// 联系方式
	Email string `json:"email"`
	Phone string `json:"phone"`

	// Skills 技能列表，按文本中的发现顺序排列，去重后最多10个
	Skills []string `json:"skills"`

	// YearsExperience 工作年限总和，排除教育经历的时间段，范围[0,50]
	YearsExperience int `json:"years_experience"`

	// EducationLevel 最高学历: PhD / Master's / Bachelor's / Associate's / Diploma
	// 空字符串表示未识别（展示层显示为 Not Specified）
	EducationLevel string `json:"education_level"`

	// JobTitles 职位名称，大小写不敏感去重，最多5个
	JobTitles []string `json:"job_titles"`

	// Companies 公司名称，大小写不敏感去重，最多5个
	Companies []string `json:"companies"`

	// Location 头部区域识别到的 "City, Region" 格式地址
	Location string `json:"location"`

	// Certifications 证书列表，去重后最多15个
	Certifications []string `json:"certifications"`
}

// 学历等级常量，优先级从高到低
const (
	EducationPhD       = "PhD"
	EducationMasters   = "Master's"
	EducationBachelors = "Bachelor's"
	EducationAssociate = "Associate's"
	EducationDiploma   = "Diploma"
)

// DegreeOrder 学历检测的固定优先级顺序，命中最高等级后停止
var DegreeOrder = []string{
	EducationPhD,
	EducationMasters,
	EducationBachelors,
	EducationAssociate,
	EducationDiploma,
}

// CandidateID 返回用于检索多样性分组的候选人标识
// 优先使用姓名，姓名为空时回退到文件名
func (r *CandidateRecord) CandidateID() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Filename != "" {
		return r.Filename
	}
	return "Unknown"
}

// DocumentChunk 简历文本的一个分块，携带父记录标量字段的冗余副本作为检索元数据
// 分块边界由外部的向量索引层负责，这里只定义元数据载荷
type DocumentChunk struct {
	// ChunkID 分块在文档内的序号
	ChunkID int `json:"chunk_id"`

	// Content 分块文本内容
	Content string `json:"content"`

	// Metadata 冗余的候选人标量字段（列表字段已串化）
	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata 分块携带的检索元数据载荷
type ChunkMetadata struct {
	Filename        string `json:"filename"`
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Skills          string `json:"skills,omitempty"` // 逗号连接
	YearsExperience int    `json:"years_experience"`
	EducationLevel  string `json:"education_level,omitempty"`
	JobTitles       string `json:"job_titles,omitempty"` // 逗号连接
	Companies       string `json:"companies,omitempty"`  // 逗号连接
	Location        string `json:"location,omitempty"`
	Certifications  string `json:"certifications,omitempty"` // 逗号连接
}

// CandidateID 分块的候选人标识，与 CandidateRecord.CandidateID 同样的回退规则
func (c *DocumentChunk) CandidateID() string {
	if c.Metadata.Name != "" {
		return c.Metadata.Name
	}
	if c.Metadata.Filename != "" {
		return c.Metadata.Filename
	}
	return "Unknown"
}

// ScoredChunk 相似度搜索返回的 (分块, 距离) 对
// Distance 越小表示越相似
type ScoredChunk struct {
	Chunk    DocumentChunk `json:"chunk"`
	Distance float32       `json:"distance"`
}

// RankedCandidate 排序结果中的一项
type RankedCandidate struct {
	Candidate CandidateRecord `json:"candidate"`
	Score     float64         `json:"score"`
}
