package storage

import "time"

// ResumeUploadMessage 简历上传事件，由API层发布、提取消费者消费
type ResumeUploadMessage struct {
	SubmissionUUID      string    `json:"submission_uuid"`
	SubmissionTimestamp time.Time `json:"submission_timestamp"`
	OriginalFilename    string    `json:"original_filename"`
	OriginalFilePathOSS string    `json:"original_file_path_oss"` // MinIO中的对象键
	RawFileMD5          string    `json:"raw_file_md5"`           // 失败回滚时用于清理去重记录
}

// ResumeExtractedMessage 文本提取完成事件，由提取消费者发布、索引消费者消费。
// ParsedText仅在文本较短时内联，否则消费者按ParsedTextPathOSS回源
type ResumeExtractedMessage struct {
	SubmissionUUID    string `json:"submission_uuid"`
	OriginalFilename  string `json:"original_filename"`
	ParsedTextPathOSS string `json:"parsed_text_path_oss"`
	ParsedText        string `json:"parsed_text,omitempty"`
}
