package models

import "time"

// 时间线条目类型（五个来源各占一个变体）
const (
	TimelineStatusChange   = "status_change"
	TimelineLeadChange     = "lead_change"
	TimelinePropertyChange = "property_change"
	TimelineActivity       = "activity"
	TimelineFileUpload     = "file_upload"
)

// TimelineItem 展示用时间线条目，不落库。每次读取时从五个来源
// 合并生成并按时间戳倒序排列；相同时间戳的相对顺序取决于底层查询返回顺序
type TimelineItem struct {
	Type      string      `json:"type"`
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	Title     string      `json:"title"`
	Subtitle  string      `json:"subtitle"`
	Payload   interface{} `json:"payload,omitempty"`
}
