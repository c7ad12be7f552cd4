package models

import (
	"time"

	"gorm.io/gorm"
)

// ContactFile 联系人文档元数据。文件内容存于对象存储，访问走签名URL
type ContactFile struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ContactID   string    `gorm:"type:varchar(36);not null;index" json:"contact_id"`
	FileName    string    `gorm:"type:varchar(255);not null" json:"file_name"`
	Bucket      string    `gorm:"type:varchar(100)" json:"bucket"`
	Path        string    `gorm:"type:varchar(500)" json:"path"`
	SizeBytes   int64     `json:"size_bytes"`
	ContentType string    `gorm:"type:varchar(100)" json:"content_type"`
	UploadedBy  string    `gorm:"type:varchar(36)" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (f *ContactFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	return nil
}
