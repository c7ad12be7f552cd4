package models

import (
	"time"

	"gorm.io/gorm"
)

// SecurityAudit 安全审计记录（仅追加，写入尽力而为）
type SecurityAudit struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ActorID      string    `gorm:"type:varchar(36);index" json:"actor_id"`
	Action       string    `gorm:"type:varchar(50);not null" json:"action"`
	ResourceType string    `gorm:"type:varchar(50)" json:"resource_type"`
	ResourceID   string    `gorm:"type:varchar(36)" json:"resource_id"`
	OldValues    string    `gorm:"type:text" json:"old_values"` // JSON快照
	NewValues    string    `gorm:"type:text" json:"new_values"` // JSON快照
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 对应security_audit关系
func (SecurityAudit) TableName() string {
	return "security_audit"
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (s *SecurityAudit) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}
