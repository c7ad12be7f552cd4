package models

import (
	"time"

	"gorm.io/gorm"
)

// ContactStatusChange 联系人状态变更审计记录（仅追加）
type ContactStatusChange struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ContactID string    `gorm:"type:varchar(36);not null;index" json:"contact_id"`
	OldStatus *string   `gorm:"type:varchar(10)" json:"old_status"` // 读取旧值失败时为null
	NewStatus string    `gorm:"type:varchar(10);not null" json:"new_status"`
	Reason    string    `gorm:"type:varchar(100)" json:"reason"`
	ChangedBy string    `gorm:"type:varchar(36)" json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (c *ContactStatusChange) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

// LeadStatusChange 线索状态变更记录（仅追加）
type LeadStatusChange struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	LeadID    string    `gorm:"type:varchar(36);not null;index" json:"lead_id"`
	OldStatus *string   `gorm:"type:varchar(20)" json:"old_status"`
	NewStatus string    `gorm:"type:varchar(20);not null" json:"new_status"`
	Reason    string    `gorm:"type:varchar(100)" json:"reason"`
	ChangedBy string    `gorm:"type:varchar(36)" json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (l *LeadStatusChange) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = NewID()
	}
	return nil
}

// PropertyStatusChange 房源状态变更记录（仅追加）
type PropertyStatusChange struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PropertyID string    `gorm:"type:varchar(36);not null;index" json:"property_id"`
	OldStatus  *string   `gorm:"type:varchar(20)" json:"old_status"`
	NewStatus  string    `gorm:"type:varchar(20);not null" json:"new_status"`
	Reason     string    `gorm:"type:varchar(100)" json:"reason"`
	ChangedBy  string    `gorm:"type:varchar(36)" json:"changed_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (p *PropertyStatusChange) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}
