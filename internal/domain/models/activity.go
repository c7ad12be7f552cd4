package models

import (
	"time"

	"gorm.io/gorm"
)

// 活动类型
const (
	ActivityTypeCall    = "call"
	ActivityTypeEmail   = "email"
	ActivityTypeMeeting = "meeting"
	ActivityTypeNote    = "note"
	ActivityTypeTask    = "task"
)

// Activity 跟进活动，按线索维度记录
type Activity struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	LeadID      string    `gorm:"type:varchar(36);not null;index" json:"lead_id"`
	AgentID     *string   `gorm:"type:varchar(36)" json:"agent_id"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	Title       string    `gorm:"type:varchar(200)" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	return nil
}
