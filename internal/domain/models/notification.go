package models

import (
	"time"

	"gorm.io/gorm"
)

// 通知类型
const (
	NotificationKindInfo         = "info"
	NotificationKindLeadAssigned = "lead_assigned"
	NotificationKindSLA          = "sla"
	NotificationKindSystem       = "system"
)

// Notification 站内通知，同时经MQTT推送
type Notification struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string     `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title     string     `gorm:"type:varchar(200);not null" json:"title"`
	Body      string     `gorm:"type:text" json:"body"`
	Kind      string     `gorm:"type:varchar(30);not null;default:info" json:"kind"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID()
	}
	return nil
}
