package models

import (
	"time"

	"gorm.io/gorm"
)

// 日程类别
const (
	EventTypeViewing  = "viewing"
	EventTypeMeeting  = "meeting"
	EventTypeCall     = "call"
	EventTypeFollowUp = "follow_up"
)

// 日程生命周期状态。状态之间不强制迁移图，任意状态可以改为任意状态
const (
	EventStatusScheduled   = "scheduled"
	EventStatusCompleted   = "completed"
	EventStatusCancelled   = "cancelled"
	EventStatusRescheduled = "rescheduled"
)

// CalendarEvent 日程事件，可选关联线索、房源或交易
type CalendarEvent struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title         string    `gorm:"type:varchar(200);not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	EventType     string    `gorm:"type:varchar(20);not null" json:"event_type"`
	Status        string    `gorm:"type:varchar(20);not null;default:scheduled;index" json:"status"`
	StartAt       time.Time `gorm:"not null;index" json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	AgentID       string    `gorm:"type:varchar(36);not null;index" json:"agent_id"`
	LeadID        *string   `gorm:"type:varchar(36);index" json:"lead_id"`
	PropertyID    *string   `gorm:"type:varchar(36);index" json:"property_id"`
	TransactionID *string   `gorm:"type:varchar(36)" json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 对应calendar_events关系
func (CalendarEvent) TableName() string {
	return "calendar_events"
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (e *CalendarEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	return nil
}

// ValidEventType 判断是否为合法的日程类别
func ValidEventType(t string) bool {
	switch t {
	case EventTypeViewing, EventTypeMeeting, EventTypeCall, EventTypeFollowUp:
		return true
	default:
		return false
	}
}

// ValidEventStatus 判断是否为合法的日程状态
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusScheduled, EventStatusCompleted, EventStatusCancelled, EventStatusRescheduled:
		return true
	default:
		return false
	}
}
