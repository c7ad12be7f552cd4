package models

import (
	"time"

	"gorm.io/gorm"
)

// 沟通渠道
const (
	CommChannelCall     = "call"
	CommChannelEmail    = "email"
	CommChannelSMS      = "sms"
	CommChannelWhatsApp = "whatsapp"
)

// 通话结果
const (
	CallOutcomeAnswered      = "answered"
	CallOutcomeNoAnswer      = "no_answer"
	CallOutcomeBusy          = "busy"
	CallOutcomeCallback      = "callback"
	CallOutcomeVoicemail     = "voicemail"
	CallOutcomeInterested    = "interested"
	CallOutcomeNotInterested = "not_interested"
)

// Communication 沟通记录
type Communication struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	LeadID     string     `gorm:"type:varchar(36);not null;index" json:"lead_id"`
	AgentID    string     `gorm:"type:varchar(36);not null" json:"agent_id"`
	Channel    string     `gorm:"type:varchar(20);not null;default:call" json:"channel"`
	Outcome    string     `gorm:"type:varchar(30)" json:"outcome"`
	Notes      string     `gorm:"type:text" json:"notes"`
	CallbackAt *time.Time `json:"callback_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (c *Communication) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}
