package models

import (
	"time"

	"gorm.io/gorm"
)

// 联系人状态模式
const (
	StatusModeAuto   = "auto"
	StatusModeManual = "manual"
)

// 联系人有效状态
const (
	ContactStatusActive = "active"
	ContactStatusPast   = "past"
)

// Contact 规范联系人。多条线索指向同一真实客户时，以此记录为准
type Contact struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(100);not null" json:"name"`
	Email           string    `gorm:"type:varchar(100)" json:"email"`
	Phone           string    `gorm:"type:varchar(30)" json:"phone"`
	Notes           string    `gorm:"type:text" json:"notes"`
	StatusMode      string    `gorm:"type:varchar(10);not null;default:auto" json:"status_mode"`
	StatusManual    string    `gorm:"type:varchar(10)" json:"status_manual"` // manual模式下的钉住值
	StatusEffective string    `gorm:"type:varchar(10);not null;default:active" json:"status_effective"`
	AgentID         *string   `gorm:"type:varchar(36);index" json:"agent_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Relations
	Agent *User  `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	Leads []Lead `gorm:"foreignKey:ContactID" json:"leads,omitempty"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

// ValidContactStatus 判断是否为合法的联系人状态值
func ValidContactStatus(s string) bool {
	return s == ContactStatusActive || s == ContactStatusPast
}
