package models

import (
	"time"

	"gorm.io/gorm"
)

// 线索状态
const (
	LeadStatusNew         = "new"
	LeadStatusContacted   = "contacted"
	LeadStatusQualified   = "qualified"
	LeadStatusNegotiation = "negotiation"
	LeadStatusWon         = "won"
	LeadStatusLost        = "lost"
)

// 线索优先级
const (
	LeadPriorityLow    = "low"
	LeadPriorityMedium = "medium"
	LeadPriorityHigh   = "high"
)

// Lead 销售线索。转化后通过ContactID指向规范联系人
type Lead struct {
	ID              string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name            string     `gorm:"type:varchar(100);not null" json:"name"`
	Email           string     `gorm:"type:varchar(100)" json:"email"`
	Phone           string     `gorm:"type:varchar(30)" json:"phone"`
	Status          string     `gorm:"type:varchar(20);not null;default:new;index" json:"status"`
	Priority        string     `gorm:"type:varchar(10);not null;default:medium" json:"priority"`
	Source          string     `gorm:"type:varchar(50)" json:"source"`
	Location        string     `gorm:"type:varchar(100)" json:"location"`
	Budget          string     `gorm:"type:varchar(50)" json:"budget"`
	Notes           string     `gorm:"type:text" json:"notes"`
	InterestTags    string     `gorm:"type:varchar(255)" json:"interest_tags"` // 逗号分隔
	ContactPref     string     `gorm:"type:varchar(100)" json:"contact_pref"`  // 逗号分隔
	AgentID         *string    `gorm:"type:varchar(36);index" json:"agent_id"`
	ContactID       *string    `gorm:"type:varchar(36);index" json:"contact_id"` // 规范联系人回指
	LastContactedAt *time.Time `json:"last_contacted_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Relations
	Agent   *User    `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	Contact *Contact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = NewID()
	}
	return nil
}

// ValidLeadStatus 判断是否为合法的线索状态
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
		LeadStatusNegotiation, LeadStatusWon, LeadStatusLost:
		return true
	default:
		return false
	}
}

// ValidLeadPriority 将优先级收敛到{low, medium, high}，无效值取medium
func ValidLeadPriority(p string) string {
	switch p {
	case LeadPriorityLow, LeadPriorityMedium, LeadPriorityHigh:
		return p
	default:
		return LeadPriorityMedium
	}
}
