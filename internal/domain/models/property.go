package models

import (
	"time"

	"gorm.io/gorm"
)

// 房源状态
const (
	PropertyStatusAvailable = "available"
	PropertyStatusPending   = "pending"
	PropertyStatusSold      = "sold"
	PropertyStatusOffMarket = "off_market"
)

// Property 房源
type Property struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Address     string    `gorm:"type:varchar(255)" json:"address"`
	City        string    `gorm:"type:varchar(100)" json:"city"`
	Type        string    `gorm:"type:varchar(30)" json:"type"` // residential, commercial, land
	Status      string    `gorm:"type:varchar(20);not null;default:available;index" json:"status"`
	Price       float64   `json:"price"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	AreaSqft    float64   `json:"area_sqft"`
	Description string    `gorm:"type:text" json:"description"`
	AgentID     *string   `gorm:"type:varchar(36);index" json:"agent_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Agent *User `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

// ValidPropertyStatus 判断是否为合法的房源状态
func ValidPropertyStatus(s string) bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusPending, PropertyStatusSold, PropertyStatusOffMarket:
		return true
	default:
		return false
	}
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}
	return nil
}
