package models

import (
	"time"

	"gorm.io/gorm"
)

// 联系人与房源的关联角色
const (
	LinkRoleOwner         = "owner"
	LinkRoleBuyerInterest = "buyer_interest"
	LinkRoleTenant        = "tenant"
	LinkRoleInvestor      = "investor"
)

// ContactProperty 联系人-房源关联。(contact_id, property_id, role)三元组唯一，
// 重复插入视为幂等空操作
type ContactProperty struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ContactID  string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_contact_property_role" json:"contact_id"`
	PropertyID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_contact_property_role" json:"property_id"`
	Role       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_contact_property_role" json:"role"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Property *Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
}

// TableName 对应contact_properties关系
func (ContactProperty) TableName() string {
	return "contact_properties"
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (cp *ContactProperty) BeforeCreate(tx *gorm.DB) error {
	if cp.ID == "" {
		cp.ID = NewID()
	}
	return nil
}

// ValidLinkRole 判断是否为合法的关联角色
func ValidLinkRole(role string) bool {
	switch role {
	case LinkRoleOwner, LinkRoleBuyerInterest, LinkRoleTenant, LinkRoleInvestor:
		return true
	default:
		return false
	}
}
