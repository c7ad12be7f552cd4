package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/utils"
)

// 用户角色
const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

// 用户状态
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User 系统用户（管理员与经纪人）
type User struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	Username    string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"type:varchar(100)" json:"email"`
	Phone       string     `gorm:"type:varchar(20)" json:"phone"`
	Password    string     `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码
	Role        string     `gorm:"type:varchar(20);not null;default:agent" json:"role"`
	Status      string     `gorm:"type:varchar(20);not null;default:active" json:"status"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	// 如果提供了密码且不是已哈希的，对其进行哈希处理
	if u.Password != "" && len(u.Password) < 60 {
		hashedPassword, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashedPassword
	}
	return nil
}

// IsAdmin 判断用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
