package services

import (
	"errors"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/utils"

	"gorm.io/gorm"
)

// InterfaceUserService 定义用户服务接口
type InterfaceUserService interface {
	GetAllUsers(page, pageSize int, role string) ([]models.User, int64, error)
	GetUserByID(id string) (*models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(id string, updates map[string]interface{}) (*models.User, error)
	DeleteUser(id string) error
	GetActiveAgents() ([]models.User, error)
	ChangePassword(id, oldPassword, newPassword string) error
}

// UserService 提供用户（管理员与经纪人）相关的服务
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService 创建一个新的用户服务
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllUsers 获取用户列表，支持分页和角色过滤
func (s *UserService) GetAllUsers(page, pageSize int, role string) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// 2 GetUserByID 根据ID获取用户
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// 3 CreateUser 创建新用户
func (s *UserService) CreateUser(user *models.User) error {
	if user.Username == "" || user.Password == "" {
		return errors.New("用户名和密码不能为空")
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("用户名已存在")
	}

	if user.Role == "" {
		user.Role = models.RoleAgent
	}
	if user.Status == "" {
		user.Status = models.UserStatusActive
	}

	return s.DB.Create(user).Error
}

// 4 UpdateUser 更新用户信息
func (s *UserService) UpdateUser(id string, updates map[string]interface{}) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	// 密码走ChangePassword，不允许直接更新
	delete(updates, "password")

	if err := s.DB.Model(user).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetUserByID(id)
}

// 5 DeleteUser 删除用户
func (s *UserService) DeleteUser(id string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(user).Error
}

// 6 GetActiveAgents 获取全部活跃经纪人
func (s *UserService) GetActiveAgents() ([]models.User, error) {
	var agents []models.User
	if err := s.DB.
		Where("role = ? AND status = ?", models.RoleAgent, models.UserStatusActive).
		Order("name ASC").
		Find(&agents).Error; err != nil {
		return nil, err
	}
	return agents, nil
}

// 7 ChangePassword 修改用户密码，需要验证旧密码
func (s *UserService) ChangePassword(id, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(oldPassword, user.Password) {
		return errors.New("旧密码不正确")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.DB.Model(user).Update("password", hashed).Error
}
