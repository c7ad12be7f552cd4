package services

import (
	"errors"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/logger"

	"gorm.io/gorm"
)

// InterfacePropertyService 定义房源服务接口
type InterfacePropertyService interface {
	GetAllProperties(page, pageSize int, status, city, search string) ([]models.Property, int64, error)
	GetPropertyByID(id string) (*models.Property, error)
	CreateProperty(property *models.Property) error
	UpdateProperty(id string, updates map[string]interface{}) (*models.Property, error)
	DeleteProperty(id string) error
	UpdatePropertyStatus(id, newStatus, reason, actorID string) (*models.Property, error)
	GetPropertyContacts(propertyID string) ([]models.ContactProperty, error)
}

// PropertyService 提供房源相关的服务
type PropertyService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewPropertyService 创建一个新的房源服务
func NewPropertyService(db *gorm.DB, cfg *config.Config) InterfacePropertyService {
	return &PropertyService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetAllProperties 获取房源列表，支持分页、状态、城市过滤和搜索
func (s *PropertyService) GetAllProperties(page, pageSize int, status, city, search string) ([]models.Property, int64, error) {
	var properties []models.Property
	var total int64

	query := s.DB.Model(&models.Property{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if city != "" {
		query = query.Where("city = ?", city)
	}
	if search != "" {
		query = query.Where("title LIKE ? OR address LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&properties).Error; err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}

// 2 GetPropertyByID 根据ID获取房源
func (s *PropertyService) GetPropertyByID(id string) (*models.Property, error) {
	var property models.Property
	if err := s.DB.First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("房源不存在")
		}
		return nil, err
	}
	return &property, nil
}

// 3 CreateProperty 创建新房源
func (s *PropertyService) CreateProperty(property *models.Property) error {
	if property.Status == "" {
		property.Status = models.PropertyStatusAvailable
	}
	return s.DB.Create(property).Error
}

// 4 UpdateProperty 更新房源信息
func (s *PropertyService) UpdateProperty(id string, updates map[string]interface{}) (*models.Property, error) {
	property, err := s.GetPropertyByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(property).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetPropertyByID(id)
}

// 5 DeleteProperty 删除房源及其联系人关联
func (s *PropertyService) DeleteProperty(id string) error {
	property, err := s.GetPropertyByID(id)
	if err != nil {
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&models.ContactProperty{}).Error; err != nil {
			return err
		}
		return tx.Delete(property).Error
	})
}

// 6 UpdatePropertyStatus 更新房源状态并追加变更记录
func (s *PropertyService) UpdatePropertyStatus(id, newStatus, reason, actorID string) (*models.Property, error) {
	property, err := s.GetPropertyByID(id)
	if err != nil {
		return nil, err
	}

	old := property.Status
	if err := s.DB.Model(property).Update("status", newStatus).Error; err != nil {
		return nil, err
	}

	change := models.PropertyStatusChange{
		PropertyID: id,
		OldStatus:  &old,
		NewStatus:  newStatus,
		Reason:     reason,
		ChangedBy:  actorID,
	}
	if err := s.DB.Create(&change).Error; err != nil {
		logger.Warning("写入房源状态变更记录失败: %v", err)
	}

	return s.GetPropertyByID(id)
}

// 7 GetPropertyContacts 获取房源的联系人关联列表
func (s *PropertyService) GetPropertyContacts(propertyID string) ([]models.ContactProperty, error) {
	if _, err := s.GetPropertyByID(propertyID); err != nil {
		return nil, err
	}

	var links []models.ContactProperty
	if err := s.DB.Where("property_id = ?", propertyID).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
