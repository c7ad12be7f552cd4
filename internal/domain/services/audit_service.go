package services

import (
	"encoding/json"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/logger"

	"gorm.io/gorm"
)

// InterfaceAuditService 定义安全审计服务接口
type InterfaceAuditService interface {
	LogSecurityEvent(actorID, action, resourceType, resourceID string, oldValues, newValues interface{})
	GetAuditLog(page, pageSize int) ([]models.SecurityAudit, int64, error)
}

// AuditService 提供安全审计相关的服务
type AuditService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAuditService 创建一个新的安全审计服务
func NewAuditService(db *gorm.DB, cfg *config.Config) InterfaceAuditService {
	return &AuditService{
		DB:     db,
		Config: cfg,
	}
}

// 1 LogSecurityEvent 写入一条安全审计记录。
// 审计写入失败只记日志不抛错，保证审计永远不会阻断主流程
func (s *AuditService) LogSecurityEvent(actorID, action, resourceType, resourceID string, oldValues, newValues interface{}) {
	entry := models.SecurityAudit{
		ActorID:      actorID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    marshalValues(oldValues),
		NewValues:    marshalValues(newValues),
	}

	if err := s.DB.Create(&entry).Error; err != nil {
		logger.Warning("写入安全审计记录失败: %v", err)
	}
}

// 2 GetAuditLog 分页查询安全审计记录
func (s *AuditService) GetAuditLog(page, pageSize int) ([]models.SecurityAudit, int64, error) {
	var entries []models.SecurityAudit
	var total int64

	query := s.DB.Model(&models.SecurityAudit{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// marshalValues 将快照值序列化为JSON字符串，失败时返回空串
func marshalValues(v interface{}) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
