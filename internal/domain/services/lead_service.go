package services

import (
	"errors"
	"strings"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/logger"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/utils"

	"gorm.io/gorm"
)

// InterfaceLeadService 定义线索服务接口
type InterfaceLeadService interface {
	GetAllLeads(page, pageSize int, status, search string) ([]models.Lead, int64, error)
	GetLeadByID(id string) (*models.Lead, error)
	CreateLead(lead *models.Lead) error
	UpdateLead(id string, updates map[string]interface{}) (*models.Lead, error)
	DeleteLead(id string) error

	UpdateLeadStatus(id, newStatus, reason, actorID string) (*models.Lead, error)
	AssignLead(id, agentID, actorID string) (*models.Lead, error)
	ConvertLeadToContact(id, actorID string) (*models.Contact, error)
	ImportLeads(leads []models.ImportedLead, agentID string) (int, error)
	GetLeadStatistics() (map[string]int64, error)
}

// LeadService 提供销售线索相关的服务
type LeadService struct {
	DB     *gorm.DB
	Config *config.Config
	Audit  InterfaceAuditService
}

// NewLeadService 创建一个新的线索服务
func NewLeadService(db *gorm.DB, cfg *config.Config, audit InterfaceAuditService) InterfaceLeadService {
	return &LeadService{
		DB:     db,
		Config: cfg,
		Audit:  audit,
	}
}

// 1 GetAllLeads 获取线索列表，支持分页、状态过滤和搜索
func (s *LeadService) GetAllLeads(page, pageSize int, status, search string) ([]models.Lead, int64, error) {
	var leads []models.Lead
	var total int64

	query := s.DB.Model(&models.Lead{})

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if search != "" {
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&leads).Error; err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

// 2 GetLeadByID 根据ID获取线索
func (s *LeadService) GetLeadByID(id string) (*models.Lead, error) {
	var lead models.Lead
	if err := s.DB.First(&lead, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("线索不存在")
		}
		return nil, err
	}
	return &lead, nil
}

// 3 CreateLead 创建新线索
func (s *LeadService) CreateLead(lead *models.Lead) error {
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	lead.Priority = models.ValidLeadPriority(lead.Priority)
	return s.DB.Create(lead).Error
}

// 4 UpdateLead 更新线索信息
func (s *LeadService) UpdateLead(id string, updates map[string]interface{}) (*models.Lead, error) {
	lead, err := s.GetLeadByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(lead).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetLeadByID(id)
}

// 5 DeleteLead 删除线索
func (s *LeadService) DeleteLead(id string) error {
	lead, err := s.GetLeadByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(lead).Error
}

// 6 UpdateLeadStatus 更新线索状态并追加变更记录
func (s *LeadService) UpdateLeadStatus(id, newStatus, reason, actorID string) (*models.Lead, error) {
	lead, err := s.GetLeadByID(id)
	if err != nil {
		return nil, err
	}

	old := lead.Status
	if err := s.DB.Model(lead).Update("status", newStatus).Error; err != nil {
		return nil, err
	}

	change := models.LeadStatusChange{
		LeadID:    id,
		OldStatus: &old,
		NewStatus: newStatus,
		Reason:    reason,
		ChangedBy: actorID,
	}
	if err := s.DB.Create(&change).Error; err != nil {
		logger.Warning("写入线索状态变更记录失败: %v", err)
	}

	return s.GetLeadByID(id)
}

// 7 AssignLead 将线索分配给指定经纪人
func (s *LeadService) AssignLead(id, agentID, actorID string) (*models.Lead, error) {
	lead, err := s.GetLeadByID(id)
	if err != nil {
		return nil, err
	}

	var agent models.User
	if err := s.DB.First(&agent, "id = ?", agentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("用户不存在")
		}
		return nil, err
	}

	var oldAgent interface{}
	if lead.AgentID != nil {
		oldAgent = *lead.AgentID
	}
	if err := s.DB.Model(lead).Update("agent_id", agentID).Error; err != nil {
		return nil, err
	}

	if s.Audit != nil {
		s.Audit.LogSecurityEvent(actorID, "lead_assigned", "lead", id,
			map[string]interface{}{"agent_id": oldAgent},
			map[string]interface{}{"agent_id": agentID})
	}

	return s.GetLeadByID(id)
}

// 8 ConvertLeadToContact 将线索转化为规范联系人。
// 邮箱或电话与既有联系人匹配时回指既有记录，否则创建新联系人
func (s *LeadService) ConvertLeadToContact(id, actorID string) (*models.Contact, error) {
	lead, err := s.GetLeadByID(id)
	if err != nil {
		return nil, err
	}
	if lead.ContactID != nil && *lead.ContactID != "" {
		return nil, errors.New("线索已转化为联系人")
	}

	contact, err := s.matchExistingContact(lead)
	if err != nil {
		return nil, err
	}

	if contact == nil {
		contact = &models.Contact{
			Name:            lead.Name,
			Email:           strings.ToLower(strings.TrimSpace(lead.Email)),
			Phone:           lead.Phone,
			StatusMode:      models.StatusModeAuto,
			StatusEffective: models.ContactStatusActive,
			AgentID:         lead.AgentID,
		}
		if err := s.DB.Create(contact).Error; err != nil {
			return nil, err
		}
	}

	if err := s.DB.Model(lead).Update("contact_id", contact.ID).Error; err != nil {
		return nil, err
	}

	if s.Audit != nil {
		s.Audit.LogSecurityEvent(actorID, "lead_converted", "lead", id,
			nil, map[string]interface{}{"contact_id": contact.ID})
	}

	return contact, nil
}

// matchExistingContact 按规范化后的邮箱或电话号码匹配既有联系人
func (s *LeadService) matchExistingContact(lead *models.Lead) (*models.Contact, error) {
	email := strings.ToLower(strings.TrimSpace(lead.Email))
	phone := utils.DigitsOnly(lead.Phone)

	if email != "" {
		var contact models.Contact
		err := s.DB.Where("LOWER(email) = ?", email).First(&contact).Error
		if err == nil {
			return &contact, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if len(phone) >= 10 {
		var contacts []models.Contact
		if err := s.DB.Where("phone <> ''").Find(&contacts).Error; err != nil {
			return nil, err
		}
		for i := range contacts {
			if utils.DigitsOnly(contacts[i].Phone) == phone {
				return &contacts[i], nil
			}
		}
	}

	return nil, nil
}

// 9 ImportLeads 批量落库导入的线索
func (s *LeadService) ImportLeads(leads []models.ImportedLead, agentID string) (int, error) {
	created := 0
	for _, imported := range leads {
		lead := models.Lead{
			Name:         imported.Name,
			Email:        imported.Email,
			Phone:        imported.Phone,
			Status:       imported.Status,
			Priority:     models.ValidLeadPriority(imported.Priority),
			Source:       imported.Source,
			Location:     imported.Location,
			Budget:       imported.Budget,
			Notes:        imported.Notes,
			InterestTags: strings.Join(imported.InterestTags, ","),
			ContactPref:  strings.Join(imported.ContactPref, ","),
		}
		if agentID != "" {
			lead.AgentID = &agentID
		}
		if err := s.DB.Create(&lead).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// 10 GetLeadStatistics 按状态统计线索数量
func (s *LeadService) GetLeadStatistics() (map[string]int64, error) {
	statuses := []string{
		models.LeadStatusNew, models.LeadStatusContacted, models.LeadStatusQualified,
		models.LeadStatusNegotiation, models.LeadStatusWon, models.LeadStatusLost,
	}

	stats := make(map[string]int64, len(statuses)+1)
	var total int64
	if err := s.DB.Model(&models.Lead{}).Count(&total).Error; err != nil {
		return nil, err
	}
	stats["total"] = total

	for _, status := range statuses {
		var count int64
		if err := s.DB.Model(&models.Lead{}).Where("status = ?", status).Count(&count).Error; err != nil {
			return nil, err
		}
		stats[status] = count
	}

	// 逾期未跟进的新线索数量
	cutoff := time.Now().Add(-time.Duration(s.Config.SLAOverdueMins) * time.Minute)
	var overdue int64
	if err := s.DB.Model(&models.Lead{}).
		Where("status = ? AND last_contacted_at IS NULL AND created_at < ?",
			models.LeadStatusNew, cutoff).
		Count(&overdue).Error; err != nil {
		return nil, err
	}
	stats["overdue"] = overdue

	return stats, nil
}
