package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/logger"

	"gorm.io/gorm"
)

// InterfaceCommunicationService 定义沟通记录服务接口
type InterfaceCommunicationService interface {
	LogCallOutcome(leadID, agentID, outcome, notes string, callbackAt *time.Time) (*models.Communication, error)
	LogCommunication(comm *models.Communication) error
	GetLeadCommunications(leadID string, page, pageSize int) ([]models.Communication, int64, error)
}

// CommunicationService 提供沟通记录相关的服务
type CommunicationService struct {
	DB       *gorm.DB
	Config   *config.Config
	Contacts InterfaceContactService
}

// NewCommunicationService 创建一个新的沟通记录服务
func NewCommunicationService(db *gorm.DB, cfg *config.Config, contacts InterfaceContactService) InterfaceCommunicationService {
	return &CommunicationService{
		DB:       db,
		Config:   cfg,
		Contacts: contacts,
	}
}

// 1 LogCallOutcome 记录一次通话结果。
// 落库沟通记录，并刷新线索的最近联系时间；new状态线索自动推进到contacted；
// 约定了回拨时间时追加一条follow_up日程
func (s *CommunicationService) LogCallOutcome(leadID, agentID, outcome, notes string, callbackAt *time.Time) (*models.Communication, error) {
	var lead models.Lead
	if err := s.DB.First(&lead, "id = ?", leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("线索不存在")
		}
		return nil, err
	}

	comm := models.Communication{
		LeadID:     leadID,
		AgentID:    agentID,
		Channel:    models.CommChannelCall,
		Outcome:    outcome,
		Notes:      notes,
		CallbackAt: callbackAt,
	}
	if err := s.DB.Create(&comm).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.DB.Model(&lead).Update("last_contacted_at", now).Error; err != nil {
		logger.Warning("刷新线索最近联系时间失败: %v", err)
	}

	if lead.Status == models.LeadStatusNew {
		old := lead.Status
		if err := s.DB.Model(&lead).Update("status", models.LeadStatusContacted).Error; err != nil {
			logger.Warning("通话后推进线索状态失败: %v", err)
		} else {
			change := models.LeadStatusChange{
				LeadID:    leadID,
				OldStatus: &old,
				NewStatus: models.LeadStatusContacted,
				Reason:    "call logged",
				ChangedBy: agentID,
			}
			if err := s.DB.Create(&change).Error; err != nil {
				logger.Warning("写入线索状态变更记录失败: %v", err)
			}
		}
	}

	if callbackAt != nil {
		event := models.CalendarEvent{
			Title:     fmt.Sprintf("Callback: %s", lead.Name),
			EventType: models.EventTypeFollowUp,
			Status:    models.EventStatusScheduled,
			StartAt:   *callbackAt,
			EndAt:     callbackAt.Add(30 * time.Minute),
			AgentID:   agentID,
			LeadID:    &leadID,
		}
		if err := s.DB.Create(&event).Error; err != nil {
			logger.Warning("创建回拨日程失败: %v", err)
		}
	}

	// 通话属于互动，触发关联联系人的自动状态重算
	if lead.ContactID != nil && *lead.ContactID != "" && s.Contacts != nil {
		if _, err := s.Contacts.RecomputeContactStatus(*lead.ContactID, "call logged"); err != nil {
			logger.Warning("通话后重算联系人状态失败: %v", err)
		}
	}

	return &comm, nil
}

// 2 LogCommunication 落库一条任意渠道的沟通记录
func (s *CommunicationService) LogCommunication(comm *models.Communication) error {
	if comm.Channel == "" {
		comm.Channel = models.CommChannelCall
	}
	return s.DB.Create(comm).Error
}

// 3 GetLeadCommunications 分页获取线索的沟通记录
func (s *CommunicationService) GetLeadCommunications(leadID string, page, pageSize int) ([]models.Communication, int64, error) {
	var comms []models.Communication
	var total int64

	query := s.DB.Model(&models.Communication{}).Where("lead_id = ?", leadID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&comms).Error; err != nil {
		return nil, 0, err
	}

	return comms, total, nil
}
