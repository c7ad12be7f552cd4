package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/logger"

	"gorm.io/gorm"
)

// InterfaceAutomationService 定义自动化流程服务接口
type InterfaceAutomationService interface {
	GetWorkflows() ([]models.AutomationWorkflow, error)
	UpdateWorkflow(id string, updates map[string]interface{}) (*models.AutomationWorkflow, error)
	EnsureDefaultWorkflows() error
	ReassignOverdueLeads(thresholdMins int, triggeredBy string) (*models.AutomationExecution, error)
	GetExecutions(page, pageSize int) ([]models.AutomationExecution, int64, error)
	StartScheduler()
	StopScheduler()
}

// reassignDetail 单条改派明细
type reassignDetail struct {
	LeadID      string `json:"lead_id"`
	FromAgentID string `json:"from_agent_id,omitempty"`
	ToAgentID   string `json:"to_agent_id"`
}

// AutomationService 提供SLA自动化相关的服务
type AutomationService struct {
	DB            *gorm.DB
	Config        *config.Config
	Notifications InterfaceNotificationService
	stopCh        chan struct{}
}

// NewAutomationService 创建一个新的自动化流程服务
func NewAutomationService(db *gorm.DB, cfg *config.Config, notifications InterfaceNotificationService) InterfaceAutomationService {
	return &AutomationService{
		DB:            db,
		Config:        cfg,
		Notifications: notifications,
	}
}

// 1 GetWorkflows 获取全部自动化流程配置
func (s *AutomationService) GetWorkflows() ([]models.AutomationWorkflow, error) {
	var workflows []models.AutomationWorkflow
	if err := s.DB.Order("created_at ASC").Find(&workflows).Error; err != nil {
		return nil, err
	}
	return workflows, nil
}

// 2 UpdateWorkflow 更新自动化流程配置
func (s *AutomationService) UpdateWorkflow(id string, updates map[string]interface{}) (*models.AutomationWorkflow, error) {
	var workflow models.AutomationWorkflow
	if err := s.DB.First(&workflow, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("自动化流程不存在")
		}
		return nil, err
	}

	if err := s.DB.Model(&workflow).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := s.DB.First(&workflow, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &workflow, nil
}

// 3 EnsureDefaultWorkflows 确保内置流程配置存在（幂等）
func (s *AutomationService) EnsureDefaultWorkflows() error {
	var existing models.AutomationWorkflow
	err := s.DB.Where("kind = ?", models.WorkflowKindSLAReassign).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	workflow := models.AutomationWorkflow{
		Name:          "Overdue lead reassignment",
		Kind:          models.WorkflowKindSLAReassign,
		Enabled:       true,
		ThresholdMins: s.Config.SLAOverdueMins,
	}
	return s.DB.Create(&workflow).Error
}

// 4 ReassignOverdueLeads 改派逾期未跟进的新线索。
// 超过阈值仍未联系的new线索改派给当前在管线索最少的活跃经纪人，
// 每次执行落一条执行记录并通知新经纪人
func (s *AutomationService) ReassignOverdueLeads(thresholdMins int, triggeredBy string) (*models.AutomationExecution, error) {
	var workflow models.AutomationWorkflow
	workflowID := ""
	if err := s.DB.Where("kind = ?", models.WorkflowKindSLAReassign).First(&workflow).Error; err == nil {
		workflowID = workflow.ID
		if !workflow.Enabled && triggeredBy == models.ExecutionTriggerSchedule {
			return nil, nil
		}
		if thresholdMins <= 0 {
			thresholdMins = workflow.ThresholdMins
		}
	}
	if thresholdMins <= 0 {
		thresholdMins = s.Config.SLAOverdueMins
	}

	cutoff := time.Now().Add(-time.Duration(thresholdMins) * time.Minute)

	var overdue []models.Lead
	if err := s.DB.
		Where("status = ? AND last_contacted_at IS NULL AND created_at < ?", models.LeadStatusNew, cutoff).
		Find(&overdue).Error; err != nil {
		return nil, err
	}

	var details []reassignDetail
	for i := range overdue {
		lead := &overdue[i]

		exclude := ""
		if lead.AgentID != nil {
			exclude = *lead.AgentID
		}
		agentID, err := s.pickLeastLoadedAgent(exclude)
		if err != nil {
			logger.Warning("选择改派经纪人失败: %v", err)
			continue
		}
		if agentID == "" || agentID == exclude {
			continue
		}

		if err := s.DB.Model(lead).Update("agent_id", agentID).Error; err != nil {
			logger.Warning("改派线索 %s 失败: %v", lead.ID, err)
			continue
		}

		details = append(details, reassignDetail{
			LeadID:      lead.ID,
			FromAgentID: exclude,
			ToAgentID:   agentID,
		})

		if s.Notifications != nil {
			if _, err := s.Notifications.Notify(agentID,
				"Lead reassigned to you",
				fmt.Sprintf("Lead %s was reassigned after %d minutes without contact", lead.Name, thresholdMins),
				models.NotificationKindSLA); err != nil {
				logger.Warning("改派通知推送失败: %v", err)
			}
		}
	}

	detailJSON, _ := json.Marshal(details)
	execution := models.AutomationExecution{
		WorkflowID:    workflowID,
		TriggeredBy:   triggeredBy,
		AffectedCount: len(details),
		Details:       string(detailJSON),
	}
	if err := s.DB.Create(&execution).Error; err != nil {
		return nil, err
	}

	return &execution, nil
}

// pickLeastLoadedAgent 选择当前在管未关闭线索最少的活跃经纪人
func (s *AutomationService) pickLeastLoadedAgent(excludeID string) (string, error) {
	var agents []models.User
	query := s.DB.Where("role = ? AND status = ?", models.RoleAgent, models.UserStatusActive)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&agents).Error; err != nil {
		return "", err
	}
	if len(agents) == 0 {
		return "", nil
	}

	best := ""
	bestCount := int64(-1)
	for _, agent := range agents {
		var count int64
		if err := s.DB.Model(&models.Lead{}).
			Where("agent_id = ? AND status NOT IN ?", agent.ID,
				[]string{models.LeadStatusWon, models.LeadStatusLost}).
			Count(&count).Error; err != nil {
			return "", err
		}
		if bestCount < 0 || count < bestCount {
			best = agent.ID
			bestCount = count
		}
	}
	return best, nil
}

// 5 GetExecutions 分页获取自动化执行记录
func (s *AutomationService) GetExecutions(page, pageSize int) ([]models.AutomationExecution, int64, error) {
	var executions []models.AutomationExecution
	var total int64

	query := s.DB.Model(&models.AutomationExecution{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&executions).Error; err != nil {
		return nil, 0, err
	}

	return executions, total, nil
}

// 6 StartScheduler 启动SLA定时扫描任务
func (s *AutomationService) StartScheduler() {
	if s.Config.SLASweepInterval <= 0 {
		logger.Info("SLA定时扫描已禁用")
		return
	}
	if s.stopCh != nil {
		return
	}

	s.stopCh = make(chan struct{})
	interval := time.Duration(s.Config.SLASweepInterval) * time.Minute

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Info("SLA定时扫描已启动，周期 %v", interval)
		for {
			select {
			case <-ticker.C:
				execution, err := s.ReassignOverdueLeads(0, models.ExecutionTriggerSchedule)
				if err != nil {
					logger.Error("SLA定时扫描失败: %v", err)
					continue
				}
				if execution != nil && execution.AffectedCount > 0 {
					logger.Info("SLA定时扫描完成，改派 %d 条线索", execution.AffectedCount)
				}
			case <-s.stopCh:
				logger.Info("SLA定时扫描已停止")
				return
			}
		}
	}()
}

// 7 StopScheduler 停止SLA定时扫描任务
func (s *AutomationService) StopScheduler() {
	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
}
