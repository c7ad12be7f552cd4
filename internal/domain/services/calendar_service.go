package services

import (
	"errors"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"

	"gorm.io/gorm"
)

// InterfaceCalendarService 定义日程服务接口
type InterfaceCalendarService interface {
	GetEvents(page, pageSize int, agentID, status string, from, to *time.Time) ([]models.CalendarEvent, int64, error)
	GetEventByID(id string) (*models.CalendarEvent, error)
	CreateEvent(event *models.CalendarEvent) error
	UpdateEvent(id string, updates map[string]interface{}) (*models.CalendarEvent, error)
	DeleteEvent(id string) error
	UpdateEventStatus(id, newStatus string) (*models.CalendarEvent, error)
	GetUpcomingEvents(agentID string, within time.Duration) ([]models.CalendarEvent, error)
}

// CalendarService 提供日程相关的服务
type CalendarService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewCalendarService 创建一个新的日程服务
func NewCalendarService(db *gorm.DB, cfg *config.Config) InterfaceCalendarService {
	return &CalendarService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetEvents 获取日程列表，支持分页及经纪人、状态、时间区间过滤
func (s *CalendarService) GetEvents(page, pageSize int, agentID, status string, from, to *time.Time) ([]models.CalendarEvent, int64, error) {
	var events []models.CalendarEvent
	var total int64

	query := s.DB.Model(&models.CalendarEvent{})

	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if from != nil {
		query = query.Where("start_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("start_at < ?", *to)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("start_at ASC").Limit(pageSize).Offset(offset).Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// 2 GetEventByID 根据ID获取日程
func (s *CalendarService) GetEventByID(id string) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	if err := s.DB.First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("日程不存在")
		}
		return nil, err
	}
	return &event, nil
}

// 3 CreateEvent 创建新日程
func (s *CalendarService) CreateEvent(event *models.CalendarEvent) error {
	if !models.ValidEventType(event.EventType) {
		return errors.New("日程类别无效")
	}
	if event.Status == "" {
		event.Status = models.EventStatusScheduled
	}
	if !models.ValidEventStatus(event.Status) {
		return errors.New("日程状态无效")
	}
	return s.DB.Create(event).Error
}

// 4 UpdateEvent 更新日程信息
func (s *CalendarService) UpdateEvent(id string, updates map[string]interface{}) (*models.CalendarEvent, error) {
	event, err := s.GetEventByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(event).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetEventByID(id)
}

// 5 DeleteEvent 删除日程
func (s *CalendarService) DeleteEvent(id string) error {
	event, err := s.GetEventByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(event).Error
}

// 6 UpdateEventStatus 更新日程状态。
// 状态之间无迁移图约束，任意合法状态可以改为任意合法状态
func (s *CalendarService) UpdateEventStatus(id, newStatus string) (*models.CalendarEvent, error) {
	if !models.ValidEventStatus(newStatus) {
		return nil, errors.New("日程状态无效")
	}

	event, err := s.GetEventByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(event).Update("status", newStatus).Error; err != nil {
		return nil, err
	}

	return s.GetEventByID(id)
}

// 7 GetUpcomingEvents 获取经纪人即将到来的日程
func (s *CalendarService) GetUpcomingEvents(agentID string, within time.Duration) ([]models.CalendarEvent, error) {
	now := time.Now()
	var events []models.CalendarEvent
	err := s.DB.
		Where("agent_id = ? AND status = ? AND start_at BETWEEN ? AND ?",
			agentID, models.EventStatusScheduled, now, now.Add(within)).
		Order("start_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
