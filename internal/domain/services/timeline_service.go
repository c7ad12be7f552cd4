package services

import (
	"fmt"
	"sort"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/logger"

	"gorm.io/gorm"
)

// InterfaceTimelineService 定义时间线服务接口
type InterfaceTimelineService interface {
	GetContactTimeline(contactID string) ([]models.TimelineItem, error)
}

// TimelineService 将五个来源的历史记录合并为一条展示时间线。
// 每次读取都重新拉取并排序，不做缓存。
// 单个来源查询失败时记日志并跳过该来源，返回部分结果
type TimelineService struct {
	DB       *gorm.DB
	Config   *config.Config
	Contacts InterfaceContactService
}

// NewTimelineService 创建一个新的时间线服务
func NewTimelineService(db *gorm.DB, cfg *config.Config, contacts InterfaceContactService) InterfaceTimelineService {
	return &TimelineService{
		DB:       db,
		Config:   cfg,
		Contacts: contacts,
	}
}

// GetContactTimeline 获取联系人的完整时间线（按时间戳倒序）。
// 相同时间戳条目的相对顺序取决于底层查询返回顺序，不额外定义
func (s *TimelineService) GetContactTimeline(contactID string) ([]models.TimelineItem, error) {
	aliases, err := s.Contacts.ResolveContactIDs(contactID)
	if err != nil {
		return nil, err
	}

	var items []models.TimelineItem

	items = append(items, s.contactStatusItems(contactID)...)
	items = append(items, s.leadChangeItems(aliases)...)
	items = append(items, s.propertyChangeItems(aliases)...)
	items = append(items, s.activityItems(aliases)...)
	items = append(items, s.fileUploadItems(contactID)...)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	return items, nil
}

// contactStatusItems 联系人状态变更来源
func (s *TimelineService) contactStatusItems(contactID string) []models.TimelineItem {
	var changes []models.ContactStatusChange
	if err := s.DB.Where("contact_id = ?", contactID).Find(&changes).Error; err != nil {
		logger.Warning("时间线来源contact_status_changes查询失败: %v", err)
		return nil
	}

	items := make([]models.TimelineItem, 0, len(changes))
	for _, c := range changes {
		items = append(items, models.TimelineItem{
			Type:      models.TimelineStatusChange,
			ID:        c.ID,
			Timestamp: c.CreatedAt,
			Title:     fmt.Sprintf("Contact status changed to %s", c.NewStatus),
			Subtitle:  c.Reason,
			Payload:   c,
		})
	}
	return items
}

// leadChangeItems 线索状态变更来源（按别名集合中的线索查询）
func (s *TimelineService) leadChangeItems(aliases []string) []models.TimelineItem {
	var changes []models.LeadStatusChange
	if err := s.DB.Where("lead_id IN ?", aliases).Find(&changes).Error; err != nil {
		logger.Warning("时间线来源lead_status_changes查询失败: %v", err)
		return nil
	}

	items := make([]models.TimelineItem, 0, len(changes))
	for _, c := range changes {
		items = append(items, models.TimelineItem{
			Type:      models.TimelineLeadChange,
			ID:        c.ID,
			Timestamp: c.CreatedAt,
			Title:     fmt.Sprintf("Lead status changed to %s", c.NewStatus),
			Subtitle:  c.Reason,
			Payload:   c,
		})
	}
	return items
}

// propertyChangeItems 房源状态变更来源。
// 间接一跳：先取联系人的房源关联，再按房源ID集合查询变更记录
func (s *TimelineService) propertyChangeItems(aliases []string) []models.TimelineItem {
	var links []models.ContactProperty
	if err := s.DB.Where("contact_id IN ?", aliases).Find(&links).Error; err != nil {
		logger.Warning("时间线来源contact_properties查询失败: %v", err)
		return nil
	}
	if len(links) == 0 {
		return nil
	}

	propertyIDs := make([]string, 0, len(links))
	seen := map[string]struct{}{}
	for _, l := range links {
		if _, ok := seen[l.PropertyID]; ok {
			continue
		}
		seen[l.PropertyID] = struct{}{}
		propertyIDs = append(propertyIDs, l.PropertyID)
	}

	var changes []models.PropertyStatusChange
	if err := s.DB.Where("property_id IN ?", propertyIDs).Find(&changes).Error; err != nil {
		logger.Warning("时间线来源property_status_changes查询失败: %v", err)
		return nil
	}

	items := make([]models.TimelineItem, 0, len(changes))
	for _, c := range changes {
		items = append(items, models.TimelineItem{
			Type:      models.TimelinePropertyChange,
			ID:        c.ID,
			Timestamp: c.CreatedAt,
			Title:     fmt.Sprintf("Property status changed to %s", c.NewStatus),
			Subtitle:  c.Reason,
			Payload:   c,
		})
	}
	return items
}

// activityItems 跟进活动来源（按别名集合中的线索查询）
func (s *TimelineService) activityItems(aliases []string) []models.TimelineItem {
	var activities []models.Activity
	if err := s.DB.Where("lead_id IN ?", aliases).Find(&activities).Error; err != nil {
		logger.Warning("时间线来源activities查询失败: %v", err)
		return nil
	}

	items := make([]models.TimelineItem, 0, len(activities))
	for _, a := range activities {
		title := a.Title
		if title == "" {
			title = fmt.Sprintf("Activity: %s", a.Type)
		}
		items = append(items, models.TimelineItem{
			Type:      models.TimelineActivity,
			ID:        a.ID,
			Timestamp: a.CreatedAt,
			Title:     title,
			Subtitle:  a.Description,
			Payload:   a,
		})
	}
	return items
}

// fileUploadItems 文件上传来源（直接按联系人ID查询）
func (s *TimelineService) fileUploadItems(contactID string) []models.TimelineItem {
	var files []models.ContactFile
	if err := s.DB.Where("contact_id = ?", contactID).Find(&files).Error; err != nil {
		logger.Warning("时间线来源contact_files查询失败: %v", err)
		return nil
	}

	items := make([]models.TimelineItem, 0, len(files))
	for _, f := range files {
		items = append(items, models.TimelineItem{
			Type:      models.TimelineFileUpload,
			ID:        f.ID,
			Timestamp: f.CreatedAt,
			Title:     fmt.Sprintf("File uploaded: %s", f.FileName),
			Subtitle:  f.ContentType,
			Payload:   f,
		})
	}
	return items
}
