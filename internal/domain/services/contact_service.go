package services

import (
	"errors"
	"sort"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/logger"

	"gorm.io/gorm"
)

// InterfaceContactService 定义联系人服务接口
type InterfaceContactService interface {
	GetAllContacts(page, pageSize int, search string) ([]models.Contact, int64, error)
	GetContactByID(id string) (*models.Contact, error)
	CreateContact(contact *models.Contact) error
	UpdateContact(id string, updates map[string]interface{}) (*models.Contact, error)
	DeleteContact(id string) error

	ResolveContactIDs(id string) ([]string, error)

	SetManualStatus(contactID, status, actorID string) (*models.Contact, error)
	SetAutoMode(contactID, actorID string) (*models.Contact, error)
	RecomputeContactStatus(contactID, reason string) (string, error)

	LinkContactToProperty(contactID, propertyID, role string) (*models.ContactProperty, error)
	UnlinkContactFromProperty(contactID, propertyID, role string) error
	GetContactProperties(contactID string) ([]models.ContactProperty, error)
}

// ContactService 提供联系人身份解析、状态引擎和房源关联相关的服务
type ContactService struct {
	DB     *gorm.DB
	Config *config.Config
	Audit  InterfaceAuditService
}

// 联系人近期活跃窗口，超过该窗口无任何动态的自动模式联系人判定为past
const contactActiveWindow = 90 * 24 * time.Hour

// NewContactService 创建一个新的联系人服务
func NewContactService(db *gorm.DB, cfg *config.Config, audit InterfaceAuditService) InterfaceContactService {
	return &ContactService{
		DB:     db,
		Config: cfg,
		Audit:  audit,
	}
}

// 1 GetAllContacts 获取联系人列表，支持分页和搜索
func (s *ContactService) GetAllContacts(page, pageSize int, search string) ([]models.Contact, int64, error) {
	var contacts []models.Contact
	var total int64

	query := s.DB.Model(&models.Contact{})

	// 如果有搜索关键词，添加搜索条件
	if search != "" {
		query = query.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&contacts).Error; err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// 2 GetContactByID 根据ID获取联系人
func (s *ContactService) GetContactByID(id string) (*models.Contact, error) {
	var contact models.Contact
	if err := s.DB.First(&contact, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("联系人不存在")
		}
		return nil, err
	}
	return &contact, nil
}

// 3 CreateContact 创建新联系人
func (s *ContactService) CreateContact(contact *models.Contact) error {
	if contact.StatusMode == "" {
		contact.StatusMode = models.StatusModeAuto
	}
	if contact.StatusEffective == "" {
		contact.StatusEffective = models.ContactStatusActive
	}
	return s.DB.Create(contact).Error
}

// 4 UpdateContact 更新联系人信息
func (s *ContactService) UpdateContact(id string, updates map[string]interface{}) (*models.Contact, error) {
	contact, err := s.GetContactByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(contact).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetContactByID(id)
}

// 5 DeleteContact 删除联系人
func (s *ContactService) DeleteContact(id string) error {
	contact, err := s.GetContactByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(contact).Error
}

// 6 ResolveContactIDs 解析指向同一真实客户的全部标识集合。
// 两跳引用方案：线索指向规范联系人，规范联系人被若干线索回指。
// 未知标识不报错，返回只含自身的单元素集合（宽化查询范围的尽力而为语义）
func (s *ContactService) ResolveContactIDs(id string) ([]string, error) {
	idSet := map[string]struct{}{id: {}}

	// 输入本身是线索且带有规范联系人回指
	var lead models.Lead
	err := s.DB.First(&lead, "id = ?", id).Error
	if err == nil {
		if lead.ContactID != nil && *lead.ContactID != "" {
			idSet[*lead.ContactID] = struct{}{}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 所有回指该标识的线索
	var referring []models.Lead
	if err := s.DB.Where("contact_id = ?", id).Find(&referring).Error; err != nil {
		return nil, err
	}
	for _, l := range referring {
		idSet[l.ID] = struct{}{}
	}

	// 输入本身是否存在于规范联系人表（存在性不影响集合内容，自身已在集合中，
	// 但保留该查询以保持与两跳方案的对称，未来扩展合并链时在此扩展）
	var count int64
	if err := s.DB.Model(&models.Contact{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(idSet))
	for k := range idSet {
		ids = append(ids, k)
	}
	sort.Strings(ids)
	return ids, nil
}

// 7 SetManualStatus 手工钉住联系人状态。
// 旧值读取是尽力而为的：读取失败不阻断状态写入，审计记录中旧值为null。
// 审计写入与状态更新不在同一事务中，审计为最终一致（见DESIGN.md）
func (s *ContactService) SetManualStatus(contactID, status, actorID string) (*models.Contact, error) {
	if !models.ValidContactStatus(status) {
		return nil, errors.New("联系人状态值无效")
	}

	// 读取旧值（尽力而为）
	var oldStatus *string
	var contact models.Contact
	if err := s.DB.First(&contact, "id = ?", contactID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("联系人不存在")
		}
		// 非"不存在"类读取失败不阻断写入，旧值记为null
		logger.Warning("读取联系人旧状态失败: %v", err)
	} else {
		old := contact.StatusEffective
		oldStatus = &old
	}

	updates := map[string]interface{}{
		"status_mode":      models.StatusModeManual,
		"status_manual":    status,
		"status_effective": status,
	}
	result := s.DB.Model(&models.Contact{}).Where("id = ?", contactID).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("联系人不存在")
	}

	// 审计追加（尽力而为，失败只记日志）
	change := models.ContactStatusChange{
		ContactID: contactID,
		OldStatus: oldStatus,
		NewStatus: status,
		Reason:    "manual override",
		ChangedBy: actorID,
	}
	if err := s.DB.Create(&change).Error; err != nil {
		logger.Warning("写入联系人状态变更记录失败: %v", err)
	}
	if s.Audit != nil {
		s.Audit.LogSecurityEvent(actorID, "contact_status_manual_set", "contact", contactID,
			map[string]interface{}{"status_effective": oldStatus},
			map[string]interface{}{"status_effective": status})
	}

	return s.GetContactByID(contactID)
}

// 8 SetAutoMode 切回自动状态模式，并立即触发一次状态重算
func (s *ContactService) SetAutoMode(contactID, actorID string) (*models.Contact, error) {
	updates := map[string]interface{}{
		"status_mode":   models.StatusModeAuto,
		"status_manual": "",
	}
	result := s.DB.Model(&models.Contact{}).Where("id = ?", contactID).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("联系人不存在")
	}

	// 切换到自动模式时立即重算一次
	if _, err := s.RecomputeContactStatus(contactID, "mode switch to auto"); err != nil {
		return nil, err
	}

	if s.Audit != nil {
		s.Audit.LogSecurityEvent(actorID, "contact_status_mode_auto", "contact", contactID, nil, nil)
	}

	return s.GetContactByID(contactID)
}

// 9 RecomputeContactStatus 重算联系人有效状态。
// 自动模式下，联系人或其任一别名在活跃窗口内存在跟进活动、沟通记录、
// 进行中的交易或已排期的日程即为active，否则为past。
// 手工模式的联系人不受重算影响
func (s *ContactService) RecomputeContactStatus(contactID, reason string) (string, error) {
	var contact models.Contact
	if err := s.DB.First(&contact, "id = ?", contactID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("联系人不存在")
		}
		return "", err
	}

	if contact.StatusMode == models.StatusModeManual {
		return contact.StatusEffective, nil
	}

	aliases, err := s.ResolveContactIDs(contactID)
	if err != nil {
		return "", err
	}

	since := time.Now().Add(-contactActiveWindow)
	active, err := s.hasRecentEngagement(contactID, aliases, since)
	if err != nil {
		return "", err
	}

	newStatus := models.ContactStatusPast
	if active {
		newStatus = models.ContactStatusActive
	}

	if newStatus != contact.StatusEffective {
		old := contact.StatusEffective
		if err := s.DB.Model(&models.Contact{}).Where("id = ?", contactID).
			Update("status_effective", newStatus).Error; err != nil {
			return "", err
		}

		change := models.ContactStatusChange{
			ContactID: contactID,
			OldStatus: &old,
			NewStatus: newStatus,
			Reason:    reason,
			ChangedBy: "system",
		}
		if err := s.DB.Create(&change).Error; err != nil {
			logger.Warning("写入联系人状态变更记录失败: %v", err)
		}
	}

	return newStatus, nil
}

// hasRecentEngagement 检查联系人及其别名在窗口期内是否有任何动态
func (s *ContactService) hasRecentEngagement(contactID string, aliases []string, since time.Time) (bool, error) {
	var count int64

	// 跟进活动
	if err := s.DB.Model(&models.Activity{}).
		Where("lead_id IN ? AND created_at >= ?", aliases, since).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	// 沟通记录
	if err := s.DB.Model(&models.Communication{}).
		Where("lead_id IN ? AND created_at >= ?", aliases, since).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	// 进行中的交易
	if err := s.DB.Model(&models.Transaction{}).
		Where("(contact_id = ? OR lead_id IN ?) AND stage NOT IN ?",
			contactID, aliases, []string{models.TxStageClosed, models.TxStageFellThrough}).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	// 已排期的日程
	if err := s.DB.Model(&models.CalendarEvent{}).
		Where("lead_id IN ? AND status = ? AND start_at >= ?",
			aliases, models.EventStatusScheduled, since).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// 10 LinkContactToProperty 建立联系人与房源的关联。
// (contact, property, role)三元组唯一，重复插入返回已有记录，不报错不重复建行
func (s *ContactService) LinkContactToProperty(contactID, propertyID, role string) (*models.ContactProperty, error) {
	if !models.ValidLinkRole(role) {
		return nil, errors.New("联系人房源关联角色无效")
	}

	var property models.Property
	if err := s.DB.First(&property, "id = ?", propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("房源不存在")
		}
		return nil, err
	}

	// 幂等：已存在相同三元组时直接返回
	var existing models.ContactProperty
	err := s.DB.Where("contact_id = ? AND property_id = ? AND role = ?",
		contactID, propertyID, role).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	link := models.ContactProperty{
		ContactID:  contactID,
		PropertyID: propertyID,
		Role:       role,
	}
	if err := s.DB.Create(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// 11 UnlinkContactFromProperty 解除联系人与房源的关联
func (s *ContactService) UnlinkContactFromProperty(contactID, propertyID, role string) error {
	return s.DB.Where("contact_id = ? AND property_id = ? AND role = ?",
		contactID, propertyID, role).Delete(&models.ContactProperty{}).Error
}

// 12 GetContactProperties 获取联系人关联的房源。
// 按解析出的别名集合查询，任一别名下的关联数据都可见
func (s *ContactService) GetContactProperties(contactID string) ([]models.ContactProperty, error) {
	aliases, err := s.ResolveContactIDs(contactID)
	if err != nil {
		return nil, err
	}

	var links []models.ContactProperty
	if err := s.DB.Preload("Property").
		Where("contact_id IN ?", aliases).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
