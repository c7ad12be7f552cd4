package services

import (
	"errors"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/logger"

	"gorm.io/gorm"
)

// InterfaceTransactionService 定义交易服务接口
type InterfaceTransactionService interface {
	GetTransactions(page, pageSize int, agentID, stage string) ([]models.Transaction, int64, error)
	GetTransactionByID(id string) (*models.Transaction, error)
	CreateTransaction(tx *models.Transaction) error
	UpdateTransactionStage(id, newStage string) (*models.Transaction, error)
}

// TransactionService 提供交易（成交流程）相关的服务
type TransactionService struct {
	DB       *gorm.DB
	Config   *config.Config
	Contacts InterfaceContactService
}

// NewTransactionService 创建一个新的交易服务
func NewTransactionService(db *gorm.DB, cfg *config.Config, contacts InterfaceContactService) InterfaceTransactionService {
	return &TransactionService{
		DB:       db,
		Config:   cfg,
		Contacts: contacts,
	}
}

// 1 GetTransactions 获取交易列表，支持分页及经纪人、阶段过滤
func (s *TransactionService) GetTransactions(page, pageSize int, agentID, stage string) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	query := s.DB.Model(&models.Transaction{})
	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}
	if stage != "" {
		query = query.Where("stage = ?", stage)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&transactions).Error; err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// 2 GetTransactionByID 根据ID获取交易
func (s *TransactionService) GetTransactionByID(id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.DB.First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("交易不存在")
		}
		return nil, err
	}
	return &tx, nil
}

// 3 CreateTransaction 创建新交易
func (s *TransactionService) CreateTransaction(tx *models.Transaction) error {
	if tx.Stage == "" {
		tx.Stage = models.TxStageOffer
	}
	if !models.ValidTxStage(tx.Stage) {
		return errors.New("交易阶段无效")
	}
	if tx.AgentID == "" {
		return errors.New("交易必须指定经纪人")
	}

	if err := s.DB.Create(tx).Error; err != nil {
		return err
	}

	s.recomputeLinkedContact(tx)
	return nil
}

// 4 UpdateTransactionStage 更新交易阶段。
// 进入closed阶段时记录成交时间，阶段变化后重算关联联系人状态
func (s *TransactionService) UpdateTransactionStage(id, newStage string) (*models.Transaction, error) {
	if !models.ValidTxStage(newStage) {
		return nil, errors.New("交易阶段无效")
	}

	tx, err := s.GetTransactionByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"stage": newStage}
	if newStage == models.TxStageClosed && tx.ClosedAt == nil {
		now := time.Now()
		updates["closed_at"] = &now
	}

	if err := s.DB.Model(tx).Updates(updates).Error; err != nil {
		return nil, err
	}

	updated, err := s.GetTransactionByID(id)
	if err != nil {
		return nil, err
	}

	s.recomputeLinkedContact(updated)
	return updated, nil
}

// recomputeLinkedContact 交易是联系人活跃度的输入之一，阶段变化后触发重算
func (s *TransactionService) recomputeLinkedContact(tx *models.Transaction) {
	if s.Contacts == nil || tx.ContactID == nil {
		return
	}
	if _, err := s.Contacts.RecomputeContactStatus(*tx.ContactID, "transaction stage changed"); err != nil {
		logger.Warning("交易阶段变化后重算联系人状态失败: %v", err)
	}
}
