package models

import (
	"time"

	"gorm.io/gorm"
)

// 交易阶段
const (
	TxStageOffer         = "offer"
	TxStageUnderContract = "under_contract"
	TxStageClosing       = "closing"
	TxStageClosed        = "closed"
	TxStageFellThrough   = "fell_through"
)

// Transaction 交易（成交流程）
type Transaction struct {
	ID         string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	LeadID     *string    `gorm:"type:varchar(36);index" json:"lead_id"`
	ContactID  *string    `gorm:"type:varchar(36);index" json:"contact_id"`
	PropertyID *string    `gorm:"type:varchar(36);index" json:"property_id"`
	AgentID    string     `gorm:"type:varchar(36);not null" json:"agent_id"`
	Stage      string     `gorm:"type:varchar(20);not null;default:offer" json:"stage"`
	Amount     float64    `json:"amount"`
	ClosedAt   *time.Time `json:"closed_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// IsOpen 交易是否仍在进行中
func (t *Transaction) IsOpen() bool {
	return t.Stage != TxStageClosed && t.Stage != TxStageFellThrough
}

// ValidTxStage 判断是否为合法的交易阶段
func ValidTxStage(s string) bool {
	switch s {
	case TxStageOffer, TxStageUnderContract, TxStageClosing, TxStageClosed, TxStageFellThrough:
		return true
	default:
		return false
	}
}
