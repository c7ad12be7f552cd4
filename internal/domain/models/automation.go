package models

import (
	"time"

	"gorm.io/gorm"
)

// 自动化流程类型
const (
	WorkflowKindSLAReassign = "sla_reassign"
)

// 自动化执行触发方式
const (
	ExecutionTriggerSchedule = "schedule"
	ExecutionTriggerManual   = "manual"
)

// AutomationWorkflow 自动化流程配置
type AutomationWorkflow struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	Kind          string    `gorm:"type:varchar(30);not null;index" json:"kind"`
	Enabled       bool      `gorm:"not null;default:true" json:"enabled"`
	ThresholdMins int       `gorm:"not null;default:30" json:"threshold_mins"`
	Config        string    `gorm:"type:text" json:"config"` // JSON扩展配置
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 对应automation_workflows关系
func (AutomationWorkflow) TableName() string {
	return "automation_workflows"
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (w *AutomationWorkflow) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = NewID()
	}
	return nil
}

// AutomationExecution 自动化流程执行记录（仅追加）
type AutomationExecution struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	WorkflowID    string    `gorm:"type:varchar(36);index" json:"workflow_id"`
	TriggeredBy   string    `gorm:"type:varchar(20);not null" json:"triggered_by"`
	AffectedCount int       `json:"affected_count"`
	Details       string    `gorm:"type:text" json:"details"` // JSON明细
	CreatedAt     time.Time `json:"created_at"`
}

// TableName 对应automation_executions关系
func (AutomationExecution) TableName() string {
	return "automation_executions"
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (e *AutomationExecution) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = NewID()
	}
	return nil
}
