package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultWorkflowsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewAutomationService(db, newTestConfig(), nil)

	require.NoError(t, svc.EnsureDefaultWorkflows())
	require.NoError(t, svc.EnsureDefaultWorkflows())

	workflows, err := svc.GetWorkflows()
	require.NoError(t, err)
	require.Len(t, workflows, 1)
	assert.Equal(t, models.WorkflowKindSLAReassign, workflows[0].Kind)
	assert.True(t, workflows[0].Enabled)
	assert.Equal(t, 30, workflows[0].ThresholdMins)
}

func TestReassignOverdueLeadsPicksLeastLoadedAgent(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	svc := NewAutomationService(db, cfg, nil)
	require.NoError(t, svc.EnsureDefaultWorkflows())

	busy := createTestAgent(t, db, "busy_agent")
	idle := createTestAgent(t, db, "idle_agent")

	// busy名下已有两条在管线索
	for i := 0; i < 2; i++ {
		open := models.Lead{Name: "Open Lead", Status: models.LeadStatusContacted, AgentID: &busy.ID}
		require.NoError(t, db.Create(&open).Error)
	}

	// busy名下一条逾期未联系的新线索
	overdue := models.Lead{Name: "Stale Lead", Status: models.LeadStatusNew, AgentID: &busy.ID}
	require.NoError(t, db.Create(&overdue).Error)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&overdue).Update("created_at", past).Error)

	execution, err := svc.ReassignOverdueLeads(0, models.ExecutionTriggerManual)
	require.NoError(t, err)
	require.NotNil(t, execution)
	assert.Equal(t, 1, execution.AffectedCount)
	assert.Equal(t, models.ExecutionTriggerManual, execution.TriggeredBy)

	// 线索改派到了空闲经纪人
	var updated models.Lead
	require.NoError(t, db.First(&updated, "id = ?", overdue.ID).Error)
	require.NotNil(t, updated.AgentID)
	assert.Equal(t, idle.ID, *updated.AgentID)

	// 执行明细记录了改派前后的经纪人
	var details []map[string]string
	require.NoError(t, json.Unmarshal([]byte(execution.Details), &details))
	require.Len(t, details, 1)
	assert.Equal(t, overdue.ID, details[0]["lead_id"])
	assert.Equal(t, busy.ID, details[0]["from_agent_id"])
	assert.Equal(t, idle.ID, details[0]["to_agent_id"])
}

func TestReassignSkipsFreshAndContactedLeads(t *testing.T) {
	db := newTestDB(t)
	svc := NewAutomationService(db, newTestConfig(), nil)
	require.NoError(t, svc.EnsureDefaultWorkflows())
	createTestAgent(t, db, "idle_agent")

	// 新鲜线索在阈值内
	fresh := models.Lead{Name: "Fresh Lead", Status: models.LeadStatusNew}
	require.NoError(t, db.Create(&fresh).Error)

	// 已联系过的线索不算逾期
	now := time.Now()
	handled := models.Lead{Name: "Handled Lead", Status: models.LeadStatusNew, LastContactedAt: &now}
	require.NoError(t, db.Create(&handled).Error)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&handled).Update("created_at", past).Error)

	execution, err := svc.ReassignOverdueLeads(0, models.ExecutionTriggerManual)
	require.NoError(t, err)
	require.NotNil(t, execution)
	assert.Equal(t, 0, execution.AffectedCount)
}

func TestReassignDisabledWorkflowSkipsScheduledRun(t *testing.T) {
	db := newTestDB(t)
	svc := NewAutomationService(db, newTestConfig(), nil)
	require.NoError(t, svc.EnsureDefaultWorkflows())

	workflows, err := svc.GetWorkflows()
	require.NoError(t, err)
	_, err = svc.UpdateWorkflow(workflows[0].ID, map[string]interface{}{"enabled": false})
	require.NoError(t, err)

	// 定时触发在禁用时直接跳过，不落执行记录
	execution, err := svc.ReassignOverdueLeads(0, models.ExecutionTriggerSchedule)
	require.NoError(t, err)
	assert.Nil(t, execution)

	_, total, err := svc.GetExecutions(1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	// 手动触发不受禁用开关影响
	execution, err = svc.ReassignOverdueLeads(0, models.ExecutionTriggerManual)
	require.NoError(t, err)
	assert.NotNil(t, execution)
}

func TestReassignNoEligibleAgentLeavesLeadUntouched(t *testing.T) {
	db := newTestDB(t)
	svc := NewAutomationService(db, newTestConfig(), nil)
	require.NoError(t, svc.EnsureDefaultWorkflows())

	// 唯一的经纪人就是当前负责人，无人可接
	agent := createTestAgent(t, db, "only_agent")
	overdue := models.Lead{Name: "Stuck Lead", Status: models.LeadStatusNew, AgentID: &agent.ID}
	require.NoError(t, db.Create(&overdue).Error)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&overdue).Update("created_at", past).Error)

	execution, err := svc.ReassignOverdueLeads(0, models.ExecutionTriggerManual)
	require.NoError(t, err)
	require.NotNil(t, execution)
	assert.Equal(t, 0, execution.AffectedCount)

	var updated models.Lead
	require.NoError(t, db.First(&updated, "id = ?", overdue.ID).Error)
	assert.Equal(t, agent.ID, *updated.AgentID)
}

func TestUpdateWorkflowNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewAutomationService(db, newTestConfig(), nil)

	_, err := svc.UpdateWorkflow("no-such-workflow", map[string]interface{}{"enabled": false})
	require.Error(t, err)
	assert.Equal(t, "自动化流程不存在", err.Error())
}
