package services

import (
	"testing"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertLeadMatchesExistingContactByEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeadService(db, newTestConfig(), nil)

	existing := models.Contact{Name: "Jane Doe", Email: "jane@example.com"}
	require.NoError(t, db.Create(&existing).Error)

	// 邮箱大小写和首尾空白不影响匹配
	lead := models.Lead{Name: "Jane D.", Email: "  Jane@Example.COM "}
	require.NoError(t, svc.CreateLead(&lead))

	contact, err := svc.ConvertLeadToContact(lead.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, contact.ID)

	// 线索回指既有联系人，没有新建记录
	got, err := svc.GetLeadByID(lead.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ContactID)
	assert.Equal(t, existing.ID, *got.ContactID)

	var count int64
	require.NoError(t, db.Model(&models.Contact{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestConvertLeadMatchesExistingContactByPhoneDigits(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeadService(db, newTestConfig(), nil)

	existing := models.Contact{Name: "Ali Hassan", Phone: "+971 50 123 4567"}
	require.NoError(t, db.Create(&existing).Error)

	// 格式不同但数字序列一致
	lead := models.Lead{Name: "Ali H.", Phone: "971-501-234-567"}
	require.NoError(t, svc.CreateLead(&lead))

	contact, err := svc.ConvertLeadToContact(lead.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, contact.ID)
}

func TestConvertLeadCreatesContactWhenNoMatch(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeadService(db, newTestConfig(), nil)

	agent := createTestAgent(t, db, "agent_smith")
	lead := models.Lead{Name: "New Client", Email: "new@example.com", AgentID: &agent.ID}
	require.NoError(t, svc.CreateLead(&lead))

	contact, err := svc.ConvertLeadToContact(lead.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "New Client", contact.Name)
	assert.Equal(t, "new@example.com", contact.Email)
	assert.Equal(t, models.StatusModeAuto, contact.StatusMode)
	assert.Equal(t, models.ContactStatusActive, contact.StatusEffective)
	require.NotNil(t, contact.AgentID)
	assert.Equal(t, agent.ID, *contact.AgentID)
}

func TestConvertLeadTwiceFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeadService(db, newTestConfig(), nil)

	lead := models.Lead{Name: "Repeat Client", Email: "repeat@example.com"}
	require.NoError(t, svc.CreateLead(&lead))

	_, err := svc.ConvertLeadToContact(lead.ID, "admin-1")
	require.NoError(t, err)

	_, err = svc.ConvertLeadToContact(lead.ID, "admin-1")
	require.Error(t, err)
	assert.Equal(t, "线索已转化为联系人", err.Error())
}

func TestCreateLeadDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeadService(db, newTestConfig(), nil)

	lead := models.Lead{Name: "Walk In", Priority: "urgent"}
	require.NoError(t, svc.CreateLead(&lead))

	got, err := svc.GetLeadByID(lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusNew, got.Status)
	// 集合外的优先级收敛为medium
	assert.Equal(t, models.LeadPriorityMedium, got.Priority)
}

func TestUpdateLeadStatusWritesChangeRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeadService(db, newTestConfig(), nil)

	lead := models.Lead{Name: "Tracked Lead"}
	require.NoError(t, svc.CreateLead(&lead))

	updated, err := svc.UpdateLeadStatus(lead.ID, models.LeadStatusQualified, "phone screening", "agent-1")
	require.NoError(t, err)
	assert.Equal(t, models.LeadStatusQualified, updated.Status)

	var change models.LeadStatusChange
	require.NoError(t, db.Where("lead_id = ?", lead.ID).First(&change).Error)
	require.NotNil(t, change.OldStatus)
	assert.Equal(t, models.LeadStatusNew, *change.OldStatus)
	assert.Equal(t, models.LeadStatusQualified, change.NewStatus)
	assert.Equal(t, "phone screening", change.Reason)
}

func TestAssignLeadUnknownAgentFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeadService(db, newTestConfig(), nil)

	lead := models.Lead{Name: "Unassigned"}
	require.NoError(t, svc.CreateLead(&lead))

	_, err := svc.AssignLead(lead.ID, "no-such-agent", "admin-1")
	require.Error(t, err)
	assert.Equal(t, "用户不存在", err.Error())
}

func TestImportLeadsAssignsAgentAndJoinsTags(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeadService(db, newTestConfig(), nil)

	agent := createTestAgent(t, db, "importer")
	imported := []models.ImportedLead{
		{
			Name:         "Bulk One",
			Email:        "bulk1@example.com",
			Status:       models.LeadStatusNew,
			Priority:     models.LeadPriorityHigh,
			InterestTags: []string{"villa", "waterfront"},
			ContactPref:  []string{"email"},
		},
		{
			Name:   "Bulk Two",
			Phone:  "+971502223344",
			Status: models.LeadStatusContacted,
		},
	}

	created, err := svc.ImportLeads(imported, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	var leads []models.Lead
	require.NoError(t, db.Order("name").Find(&leads).Error)
	require.Len(t, leads, 2)
	assert.Equal(t, "villa,waterfront", leads[0].InterestTags)
	require.NotNil(t, leads[0].AgentID)
	assert.Equal(t, agent.ID, *leads[0].AgentID)
	assert.Equal(t, models.LeadStatusContacted, leads[1].Status)
}

func TestGetLeadStatisticsCountsOverdue(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	svc := NewLeadService(db, cfg, nil)

	// 超过阈值且从未联系的新线索计入overdue
	overdue := models.Lead{Name: "Stale Lead", Status: models.LeadStatusNew}
	require.NoError(t, db.Create(&overdue).Error)
	past := time.Now().Add(-time.Duration(cfg.SLAOverdueMins+10) * time.Minute)
	require.NoError(t, db.Model(&overdue).Update("created_at", past).Error)

	// 已联系过的同龄线索不计入
	contacted := models.Lead{Name: "Handled Lead", Status: models.LeadStatusNew}
	now := time.Now()
	contacted.LastContactedAt = &now
	require.NoError(t, db.Create(&contacted).Error)
	require.NoError(t, db.Model(&contacted).Update("created_at", past).Error)

	// 新鲜线索不计入
	fresh := models.Lead{Name: "Fresh Lead", Status: models.LeadStatusNew}
	require.NoError(t, db.Create(&fresh).Error)

	stats, err := svc.GetLeadStatistics()
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats["total"])
	assert.EqualValues(t, 3, stats[models.LeadStatusNew])
	assert.EqualValues(t, 1, stats["overdue"])
}
