package services

import (
	"testing"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveContactIDsUnknownIDReturnsSingleton(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, newTestConfig(), nil)

	ids, err := svc.ResolveContactIDs("no-such-id")
	require.NoError(t, err)
	assert.Equal(t, []string{"no-such-id"}, ids)
}

func TestResolveContactIDsTwoHop(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, newTestConfig(), nil)

	contact := models.Contact{Name: "Jane Doe", Email: "jane@example.com"}
	require.NoError(t, db.Create(&contact).Error)

	lead1 := models.Lead{Name: "Jane Doe", Email: "jane@example.com", ContactID: &contact.ID}
	lead2 := models.Lead{Name: "J. Doe", Phone: "+971501234567", ContactID: &contact.ID}
	require.NoError(t, db.Create(&lead1).Error)
	require.NoError(t, db.Create(&lead2).Error)

	// 从规范联系人出发，集合包含自身和全部回指线索
	ids, err := svc.ResolveContactIDs(contact.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{contact.ID, lead1.ID, lead2.ID}, ids)

	// 从线索出发，集合包含自身和规范联系人（不展开兄弟线索）
	ids, err = svc.ResolveContactIDs(lead1.ID)
	require.NoError(t, err)
	assert.Contains(t, ids, lead1.ID)
	assert.Contains(t, ids, contact.ID)
}

func TestSetManualStatusPinsValue(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, newTestConfig(), nil)

	contact := models.Contact{Name: "Pinned Client"}
	require.NoError(t, svc.CreateContact(&contact))

	updated, err := svc.SetManualStatus(contact.ID, models.ContactStatusPast, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusModeManual, updated.StatusMode)
	assert.Equal(t, models.ContactStatusPast, updated.StatusEffective)

	// 手工模式下重算不改变有效状态，即使存在近期动态
	lead := models.Lead{Name: "Pinned Client", ContactID: &contact.ID}
	require.NoError(t, db.Create(&lead).Error)
	comm := models.Communication{LeadID: lead.ID, AgentID: "agent-1", Channel: models.CommChannelCall}
	require.NoError(t, db.Create(&comm).Error)

	status, err := svc.RecomputeContactStatus(contact.ID, "test")
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusPast, status)
}

func TestSetManualStatusRejectsInvalidValue(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, newTestConfig(), nil)

	contact := models.Contact{Name: "Someone"}
	require.NoError(t, svc.CreateContact(&contact))

	_, err := svc.SetManualStatus(contact.ID, "archived", "admin-1")
	require.Error(t, err)
	assert.Equal(t, "联系人状态值无效", err.Error())
}

func TestSetAutoModeTriggersRecompute(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, newTestConfig(), nil)

	contact := models.Contact{Name: "Quiet Client"}
	require.NoError(t, svc.CreateContact(&contact))

	// 钉成active，但没有任何窗口内动态
	_, err := svc.SetManualStatus(contact.ID, models.ContactStatusActive, "admin-1")
	require.NoError(t, err)

	// 切回自动模式后立即重算，无动态则降为past
	updated, err := svc.SetAutoMode(contact.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusModeAuto, updated.StatusMode)
	assert.Equal(t, models.ContactStatusPast, updated.StatusEffective)

	// 状态确实变化过，变更记录只追加了降级那一条
	var changes []models.ContactStatusChange
	require.NoError(t, db.Where("contact_id = ? AND changed_by = ?", contact.ID, "system").Find(&changes).Error)
	require.Len(t, changes, 1)
	assert.Equal(t, models.ContactStatusPast, changes[0].NewStatus)
}

func TestRecomputeStatusActiveWithRecentAliasEngagement(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, newTestConfig(), nil)

	contact := models.Contact{Name: "Busy Client", StatusEffective: models.ContactStatusPast}
	require.NoError(t, db.Create(&contact).Error)

	lead := models.Lead{Name: "Busy Client", ContactID: &contact.ID}
	require.NoError(t, db.Create(&lead).Error)

	// 别名线索下的沟通记录算作联系人的动态
	comm := models.Communication{LeadID: lead.ID, AgentID: "agent-1", Channel: models.CommChannelCall}
	require.NoError(t, db.Create(&comm).Error)

	status, err := svc.RecomputeContactStatus(contact.ID, "test")
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusActive, status)
}

func TestRecomputeStatusPastWithoutEngagement(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, newTestConfig(), nil)

	contact := models.Contact{Name: "Idle Client", StatusEffective: models.ContactStatusActive}
	require.NoError(t, db.Create(&contact).Error)

	status, err := svc.RecomputeContactStatus(contact.ID, "test")
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusPast, status)
}

func TestRecomputeStatusOpenTransactionKeepsActive(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, newTestConfig(), nil)

	contact := models.Contact{Name: "Closing Client", StatusEffective: models.ContactStatusPast}
	require.NoError(t, db.Create(&contact).Error)

	tx := models.Transaction{ContactID: &contact.ID, Stage: models.TxStageOffer}
	require.NoError(t, db.Create(&tx).Error)

	status, err := svc.RecomputeContactStatus(contact.ID, "test")
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusActive, status)
}

func TestLinkContactToPropertyIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, newTestConfig(), nil)

	contact := models.Contact{Name: "Buyer"}
	require.NoError(t, svc.CreateContact(&contact))
	property := models.Property{Title: "Marina Apartment", Status: models.PropertyStatusAvailable}
	require.NoError(t, db.Create(&property).Error)

	first, err := svc.LinkContactToProperty(contact.ID, property.ID, models.LinkRoleBuyerInterest)
	require.NoError(t, err)

	second, err := svc.LinkContactToProperty(contact.ID, property.ID, models.LinkRoleBuyerInterest)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.ContactProperty{}).
		Where("contact_id = ? AND property_id = ?", contact.ID, property.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// 不同角色是另一条关联
	_, err = svc.LinkContactToProperty(contact.ID, property.ID, models.LinkRoleInvestor)
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.ContactProperty{}).
		Where("contact_id = ? AND property_id = ?", contact.ID, property.ID).
		Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestLinkContactToPropertyRejectsInvalidRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, newTestConfig(), nil)

	_, err := svc.LinkContactToProperty("c1", "p1", "landlord")
	require.Error(t, err)
	assert.Equal(t, "联系人房源关联角色无效", err.Error())
}

func TestGetContactPropertiesIncludesAliasLinks(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, newTestConfig(), nil)

	contact := models.Contact{Name: "Buyer"}
	require.NoError(t, svc.CreateContact(&contact))
	lead := models.Lead{Name: "Buyer", ContactID: &contact.ID}
	require.NoError(t, db.Create(&lead).Error)

	property := models.Property{Title: "Downtown Villa"}
	require.NoError(t, db.Create(&property).Error)

	// 关联挂在线索别名上
	_, err := svc.LinkContactToProperty(lead.ID, property.ID, models.LinkRoleTenant)
	require.NoError(t, err)

	// 从规范联系人查询仍然可见
	links, err := svc.GetContactProperties(contact.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, property.ID, links[0].PropertyID)
}

func TestSetManualStatusWritesChangeRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db, newTestConfig(), nil)

	contact := models.Contact{Name: "Tracked Client"}
	require.NoError(t, svc.CreateContact(&contact))

	_, err := svc.SetManualStatus(contact.ID, models.ContactStatusPast, "admin-1")
	require.NoError(t, err)

	var change models.ContactStatusChange
	require.NoError(t, db.Where("contact_id = ?", contact.ID).First(&change).Error)
	assert.Equal(t, "manual override", change.Reason)
	assert.Equal(t, "admin-1", change.ChangedBy)
	require.NotNil(t, change.OldStatus)
	assert.Equal(t, models.ContactStatusActive, *change.OldStatus)
	assert.Equal(t, models.ContactStatusPast, change.NewStatus)
	assert.WithinDuration(t, time.Now(), change.CreatedAt, 5*time.Second)
}
