package services

import (
	"testing"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCommunicationService(t *testing.T) (InterfaceCommunicationService, InterfaceContactService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := newTestConfig()
	contacts := NewContactService(db, cfg, nil)
	return NewCommunicationService(db, cfg, contacts), contacts, db
}

func TestLogCallOutcomeAdvancesNewLead(t *testing.T) {
	svc, _, db := newCommunicationService(t)

	lead := models.Lead{Name: "Jane Doe", Status: models.LeadStatusNew}
	require.NoError(t, db.Create(&lead).Error)

	comm, err := svc.LogCallOutcome(lead.ID, "agent-1", models.CallOutcomeAnswered, "discussed budget", nil)
	require.NoError(t, err)
	assert.Equal(t, models.CommChannelCall, comm.Channel)
	assert.Equal(t, models.CallOutcomeAnswered, comm.Outcome)

	var updated models.Lead
	require.NoError(t, db.First(&updated, "id = ?", lead.ID).Error)
	assert.Equal(t, models.LeadStatusContacted, updated.Status)
	require.NotNil(t, updated.LastContactedAt)
	assert.WithinDuration(t, time.Now(), *updated.LastContactedAt, 5*time.Second)

	// 自动推进留下了变更记录
	var change models.LeadStatusChange
	require.NoError(t, db.Where("lead_id = ?", lead.ID).First(&change).Error)
	assert.Equal(t, "call logged", change.Reason)
}

func TestLogCallOutcomeKeepsAdvancedStatus(t *testing.T) {
	svc, _, db := newCommunicationService(t)

	lead := models.Lead{Name: "Jane Doe", Status: models.LeadStatusQualified}
	require.NoError(t, db.Create(&lead).Error)

	_, err := svc.LogCallOutcome(lead.ID, "agent-1", models.CallOutcomeNoAnswer, "", nil)
	require.NoError(t, err)

	// 已推进的状态不回退也不重复推进
	var updated models.Lead
	require.NoError(t, db.First(&updated, "id = ?", lead.ID).Error)
	assert.Equal(t, models.LeadStatusQualified, updated.Status)

	var count int64
	require.NoError(t, db.Model(&models.LeadStatusChange{}).Where("lead_id = ?", lead.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestLogCallOutcomeWithCallbackCreatesFollowUp(t *testing.T) {
	svc, _, db := newCommunicationService(t)

	lead := models.Lead{Name: "Jane Doe", Status: models.LeadStatusContacted}
	require.NoError(t, db.Create(&lead).Error)

	callback := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	_, err := svc.LogCallOutcome(lead.ID, "agent-1", models.CallOutcomeCallback, "call back Friday", &callback)
	require.NoError(t, err)

	var event models.CalendarEvent
	require.NoError(t, db.Where("lead_id = ?", lead.ID).First(&event).Error)
	assert.Equal(t, "Callback: Jane Doe", event.Title)
	assert.Equal(t, models.EventTypeFollowUp, event.EventType)
	assert.Equal(t, models.EventStatusScheduled, event.Status)
	assert.WithinDuration(t, callback, event.StartAt, time.Second)
}

func TestLogCallOutcomeUnknownLeadFails(t *testing.T) {
	svc, _, _ := newCommunicationService(t)

	_, err := svc.LogCallOutcome("no-such-lead", "agent-1", models.CallOutcomeAnswered, "", nil)
	require.Error(t, err)
	assert.Equal(t, "线索不存在", err.Error())
}

func TestLogCallOutcomeRecomputesLinkedContact(t *testing.T) {
	svc, contacts, db := newCommunicationService(t)

	contact := models.Contact{Name: "Jane Doe", StatusEffective: models.ContactStatusPast}
	require.NoError(t, db.Create(&contact).Error)
	lead := models.Lead{Name: "Jane Doe", Status: models.LeadStatusContacted, ContactID: &contact.ID}
	require.NoError(t, db.Create(&lead).Error)

	_, err := svc.LogCallOutcome(lead.ID, "agent-1", models.CallOutcomeAnswered, "", nil)
	require.NoError(t, err)

	// 通话触发了联系人状态重算
	got, err := contacts.GetContactByID(contact.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusActive, got.StatusEffective)
}

func TestGetLeadCommunicationsPaginated(t *testing.T) {
	svc, _, db := newCommunicationService(t)

	lead := models.Lead{Name: "Chatty Client", Status: models.LeadStatusContacted}
	require.NoError(t, db.Create(&lead).Error)

	for i := 0; i < 5; i++ {
		_, err := svc.LogCallOutcome(lead.ID, "agent-1", models.CallOutcomeAnswered, "", nil)
		require.NoError(t, err)
	}

	comms, total, err := svc.GetLeadCommunications(lead.ID, 1, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, comms, 3)

	comms, _, err = svc.GetLeadCommunications(lead.ID, 2, 3)
	require.NoError(t, err)
	assert.Len(t, comms, 2)
}
