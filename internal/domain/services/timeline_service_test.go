package services

import (
	"testing"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetContactTimelineMergesAllSources(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	contacts := NewContactService(db, cfg, nil)
	svc := NewTimelineService(db, cfg, contacts)

	contact := models.Contact{Name: "Jane Doe"}
	require.NoError(t, db.Create(&contact).Error)
	lead := models.Lead{Name: "Jane Doe", ContactID: &contact.ID}
	require.NoError(t, db.Create(&lead).Error)
	property := models.Property{Title: "Marina Apartment"}
	require.NoError(t, db.Create(&property).Error)
	link := models.ContactProperty{ContactID: contact.ID, PropertyID: property.ID, Role: models.LinkRoleBuyerInterest}
	require.NoError(t, db.Create(&link).Error)

	// 五个来源各一条
	old := models.ContactStatusChange{ContactID: contact.ID, NewStatus: models.ContactStatusPast, Reason: "manual override"}
	require.NoError(t, db.Create(&old).Error)
	leadChange := models.LeadStatusChange{LeadID: lead.ID, NewStatus: models.LeadStatusQualified, Reason: "phone screening"}
	require.NoError(t, db.Create(&leadChange).Error)
	propChange := models.PropertyStatusChange{PropertyID: property.ID, NewStatus: models.PropertyStatusPending, Reason: "offer accepted"}
	require.NoError(t, db.Create(&propChange).Error)
	activity := models.Activity{LeadID: lead.ID, Type: models.ActivityTypeNote, Description: "Wants 3 bedrooms"}
	require.NoError(t, db.Create(&activity).Error)
	file := models.ContactFile{ContactID: contact.ID, FileName: "passport.pdf"}
	require.NoError(t, db.Create(&file).Error)

	items, err := svc.GetContactTimeline(contact.ID)
	require.NoError(t, err)
	require.Len(t, items, 5)

	types := make(map[string]bool)
	for _, item := range items {
		types[item.Type] = true
	}
	assert.True(t, types[models.TimelineStatusChange])
	assert.True(t, types[models.TimelineLeadChange])
	assert.True(t, types[models.TimelinePropertyChange])
	assert.True(t, types[models.TimelineActivity])
	assert.True(t, types[models.TimelineFileUpload])
}

func TestGetContactTimelineOrderedNewestFirst(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	contacts := NewContactService(db, cfg, nil)
	svc := NewTimelineService(db, cfg, contacts)

	contact := models.Contact{Name: "Jane Doe"}
	require.NoError(t, db.Create(&contact).Error)
	lead := models.Lead{Name: "Jane Doe", ContactID: &contact.ID}
	require.NoError(t, db.Create(&lead).Error)

	// 错开时间戳的三条记录
	now := time.Now()
	for _, offset := range []time.Duration{-3 * time.Hour, -1 * time.Hour, -2 * time.Hour} {
		activity := models.Activity{LeadID: lead.ID, Type: models.ActivityTypeCall, Title: "Call"}
		require.NoError(t, db.Create(&activity).Error)
		require.NoError(t, db.Model(&activity).Update("created_at", now.Add(offset)).Error)
	}

	items, err := svc.GetContactTimeline(contact.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// 时间戳非递增
	for i := 1; i < len(items); i++ {
		assert.False(t, items[i].Timestamp.After(items[i-1].Timestamp),
			"timeline item %d is newer than item %d", i, i-1)
	}
}

func TestGetContactTimelineIncludesAliasHistory(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	contacts := NewContactService(db, cfg, nil)
	svc := NewTimelineService(db, cfg, contacts)

	contact := models.Contact{Name: "Jane Doe"}
	require.NoError(t, db.Create(&contact).Error)
	lead1 := models.Lead{Name: "Jane Doe", ContactID: &contact.ID}
	lead2 := models.Lead{Name: "J. Doe", ContactID: &contact.ID}
	require.NoError(t, db.Create(&lead1).Error)
	require.NoError(t, db.Create(&lead2).Error)

	// 两条线索别名各有历史
	require.NoError(t, db.Create(&models.Activity{LeadID: lead1.ID, Type: models.ActivityTypeCall}).Error)
	require.NoError(t, db.Create(&models.Activity{LeadID: lead2.ID, Type: models.ActivityTypeEmail}).Error)

	items, err := svc.GetContactTimeline(contact.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestGetContactTimelineEmptyContact(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	contacts := NewContactService(db, cfg, nil)
	svc := NewTimelineService(db, cfg, contacts)

	items, err := svc.GetContactTimeline("unknown-id")
	require.NoError(t, err)
	assert.Empty(t, items)
}
