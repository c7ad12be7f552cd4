package services

import (
	"testing"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePropertyDefaultsToAvailable(t *testing.T) {
	db := newTestDB(t)
	svc := NewPropertyService(db, newTestConfig())

	property := models.Property{Title: "Marina View 2BR", City: "Dubai"}
	require.NoError(t, svc.CreateProperty(&property))
	assert.Equal(t, models.PropertyStatusAvailable, property.Status)
}

func TestGetAllPropertiesFilterAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewPropertyService(db, newTestConfig())

	seed := []models.Property{
		{Title: "Marina View 2BR", City: "Dubai", Status: models.PropertyStatusAvailable},
		{Title: "Palm Villa", City: "Dubai", Status: models.PropertyStatusSold},
		{Title: "Downtown Loft", City: "Abu Dhabi", Status: models.PropertyStatusAvailable},
	}
	for i := range seed {
		require.NoError(t, svc.CreateProperty(&seed[i]))
	}

	properties, total, err := svc.GetAllProperties(1, 10, models.PropertyStatusAvailable, "Dubai", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, properties, 1)
	assert.Equal(t, "Marina View 2BR", properties[0].Title)

	// 搜索同时匹配标题和地址
	_, total, err = svc.GetAllProperties(1, 10, "", "", "villa")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestUpdatePropertyStatusRecordsChange(t *testing.T) {
	db := newTestDB(t)
	svc := NewPropertyService(db, newTestConfig())

	property := models.Property{Title: "Palm Villa", City: "Dubai"}
	require.NoError(t, svc.CreateProperty(&property))

	updated, err := svc.UpdatePropertyStatus(property.ID, models.PropertyStatusPending, "offer accepted", "agent-1")
	require.NoError(t, err)
	assert.Equal(t, models.PropertyStatusPending, updated.Status)

	var change models.PropertyStatusChange
	require.NoError(t, db.Where("property_id = ?", property.ID).First(&change).Error)
	require.NotNil(t, change.OldStatus)
	assert.Equal(t, models.PropertyStatusAvailable, *change.OldStatus)
	assert.Equal(t, models.PropertyStatusPending, change.NewStatus)
	assert.Equal(t, "offer accepted", change.Reason)
	assert.Equal(t, "agent-1", change.ChangedBy)
}

func TestDeletePropertyRemovesContactLinks(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	svc := NewPropertyService(db, cfg)
	contacts := NewContactService(db, cfg, nil)

	property := models.Property{Title: "Palm Villa", City: "Dubai"}
	require.NoError(t, svc.CreateProperty(&property))

	email := "owner@example.com"
	contact := models.Contact{Name: "Owner One", Email: email}
	require.NoError(t, db.Create(&contact).Error)
	_, err := contacts.LinkContactToProperty(contact.ID, property.ID, models.LinkRoleOwner)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProperty(property.ID))

	_, err = svc.GetPropertyByID(property.ID)
	require.Error(t, err)
	assert.Equal(t, "房源不存在", err.Error())

	var links int64
	require.NoError(t, db.Model(&models.ContactProperty{}).Where("property_id = ?", property.ID).Count(&links).Error)
	assert.EqualValues(t, 0, links)
}

func TestGetPropertyContactsUnknownPropertyFails(t *testing.T) {
	db := newTestDB(t)
	svc := NewPropertyService(db, newTestConfig())

	_, err := svc.GetPropertyContacts("no-such-property")
	require.Error(t, err)
	assert.Equal(t, "房源不存在", err.Error())
}
