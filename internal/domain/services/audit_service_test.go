package services

import (
	"testing"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSecurityEventStoresSnapshots(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(db, newTestConfig())

	svc.LogSecurityEvent("admin-1", "contact.status.override", "contact", "contact-1",
		map[string]string{"status": "active"},
		map[string]string{"status": "past"})

	var entry models.SecurityAudit
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, "admin-1", entry.ActorID)
	assert.Equal(t, "contact.status.override", entry.Action)
	assert.Equal(t, "contact", entry.ResourceType)
	assert.Equal(t, "contact-1", entry.ResourceID)
	assert.JSONEq(t, `{"status":"active"}`, entry.OldValues)
	assert.JSONEq(t, `{"status":"past"}`, entry.NewValues)
}

func TestLogSecurityEventNilSnapshots(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(db, newTestConfig())

	svc.LogSecurityEvent("admin-1", "user.delete", "user", "user-1", nil, nil)

	var entry models.SecurityAudit
	require.NoError(t, db.First(&entry).Error)
	assert.Empty(t, entry.OldValues)
	assert.Empty(t, entry.NewValues)
}

func TestGetAuditLogPaginated(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuditService(db, newTestConfig())

	for i := 0; i < 5; i++ {
		svc.LogSecurityEvent("admin-1", "lead.reassign", "lead", "lead-1", nil, nil)
	}

	entries, total, err := svc.GetAuditLog(1, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, entries, 3)

	entries, _, err = svc.GetAuditLog(2, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
