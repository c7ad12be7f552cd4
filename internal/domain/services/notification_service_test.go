package services

import (
	"testing"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试不连接MQTT服务器，推送静默跳过，只验证落库语义

func TestNotifyStoresNotification(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, newTestConfig(), nil)

	notification, err := svc.Notify("user-1", "Lead reassigned to you", "Lead Jane Doe was reassigned", models.NotificationKindSLA)
	require.NoError(t, err)
	assert.NotEmpty(t, notification.ID)
	assert.Nil(t, notification.ReadAt)

	var stored models.Notification
	require.NoError(t, db.First(&stored, "id = ?", notification.ID).Error)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, models.NotificationKindSLA, stored.Kind)
}

func TestGetUserNotificationsUnreadOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, newTestConfig(), nil)

	first, err := svc.Notify("user-1", "One", "", models.NotificationKindInfo)
	require.NoError(t, err)
	_, err = svc.Notify("user-1", "Two", "", models.NotificationKindInfo)
	require.NoError(t, err)
	_, err = svc.Notify("user-2", "Other user", "", models.NotificationKindInfo)
	require.NoError(t, err)

	require.NoError(t, svc.MarkAsRead("user-1", first.ID))

	all, total, err := svc.GetUserNotifications("user-1", 1, 10, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	unread, total, err := svc.GetUserNotifications("user-1", 1, 10, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, unread, 1)
	assert.Equal(t, "Two", unread[0].Title)
}

func TestMarkAsReadScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, newTestConfig(), nil)

	notification, err := svc.Notify("user-1", "Private", "", models.NotificationKindInfo)
	require.NoError(t, err)

	// 其他用户不能标记别人的通知
	err = svc.MarkAsRead("user-2", notification.ID)
	require.Error(t, err)
	assert.Equal(t, "通知不存在", err.Error())

	require.NoError(t, svc.MarkAsRead("user-1", notification.ID))

	var stored models.Notification
	require.NoError(t, db.First(&stored, "id = ?", notification.ID).Error)
	assert.NotNil(t, stored.ReadAt)
}

func TestMarkAllAsRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, newTestConfig(), nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Notify("user-1", "Bulk", "", models.NotificationKindInfo)
		require.NoError(t, err)
	}

	marked, err := svc.MarkAllAsRead("user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, marked)

	count, err := svc.GetUnreadCount("user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	// 再次全部已读没有可标记的行
	marked, err = svc.MarkAllAsRead("user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 0, marked)
}

func TestGetUnreadCountFromDatabase(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db, newTestConfig(), nil)

	_, err := svc.Notify("user-1", "One", "", models.NotificationKindInfo)
	require.NoError(t, err)
	_, err = svc.Notify("user-1", "Two", "", models.NotificationKindInfo)
	require.NoError(t, err)

	count, err := svc.GetUnreadCount("user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
