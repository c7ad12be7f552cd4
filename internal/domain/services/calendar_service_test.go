package services

import (
	"testing"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db, newTestConfig())

	err := svc.CreateEvent(&models.CalendarEvent{
		Title:     "Viewing",
		EventType: "party",
		AgentID:   "agent-1",
		StartAt:   time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, "日程类别无效", err.Error())

	event := models.CalendarEvent{
		Title:     "Viewing",
		EventType: models.EventTypeViewing,
		AgentID:   "agent-1",
		StartAt:   time.Now().Add(time.Hour),
	}
	require.NoError(t, svc.CreateEvent(&event))
	assert.Equal(t, models.EventStatusScheduled, event.Status)
}

func TestUpdateEventStatusAnyToAny(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db, newTestConfig())

	event := models.CalendarEvent{
		Title:     "Meeting",
		EventType: models.EventTypeMeeting,
		AgentID:   "agent-1",
		StartAt:   time.Now(),
		Status:    models.EventStatusCancelled,
	}
	require.NoError(t, svc.CreateEvent(&event))

	// 已取消的日程可以直接改回已完成，状态间无迁移图
	updated, err := svc.UpdateEventStatus(event.ID, models.EventStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusCompleted, updated.Status)

	_, err = svc.UpdateEventStatus(event.ID, "postponed")
	require.Error(t, err)
	assert.Equal(t, "日程状态无效", err.Error())
}

func TestGetEventsFiltersByWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db, newTestConfig())

	base := time.Now()
	for _, offset := range []time.Duration{-24 * time.Hour, time.Hour, 72 * time.Hour} {
		event := models.CalendarEvent{
			Title:     "Slot",
			EventType: models.EventTypeCall,
			AgentID:   "agent-1",
			StartAt:   base.Add(offset),
		}
		require.NoError(t, svc.CreateEvent(&event))
	}

	from := base
	to := base.Add(48 * time.Hour)
	events, total, err := svc.GetEvents(1, 10, "agent-1", "", &from, &to)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, events, 1)
	assert.WithinDuration(t, base.Add(time.Hour), events[0].StartAt, time.Second)
}

func TestGetUpcomingEventsExcludesPastAndNonScheduled(t *testing.T) {
	db := newTestDB(t)
	svc := NewCalendarService(db, newTestConfig())

	mk := func(start time.Time, status string) {
		event := models.CalendarEvent{
			Title:     "Slot",
			EventType: models.EventTypeViewing,
			AgentID:   "agent-1",
			StartAt:   start,
			Status:    status,
		}
		require.NoError(t, svc.CreateEvent(&event))
	}

	mk(time.Now().Add(-time.Hour), models.EventStatusScheduled)     // 已过去
	mk(time.Now().Add(2*time.Hour), models.EventStatusScheduled)    // 命中
	mk(time.Now().Add(3*time.Hour), models.EventStatusCancelled)    // 非scheduled
	mk(time.Now().Add(100*time.Hour), models.EventStatusScheduled)  // 窗口外

	events, err := svc.GetUpcomingEvents("agent-1", 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventStatusScheduled, events[0].Status)
}
