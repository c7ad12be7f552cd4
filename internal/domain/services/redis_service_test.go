package services

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisService(t *testing.T) (InterfaceRedisService, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisServiceWithClient(client), mr
}

func TestRedisSetGetRoundTrip(t *testing.T) {
	svc, _ := newTestRedisService(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, svc.Set("test_key", payload{Name: "abc", Count: 3}, time.Minute))

	var got payload
	require.NoError(t, svc.Get("test_key", &got))
	assert.Equal(t, "abc", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestRedisGetMissingKeyFails(t *testing.T) {
	svc, _ := newTestRedisService(t)

	var got map[string]interface{}
	err := svc.Get("missing", &got)
	require.Error(t, err)
}

func TestCacheLeadStatistics(t *testing.T) {
	svc, mr := newTestRedisService(t)

	stats := map[string]int64{"total": 12, "new": 4, "overdue": 1}
	require.NoError(t, svc.CacheLeadStatistics(stats, 2*time.Minute))

	got, err := svc.GetLeadStatistics()
	require.NoError(t, err)
	assert.Equal(t, stats, got)

	// 过期后读取失败
	mr.FastForward(3 * time.Minute)
	_, err = svc.GetLeadStatistics()
	require.Error(t, err)
}

func TestInvalidateLeadStatistics(t *testing.T) {
	svc, _ := newTestRedisService(t)

	require.NoError(t, svc.CacheLeadStatistics(map[string]int64{"total": 1}, time.Minute))
	require.NoError(t, svc.InvalidateLeadStatistics())

	_, err := svc.GetLeadStatistics()
	require.Error(t, err)
}

func TestUnreadCountCachePerUser(t *testing.T) {
	svc, _ := newTestRedisService(t)

	require.NoError(t, svc.CacheUnreadCount("user-1", 7, 5*time.Minute))
	require.NoError(t, svc.CacheUnreadCount("user-2", 2, 5*time.Minute))

	count, err := svc.GetUnreadCount("user-1")
	require.NoError(t, err)
	assert.EqualValues(t, 7, count)

	count, err = svc.GetUnreadCount("user-2")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	// 失效只影响目标用户
	require.NoError(t, svc.InvalidateUnreadCount("user-1"))
	_, err = svc.GetUnreadCount("user-1")
	require.Error(t, err)

	count, err = svc.GetUnreadCount("user-2")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
