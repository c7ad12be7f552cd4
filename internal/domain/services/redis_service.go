package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
)

// InterfaceRedisService defines the Redis service interface
type InterfaceRedisService interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string, dest interface{}) error
	Delete(key string) error
	CacheLeadStatistics(stats map[string]int64, expiration time.Duration) error
	GetLeadStatistics() (map[string]int64, error)
	InvalidateLeadStatistics() error
	CacheUnreadCount(userID string, count int64, expiration time.Duration) error
	GetUnreadCount(userID string) (int64, error)
	InvalidateUnreadCount(userID string) error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	Ctx    context.Context
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	return &RedisService{
		Client: client,
		Ctx:    ctx,
	}
}

// NewRedisServiceWithClient creates a Redis service on an existing client
func NewRedisServiceWithClient(client *redis.Client) InterfaceRedisService {
	return &RedisService{
		Client: client,
		Ctx:    context.Background(),
	}
}

// 1 Set sets a key-value pair in Redis with expiration
func (s *RedisService) Set(key string, value interface{}, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.Client.Set(s.Ctx, key, jsonValue, expiration).Err()
}

// 2 Get gets a value from Redis by key
func (s *RedisService) Get(key string, dest interface{}) error {
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(val), dest)
}

// 3 Delete deletes a key from Redis
func (s *RedisService) Delete(key string) error {
	return s.Client.Del(s.Ctx, key).Err()
}

// 4 CacheLeadStatistics caches the lead statistics snapshot
func (s *RedisService) CacheLeadStatistics(stats map[string]int64, expiration time.Duration) error {
	return s.Set("lead_statistics", stats, expiration)
}

// 5 GetLeadStatistics gets the cached lead statistics snapshot
func (s *RedisService) GetLeadStatistics() (map[string]int64, error) {
	var stats map[string]int64
	if err := s.Get("lead_statistics", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// 6 InvalidateLeadStatistics drops the cached lead statistics snapshot
func (s *RedisService) InvalidateLeadStatistics() error {
	return s.Delete("lead_statistics")
}

// 7 CacheUnreadCount caches a user's unread notification count
func (s *RedisService) CacheUnreadCount(userID string, count int64, expiration time.Duration) error {
	return s.Client.Set(s.Ctx, "unread_count:"+userID, count, expiration).Err()
}

// 8 GetUnreadCount gets a user's cached unread notification count
func (s *RedisService) GetUnreadCount(userID string) (int64, error) {
	return s.Client.Get(s.Ctx, "unread_count:"+userID).Int64()
}

// 9 InvalidateUnreadCount drops a user's cached unread notification count
func (s *RedisService) InvalidateUnreadCount(userID string) error {
	return s.Delete("unread_count:" + userID)
}
