package services

import (
	"testing"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 创建一个内存数据库并迁移全部模型。
// 每个测试使用独立命名的共享内存库，避免连接池拿到不同的空库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Lead{},
		&models.Contact{},
		&models.Property{},
		&models.ContactProperty{},
		&models.ContactFile{},
		&models.CalendarEvent{},
		&models.Communication{},
		&models.Activity{},
		&models.Transaction{},
		&models.Notification{},
		&models.LeadStatusChange{},
		&models.ContactStatusChange{},
		&models.PropertyStatusChange{},
		&models.AutomationWorkflow{},
		&models.AutomationExecution{},
		&models.SecurityAudit{},
	)
	require.NoError(t, err)

	return db
}

// newTestConfig 返回测试用配置
func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:       "test-secret",
		SLAOverdueMins:     30,
		SLASweepInterval:   0,
		StorageSignTTLSecs: 3600,
	}
}

// createTestAgent 创建一个测试坐席
func createTestAgent(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	agent := models.User{
		Name:     name,
		Username: name,
		Email:    name + "@example.com",
		Password: "password123",
		Role:     models.RoleAgent,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, db.Create(&agent).Error)
	return &agent
}
