package container

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService
	auditService services.InterfaceAuditService

	// 通知推送服务
	notificationService services.InterfaceNotificationService

	// 业务服务
	userService          services.InterfaceUserService
	leadService          services.InterfaceLeadService
	contactService       services.InterfaceContactService
	propertyService      services.InterfacePropertyService
	calendarService      services.InterfaceCalendarService
	communicationService services.InterfaceCommunicationService
	timelineService      services.InterfaceTimelineService
	importerService      services.InterfaceImporterService
	automationService    services.InterfaceAutomationService
	storageService       services.InterfaceStorageService
	aiService            services.InterfaceAIService
	transactionService   services.InterfaceTransactionService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config, c.db)
	if c.redis != nil {
		c.redisService = services.NewRedisServiceWithClient(c.redis)
	} else {
		c.redisService = services.NewRedisService(c.config)
	}
	c.auditService = services.NewAuditService(c.db, c.config)

	// 初始化通知推送服务
	c.notificationService = services.NewNotificationService(c.db, c.config, c.redisService)

	// 连接MQTT服务器
	if err := c.notificationService.Connect(); err != nil {
		log.Printf("MQTT服务连接失败: %v", err)
	}

	// 初始化业务服务
	c.userService = services.NewUserService(c.db, c.config)
	c.contactService = services.NewContactService(c.db, c.config, c.auditService)
	c.leadService = services.NewLeadService(c.db, c.config, c.auditService)
	c.propertyService = services.NewPropertyService(c.db, c.config)
	c.calendarService = services.NewCalendarService(c.db, c.config)
	c.communicationService = services.NewCommunicationService(c.db, c.config, c.contactService)
	c.timelineService = services.NewTimelineService(c.db, c.config, c.contactService)
	c.importerService = services.NewImporterService(c.config)
	c.automationService = services.NewAutomationService(c.db, c.config, c.notificationService)
	c.storageService = services.NewStorageService(c.db, c.config)
	c.aiService = services.NewAIService(c.config)
	c.transactionService = services.NewTransactionService(c.db, c.config, c.contactService)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "audit":
		return c.auditService
	case "notification":
		return c.notificationService
	case "user":
		return c.userService
	case "lead":
		return c.leadService
	case "contact":
		return c.contactService
	case "property":
		return c.propertyService
	case "calendar":
		return c.calendarService
	case "communication":
		return c.communicationService
	case "timeline":
		return c.timelineService
	case "importer":
		return c.importerService
	case "automation":
		return c.automationService
	case "storage":
		return c.storageService
	case "ai":
		return c.aiService
	case "transaction":
		return c.transactionService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
