package routes

import (
	"time"

	_ "github.com/Vfxchu/Real-estate-Crm-sub005/docs"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/app/controllers"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/app/middleware"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/database"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 初始化并返回配置好的路由和服务容器
func SetupRouter(pool *database.ConnectionPool, cfg *config.Config) (*gin.Engine, *container.ServiceContainer) {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Sweep-Secret")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	db := pool.GetDB()

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, nil)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg, db)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, pool, serviceContainer)
	return r, serviceContainer
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	pool *database.ConnectionPool,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, pool, container)
	// 注册坐席可访问的路由
	registerAgentRoutes(api, container)
	// 注册仅管理员可访问的路由
	registerAdminRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	pool *database.ConnectionPool,
	container *container.ServiceContainer,
) {
	// 添加IP限流中间件 - 每秒允许10个请求，最多突发20个请求
	api.Use(middleware.IPRateLimiter(10, 20))

	// 健康检查路由
	healthController := controllers.NewHealthCheckController(pool)
	api.GET("/ping", healthController.Ping)
	api.GET("/health", healthController.Health)

	// 认证路由
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.PathRateLimiter(5, 10)) // 登录接口收紧限流
	authGroup.POST("/login", controllers.HandleJWTFunc(container, "login"))

	// SLA扫描触发路由 - 面向外部调度器，走共享密钥鉴权
	api.POST("/automation/sweep", controllers.HandleAutomationFunc(container, "triggerSweep"))
}

// registerAgentRoutes 注册坐席与管理员均可访问的路由
func registerAgentRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加认证中间件
	auth := api.Group("/")
	auth.Use(middleware.AuthenticateAgent())

	// 添加通用限流中间件 - 每秒30个请求，最多突发50个请求
	auth.Use(middleware.IPRateLimiter(30, 50))

	// 当前用户路由
	auth.GET("/auth/me", controllers.HandleJWTFunc(container, "getCurrentUser"))
	auth.PUT("/auth/password", controllers.HandleUserFunc(container, "changePassword"))

	// 线索路由
	leadGroup := auth.Group("/leads")
	{
		leadGroup.GET("", controllers.HandleLeadFunc(container, "getLeads"))
		leadGroup.GET("/statistics", middleware.Cache(middleware.CacheConfig{Expiration: 30 * time.Second}), controllers.HandleLeadFunc(container, "getLeadStatistics"))
		leadGroup.POST("", controllers.HandleLeadFunc(container, "createLead"))
		leadGroup.GET("/:id", controllers.HandleLeadFunc(container, "getLead"))
		leadGroup.PUT("/:id", controllers.HandleLeadFunc(container, "updateLead"))
		leadGroup.DELETE("/:id", controllers.HandleLeadFunc(container, "deleteLead"))
		leadGroup.PUT("/:id/status", controllers.HandleLeadFunc(container, "updateLeadStatus"))
		leadGroup.PUT("/:id/assign", controllers.HandleLeadFunc(container, "assignLead"))
		leadGroup.POST("/:id/convert", controllers.HandleLeadFunc(container, "convertLead"))

		// 通话与沟通记录
		leadGroup.POST("/:id/calls", controllers.HandleCommunicationFunc(container, "logCallOutcome"))
		leadGroup.GET("/:id/communications", controllers.HandleCommunicationFunc(container, "getLeadCommunications"))

		// 批量导入
		leadGroup.POST("/import", controllers.HandleImportFunc(container, "confirmImport"))
		leadGroup.POST("/import/preview", controllers.HandleImportFunc(container, "previewImport"))
		leadGroup.GET("/import/template", controllers.HandleImportFunc(container, "downloadTemplate"))
	}

	// 联系人路由
	contactGroup := auth.Group("/contacts")
	{
		contactGroup.GET("", controllers.HandleContactFunc(container, "getContacts"))
		contactGroup.GET("/:id", controllers.HandleContactFunc(container, "getContact"))
		contactGroup.POST("", controllers.HandleContactFunc(container, "createContact"))
		contactGroup.PUT("/:id", controllers.HandleContactFunc(container, "updateContact"))
		contactGroup.DELETE("/:id", controllers.HandleContactFunc(container, "deleteContact"))
		contactGroup.PUT("/:id/status", controllers.HandleContactFunc(container, "setManualStatus"))
		contactGroup.PUT("/:id/status/auto", controllers.HandleContactFunc(container, "setAutoMode"))
		contactGroup.POST("/:id/status/recompute", controllers.HandleContactFunc(container, "recomputeStatus"))
		contactGroup.GET("/:id/aliases", controllers.HandleContactFunc(container, "getAliases"))
		contactGroup.GET("/:id/timeline", controllers.HandleContactFunc(container, "getTimeline"))

		// 联系人-房源关联
		contactGroup.GET("/:id/properties", controllers.HandleContactFunc(container, "getContactProperties"))
		contactGroup.POST("/:id/properties", controllers.HandleContactFunc(container, "linkProperty"))
		contactGroup.DELETE("/:id/properties/:property_id", controllers.HandleContactFunc(container, "unlinkProperty"))

		// 联系人文档
		contactGroup.GET("/:id/files", controllers.HandleFileFunc(container, "getContactFiles"))
		contactGroup.POST("/:id/files", controllers.HandleFileFunc(container, "registerFile"))
	}

	// 文档路由
	fileGroup := auth.Group("/files")
	fileGroup.DELETE("/:file_id", controllers.HandleFileFunc(container, "deleteFile"))
	fileGroup.GET("/:file_id/signed-url", controllers.HandleFileFunc(container, "getSignedURL"))

	// 房源路由
	propertyGroup := auth.Group("/properties")
	{
		propertyGroup.GET("", middleware.CacheByParams(30*time.Second, "page", "page_size", "status", "search"), controllers.HandlePropertyFunc(container, "getProperties"))
		propertyGroup.GET("/:id", controllers.HandlePropertyFunc(container, "getProperty"))
		propertyGroup.POST("", controllers.HandlePropertyFunc(container, "createProperty"))
		propertyGroup.PUT("/:id", controllers.HandlePropertyFunc(container, "updateProperty"))
		propertyGroup.DELETE("/:id", controllers.HandlePropertyFunc(container, "deleteProperty"))
		propertyGroup.PUT("/:id/status", controllers.HandlePropertyFunc(container, "updatePropertyStatus"))
		propertyGroup.GET("/:id/contacts", controllers.HandlePropertyFunc(container, "getPropertyContacts"))
	}

	// 日程路由
	calendarGroup := auth.Group("/calendar")
	{
		calendarGroup.GET("/events", controllers.HandleCalendarFunc(container, "getEvents"))
		calendarGroup.GET("/events/upcoming", controllers.HandleCalendarFunc(container, "getUpcomingEvents"))
		calendarGroup.GET("/events/:id", controllers.HandleCalendarFunc(container, "getEvent"))
		calendarGroup.POST("/events", controllers.HandleCalendarFunc(container, "createEvent"))
		calendarGroup.PUT("/events/:id", controllers.HandleCalendarFunc(container, "updateEvent"))
		calendarGroup.DELETE("/events/:id", controllers.HandleCalendarFunc(container, "deleteEvent"))
		calendarGroup.PUT("/events/:id/status", controllers.HandleCalendarFunc(container, "updateEventStatus"))
	}

	// 交易路由
	transactionGroup := auth.Group("/transactions")
	{
		transactionGroup.GET("", controllers.HandleTransactionFunc(container, "getTransactions"))
		transactionGroup.GET("/:id", controllers.HandleTransactionFunc(container, "getTransaction"))
		transactionGroup.POST("", controllers.HandleTransactionFunc(container, "createTransaction"))
		transactionGroup.PUT("/:id/stage", controllers.HandleTransactionFunc(container, "updateTransactionStage"))
	}

	// 通知路由
	notificationGroup := auth.Group("/notifications")
	notificationGroup.GET("", controllers.HandleNotificationFunc(container, "getNotifications"))
	notificationGroup.GET("/unread-count", controllers.HandleNotificationFunc(container, "getUnreadCount"))
	notificationGroup.PUT("/read-all", controllers.HandleNotificationFunc(container, "markAllAsRead"))
	notificationGroup.PUT("/:id/read", controllers.HandleNotificationFunc(container, "markAsRead"))

	// AI助手路由
	aiGroup := auth.Group("/ai")
	aiGroup.Use(middleware.PathRateLimiter(5, 10)) // 上游服务较慢，收紧限流
	aiGroup.POST("/chat", controllers.HandleAIFunc(container, "chat"))
}

// registerAdminRoutes 注册仅管理员可访问的路由
func registerAdminRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	admin := api.Group("/")
	admin.Use(middleware.AuthenticateAdmin())
	admin.Use(middleware.IPRateLimiter(30, 50))

	// 用户管理路由
	userGroup := admin.Group("/users")
	userGroup.GET("", controllers.HandleUserFunc(container, "getUsers"))
	userGroup.GET("/agents", controllers.HandleUserFunc(container, "getAgents"))
	userGroup.GET("/:id", controllers.HandleUserFunc(container, "getUser"))
	userGroup.POST("", controllers.HandleUserFunc(container, "createUser"))
	userGroup.PUT("/:id", controllers.HandleUserFunc(container, "updateUser"))
	userGroup.DELETE("/:id", controllers.HandleUserFunc(container, "deleteUser"))

	// 自动化路由
	automationGroup := admin.Group("/automation")
	automationGroup.GET("/workflows", controllers.HandleAutomationFunc(container, "getWorkflows"))
	automationGroup.PUT("/workflows/:id", controllers.HandleAutomationFunc(container, "updateWorkflow"))
	automationGroup.GET("/executions", controllers.HandleAutomationFunc(container, "getExecutions"))

	// 安全审计路由
	admin.GET("/audit", controllers.HandleAuditFunc(container, "getAuditLog"))
}
