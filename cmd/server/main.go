// @title           Real Estate CRM Service API
// @version         1.0
// @description     A real estate CRM backend with lead management, contact identity resolution, calendar and SLA automation
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@yourcompany.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/app/routes"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/database"
	Logger "github.com/Vfxchu/Real-estate-Crm-sub005/pkg/logger"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	// 设置最大处理器数量，提高并发性能
	runtime.GOMAXPROCS(runtime.NumCPU())

	// 初始化日志配置
	if err := Logger.SetupLogger(); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}

	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		Logger.Warning("无法加载.env文件: %v", err)
		// 即使加载失败也继续执行，可能环境变量已经通过其他方式设置
	} else {
		Logger.Info("成功加载.env文件")
	}

	// 获取配置
	cfg := config.GetConfig()

	// 创建优化的数据库连接池
	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		log.Fatalf("无法创建数据库连接池: %v", err)
	}
	db := pool.GetDB()

	// 根据配置执行不同的数据库操作
	if cfg.DBMigrationMode == "drop" {
		// 删除并重建表
		log.Println("警告: 在drop模式下运行，将删除并重建所有表")
		err = dropAndRecreateTables(db)
		if err != nil {
			log.Fatalf("删除并重建表失败: %v", err)
		}
	} else if cfg.DBMigrationMode == "alter" {
		// 执行高级迁移，清理遗留列后再自动迁移
		log.Println("在alter模式下运行，将修改表结构以匹配模型")
		err = advancedMigrate(db, cfg)
		if err != nil {
			log.Fatalf("高级迁移失败: %v", err)
		}
	} else {
		// 默认AutoMigrate，只会添加新列和新表，不会删除或修改列
		log.Println("在标准模式下运行，将只添加新列和新表")
		if err := autoMigrate(db); err != nil {
			log.Fatalf("自动迁移失败: %v", err)
		}
	}

	// 确保系统中有管理员账户
	ensureAdminExists(db, cfg)

	// 初始化路由和服务容器
	r, serviceContainer := routes.SetupRouter(pool, cfg)

	// 确保默认自动化流程存在并启动SLA定时扫描
	automationService := serviceContainer.GetService("automation").(services.InterfaceAutomationService)
	if err := automationService.EnsureDefaultWorkflows(); err != nil {
		Logger.Warning("初始化默认自动化流程失败: %v", err)
	}
	automationService.StartScheduler()
	defer automationService.StopScheduler()

	// 使用配置中的端口，而不是直接从环境变量获取
	port := cfg.ServerPort

	// 打印系统信息
	printSystemInfo(pool)

	// 启动服务器 - 注意监听所有接口(0.0.0.0)而不是只监听localhost
	Logger.Info("服务器启动在: http://0.0.0.0:%s", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		Logger.Error("启动服务器失败: %v", err)
		os.Exit(1)
	}
}

// autoMigrate 自动迁移所有模型（只添加新列和新表）
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
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

	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// advancedMigrate 执行高级迁移，清理模型中已移除的遗留列
func advancedMigrate(db *gorm.DB, cfg *config.Config) error {
	// 获取底层SQL连接
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	// 禁用外键约束检查
	_, err = sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0")
	if err != nil {
		log.Printf("禁用外键约束检查失败: %v", err)
	}
	defer sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1") // 确保在函数结束时重新启用外键约束

	// 早期版本在leads/contacts表中使用的列，模型中已移除
	legacyColumns := map[string][]string{
		"leads":    {"source_detail", "follow_up_at"},
		"contacts": {"status_locked", "merged_into"},
	}

	for table, columns := range legacyColumns {
		var tableExists int
		err = sqlDB.QueryRow(
			"SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?",
			cfg.DBName, table,
		).Scan(&tableExists)
		if err != nil || tableExists == 0 {
			continue
		}

		for _, column := range columns {
			var columnExists int
			err = sqlDB.QueryRow(
				"SELECT COUNT(*) FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ? AND COLUMN_NAME = ?",
				cfg.DBName, table, column,
			).Scan(&columnExists)
			if err != nil || columnExists == 0 {
				continue
			}

			log.Printf("在%s表中发现遗留列: %s，尝试删除", table, column)
			_, err = sqlDB.Exec(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", table, column))
			if err != nil {
				log.Printf("删除列失败: %v", err)
			}
		}
	}

	// 自动迁移其他表
	return autoMigrate(db)
}

// dropAndRecreateTables 删除并重建所有表
func dropAndRecreateTables(db *gorm.DB) error {
	// 获取底层SQL连接
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get DB connection: %w", err)
	}

	// 禁用外键约束检查
	_, err = sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 0")
	if err != nil {
		log.Printf("禁用外键约束检查失败: %v", err)
	}
	defer sqlDB.Exec("SET FOREIGN_KEY_CHECKS = 1") // 确保在函数结束时重新启用外键约束

	// 删除所有表
	tables := []string{
		"users", "leads", "contacts", "properties", "contact_properties",
		"contact_files", "calendar_events", "communications", "activities",
		"transactions", "notifications", "lead_status_changes",
		"contact_status_changes", "property_status_changes",
		"automation_workflows", "automation_executions", "security_audit",
	}

	for _, table := range tables {
		log.Printf("删除表: %s", table)
		_, err := sqlDB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
		if err != nil {
			log.Printf("删除表失败: %v", err)
		}
	}

	// 重新创建表
	return autoMigrate(db)
}

// ensureAdminExists 确保系统中有管理员账户
func ensureAdminExists(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)

	if count == 0 {
		// 如果没有管理员，创建默认管理员
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.DefaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("生成密码哈希失败: %v", err)
		}

		admin := models.User{
			Name:     "Administrator",
			Username: "admin",
			Email:    "admin@example.com",
			Password: string(hashedPassword),
			Role:     models.RoleAdmin,
			Status:   models.UserStatusActive,
		}

		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("创建默认管理员失败: %v", err)
		}

		log.Println("已创建默认管理员账户")
	}
}

// printSystemInfo 打印系统信息
func printSystemInfo(pool *database.ConnectionPool) {
	// 打印数据库连接池信息
	stats, err := pool.Stats()
	if err == nil {
		log.Printf("数据库连接池状态: %+v", stats)
	}

	// 打印系统资源信息
	log.Printf("系统CPU核心数: %d", runtime.NumCPU())
	log.Printf("当前Go协程数: %d", runtime.NumGoroutine())

	// 打印内存信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Printf("系统内存使用: Alloc=%v MiB, TotalAlloc=%v MiB, Sys=%v MiB",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024)
}
