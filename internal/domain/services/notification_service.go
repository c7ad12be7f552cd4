package services

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/logger"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InterfaceNotificationService 定义通知服务接口
type InterfaceNotificationService interface {
	Connect() error
	Disconnect()
	Notify(userID, title, body, kind string) (*models.Notification, error)
	GetUserNotifications(userID string, page, pageSize int, unreadOnly bool) ([]models.Notification, int64, error)
	MarkAsRead(userID, notificationID string) error
	MarkAllAsRead(userID string) (int64, error)
	GetUnreadCount(userID string) (int64, error)
	PublishSystemMessage(level, message string, data interface{}) error
}

// 主题常量
const (
	// 用户通知主题前缀，完整主题为 crm/notifications/{userID}
	TopicNotificationPrefix = "crm/notifications/"

	// 系统消息主题
	TopicSystemMessage = "crm/system"
)

// NotificationMessage MQTT通知消息
type NotificationMessage struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Kind      string `json:"kind"`
	Timestamp int64  `json:"timestamp"`
}

// SystemMessage 系统消息
type SystemMessage struct {
	Level     string      `json:"level"` // info/warning/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// NotificationService 站内通知服务。
// 通知先落库，再经MQTT推送；推送失败不影响落库结果
type NotificationService struct {
	DB             *gorm.DB
	Config         *config.Config
	Redis          InterfaceRedisService
	Client         mqtt.Client
	IsConnected    bool
	connectedMutex sync.RWMutex // 保护IsConnected字段的读写
	PublishMutex   sync.Mutex   // 用于保护MQTT消息发布
}

// NewNotificationService 创建一个新的通知服务
func NewNotificationService(db *gorm.DB, cfg *config.Config, redisService InterfaceRedisService) InterfaceNotificationService {
	service := &NotificationService{
		DB:          db,
		Config:      cfg,
		Redis:       redisService,
		IsConnected: false,
	}

	// 设置MQTT客户端
	service.setupMQTTClient()

	return service
}

// setupMQTTClient 设置MQTT客户端
func (s *NotificationService) setupMQTTClient() {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Config.MQTTBrokerURL)
	// 使用唯一的客户端ID，避免同一服务多实例冲突
	opts.SetClientID(fmt.Sprintf("%s-%s-%d", s.Config.MQTTClientID, uuid.New().String()[:8], time.Now().UnixNano()))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Second * 30)
	opts.SetKeepAlive(time.Second * 60)
	opts.SetPingTimeout(time.Second * 10)
	opts.SetCleanSession(true)

	// 添加用户名和密码
	if s.Config.MQTTUsername != "" {
		opts.SetUsername(s.Config.MQTTUsername)
		opts.SetPassword(s.Config.MQTTPassword)
	}

	// 添加TLS配置，支持SSL连接
	if strings.HasPrefix(s.Config.MQTTBrokerURL, "ssl://") || strings.HasPrefix(s.Config.MQTTBrokerURL, "tls://") || s.Config.MQTTSSLEnabled {
		opts.SetTLSConfig(&tls.Config{
			InsecureSkipVerify: true, // 默认跳过验证，如有CA证书则使用
		})
	}

	// 设置连接丢失回调
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.Warning("[MQTT] 连接丢失: %v", err)
		s.connectedMutex.Lock()
		s.IsConnected = false
		s.connectedMutex.Unlock()
	})

	// 设置连接建立回调
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.Info("[MQTT] 成功连接到 %s", s.Config.MQTTBrokerURL)
		s.connectedMutex.Lock()
		s.IsConnected = true
		s.connectedMutex.Unlock()
	})

	s.Client = mqtt.NewClient(opts)
}

// 1 Connect 连接到MQTT服务器，带有指数退避重试
func (s *NotificationService) Connect() error {
	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()

	s.connectedMutex.RLock()
	isConnected := s.IsConnected && s.Client.IsConnected()
	s.connectedMutex.RUnlock()

	if isConnected {
		return nil
	}

	maxRetries := 5
	var err error

	for i := 0; i < maxRetries; i++ {
		token := s.Client.Connect()
		if token.WaitTimeout(5*time.Second) && token.Error() == nil {
			s.connectedMutex.Lock()
			s.IsConnected = true
			s.connectedMutex.Unlock()
			logger.Info("[MQTT] 成功连接到 %s", s.Config.MQTTBrokerURL)
			return nil
		}

		err = token.Error()
		backoffTime := time.Duration(1<<uint(i)) * time.Second // 指数退避: 1s, 2s, 4s, 8s, 16s
		logger.Warning("[MQTT] 连接尝试 %d/%d 失败: %v, 将在 %v 后重试", i+1, maxRetries, err, backoffTime)
		time.Sleep(backoffTime)
	}

	return fmt.Errorf("[MQTT] 连接失败，已尝试 %d 次: %v", maxRetries, err)
}

// 2 Disconnect 断开与MQTT服务器的连接
func (s *NotificationService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
	}
}

// 3 Notify 创建并推送一条通知。
// 落库成功即视为成功，MQTT推送失败只记日志
func (s *NotificationService) Notify(userID, title, body, kind string) (*models.Notification, error) {
	if userID == "" {
		return nil, errors.New("通知接收人不能为空")
	}
	if kind == "" {
		kind = models.NotificationKindInfo
	}

	notification := models.Notification{
		UserID: userID,
		Title:  title,
		Body:   body,
		Kind:   kind,
	}
	if err := s.DB.Create(&notification).Error; err != nil {
		return nil, err
	}

	s.invalidateUnreadCache(userID)
	s.publishNotification(&notification)

	return &notification, nil
}

// publishNotification 将通知推送到用户主题
func (s *NotificationService) publishNotification(n *models.Notification) {
	message := NotificationMessage{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Body:      n.Body,
		Kind:      n.Kind,
		Timestamp: time.Now().UnixMilli(),
	}

	payload, err := json.Marshal(message)
	if err != nil {
		logger.Warning("[MQTT] 通知消息序列化失败: %v", err)
		return
	}

	s.publish(TopicNotificationPrefix+n.UserID, payload)
}

// 4 GetUserNotifications 分页获取用户的通知列表
func (s *NotificationService) GetUserNotifications(userID string, page, pageSize int, unreadOnly bool) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := s.DB.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

// 5 MarkAsRead 将一条通知标记为已读
func (s *NotificationService) MarkAsRead(userID, notificationID string) error {
	now := time.Now()
	result := s.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ? AND read_at IS NULL", notificationID, userID).
		Update("read_at", now)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("通知不存在")
	}

	s.invalidateUnreadCache(userID)
	return nil
}

// 6 MarkAllAsRead 将用户的全部未读通知标记为已读
func (s *NotificationService) MarkAllAsRead(userID string) (int64, error) {
	now := time.Now()
	result := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", now)
	if result.Error != nil {
		return 0, result.Error
	}

	s.invalidateUnreadCache(userID)
	return result.RowsAffected, nil
}

// 7 GetUnreadCount 获取用户未读通知数量，优先走缓存
func (s *NotificationService) GetUnreadCount(userID string) (int64, error) {
	if s.Redis != nil {
		if count, err := s.Redis.GetUnreadCount(userID); err == nil {
			return count, nil
		}
	}

	var count int64
	if err := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	if s.Redis != nil {
		if err := s.Redis.CacheUnreadCount(userID, count, 5*time.Minute); err != nil {
			logger.Warning("缓存未读通知数量失败: %v", err)
		}
	}

	return count, nil
}

// 8 PublishSystemMessage 推送一条系统消息
func (s *NotificationService) PublishSystemMessage(level, message string, data interface{}) error {
	msg := SystemMessage{
		Level:     level,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.publish(TopicSystemMessage, payload)
	return nil
}

// publish 发布消息到指定主题，未连接时静默跳过
func (s *NotificationService) publish(topic string, payload []byte) {
	s.connectedMutex.RLock()
	connected := s.IsConnected && s.Client != nil && s.Client.IsConnected()
	s.connectedMutex.RUnlock()

	if !connected {
		logger.Warning("[MQTT] 未连接，跳过推送: topic=%s", topic)
		return
	}

	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()

	qos := byte(s.Config.MQTTQoS)
	token := s.Client.Publish(topic, qos, s.Config.MQTTRetained, payload)
	if !token.WaitTimeout(3*time.Second) || token.Error() != nil {
		logger.Warning("[MQTT] 推送失败: topic=%s err=%v", topic, token.Error())
	}
}

// invalidateUnreadCache 失效用户未读数量缓存
func (s *NotificationService) invalidateUnreadCache(userID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.InvalidateUnreadCount(userID); err != nil {
		logger.Warning("失效未读通知缓存失败: %v", err)
	}
}
