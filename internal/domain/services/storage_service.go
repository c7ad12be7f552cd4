package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/infrastructure/config"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/logger"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
)

// InterfaceStorageService 定义文件存储服务接口
type InterfaceStorageService interface {
	RegisterContactFile(file *models.ContactFile) error
	GetContactFiles(contactID string) ([]models.ContactFile, error)
	DeleteContactFile(id string) error
	GetSignedURL(fileID string) (string, error)
}

// signURLRequest 对象存储签名请求
type signURLRequest struct {
	ExpiresIn int `json:"expiresIn"`
}

// signURLResponse 对象存储签名响应
type signURLResponse struct {
	SignedURL string `json:"signedURL"`
}

// StorageService 联系人文档存储服务。
// 文件内容存于外部对象存储，本服务只管理元数据并向存储服务换取签名下载URL
type StorageService struct {
	DB         *gorm.DB
	Config     *config.Config
	httpClient *resty.Client
}

// NewStorageService 创建一个新的文件存储服务
func NewStorageService(db *gorm.DB, cfg *config.Config) InterfaceStorageService {
	client := resty.New().
		SetBaseURL(cfg.StorageBaseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.StorageServiceKey)

	return &StorageService{
		DB:         db,
		Config:     cfg,
		httpClient: client,
	}
}

// 1 RegisterContactFile 登记一条联系人文档元数据
func (s *StorageService) RegisterContactFile(file *models.ContactFile) error {
	if file.ContactID == "" || file.FileName == "" {
		return errors.New("文档元数据不完整")
	}
	return s.DB.Create(file).Error
}

// 2 GetContactFiles 获取联系人的文档列表
func (s *StorageService) GetContactFiles(contactID string) ([]models.ContactFile, error) {
	var files []models.ContactFile
	if err := s.DB.Where("contact_id = ?", contactID).
		Order("created_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// 3 DeleteContactFile 删除一条文档元数据
func (s *StorageService) DeleteContactFile(id string) error {
	result := s.DB.Delete(&models.ContactFile{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("文档不存在")
	}
	return nil
}

// 4 GetSignedURL 为文档换取签名下载URL。
// 优先使用元数据中记录的bucket和path；历史数据缺少bucket时，
// 按配置的备选bucket列表和路径候选逐个尝试，命中即返回
func (s *StorageService) GetSignedURL(fileID string) (string, error) {
	var file models.ContactFile
	if err := s.DB.First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("文档不存在")
		}
		return "", err
	}

	type candidate struct {
		bucket string
		path   string
	}
	var candidates []candidate

	if file.Bucket != "" && file.Path != "" {
		candidates = append(candidates, candidate{file.Bucket, file.Path})
	}

	paths := []string{file.Path, file.ContactID + "/" + file.FileName, file.FileName}
	for _, bucket := range s.Config.GetStorageBuckets() {
		for _, path := range paths {
			if path == "" {
				continue
			}
			if bucket == file.Bucket && path == file.Path {
				continue
			}
			candidates = append(candidates, candidate{bucket, path})
		}
	}

	var lastErr error
	for _, c := range candidates {
		url, err := s.signObjectURL(c.bucket, c.path)
		if err == nil && url != "" {
			return url, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		logger.Warning("签名URL获取失败: file=%s err=%v", fileID, lastErr)
	}
	return "", errors.New("签名URL获取失败")
}

// signObjectURL 调用对象存储签名接口
func (s *StorageService) signObjectURL(bucket, path string) (string, error) {
	var result signURLResponse
	resp, err := s.httpClient.R().
		SetBody(signURLRequest{ExpiresIn: s.Config.StorageSignTTLSecs}).
		SetResult(&result).
		Post(fmt.Sprintf("/object/sign/%s/%s", bucket, path))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("storage sign request failed: %s", resp.Status())
	}
	if result.SignedURL == "" {
		return "", errors.New("empty signed url")
	}
	return s.Config.StorageBaseURL + result.SignedURL, nil
}
