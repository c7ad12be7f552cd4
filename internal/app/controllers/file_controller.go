package controllers

import (
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/code"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceFileController 定义联系人文档控制器接口
type InterfaceFileController interface {
	RegisterFile()
	GetContactFiles()
	DeleteFile()
	GetSignedURL()
}

// FileController 处理联系人文档相关的请求
type FileController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewFileController 创建一个新的联系人文档控制器
func NewFileController(ctx *gin.Context, container *container.ServiceContainer) *FileController {
	return &FileController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleFileFunc 返回一个处理文档请求的Gin处理函数
func HandleFileFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewFileController(ctx, container)

		switch method {
		case "registerFile":
			controller.RegisterFile()
		case "getContactFiles":
			controller.GetContactFiles()
		case "deleteFile":
			controller.DeleteFile()
		case "getSignedURL":
			controller.GetSignedURL()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// RegisterFileRequest 表示登记文档元数据的请求体
type RegisterFileRequest struct {
	FileName    string `json:"file_name" binding:"required" example:"passport.pdf"`
	Bucket      string `json:"bucket" example:"contact-files"`
	Path        string `json:"path" example:"c7b9a1/passport.pdf"`
	ContentType string `json:"content_type" example:"application/pdf"`
	SizeBytes   int64  `json:"size_bytes" example:"204800"`
}

// RegisterFile 登记联系人文档元数据。
// 文件内容已由前端直传对象存储，这里只记录元数据
// @Summary      登记联系人文档
// @Description  为联系人登记一条文档元数据记录
// @Tags         File
// @Accept       json
// @Produce      json
// @Param        id path string true "联系人ID"
// @Param        request body RegisterFileRequest true "文档元数据"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /contacts/{id}/files [post]
// @Security     BearerAuth
func (c *FileController) RegisterFile() {
	contactID := c.Ctx.Param("id")

	var req RegisterFileRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	uploadedBy := ""
	if v, exists := c.Ctx.Get("userID"); exists {
		uploadedBy, _ = v.(string)
	}

	file := &models.ContactFile{
		ContactID:   contactID,
		FileName:    req.FileName,
		Bucket:      req.Bucket,
		Path:        req.Path,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		UploadedBy:  uploadedBy,
	}

	storageService := c.Container.GetService("storage").(services.InterfaceStorageService)
	if err := storageService.RegisterContactFile(file); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "登记文档失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, file)
}

// GetContactFiles 获取联系人的文档列表
// @Summary      获取联系人文档
// @Description  获取联系人名下的全部文档元数据
// @Tags         File
// @Produce      json
// @Param        id path string true "联系人ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /contacts/{id}/files [get]
// @Security     BearerAuth
func (c *FileController) GetContactFiles() {
	contactID := c.Ctx.Param("id")

	storageService := c.Container.GetService("storage").(services.InterfaceStorageService)
	files, err := storageService.GetContactFiles(contactID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询文档列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, files)
}

// DeleteFile 删除文档元数据
// @Summary      删除文档
// @Description  删除一条文档元数据记录，不删除对象存储中的文件本体
// @Tags         File
// @Produce      json
// @Param        file_id path string true "文档ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /files/{file_id} [delete]
// @Security     BearerAuth
func (c *FileController) DeleteFile() {
	id := c.Ctx.Param("file_id")

	storageService := c.Container.GetService("storage").(services.InterfaceStorageService)
	if err := storageService.DeleteContactFile(id); err != nil {
		if err.Error() == "文档不存在" {
			response.Fail(c.Ctx, code.ErrFileNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除文档失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, nil)
}

// GetSignedURL 获取文档的签名下载URL
// @Summary      获取签名URL
// @Description  向对象存储换取文档的临时签名下载URL，依次尝试备选bucket
// @Tags         File
// @Produce      json
// @Param        file_id path string true "文档ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /files/{file_id}/signed-url [get]
// @Security     BearerAuth
func (c *FileController) GetSignedURL() {
	id := c.Ctx.Param("file_id")

	storageService := c.Container.GetService("storage").(services.InterfaceStorageService)
	url, err := storageService.GetSignedURL(id)
	if err != nil {
		switch err.Error() {
		case "文档不存在":
			response.Fail(c.Ctx, code.ErrFileNotFound, nil)
		case "签名URL获取失败":
			response.Fail(c.Ctx, code.ErrSignedURLFailed, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrUnknown, "获取签名URL失败: "+err.Error(), nil)
		}
		return
	}

	response.Success(c.Ctx, gin.H{"signed_url": url})
}
