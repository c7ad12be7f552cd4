package controllers

import (
	"io"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/code"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceImportController 定义线索导入控制器接口
type InterfaceImportController interface {
	PreviewImport()
	ConfirmImport()
	DownloadTemplate()
}

// ImportController 处理线索批量导入相关的请求
type ImportController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewImportController 创建一个新的线索导入控制器
func NewImportController(ctx *gin.Context, container *container.ServiceContainer) *ImportController {
	return &ImportController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleImportFunc 返回一个处理线索导入请求的Gin处理函数
func HandleImportFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewImportController(ctx, container)

		switch method {
		case "previewImport":
			controller.PreviewImport()
		case "confirmImport":
			controller.ConfirmImport()
		case "downloadTemplate":
			controller.DownloadTemplate()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// readUploadedFile 读取multipart上传文件内容
func (c *ImportController) readUploadedFile() ([]byte, string, bool) {
	fileHeader, err := c.Ctx.FormFile("file")
	if err != nil {
		response.ParamError(c.Ctx, "缺少上传文件")
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrLeadImportFailed, "打开上传文件失败", nil)
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrLeadImportFailed, "读取上传文件失败", nil)
		return nil, "", false
	}

	return data, fileHeader.Filename, true
}

// PreviewImport 解析并校验线索文件
// @Summary      预览线索导入
// @Description  解析上传的xlsx/csv文件，返回规范化后的线索记录和逐行校验结果，不落库
// @Tags         Import
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "线索文件(xlsx/csv)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /leads/import/preview [post]
// @Security     BearerAuth
func (c *ImportController) PreviewImport() {
	data, filename, ok := c.readUploadedFile()
	if !ok {
		return
	}

	importerService := c.Container.GetService("importer").(services.InterfaceImporterService)
	leads, err := importerService.ParseLeadFile(data, filename)
	if err != nil {
		response.Fail(c.Ctx, code.ErrLeadImportFailed, nil)
		return
	}

	validations := importerService.ValidateLeads(leads)

	validCount := 0
	for _, v := range validations {
		if v.Valid {
			validCount++
		}
	}

	response.Success(c.Ctx, gin.H{
		"total":       len(leads),
		"valid":       validCount,
		"invalid":     len(leads) - validCount,
		"leads":       leads,
		"validations": validations,
	})
}

// ConfirmImport 解析校验并落库线索文件
// @Summary      确认线索导入
// @Description  解析上传文件并将通过校验的线索落库，分配给当前用户
// @Tags         Import
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "线索文件(xlsx/csv)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /leads/import [post]
// @Security     BearerAuth
func (c *ImportController) ConfirmImport() {
	data, filename, ok := c.readUploadedFile()
	if !ok {
		return
	}

	importerService := c.Container.GetService("importer").(services.InterfaceImporterService)
	leads, err := importerService.ParseLeadFile(data, filename)
	if err != nil {
		response.Fail(c.Ctx, code.ErrLeadImportFailed, nil)
		return
	}

	validations := importerService.ValidateLeads(leads)

	// 只落库通过校验的行
	var importable = leads[:0:0]
	var skipped []gin.H
	for i, v := range validations {
		if v.Valid {
			importable = append(importable, leads[i])
		} else {
			skipped = append(skipped, gin.H{
				"row":      v.RowNumber,
				"messages": v.Messages,
			})
		}
	}

	agentID := ""
	if v, exists := c.Ctx.Get("userID"); exists {
		agentID, _ = v.(string)
	}

	leadService := c.Container.GetService("lead").(services.InterfaceLeadService)
	created, err := leadService.ImportLeads(importable, agentID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "导入线索失败: "+err.Error(), gin.H{
			"created": created,
		})
		return
	}

	response.Success(c.Ctx, gin.H{
		"created": created,
		"skipped": skipped,
	})
}

// DownloadTemplate 下载线索导入模板
// @Summary      下载导入模板
// @Description  生成并下载线索导入的Excel模板文件
// @Tags         Import
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  binary
// @Failure      500  {object}  ErrorResponse
// @Router       /leads/import/template [get]
// @Security     BearerAuth
func (c *ImportController) DownloadTemplate() {
	importerService := c.Container.GetService("importer").(services.InterfaceImporterService)
	data, err := importerService.BuildImportTemplate()
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrUnknown, "生成导入模板失败: "+err.Error(), nil)
		return
	}

	c.Ctx.Header("Content-Disposition", `attachment; filename="lead_import_template.xlsx"`)
	c.Ctx.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
