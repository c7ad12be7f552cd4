package controllers

import (
	"strconv"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/services/container"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/code"
	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceTransactionController 定义交易控制器接口
type InterfaceTransactionController interface {
	GetTransactions()
	GetTransaction()
	CreateTransaction()
	UpdateTransactionStage()
}

// TransactionController 处理交易相关的请求
type TransactionController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTransactionController 创建一个新的交易控制器
func NewTransactionController(ctx *gin.Context, container *container.ServiceContainer) *TransactionController {
	return &TransactionController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleTransactionFunc 返回一个处理交易请求的Gin处理函数
func HandleTransactionFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTransactionController(ctx, container)

		switch method {
		case "getTransactions":
			controller.GetTransactions()
		case "getTransaction":
			controller.GetTransaction()
		case "createTransaction":
			controller.CreateTransaction()
		case "updateTransactionStage":
			controller.UpdateTransactionStage()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetTransactions 获取交易列表
// @Summary      获取交易列表
// @Description  分页获取交易列表，支持按经纪人和阶段过滤
// @Tags         Transaction
// @Produce      json
// @Param        page query int false "页码，默认为1" example:"1"
// @Param        page_size query int false "每页条数，默认为10" example:"10"
// @Param        agent_id query string false "经纪人ID"
// @Param        stage query string false "交易阶段" example:"offer"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /transactions [get]
// @Security     BearerAuth
func (c *TransactionController) GetTransactions() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	agentID := c.Ctx.Query("agent_id")
	stage := c.Ctx.Query("stage")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	txService := c.Container.GetService("transaction").(services.InterfaceTransactionService)
	transactions, total, err := txService.GetTransactions(page, pageSize, agentID, stage)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询交易列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        transactions,
	})
}

// GetTransaction 获取交易详情
// @Summary      获取交易详情
// @Description  根据ID获取交易详情
// @Tags         Transaction
// @Produce      json
// @Param        id path string true "交易ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /transactions/{id} [get]
// @Security     BearerAuth
func (c *TransactionController) GetTransaction() {
	id := c.Ctx.Param("id")

	txService := c.Container.GetService("transaction").(services.InterfaceTransactionService)
	tx, err := txService.GetTransactionByID(id)
	if err != nil {
		if err.Error() == "交易不存在" {
			response.Fail(c.Ctx, code.ErrTransactionNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询交易失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, tx)
}

// CreateTransactionRequest 表示创建交易的请求体
type CreateTransactionRequest struct {
	LeadID     string  `json:"lead_id" example:"c1a9..."`
	ContactID  string  `json:"contact_id" example:"b2f1..."`
	PropertyID string  `json:"property_id" example:"a3d8..."`
	Stage      string  `json:"stage" example:"offer"` // 可选值: offer, under_contract, closing, closed, fell_through
	Amount     float64 `json:"amount" example:"1250000"`
}

// CreateTransaction 创建交易
// @Summary      创建交易
// @Description  为线索/联系人/房源创建一笔交易，经纪人取自当前登录用户
// @Tags         Transaction
// @Accept       json
// @Produce      json
// @Param        request body CreateTransactionRequest true "交易参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /transactions [post]
// @Security     BearerAuth
func (c *TransactionController) CreateTransaction() {
	var req CreateTransactionRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	agentID := ""
	if v, exists := c.Ctx.Get("userID"); exists {
		agentID, _ = v.(string)
	}

	tx := models.Transaction{
		AgentID: agentID,
		Stage:   req.Stage,
		Amount:  req.Amount,
	}
	if req.LeadID != "" {
		tx.LeadID = &req.LeadID
	}
	if req.ContactID != "" {
		tx.ContactID = &req.ContactID
	}
	if req.PropertyID != "" {
		tx.PropertyID = &req.PropertyID
	}

	txService := c.Container.GetService("transaction").(services.InterfaceTransactionService)
	if err := txService.CreateTransaction(&tx); err != nil {
		if err.Error() == "交易阶段无效" || err.Error() == "交易必须指定经纪人" {
			response.FailWithMessage(c.Ctx, code.ErrTxStageInvalid, err.Error(), nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建交易失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, tx)
}

// UpdateTransactionStageRequest 表示更新交易阶段的请求体
type UpdateTransactionStageRequest struct {
	Stage string `json:"stage" binding:"required" example:"under_contract"`
}

// UpdateTransactionStage 更新交易阶段
// @Summary      更新交易阶段
// @Description  更新交易阶段，进入closed时记录成交时间并重算关联联系人状态
// @Tags         Transaction
// @Accept       json
// @Produce      json
// @Param        id path string true "交易ID"
// @Param        request body UpdateTransactionStageRequest true "阶段参数"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /transactions/{id}/stage [put]
// @Security     BearerAuth
func (c *TransactionController) UpdateTransactionStage() {
	id := c.Ctx.Param("id")

	var req UpdateTransactionStageRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求参数: "+err.Error())
		return
	}

	txService := c.Container.GetService("transaction").(services.InterfaceTransactionService)
	tx, err := txService.UpdateTransactionStage(id, req.Stage)
	if err != nil {
		switch err.Error() {
		case "交易不存在":
			response.Fail(c.Ctx, code.ErrTransactionNotFound, nil)
		case "交易阶段无效":
			response.Fail(c.Ctx, code.ErrTxStageInvalid, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新交易阶段失败: "+err.Error(), nil)
		}
		return
	}

	response.Success(c.Ctx, tx)
}
