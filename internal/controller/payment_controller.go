package controller

import (
	"quiz_iq_backend/internal/service"
	"quiz_iq_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PaymentController struct {
	PaymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{PaymentService: paymentService}
}

// Initialize godoc
// @Summary 发起会员支付
// @Description 调用 Paystack 创建交易，返回支付跳转地址
// @Tags 支付
// @Produce  json
// @Success 200 {object} util.Response{data=service.InitializePaymentResult}
// @Failure 502 {object} util.Response "Paystack 调用失败"
// @Router /api/payments/initialize [post]
func (c *PaymentController) Initialize(ctx *gin.Context) {
	res, err := c.PaymentService.Initialize(ctx.Request.Context(), util.GetUserIDFromContext(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// Verify godoc
// @Summary 校验支付结果
// @Description 重复调用不会重复处理
// @Tags 支付
// @Produce  json
// @Param   reference path string true "支付单号"
// @Success 200 {object} util.Response{data=service.VerifyPaymentResult}
// @Failure 404 {object} util.Response
// @Router /api/payments/verify/{reference} [get]
func (c *PaymentController) Verify(ctx *gin.Context) {
	res, err := c.PaymentService.Verify(ctx.Request.Context(), ctx.Param("reference"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// ListMine godoc
// @Summary 我的支付记录
// @Tags 支付
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Payment}
// @Router /api/payments/user [get]
func (c *PaymentController) ListMine(ctx *gin.Context) {
	payments, err := c.PaymentService.ListUserPayments(ctx.Request.Context(), util.GetUserIDFromContext(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, payments)
}

// ListAll godoc
// @Summary 所有支付记录
// @Tags 管理员
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Payment}
// @Router /api/admin/payments [get]
func (c *PaymentController) ListAll(ctx *gin.Context) {
	payments, err := c.PaymentService.ListAllPayments(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, payments)
}

// GetSettings godoc
// @Summary 会员价格设置
// @Tags 支付
// @Produce  json
// @Success 200 {object} util.Response{data=model.PaymentSettings}
// @Router /api/payment-settings [get]
func (c *PaymentController) GetSettings(ctx *gin.Context) {
	settings, err := c.PaymentService.GetSettings(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}

// UpdateSettings godoc
// @Summary 修改会员价格设置
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   body body service.PaymentSettingsReq true "价格（kobo）与分账码"
// @Success 200 {object} util.Response{data=model.PaymentSettings}
// @Router /api/admin/payment-settings [patch]
func (c *PaymentController) UpdateSettings(ctx *gin.Context) {
	var req service.PaymentSettingsReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	settings, err := c.PaymentService.UpdateSettings(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, settings)
}
