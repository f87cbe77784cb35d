package controller

import (
	"net/http"
	"quiz_iq_backend/internal/model"
	"quiz_iq_backend/internal/service"
	"quiz_iq_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService    *service.AuthService
	PaymentService *service.PaymentService
	SecureCookie   bool // 生产环境启用 Secure 标志
}

func NewAuthController(authService *service.AuthService, paymentService *service.PaymentService, secureCookie bool) *AuthController {
	return &AuthController{
		AuthService:    authService,
		PaymentService: paymentService,
		SecureCookie:   secureCookie,
	}
}

func (c *AuthController) setSessionCookie(ctx *gin.Context, name string, session *service.IssuedSession) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(name, session.Token, int(session.MaxAge.Seconds()), "/", "", c.SecureCookie, true)
}

func (c *AuthController) clearCookie(ctx *gin.Context, name string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(name, "", -1, "/", "", c.SecureCookie, true)
}

// swagger:model SendOTPRequest
type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// SendOTP godoc
// @Summary 发送登录验证码
// @Description 生成 6 位验证码，优先通过 WhatsApp 发送，失败时回退短信
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body SendOTPRequest true "手机号"
// @Success 200 {object} util.Response{data=service.SendOTPResult}
// @Failure 400 {object} util.Response "手机号格式错误"
// @Failure 429 {object} util.Response "发送过于频繁"
// @Router /api/auth/send-otp [post]
func (c *AuthController) SendOTP(ctx *gin.Context) {
	var req SendOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.AuthService.SendOTP(ctx.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// swagger:model VerifyOTPRequest
type VerifyOTPRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	OTP       string `json:"otp" binding:"required"`
	Name      string `json:"name"`
}

// VerifyOTP godoc
// @Summary 校验验证码并登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body VerifyOTPRequest true "会话ID与验证码"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response "验证码错误或已过期"
// @Router /api/auth/verify-otp [post]
func (c *AuthController) VerifyOTP(ctx *gin.Context) {
	var req VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, session, err := c.AuthService.VerifyOTP(ctx.Request.Context(), req.SessionID, req.OTP, req.Name)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.setSessionCookie(ctx, util.UserTokenCookie, session)
	util.Success(ctx, user)
}

// swagger:model LoginWithoutOTPRequest
type LoginWithoutOTPRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// LoginWithoutOTP godoc
// @Summary 免验证码登录
// @Description 28 天内验证过的手机号可直接登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginWithoutOTPRequest true "手机号"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response "需要重新验证"
// @Router /api/auth/login-without-otp [post]
func (c *AuthController) LoginWithoutOTP(ctx *gin.Context) {
	var req LoginWithoutOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, session, err := c.AuthService.LoginWithoutOTP(ctx.Request.Context(), req.PhoneNumber)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.setSessionCookie(ctx, util.UserTokenCookie, session)
	util.Success(ctx, user)
}

// Me godoc
// @Summary 当前登录用户
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := ctx.MustGet(util.CtxUser).(*model.User)

	hasPremium, err := c.PaymentService.HasPremiumAccess(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"user":       user,
		"hasPremium": hasPremium,
	})
}

// Logout godoc
// @Summary 退出登录
// @Description 删除服务端会话并清除 Cookie
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	userToken, _ := ctx.Cookie(util.UserTokenCookie)
	adminToken, _ := ctx.Cookie(util.AdminTokenCookie)
	c.AuthService.Logout(ctx.Request.Context(), userToken, adminToken)

	c.clearCookie(ctx, util.UserTokenCookie)
	c.clearCookie(ctx, util.AdminTokenCookie)
	util.Success(ctx, gin.H{"message": "Logged out"})
}

// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateProfile godoc
// @Summary 修改昵称
// @Tags 用户
// @Accept  json
// @Produce  json
// @Param   body body UpdateProfileRequest true "昵称"
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/users/profile [patch]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.UpdateProfile(ctx.Request.Context(), util.GetUserIDFromContext(ctx), req.Name)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// ---- 管理员 ----

// swagger:model AdminCredentials
type AdminCredentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SetupNeeded godoc
// @Summary 是否需要初始化管理员
// @Tags 管理员
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/admin/setup-needed [get]
func (c *AuthController) SetupNeeded(ctx *gin.Context) {
	needed, err := c.AuthService.SetupNeeded(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"setupNeeded": needed})
}

// SetupAdmin godoc
// @Summary 创建首个超级管理员
// @Description 仅在系统中没有任何管理员时可用
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   body body AdminCredentials true "用户名和密码"
// @Success 201 {object} util.Response{data=model.Admin}
// @Failure 403 {object} util.Response "已完成初始化"
// @Router /api/admin/setup [post]
func (c *AuthController) SetupAdmin(ctx *gin.Context) {
	var req AdminCredentials
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	admin, err := c.AuthService.SetupAdmin(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, admin)
}

// AdminLogin godoc
// @Summary 管理员登录
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   body body AdminCredentials true "用户名和密码"
// @Success 200 {object} util.Response{data=model.Admin}
// @Failure 401 {object} util.Response
// @Router /api/admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req AdminCredentials
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	admin, session, err := c.AuthService.AdminLogin(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.setSessionCookie(ctx, util.AdminTokenCookie, session)
	util.Success(ctx, admin)
}

// AdminMe godoc
// @Summary 当前登录管理员
// @Tags 管理员
// @Produce  json
// @Success 200 {object} util.Response{data=model.Admin}
// @Router /api/admin/me [get]
func (c *AuthController) AdminMe(ctx *gin.Context) {
	util.Success(ctx, ctx.MustGet(util.CtxAdmin))
}

// ListAdmins godoc
// @Summary 管理员列表
// @Tags 管理员
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Admin}
// @Router /api/admin/admins [get]
func (c *AuthController) ListAdmins(ctx *gin.Context) {
	admins, err := c.AuthService.ListAdmins(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, admins)
}

// CreateAdmin godoc
// @Summary 创建管理员
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   body body AdminCredentials true "用户名和密码"
// @Success 201 {object} util.Response{data=model.Admin}
// @Failure 409 {object} util.Response "用户名已存在"
// @Router /api/admin/admins [post]
func (c *AuthController) CreateAdmin(ctx *gin.Context) {
	var req AdminCredentials
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	admin, err := c.AuthService.CreateAdmin(ctx.Request.Context(), util.GetAdminIDFromContext(ctx), req.Username, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, admin)
}

// DeleteAdmin godoc
// @Summary 删除管理员
// @Description 不能删除自己或超级管理员
// @Tags 管理员
// @Produce  json
// @Param   id path string true "管理员ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/admin/admins/{id} [delete]
func (c *AuthController) DeleteAdmin(ctx *gin.Context) {
	if err := c.AuthService.DeleteAdmin(ctx.Request.Context(), util.GetAdminIDFromContext(ctx), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Admin deleted"})
}
