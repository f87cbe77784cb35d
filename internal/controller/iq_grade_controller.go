package controller

import (
	"quiz_iq_backend/internal/service"
	"quiz_iq_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type IqGradeController struct {
	IqGradeService *service.IqGradeService
}

func NewIqGradeController(iqGradeService *service.IqGradeService) *IqGradeController {
	return &IqGradeController{IqGradeService: iqGradeService}
}

// ListGlobal godoc
// @Summary 全局 IQ 等级
// @Tags IQ等级
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.IqGrade}
// @Router /api/iq-grades [get]
func (c *IqGradeController) ListGlobal(ctx *gin.Context) {
	grades, err := c.IqGradeService.ListEffective(ctx.Request.Context(), "")
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, grades)
}

// ListForSubject godoc
// @Summary 科目生效的 IQ 等级
// @Description 科目没有专属等级时返回全局等级
// @Tags IQ等级
// @Produce  json
// @Param   subjectId path string true "科目ID"
// @Success 200 {object} util.Response{data=[]model.IqGrade}
// @Router /api/iq-grades/{subjectId} [get]
func (c *IqGradeController) ListForSubject(ctx *gin.Context) {
	grades, err := c.IqGradeService.ListEffective(ctx.Request.Context(), ctx.Param("subjectId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, grades)
}

// AdminList godoc
// @Summary 所有 IQ 等级
// @Tags 管理员
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.IqGrade}
// @Router /api/admin/iq-grades [get]
func (c *IqGradeController) AdminList(ctx *gin.Context) {
	grades, err := c.IqGradeService.ListAll(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, grades)
}

// Create godoc
// @Summary 创建 IQ 等级
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   body body service.IqGradeReq true "等级"
// @Success 201 {object} util.Response{data=model.IqGrade}
// @Failure 400 {object} util.Response
// @Router /api/admin/iq-grades [post]
func (c *IqGradeController) Create(ctx *gin.Context) {
	var req service.IqGradeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	grade, err := c.IqGradeService.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, grade)
}

// Update godoc
// @Summary 更新 IQ 等级
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   id path string true "等级ID"
// @Param   body body service.IqGradeReq true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.IqGrade}
// @Router /api/admin/iq-grades/{id} [patch]
func (c *IqGradeController) Update(ctx *gin.Context) {
	var req service.IqGradeReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	grade, err := c.IqGradeService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, grade)
}

// Delete godoc
// @Summary 删除 IQ 等级
// @Tags 管理员
// @Param   id path string true "等级ID"
// @Success 200 {object} util.Response
// @Router /api/admin/iq-grades/{id} [delete]
func (c *IqGradeController) Delete(ctx *gin.Context) {
	if err := c.IqGradeService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "IQ grade deleted"})
}
