package controller

import (
	"quiz_iq_backend/internal/service"
	"quiz_iq_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	SubjectService *service.SubjectService
}

func NewSubjectController(subjectService *service.SubjectService) *SubjectController {
	return &SubjectController{SubjectService: subjectService}
}

// ListSubjects godoc
// @Summary 科目列表（含测验）
// @Tags 科目
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Subject}
// @Router /api/subjects [get]
func (c *SubjectController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.SubjectService.List(ctx.Request.Context(), true)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// AdminListSubjects godoc
// @Summary 科目列表（管理端）
// @Tags 管理员
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Subject}
// @Router /api/admin/subjects [get]
func (c *SubjectController) AdminListSubjects(ctx *gin.Context) {
	subjects, err := c.SubjectService.List(ctx.Request.Context(), false)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subjects)
}

// CreateSubject godoc
// @Summary 创建科目
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   body body service.SubjectReq true "科目信息"
// @Success 201 {object} util.Response{data=model.Subject}
// @Router /api/admin/subjects [post]
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req service.SubjectReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.SubjectService.Create(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, subject)
}

// UpdateSubject godoc
// @Summary 更新科目
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   id path string true "科目ID"
// @Param   body body service.SubjectReq true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Subject}
// @Router /api/admin/subjects/{id} [patch]
func (c *SubjectController) UpdateSubject(ctx *gin.Context) {
	var req service.SubjectReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	subject, err := c.SubjectService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subject)
}

// DeleteSubject godoc
// @Summary 删除科目
// @Description 级联删除测验和科目专属 IQ 等级
// @Tags 管理员
// @Produce  json
// @Param   id path string true "科目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/subjects/{id} [delete]
func (c *SubjectController) DeleteSubject(ctx *gin.Context) {
	if err := c.SubjectService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Subject deleted"})
}
