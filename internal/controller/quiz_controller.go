package controller

import (
	"quiz_iq_backend/internal/service"
	"quiz_iq_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// SubmitResult 提交结果
// swagger:model SubmitResult
type SubmitResult struct {
	AttemptID      string  `json:"attemptId"`
	Score          int     `json:"score"`
	TotalQuestions int     `json:"totalQuestions"`
	Passed         bool    `json:"passed"`
	IQScore        *int    `json:"iqScore"`
	IQLabel        *string `json:"iqLabel"`
}

// GetQuiz godoc
// @Summary 获取测验（答题视图）
// @Description 返回测验、阅读材料及题目；未开启即时反馈时不返回答案
// @Tags 测验
// @Produce  json
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 402 {object} util.Response "付费科目"
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	view, err := c.QuizService.GetQuizForUser(ctx.Request.Context(), util.GetUserIDFromContext(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Submit godoc
// @Summary 提交答案
// @Description 评分、计算是否通过并换算 IQ
// @Tags 测验
// @Accept  json
// @Produce  json
// @Param   id path string true "测验ID"
// @Param   body body service.SubmitQuizReq true "答案"
// @Success 200 {object} util.Response{data=SubmitResult}
// @Failure 400 {object} util.Response
// @Failure 402 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	var req service.SubmitQuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.QuizService.Submit(ctx.Request.Context(), util.GetUserIDFromContext(ctx), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, SubmitResult{
		AttemptID:      attempt.ID,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Passed:         attempt.Passed,
		IQScore:        attempt.IQScore,
		IQLabel:        attempt.IQLabel,
	})
}

// ListMyAttempts godoc
// @Summary 我的答题记录
// @Tags 测验
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/attempts [get]
func (c *QuizController) ListMyAttempts(ctx *gin.Context) {
	attempts, err := c.QuizService.ListUserAttempts(ctx.Request.Context(), util.GetUserIDFromContext(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// GetAttempt godoc
// @Summary 答题详情
// @Description 仅本人可查看，包含题目和正确答案
// @Tags 测验
// @Produce  json
// @Param   id path string true "记录ID"
// @Success 200 {object} util.Response{data=model.QuizAttempt}
// @Failure 404 {object} util.Response
// @Router /api/attempts/{id} [get]
func (c *QuizController) GetAttempt(ctx *gin.Context) {
	attempt, err := c.QuizService.GetAttempt(ctx.Request.Context(), util.GetUserIDFromContext(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// ---- 管理端 ----

// ListAllAttempts godoc
// @Summary 所有答题记录
// @Tags 管理员
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/admin/attempts [get]
func (c *QuizController) ListAllAttempts(ctx *gin.Context) {
	attempts, err := c.QuizService.ListAllAttempts(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// ListQuizzes godoc
// @Summary 测验列表
// @Tags 管理员
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/admin/quizzes [get]
func (c *QuizController) ListQuizzes(ctx *gin.Context) {
	quizzes, err := c.QuizService.ListQuizzes(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// AdminGetQuiz godoc
// @Summary 测验详情（含答案）
// @Tags 管理员
// @Produce  json
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes/{id} [get]
func (c *QuizController) AdminGetQuiz(ctx *gin.Context) {
	quiz, err := c.QuizService.GetQuiz(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// CreateQuiz godoc
// @Summary 创建测验
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   body body service.QuizReq true "测验信息"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// UpdateQuiz godoc
// @Summary 更新测验
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   id path string true "测验ID"
// @Param   body body service.QuizReq true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/admin/quizzes/{id} [patch]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Description 同时删除题目、阅读材料和答题记录
// @Tags 管理员
// @Produce  json
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	if err := c.QuizService.DeleteQuiz(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Quiz deleted"})
}
