package controller

import (
	"quiz_iq_backend/internal/service"
	"quiz_iq_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuestionController 题目和阅读材料管理
type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// ListQuestions godoc
// @Summary 测验题目列表
// @Tags 管理员
// @Produce  json
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response{data=[]model.Question}
// @Router /api/admin/quizzes/{id}/questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	questions, err := c.QuestionService.ListByQuiz(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// CreateQuestion godoc
// @Summary 添加题目
// @Description 新题目排在最后
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   id path string true "测验ID"
// @Param   body body service.QuestionReq true "题目"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response
// @Router /api/admin/quizzes/{id}/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.Create(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   id path string true "题目ID"
// @Param   body body service.QuestionReq true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/admin/questions/{id} [patch]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.QuestionService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 管理员
// @Param   id path string true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	if err := c.QuestionService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Question deleted"})
}

// ListScenarios godoc
// @Summary 阅读材料列表
// @Tags 管理员
// @Produce  json
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response{data=[]model.Scenario}
// @Router /api/admin/quizzes/{id}/scenarios [get]
func (c *QuestionController) ListScenarios(ctx *gin.Context) {
	scenarios, err := c.QuestionService.ListScenarios(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, scenarios)
}

// CreateScenario godoc
// @Summary 添加阅读材料
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   id path string true "测验ID"
// @Param   body body service.ScenarioReq true "材料"
// @Success 201 {object} util.Response{data=model.Scenario}
// @Router /api/admin/quizzes/{id}/scenarios [post]
func (c *QuestionController) CreateScenario(ctx *gin.Context) {
	var req service.ScenarioReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sc, err := c.QuestionService.CreateScenario(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, sc)
}

// UpdateScenario godoc
// @Summary 更新阅读材料
// @Tags 管理员
// @Accept  json
// @Produce  json
// @Param   id path string true "测验ID"
// @Param   scenarioId path string true "材料ID"
// @Param   body body service.ScenarioReq true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Scenario}
// @Router /api/admin/quizzes/{id}/scenarios/{scenarioId} [patch]
func (c *QuestionController) UpdateScenario(ctx *gin.Context) {
	var req service.ScenarioReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	sc, err := c.QuestionService.UpdateScenario(ctx.Request.Context(), ctx.Param("scenarioId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sc)
}

// DeleteScenario godoc
// @Summary 删除阅读材料
// @Description 材料下的题目保留
// @Tags 管理员
// @Param   id path string true "测验ID"
// @Param   scenarioId path string true "材料ID"
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes/{id}/scenarios/{scenarioId} [delete]
func (c *QuestionController) DeleteScenario(ctx *gin.Context) {
	if err := c.QuestionService.DeleteScenario(ctx.Request.Context(), ctx.Param("scenarioId")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Scenario deleted"})
}
