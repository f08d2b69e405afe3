package controller

import (
	"errors"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	Exam        *service.ExamService
	Eligibility *service.EligibilityService
}

func NewExamController(exam *service.ExamService, eligibility *service.EligibilityService) *ExamController {
	return &ExamController{Exam: exam, Eligibility: eligibility}
}

// @Summary 查询考试资格
// @Description 返回判定结果与逐课程明细，未购课程标记为 not_purchased
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /exam/eligibility [get]
func (c *ExamController) GetEligibility(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.Eligibility.Evaluate(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary 获取试卷
// @Description 资格不通过返回 403；下发的题目不含答案字段
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /exam/questions [get]
func (c *ExamController) GetExamQuestions(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	paper, err := c.Exam.AssembleExam(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrNotEligible) {
			// 资格不足是预期结果，单独的状态便于前端引导补课
			util.Error(ctx, http.StatusForbidden, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, paper)
}

type SubmitExamRequest struct {
	ExamID    uint                      `json:"examId" binding:"required"`
	Answers   []service.SubmittedAnswer `json:"answers"`
	TimeSpent int                       `json:"timeSpent"`
}

// @Summary 提交答卷
// @Description 判分并生成一条考试记录；不限制提交次数
// @Tags 考试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitExamRequest true "答卷"
// @Success 200 {object} util.Response
// @Router /exam/submit [post]
func (c *ExamController) SubmitExam(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	history, err := c.Exam.GradeSubmission(user.UserID, req.ExamID, req.Answers, req.TimeSpent)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrHistoryNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrUnknownQuestionType):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, history)
}

// @Summary 我的考试记录
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /exam/history [get]
func (c *ExamController) ListHistory(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	histories, total, err := c.Exam.ListHistory(user.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": histories, "total": total})
}

// @Summary 考试记录详情
// @Description 含逐题快照：题面、选项、标准答案与作答
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path string true "记录ID"
// @Success 200 {object} util.Response
// @Router /exam/history/{id} [get]
func (c *ExamController) GetHistoryDetail(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	history, entries, err := c.Exam.GetHistoryDetail(user.UserID, ctx.Param("id"))
	if err != nil {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, gin.H{"history": history, "entries": entries})
}
