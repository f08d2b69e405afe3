package controller

import (
	"errors"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	Enrollments *service.EnrollmentService
	Progress    *service.ProgressService
}

func NewEnrollmentController(enrollments *service.EnrollmentService, progress *service.ProgressService) *EnrollmentController {
	return &EnrollmentController{Enrollments: enrollments, Progress: progress}
}

// @Summary 购课后创建选课记录
// @Description 幂等：重复购买同一课程返回已有记录
// @Tags 选课
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Success 201 {object} util.Response
// @Router /courses/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	enrollment, created, err := c.Enrollments.Enroll(user.UserID, uint(courseID))
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	// 已存在的选课是另一种成功：返回已有凭证而非报错
	if created {
		util.Created(ctx, enrollment)
		return
	}
	util.Success(ctx, enrollment)
}

// @Summary 我的选课列表
// @Tags 选课
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /enrollments [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.Enrollments.ListMine(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, enrollments)
}

type RecordProgressRequest struct {
	MaterialTitle string `json:"materialTitle" binding:"required"`
	MaterialType  string `json:"materialType" binding:"required"`
	Progress      int    `json:"progress"`
}

// @Summary 上报资料学习进度
// @Description 视频按 0-100 百分比，文档只记完成；视频已达 100 后重复提交为幂等空操作
// @Tags 选课
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "选课记录ID"
// @Param body body RecordProgressRequest true "进度信息"
// @Success 200 {object} util.Response
// @Router /enrollments/{id}/progress [post]
func (c *EnrollmentController) RecordProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollmentID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid enrollment id")
		return
	}

	var req RecordProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Progress.RecordProgress(user.UserID, uint(enrollmentID), req.MaterialTitle, req.MaterialType, req.Progress)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidProgress), errors.Is(err, util.ErrUnknownMaterialType):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrEnrollmentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrEnrollmentInactive):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}
