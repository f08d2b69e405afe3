package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	Service *service.SettingsService
}

func NewSettingsController(svc *service.SettingsService) *SettingsController {
	return &SettingsController{Service: svc}
}

// @Summary 管理员：查看考试配置
// @Tags 考试配置
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /admin/exam-settings [get]
func (c *SettingsController) Get(ctx *gin.Context) {
	setting, err := c.Service.Get()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, setting)
}

// @Summary 管理员：更新考试配置
// @Description 未提供的字段保持不变
// @Tags 考试配置
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ExamSettingRequest true "考试配置"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /admin/exam-settings [put]
func (c *SettingsController) Update(ctx *gin.Context) {
	var req service.ExamSettingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	setting, err := c.Service.Update(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, setting)
}
