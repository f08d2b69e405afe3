package controller

import (
	"errors"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	Service *service.CertificateService
}

func NewCertificateController(svc *service.CertificateService) *CertificateController {
	return &CertificateController{Service: svc}
}

// @Summary 我的证书
// @Tags 证书
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /certificates/mine [get]
func (c *CertificateController) Mine(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	cert, err := c.Service.Mine(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrCertificateNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, cert)
}

type IssueCertificateRequest struct {
	Overrides service.CertificateOverrides `json:"overrides"`
}

// @Summary 管理员：为学员签发证书
// @Description 每位学员至多一张；编号全局递增，首张为 "01"
// @Tags 证书
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "学员ID"
// @Param body body IssueCertificateRequest false "有效期覆盖"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /admin/certificates/{userId}/issue [post]
func (c *CertificateController) Issue(ctx *gin.Context) {
	admin := util.GetUserFromContext(ctx)
	if admin == nil {
		util.Unauthorized(ctx)
		return
	}

	userID, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}

	var req IssueCertificateRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	cert, err := c.Service.Issue(uint(userID), req.Overrides, admin.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCertificateExists), errors.Is(err, util.ErrCertificateNumber):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, cert)
}

// @Summary 管理员：证书列表
// @Tags 证书
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /admin/certificates [get]
func (c *CertificateController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	certs, total, err := c.Service.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": certs, "total": total})
}
