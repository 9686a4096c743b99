// Package router 注册HTTP路由与访问控制中间件。
package router

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"

	"resume-screener-go/internal/api/handler"
	"resume-screener-go/internal/config"
)

// RegisterRoutes 注册 API 路由。
// cfg.Server.APIKey 非空时，/api/v1 下的所有路由要求
// "Authorization: Bearer <key>" 头
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, searchHandler *handler.SearchHandler, cfg *config.Config) {
	// 健康检查不鉴权，供探活使用
	h.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	api := h.Group("/api/v1")

	if cfg.Server.APIKey != "" {
		api.Use(keyauth.New(
			keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
			keyauth.WithValidator(func(c context.Context, ctx *app.RequestContext, key string) (bool, error) {
				return key == cfg.Server.APIKey, nil
			}),
			keyauth.WithErrorHandler(func(c context.Context, ctx *app.RequestContext, err error) {
				ctx.JSON(consts.StatusUnauthorized, utils.H{"error": "未授权"})
				ctx.Abort()
			}),
		))
	}

	api.POST("/resume/upload", func(c context.Context, ctx *app.RequestContext) {
		fileHeader, err := ctx.FormFile("file")
		if err != nil {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
			return
		}
		defer file.Close()

		resp, err := resumeHandler.HandleResumeUpload(c, file, fileHeader.Size, fileHeader.Filename)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, resp)
	})

	api.GET("/resume/:submission_uuid/download", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("submission_uuid")
		if submissionUUID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "submission_uuid不能为空"})
			return
		}
		url, err := resumeHandler.HandleGetDownloadURL(c, submissionUUID)
		if err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"submission_uuid": submissionUUID, "download_url": url})
	})

	api.DELETE("/resume/:submission_uuid", func(c context.Context, ctx *app.RequestContext) {
		submissionUUID := ctx.Param("submission_uuid")
		if submissionUUID == "" {
			ctx.JSON(consts.StatusBadRequest, utils.H{"error": "submission_uuid不能为空"})
			return
		}
		if err := resumeHandler.HandleDeleteSubmission(c, submissionUUID); err != nil {
			ctx.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
			return
		}
		ctx.JSON(consts.StatusOK, utils.H{"submission_uuid": submissionUUID, "status": "DELETED"})
	})

	api.GET("/resume/:submission_uuid/profile", searchHandler.HandleGetCandidate)

	api.POST("/search", searchHandler.HandleSearch)
	api.POST("/candidates/rank", searchHandler.HandleRank)
	api.GET("/candidates", searchHandler.HandleListCandidates)
	api.GET("/candidates/export", searchHandler.HandleExportCSV)
	api.GET("/analytics/skills", searchHandler.HandleSkillsDistribution)
	api.GET("/analytics/stats", searchHandler.HandleStats)
}
