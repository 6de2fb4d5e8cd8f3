package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clockwise/backend/config"
	"clockwise/backend/internal/api/handler"
	"clockwise/backend/internal/api/middleware"
	"clockwise/backend/pkg/jwt"
	"clockwise/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要认证，Token 由身份服务签发）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb))
	v1.Use(middleware.RateLimit(rdb, 120, time.Minute))
	{
		// 换班市场
		shifts := v1.Group("/exchange-shifts")
		{
			shifts.POST("", h.Marketplace.PostShift)
			shifts.GET("", h.Marketplace.ListOpenShifts)
			shifts.GET("/my", h.Marketplace.ListMyShifts)
			shifts.GET("/awaiting-approval", middleware.RoleAuth("manager", "admin"), h.Marketplace.ListAwaitingApproval)
			shifts.DELETE("/:id", h.Marketplace.CancelShift)
			shifts.POST("/:id/requests", h.Marketplace.SubmitRequest)
			shifts.GET("/:id/requests", h.Marketplace.ListShiftRequests) // 仅发布者（Service 层鉴权）
			shifts.POST("/:id/accept", h.Marketplace.AcceptRequest)
			shifts.PUT("/:id/status", middleware.RoleAuth("manager", "admin"), h.Marketplace.UpdateShiftStatus)
			shifts.GET("/:id/calendar", h.Marketplace.DownloadShiftCalendar)
		}

		// 申请视角
		requests := v1.Group("/shift-requests")
		{
			requests.GET("/my", h.Marketplace.ListMyRequests)
			requests.GET("/incoming", h.Marketplace.ListIncomingRequests)
			requests.POST("/:id/approve", middleware.RoleAuth("manager", "admin"), h.Marketplace.ApproveRequest)
			requests.POST("/:id/reject", middleware.RoleAuth("manager", "admin"), h.Marketplace.RejectRequest)
		}

		// 公告模块
		posts := v1.Group("/posts")
		{
			posts.GET("", h.Post.ListPosts)
			posts.GET("/:id", h.Post.GetPost)
			posts.POST("", middleware.RoleAuth("manager", "admin"), h.Post.CreatePost)
		}

		// 站内通知
		notifications := v1.Group("/notifications")
		{
			notifications.GET("", h.Notification.ListMyNotifications)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/exchange-shifts", middleware.RoleAuth("manager", "admin"), h.Export.ExportSettledShifts)
		}
	}

	return r
}
